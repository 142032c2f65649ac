package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ginjaninja78/quiz-grade-reconciler/internal/types"
)

// WriteCSV writes the report as a CSV table in column-contract order:
// Name, Email, Section, Total, Q1..Qn, [Comment], [Statement].
func WriteCSV(w io.Writer, r *types.FinalReport) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(r.Columns()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, rec := range r.Records {
		if err := cw.Write(r.Row(rec)); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", rec.Email, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteUnmatchedCSV writes the unmatched side list (Row, Name, Email).
func WriteUnmatchedCSV(w io.Writer, r *types.FinalReport) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Row", "Name", "Email"}); err != nil {
		return err
	}
	for _, u := range r.Unmatched {
		if err := cw.Write([]string{strconv.Itoa(u.RowNumber), u.Name, u.Email}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
