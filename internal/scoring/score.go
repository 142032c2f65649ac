// Package scoring quantizes raw answer scores into outcomes.
//
// The quantization is lossy on purpose: every nonzero score short of full
// credit becomes Partial. Callers that need the exact value read it from
// the raw scores returned by ScoreRow.
package scoring

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ginjaninja78/quiz-grade-reconciler/internal/types"
)

// Score buckets a raw answer against the question's point total.
// Comparison is exact: 0 is Incorrect, points is Correct, anything else is
// Partial.
func Score(raw, points float64) types.Outcome {
	switch {
	case raw == 0:
		return types.OutcomeIncorrect
	case raw == points:
		return types.OutcomeCorrect
	default:
		return types.OutcomePartial
	}
}

// CellError reports a score row cell that is not a number.
type CellError struct {
	Column int
	Value  string
}

func (e *CellError) Error() string {
	return fmt.Sprintf("score column %d: %q is not numeric", e.Column, e.Value)
}

// ParseCell reads a numeric score cell. Blank cells count as 0.
func ParseCell(row []string, column int) (float64, error) {
	if column < 0 || column >= len(row) {
		return 0, nil
	}
	value := strings.TrimSpace(row[column])
	if value == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, &CellError{Column: column, Value: value}
	}
	return v, nil
}

// ScoreRow scores every question of one score row.
//
// RETURNS:
//   - The outcome per question, in question order.
//   - The raw scores, captured before bucketing.
//   - A *CellError for the first non-numeric question cell.
func ScoreRow(row []string, header *types.AssignmentHeader) ([]types.Outcome, []float64, error) {
	outcomes := make([]types.Outcome, len(header.Questions))
	raw := make([]float64, len(header.Questions))

	for i, q := range header.Questions {
		v, err := ParseCell(row, q.Index)
		if err != nil {
			return nil, nil, err
		}
		raw[i] = v
		outcomes[i] = Score(v, header.Points[i])
	}

	return outcomes, raw, nil
}
