package csvparser

import (
	"iter"

	"github.com/ginjaninja78/quiz-grade-reconciler/internal/config"
	"github.com/ginjaninja78/quiz-grade-reconciler/internal/roster"
	"github.com/ginjaninja78/quiz-grade-reconciler/internal/types"
)

// Identity row columns.
const (
	NameColumn  = 0
	EmailColumn = 1
)

// =============================================================================
// RECORD PAIRER
// =============================================================================

// Pair walks the body rows two at a time: the row at an even offset is the
// identity row and the row after it is the score row.
//
// PARAMETERS:
//   - rows: The body rows in file order.
//   - cfg: Supplies the email domain marker.
//
// RETURNS:
//   - A lazy sequence of pairs. Ranging over it again restarts from the
//     first pair.
//   - A non-nil *UnpairedRowWarning when the row count is odd. The trailing
//     row is left out of the sequence; the warning is not fatal.
func Pair(rows [][]string, cfg config.SessionConfig) (iter.Seq[types.RawRecordPair], *UnpairedRowWarning) {
	n := len(rows) / 2

	var warning *UnpairedRowWarning
	if len(rows)%2 == 1 {
		warning = &UnpairedRowWarning{RowNumber: len(rows)}
	}

	seq := func(yield func(types.RawRecordPair) bool) {
		for i := 0; i < n; i++ {
			identity := rows[2*i]
			pair := types.RawRecordPair{
				IdentityRow: identity,
				ScoreRow:    rows[2*i+1],
				Name:        roster.NormalizeName(cell(identity, NameColumn)),
				Email:       roster.NormalizeEmail(cell(identity, EmailColumn), cfg.EmailDomainMarker),
				RowNumber:   2*i + 1,
			}
			if !yield(pair) {
				return
			}
		}
	}

	return seq, warning
}

func cell(row []string, index int) string {
	if index < len(row) {
		return row[index]
	}
	return ""
}
