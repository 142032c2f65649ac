package csvparser

import "fmt"

// MalformedHeaderError is fatal to the current load: the header block is
// too short, a configured line index is out of range, or an expected
// numeric field is not numeric.
type MalformedHeaderError struct {
	// Line is the 0-based header line index.
	Line int

	// Field is the 0-based field index, or -1 when the whole line is at fault.
	Field int

	Reason string
}

func (e *MalformedHeaderError) Error() string {
	if e.Field < 0 {
		return fmt.Sprintf("malformed header: line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("malformed header: line %d, field %d: %s", e.Line, e.Field, e.Reason)
}

// UnpairedRowWarning is recoverable: the body had an odd number of rows and
// the last one was dropped.
type UnpairedRowWarning struct {
	// RowNumber is the 1-based body row number of the dropped row.
	RowNumber int
}

func (w *UnpairedRowWarning) Error() string {
	return fmt.Sprintf("body row %d has no score row and was dropped", w.RowNumber)
}
