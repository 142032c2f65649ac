// =============================================================================
// Quiz Grade Reconciler - Shared Types
// =============================================================================
//
// This package contains the data model shared by the parser, the scoring
// engine, the reconciliation engine, and the report renderers. Keeping it in
// one leaf package avoids import cycles. Types defined here are used by:
//   - csvparser
//   - roster
//   - scoring
//   - reconcile
//   - report
//   - store
//
// =============================================================================

package types

import (
	"fmt"
	"strconv"
)

// =============================================================================
// ROSTER TYPES
// =============================================================================

// RosterEntry is one student in the class roster for a course offering.
// Email is the primary identity key; Name is the weaker fallback key.
type RosterEntry struct {
	// Name is the display name as "Last, First", already normalized.
	Name string

	// Email is the institutional email with the domain marker stripped.
	Email string

	// Section is the class section the student belongs to (e.g. "A1").
	Section string
}

// =============================================================================
// HEADER TYPES
// =============================================================================

// QuestionColumn ties a question to the raw column that carries it.
// The same Index is used in the header code line and in every body row.
type QuestionColumn struct {
	// Index is the 0-based column position in the CSV.
	Index int

	// Code is the numeric question code from the header code line.
	Code string
}

// AssignmentHeader is the metadata derived once from the header block of a
// data file.
//
// INVARIANT: len(Points) == len(Questions).
type AssignmentHeader struct {
	// AssignmentName is the display name of the quiz or homework.
	AssignmentName string

	// Points holds the point total for each question, in question order.
	Points []float64

	// Questions lists the question columns in left-to-right order. Each
	// carries the raw column index its score is read from in body rows.
	Questions []QuestionColumn

	// CommentColumn is the column holding free-text comments, if any.
	CommentColumn *int

	// StatementColumn is the column holding the statement text, if any.
	StatementColumn *int
}

// NumQuestions returns the number of scored question columns.
func (h *AssignmentHeader) NumQuestions() int {
	return len(h.Questions)
}

// HasComment reports whether the header declared a comment column.
func (h *AssignmentHeader) HasComment() bool {
	return h.CommentColumn != nil
}

// HasStatement reports whether the header declared a statement column.
func (h *AssignmentHeader) HasStatement() bool {
	return h.StatementColumn != nil
}

// =============================================================================
// ROW TYPES
// =============================================================================

// RawRecordPair is two consecutive body rows making up one submission.
type RawRecordPair struct {
	// IdentityRow carries name, email, and free text (comment/statement).
	IdentityRow []string

	// ScoreRow carries the total and the per-question raw scores.
	ScoreRow []string

	// Name is the normalized name from the identity row.
	Name string

	// Email is the identity row email with the domain marker stripped.
	Email string

	// RowNumber is the 1-based body row number of the identity row.
	RowNumber int
}

// Cell returns the identity row field at index, or "" when the row is short.
func (p RawRecordPair) Cell(index int) string {
	if index < 0 || index >= len(p.IdentityRow) {
		return ""
	}
	return p.IdentityRow[index]
}

// =============================================================================
// OUTCOME
// =============================================================================

// Outcome is the tri-state bucket a raw answer is quantized into.
type Outcome int

const (
	// OutcomeIncorrect means zero credit or not attempted. Rendered as "-".
	OutcomeIncorrect Outcome = iota

	// OutcomePartial means any nonzero score other than full credit.
	OutcomePartial

	// OutcomeCorrect means the raw score equals the question's points.
	OutcomeCorrect
)

// Value returns the numeric value of the outcome. Incorrect has none.
func (o Outcome) Value() (float64, bool) {
	switch o {
	case OutcomeCorrect:
		return 1.0, true
	case OutcomePartial:
		return 0.5, true
	default:
		return 0, false
	}
}

// String renders the outcome the way it appears in reports.
func (o Outcome) String() string {
	switch o {
	case OutcomeCorrect:
		return "1"
	case OutcomePartial:
		return "0.5"
	default:
		return "-"
	}
}

// =============================================================================
// RESULT TYPES
// =============================================================================

// ScoredRecord is one student's reconciled result.
type ScoredRecord struct {
	Name    string
	Email   string
	Section string
	Total   float64

	// Outcomes is the bucketed result per question, in question order.
	Outcomes []Outcome

	// RawScores holds the exact scores captured before bucketing.
	RawScores []float64

	// Comment and Statement are nil when the header has no such column.
	Comment   *string
	Statement *string
}

// UnmatchedEntry is a submission whose identity is not on the roster,
// typically an instructor preview.
type UnmatchedEntry struct {
	Name      string
	Email     string
	RowNumber int
}

// FinalReport is the reconciled table handed to the renderers.
type FinalReport struct {
	// AssignmentName is copied from the header.
	AssignmentName string

	// NumQuestions is the number of Q columns.
	NumQuestions int

	// HasComment and HasStatement control the trailing columns.
	HasComment   bool
	HasStatement bool

	// StatementLabel is the column title for the statement column.
	StatementLabel string

	// Records are the matched rows in input order.
	Records []ScoredRecord

	// Unmatched are the dropped rows in input order.
	Unmatched []UnmatchedEntry
}

// Columns returns the column titles of the report:
// Name, Email, Section, Total, Q1..Qn, [Comment], [Statement].
func (r *FinalReport) Columns() []string {
	cols := []string{"Name", "Email", "Section", "Total"}
	for i := 0; i < r.NumQuestions; i++ {
		cols = append(cols, fmt.Sprintf("Q%d", i+1))
	}
	if r.HasComment {
		cols = append(cols, "Comment")
	}
	if r.HasStatement {
		label := r.StatementLabel
		if label == "" {
			label = "Statement"
		}
		cols = append(cols, label)
	}
	return cols
}

// Row renders a record as strings in Columns() order.
func (r *FinalReport) Row(rec ScoredRecord) []string {
	row := []string{rec.Name, rec.Email, rec.Section, FormatScore(rec.Total)}
	for i := 0; i < r.NumQuestions; i++ {
		if i < len(rec.Outcomes) {
			row = append(row, rec.Outcomes[i].String())
		} else {
			row = append(row, OutcomeIncorrect.String())
		}
	}
	if r.HasComment {
		row = append(row, deref(rec.Comment))
	}
	if r.HasStatement {
		row = append(row, deref(rec.Statement))
	}
	return row
}

// Sections returns the distinct sections in first-seen order.
func (r *FinalReport) Sections() []string {
	seen := make(map[string]bool)
	var sections []string
	for _, rec := range r.Records {
		if !seen[rec.Section] {
			seen[rec.Section] = true
			sections = append(sections, rec.Section)
		}
	}
	return sections
}

// RecordsInSection returns the records of one section, in input order.
func (r *FinalReport) RecordsInSection(section string) []ScoredRecord {
	var out []ScoredRecord
	for _, rec := range r.Records {
		if rec.Section == section {
			out = append(out, rec)
		}
	}
	return out
}

// FormatScore renders a float the shortest way that round-trips.
func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
