// =============================================================================
// Quiz Grade Reconciler - Reconciliation Engine
// =============================================================================
//
// This module turns row-pairs into the FinalReport. For every pair it:
//   1. Scores the question cells of the score row
//   2. Reads the total (or recomputes it)
//   3. Copies comment/statement text from the identity row
//   4. Resolves the section through the roster index (email, then name)
//   5. Keeps the record, or routes it to the unmatched list
//
// OUTPUT CONTRACT:
//   Name, Email, Section, Total, Q1..Qn, [Comment], [Statement]
//   Rows keep input order. Nothing depends on map iteration or wall-clock
//   time, so identical inputs give identical reports.
//
// =============================================================================

package reconcile

import (
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/ginjaninja78/quiz-grade-reconciler/internal/config"
	"github.com/ginjaninja78/quiz-grade-reconciler/internal/roster"
	"github.com/ginjaninja78/quiz-grade-reconciler/internal/scoring"
	"github.com/ginjaninja78/quiz-grade-reconciler/internal/types"
	"github.com/sirupsen/logrus"
)

// =============================================================================
// ERRORS
// =============================================================================

// MissingRosterError is returned when data is reconciled before a roster
// has been loaded for the course.
type MissingRosterError struct {
	CourseNumber string
}

func (e *MissingRosterError) Error() string {
	if e.CourseNumber == "" {
		return "no roster loaded: import a roster before loading quiz data"
	}
	return fmt.Sprintf("no roster loaded for course %s: import a roster before loading quiz data", e.CourseNumber)
}

// ScoreCellError wraps a non-numeric score cell with its body row number.
type ScoreCellError struct {
	RowNumber int
	Err       error
}

func (e *ScoreCellError) Error() string {
	return fmt.Sprintf("body row %d: %v", e.RowNumber, e.Err)
}

func (e *ScoreCellError) Unwrap() error {
	return e.Err
}

// =============================================================================
// STATISTICS
// =============================================================================

// Stats counts what happened to the pairs of one reconciliation.
type Stats struct {
	PairsRead    int
	MatchedEmail int
	MatchedName  int
	Unmatched    int
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine reconciles row-pairs against a roster.
type Engine struct {
	cfg config.SessionConfig
	log logrus.FieldLogger
}

// NewEngine creates an Engine. A nil logger discards output.
func NewEngine(cfg config.SessionConfig, log logrus.FieldLogger) *Engine {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	return &Engine{cfg: cfg, log: log}
}

// Reconcile builds the FinalReport for one assignment.
//
// PARAMETERS:
//   - pairs: The row-pairs from the RecordPairer.
//   - header: The parsed assignment header.
//   - index: The roster index for the course.
//
// RETURNS:
//   - The FinalReport with matched records and the unmatched side list.
//   - Stats for logging.
//   - *MissingRosterError when index is nil or empty, or *ScoreCellError
//     when a score cell is not numeric.
func (e *Engine) Reconcile(pairs iter.Seq[types.RawRecordPair], header *types.AssignmentHeader, index *roster.Index) (*types.FinalReport, Stats, error) {
	var stats Stats

	if index.Len() == 0 {
		return nil, stats, &MissingRosterError{CourseNumber: e.cfg.CourseNumber}
	}
	if header == nil {
		return nil, stats, errors.New("reconcile: nil assignment header")
	}

	report := &types.FinalReport{
		AssignmentName: header.AssignmentName,
		NumQuestions:   header.NumQuestions(),
		HasComment:     header.HasComment(),
		HasStatement:   header.HasStatement(),
		StatementLabel: e.cfg.StatementLabel,
		Records:        []types.ScoredRecord{},
		Unmatched:      []types.UnmatchedEntry{},
	}

	for pair := range pairs {
		stats.PairsRead++

		section, kind := index.Resolve(pair.Email, pair.Name)
		if kind == roster.MatchNone {
			stats.Unmatched++
			report.Unmatched = append(report.Unmatched, types.UnmatchedEntry{
				Name:      pair.Name,
				Email:     pair.Email,
				RowNumber: pair.RowNumber,
			})
			e.log.WithFields(logrus.Fields{
				"row":   pair.RowNumber,
				"email": pair.Email,
				"name":  pair.Name,
			}).Debug("no roster match, moved to unmatched list")
			continue
		}

		record, err := e.scoreRecord(pair, header)
		if err != nil {
			return nil, stats, err
		}
		record.Section = section
		report.Records = append(report.Records, record)

		if kind == roster.MatchName {
			stats.MatchedName++
			e.log.WithFields(logrus.Fields{
				"row":  pair.RowNumber,
				"name": pair.Name,
			}).Info("matched by name after email lookup failed")
		} else {
			stats.MatchedEmail++
		}
	}

	return report, stats, nil
}

// scoreRecord builds the ScoredRecord of one pair, without the section.
func (e *Engine) scoreRecord(pair types.RawRecordPair, header *types.AssignmentHeader) (types.ScoredRecord, error) {
	outcomes, raw, err := scoring.ScoreRow(pair.ScoreRow, header)
	if err != nil {
		return types.ScoredRecord{}, &ScoreCellError{RowNumber: pair.RowNumber + 1, Err: err}
	}

	total, err := e.total(pair.ScoreRow, raw)
	if err != nil {
		return types.ScoredRecord{}, &ScoreCellError{RowNumber: pair.RowNumber + 1, Err: err}
	}

	record := types.ScoredRecord{
		Name:      pair.Name,
		Email:     pair.Email,
		Total:     total,
		Outcomes:  outcomes,
		RawScores: raw,
	}

	// Free text lives on the identity row, never on the score row.
	if header.CommentColumn != nil {
		text := pair.Cell(*header.CommentColumn)
		record.Comment = &text
	}
	if header.StatementColumn != nil {
		text := pair.Cell(*header.StatementColumn)
		record.Statement = &text
	}

	return record, nil
}

// total reads the total column, or sums the raw scores when the export has
// no standalone total.
func (e *Engine) total(row []string, raw []float64) (float64, error) {
	if e.cfg.RecomputeTotal {
		var sum float64
		for _, v := range raw {
			sum += v
		}
		return sum, nil
	}
	return scoring.ParseCell(row, e.cfg.TotalColumn)
}
