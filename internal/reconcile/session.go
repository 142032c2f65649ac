package reconcile

import (
	"fmt"
	"time"

	"github.com/ginjaninja78/quiz-grade-reconciler/internal/config"
	"github.com/ginjaninja78/quiz-grade-reconciler/internal/csvparser"
	"github.com/ginjaninja78/quiz-grade-reconciler/internal/roster"
	"github.com/ginjaninja78/quiz-grade-reconciler/internal/types"
	"github.com/sirupsen/logrus"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result is the outcome of loading one data file.
type Result struct {
	// FilePath is the data file that was loaded.
	FilePath string

	Header *types.AssignmentHeader
	Report *types.FinalReport

	// Unpaired is set when the body had a trailing row without a partner.
	Unpaired *csvparser.UnpairedRowWarning

	Stats Stats

	// ProcessingTime is the wall time of the load. It is not part of the
	// report.
	ProcessingTime time.Duration
}

// =============================================================================
// SESSION
// =============================================================================

// Session holds the state of one grading session: the roster index and the
// last successfully reconciled report. A failed load leaves both untouched.
type Session struct {
	cfg    config.SessionConfig
	log    logrus.FieldLogger
	engine *Engine

	index   *roster.Index
	current *Result
}

// NewSession creates a session with no roster and no report.
func NewSession(cfg config.SessionConfig, log logrus.FieldLogger) *Session {
	engine := NewEngine(cfg, log)
	return &Session{
		cfg:    cfg,
		log:    engine.log,
		engine: engine,
	}
}

// SetRoster builds a fresh roster index for the session.
func (s *Session) SetRoster(entries []types.RosterEntry) {
	s.index = roster.Build(entries, s.cfg)
	s.log.WithField("entries", s.index.Len()).Debug("roster index built")
}

// Roster returns the current roster index, or nil.
func (s *Session) Roster() *roster.Index {
	return s.index
}

// Current returns the last successful result, or nil.
func (s *Session) Current() *Result {
	return s.current
}

// Load reads, parses, and reconciles one data file.
//
// PROCESSING STEPS:
//   1. Refuse to run without a roster
//   2. Read the file (header block + body rows)
//   3. Parse the header block
//   4. Pair the body rows (odd trailing row -> warning)
//   5. Reconcile against the roster
//   6. Replace the current result
//
// Any error before step 6 returns without touching the current result.
func (s *Session) Load(filePath string) (*Result, error) {
	startTime := time.Now()

	if s.index.Len() == 0 {
		return nil, &MissingRosterError{CourseNumber: s.cfg.CourseNumber}
	}

	data, err := csvparser.Parse(filePath, s.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	result, err := s.reconcile(data)
	if err != nil {
		return nil, err
	}

	result.FilePath = filePath
	result.ProcessingTime = time.Since(startTime)
	s.current = result
	return result, nil
}

// reconcile runs steps 3-5 on an already-read data file.
func (s *Session) reconcile(data *csvparser.DataFile) (*Result, error) {
	header, err := csvparser.ParseHeader(data.HeaderLines, s.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	log := s.log.WithField("assignment", header.AssignmentName)
	log.WithFields(logrus.Fields{
		"questions": header.NumQuestions(),
		"comment":   header.HasComment(),
		"statement": header.HasStatement(),
	}).Debug("parsed assignment header")

	pairs, warning := csvparser.Pair(data.Rows, s.cfg)
	if warning != nil {
		log.Warn(warning.Error())
	}

	report, stats, err := s.engine.Reconcile(pairs, header, s.index)
	if err != nil {
		return nil, fmt.Errorf("failed to reconcile: %w", err)
	}

	log.WithFields(logrus.Fields{
		"pairs":     stats.PairsRead,
		"matched":   len(report.Records),
		"unmatched": stats.Unmatched,
	}).Info("reconciled assignment")

	return &Result{
		Header:   header,
		Report:   report,
		Unpaired: warning,
		Stats:    stats,
	}, nil
}
