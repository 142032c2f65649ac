package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ginjaninja78/quiz-grade-reconciler/internal/types"
	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// DB persists rosters and grading run history.
type DB struct {
	sql *sql.DB
}

// Run is one recorded grading run.
type Run struct {
	ID             string
	CourseNumber   string
	AssignmentName string
	SourceFile     string
	Matched        int
	Unmatched      int
	CreatedAt      time.Time
}

// Open opens the database at path and creates missing tables.
func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS roster_entries (
  id            INTEGER PRIMARY KEY,
  course_number TEXT NOT NULL,
  position      INTEGER NOT NULL,
  name          TEXT NOT NULL,
  email         TEXT NOT NULL,
  section       TEXT NOT NULL,
  loaded_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(course_number, position)
);
CREATE INDEX IF NOT EXISTS idx_roster_course ON roster_entries(course_number);
CREATE TABLE IF NOT EXISTS grading_runs (
  id              TEXT PRIMARY KEY,
  course_number   TEXT NOT NULL,
  assignment_name TEXT NOT NULL,
  source_file     TEXT,
  matched         INTEGER NOT NULL,
  unmatched       INTEGER NOT NULL,
  created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS unmatched_entries (
  id         INTEGER PRIMARY KEY,
  run_id     TEXT NOT NULL REFERENCES grading_runs(id) ON DELETE CASCADE,
  body_row   INTEGER NOT NULL,
  name       TEXT,
  email      TEXT
);
CREATE INDEX IF NOT EXISTS idx_unmatched_run ON unmatched_entries(run_id);
    `); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// ReplaceRoster swaps the stored roster of a course for entries, in one
// transaction. Entry order is kept.
func (d *DB) ReplaceRoster(ctx context.Context, courseNumber string, entries []types.RosterEntry) (err error) {
	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM roster_entries WHERE course_number = ?", courseNumber); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO roster_entries(course_number, position, name, email, section) VALUES(?,?,?,?,?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err = stmt.ExecContext(ctx, courseNumber, i, e.Name, e.Email, e.Section); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadRoster returns the stored roster of a course in import order. An
// unknown course yields an empty slice.
func (d *DB) LoadRoster(ctx context.Context, courseNumber string) ([]types.RosterEntry, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT name, email, section FROM roster_entries WHERE course_number = ? ORDER BY position", courseNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []types.RosterEntry
	for rows.Next() {
		var e types.RosterEntry
		if err := rows.Scan(&e.Name, &e.Email, &e.Section); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// RecordRun stores a grading run and its unmatched entries. It returns the
// generated run id.
func (d *DB) RecordRun(ctx context.Context, courseNumber, sourceFile string, report *types.FinalReport) (id string, err error) {
	if report == nil {
		return "", errors.New("nil report")
	}
	id = uuid.New().String()

	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `INSERT INTO grading_runs(id, course_number, assignment_name, source_file, matched, unmatched, created_at) VALUES(?,?,?,?,?,?,?)`,
		id, courseNumber, report.AssignmentName, nullIfEmpty(sourceFile), len(report.Records), len(report.Unmatched), time.Now().UTC())
	if err != nil {
		return "", err
	}

	for _, u := range report.Unmatched {
		if _, err = tx.ExecContext(ctx, "INSERT INTO unmatched_entries(run_id, body_row, name, email) VALUES(?,?,?,?)", id, u.RowNumber, nullIfEmpty(u.Name), nullIfEmpty(u.Email)); err != nil {
			return "", err
		}
	}

	if err = tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// ListRuns returns the most recent runs of a course, newest first.
func (d *DB) ListRuns(ctx context.Context, courseNumber string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.sql.QueryContext(ctx, `SELECT id, course_number, assignment_name, source_file, matched, unmatched, created_at FROM grading_runs WHERE course_number = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`, courseNumber, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r   Run
			src sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.CourseNumber, &r.AssignmentName, &src, &r.Matched, &r.Unmatched, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.SourceFile = src.String
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// UnmatchedForRun returns the unmatched entries recorded with a run.
func (d *DB) UnmatchedForRun(ctx context.Context, runID string) ([]types.UnmatchedEntry, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT body_row, name, email FROM unmatched_entries WHERE run_id = ? ORDER BY id", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.UnmatchedEntry
	for rows.Next() {
		var (
			u           types.UnmatchedEntry
			name, email sql.NullString
		)
		if err := rows.Scan(&u.RowNumber, &name, &email); err != nil {
			return nil, err
		}
		u.Name, u.Email = name.String, email.String
		out = append(out, u)
	}
	return out, rows.Err()
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
