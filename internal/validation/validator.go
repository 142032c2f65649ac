// =============================================================================
// Quiz Grade Reconciler - Validation Engine
// =============================================================================
//
// This module checks settings and roster data before a grading run.
//
// VALIDATION STRATEGY:
//   1. Session-level: course settings that every run depends on
//   2. Roster-level: entries that cannot be matched or collide
//
// ERROR HANDLING:
//   - Problems are collected, not returned on the first hit
//   - "error" severity blocks the run, "warning" is only reported
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ginjaninja78/quiz-grade-reconciler/internal/config"
	"github.com/ginjaninja78/quiz-grade-reconciler/internal/types"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// ValidationError represents a single validation problem.
type ValidationError struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string

	// Field is the setting name or roster column that failed.
	Field string

	// Value is the offending value.
	Value string

	// Message is a human-readable description.
	Message string

	// Entry is the 1-based roster position, 0 for settings.
	Entry int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Entry > 0 {
		return fmt.Sprintf("[%s] roster entry %d, %s: %s (value: '%s')",
			strings.ToUpper(e.Severity), e.Entry, e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("[%s] %s: %s (value: '%s')",
		strings.ToUpper(e.Severity), e.Field, e.Message, e.Value)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of validation.
type ValidationResult struct {
	// IsValid is true if there are no errors of SeverityError.
	IsValid bool

	// Errors contains all problems, warnings included, in discovery order.
	Errors []*ValidationError

	ErrorCount   int
	WarningCount int
}

func newResult() *ValidationResult {
	return &ValidationResult{IsValid: true}
}

func (r *ValidationResult) add(e *ValidationError) {
	r.Errors = append(r.Errors, e)
	if e.Severity == SeverityError {
		r.ErrorCount++
		r.IsValid = false
		return
	}
	r.WarningCount++
}

// =============================================================================
// SESSION VALIDATION
// =============================================================================

// ValidateSession checks the course settings a grading run needs.
//
// CHECKS:
//   - course_number is set
//   - comment_code and statement_code, when set, are decimal codes
//   - comment_code and statement_code differ
func ValidateSession(cfg config.SessionConfig) *ValidationResult {
	result := newResult()

	if strings.TrimSpace(cfg.CourseNumber) == "" {
		result.add(&ValidationError{
			Severity: SeverityError,
			Field:    "course_number",
			Message:  "course number is not set",
		})
	}

	codes := []struct {
		field string
		value string
	}{
		{"comment_code", cfg.CommentCode},
		{"statement_code", cfg.StatementCode},
	}
	for _, c := range codes {
		if c.value == "" {
			result.add(&ValidationError{
				Severity: SeverityWarning,
				Field:    c.field,
				Message:  "not set, the column will be graded as a question if present",
			})
			continue
		}
		if !isDecimal(c.value) {
			result.add(&ValidationError{
				Severity: SeverityError,
				Field:    c.field,
				Value:    c.value,
				Message:  "question codes are decimal numbers",
			})
		}
	}

	if cfg.CommentCode != "" && cfg.CommentCode == cfg.StatementCode {
		result.add(&ValidationError{
			Severity: SeverityError,
			Field:    "statement_code",
			Value:    cfg.StatementCode,
			Message:  "statement code equals comment code",
		})
	}

	return result
}

// =============================================================================
// ROSTER VALIDATION
// =============================================================================

// ValidateRoster checks normalized roster entries. Nothing here is fatal:
// the index keeps the first of any duplicate key.
func ValidateRoster(entries []types.RosterEntry) *ValidationResult {
	result := newResult()

	if len(entries) == 0 {
		result.add(&ValidationError{
			Severity: SeverityError,
			Field:    "roster",
			Message:  "roster is empty",
		})
		return result
	}

	seenEmail := make(map[string]int)
	seenName := make(map[string]int)
	for i, e := range entries {
		pos := i + 1

		if e.Email == "" {
			result.add(&ValidationError{
				Severity: SeverityWarning,
				Field:    "Email",
				Value:    e.Name,
				Message:  "no email, entry can only match by name",
				Entry:    pos,
			})
		} else if first, dup := seenEmail[e.Email]; dup {
			result.add(&ValidationError{
				Severity: SeverityWarning,
				Field:    "Email",
				Value:    e.Email,
				Message:  fmt.Sprintf("duplicate of entry %d, ignored for email matching", first),
				Entry:    pos,
			})
		} else {
			seenEmail[e.Email] = pos
		}

		if e.Name != "" {
			if first, dup := seenName[e.Name]; dup {
				result.add(&ValidationError{
					Severity: SeverityWarning,
					Field:    "Cadet Name",
					Value:    e.Name,
					Message:  fmt.Sprintf("duplicate of entry %d, ignored for name matching", first),
					Entry:    pos,
				})
			} else {
				seenName[e.Name] = pos
			}
		}

		if strings.TrimSpace(e.Section) == "" {
			result.add(&ValidationError{
				Severity: SeverityWarning,
				Field:    "Section",
				Value:    e.Name,
				Message:  "no section, records will be reported as Unassigned",
				Entry:    pos,
			})
		}
	}

	return result
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
