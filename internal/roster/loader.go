// =============================================================================
// Quiz Grade Reconciler - Roster Workbook Loader
// =============================================================================
//
// This module reads the registrar's roster export (.xlsx). The workbook has
// a title row followed by a header row (row 2 by default) and one row per
// enrolled student across every course the instructor teaches.
//
// EXPECTED COLUMNS (located by title, in any order):
//   | Course Number | Section | Email | Cadet Name |
//
// Only rows whose trimmed Course Number equals the configured course are
// kept. Names are normalized to "Last, First".
//
// =============================================================================

package roster

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/quiz-grade-reconciler/internal/config"
	"github.com/ginjaninja78/quiz-grade-reconciler/internal/types"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// COLUMN TITLES
// =============================================================================

const (
	ColumnCourseNumber = "Course Number"
	ColumnSection      = "Section"
	ColumnEmail        = "Email"
	ColumnName         = "Cadet Name"
)

// rosterColumns holds the 0-based positions of the required columns.
type rosterColumns struct {
	course  int
	section int
	email   int
	name    int
}

// =============================================================================
// LOADER FUNCTIONS
// =============================================================================

// LoadWorkbook reads the roster entries for cfg.CourseNumber.
//
// PARAMETERS:
//   - path: The path to the roster workbook.
//   - cfg: Supplies the course number, sheet name, and header row.
//
// RETURNS:
//   - The roster entries in workbook order.
//   - An error if the workbook cannot be opened, the header row is missing
//     a required column, or no course number is configured.
func LoadWorkbook(path string, cfg config.SessionConfig) ([]types.RosterEntry, error) {
	if strings.TrimSpace(cfg.CourseNumber) == "" {
		return nil, fmt.Errorf("course number must be set before loading a roster")
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open roster file: %w", err)
	}
	defer f.Close()

	sheetName := cfg.RosterSheet
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}
	if sheetName == "" {
		return nil, fmt.Errorf("roster file has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return parseRows(rows, cfg)
}

// parseRows locates the header row, then filters and projects the data.
func parseRows(rows [][]string, cfg config.SessionConfig) ([]types.RosterEntry, error) {
	headerIdx := cfg.RosterHeaderRow - 1
	if headerIdx < 0 || headerIdx >= len(rows) {
		return nil, fmt.Errorf("roster has no header row %d", cfg.RosterHeaderRow)
	}

	cols, err := locateColumns(rows[headerIdx])
	if err != nil {
		return nil, err
	}

	course := strings.TrimSpace(cfg.CourseNumber)
	var entries []types.RosterEntry

	for _, row := range rows[headerIdx+1:] {
		if len(row) == 0 || isRowEmpty(row) {
			continue
		}

		getCell := func(index int) string {
			if index < len(row) {
				return strings.TrimSpace(row[index])
			}
			return ""
		}

		if getCell(cols.course) != course {
			continue
		}

		entries = append(entries, types.RosterEntry{
			Name:    NormalizeName(getCell(cols.name)),
			Email:   NormalizeEmail(getCell(cols.email), cfg.EmailDomainMarker),
			Section: getCell(cols.section),
		})
	}

	return entries, nil
}

// locateColumns finds the required columns in the header row by title.
func locateColumns(header []string) (rosterColumns, error) {
	positions := make(map[string]int, len(header))
	for i, title := range header {
		title = strings.TrimSpace(title)
		if _, exists := positions[title]; !exists {
			positions[title] = i
		}
	}

	var missing []string
	get := func(title string) int {
		pos, ok := positions[title]
		if !ok {
			missing = append(missing, title)
			return -1
		}
		return pos
	}

	cols := rosterColumns{
		course:  get(ColumnCourseNumber),
		section: get(ColumnSection),
		email:   get(ColumnEmail),
		name:    get(ColumnName),
	}
	if len(missing) > 0 {
		return rosterColumns{}, fmt.Errorf("roster header is missing column(s): %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
