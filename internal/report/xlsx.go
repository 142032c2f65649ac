// =============================================================================
// Quiz Grade Reconciler - Workbook Renderer
// =============================================================================
//
// This module renders a FinalReport into an .xlsx workbook with one sheet
// per section. An existing workbook is reused so that every assignment
// export accumulates in the same file; a section sheet that already exists
// is rebuilt from scratch.
//
// SHEET LAYOUT:
//   Row 2      : assignment title, merged across the table
//   Row 4      : column titles (Name, Total, Q1..Qn, [Comment], [Statement])
//   Row 5..    : one row per student
//   Below      : "Copy and Paste Comments" list under the comment column
//
//   Question cells carry no number; the fill encodes the outcome
//   (green = correct, red = partial, white with "-" = not attempted).
//
// =============================================================================

package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/quiz-grade-reconciler/internal/types"
	"github.com/xuri/excelize/v2"
)

// =============================================================================
// LAYOUT CONSTANTS
// =============================================================================

const (
	titleRow     = 2
	headerRow    = 4
	firstDataRow = 5
	nameCol      = 2 // Column B
	totalCol     = 3 // Column C
	firstQCol    = 4 // Column D

	// CommentTitle is the column title of the comment column.
	CommentTitle = "What did you find interesting/useful/confusing?"

	// CommentListTitle heads the copy-and-paste comment list.
	CommentListTitle = "Copy and Paste Comments:"

	commentMaxLength   = 95
	statementMaxLength = 40
)

// Column widths, in Excel character units (pixels / 7).
const (
	widthMargin    = 22.0 / 7
	widthName      = 200.0 / 7
	widthTotal     = 48.0 / 7
	widthQuestion  = 30.0 / 7
	widthComment   = 665.0 / 7
	widthStatement = 294.0 / 7
)

// Outcome fills.
const (
	colorCorrect = "00B050"
	colorPartial = "C00000"
	colorBlank   = "FFFFFF"
	colorHeader  = "D9D9D9"
)

// =============================================================================
// WRITER
// =============================================================================

// WriteWorkbook renders the report into path, creating the file and its
// directory if needed.
//
// PARAMETERS:
//   - path: The .xlsx file to create or update.
//   - r: The reconciled report.
//
// RETURNS:
//   - An error if the workbook cannot be opened, built, or saved.
func WriteWorkbook(path string, r *types.FinalReport) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, fresh, err := openOrCreate(path)
	if err != nil {
		return err
	}
	defer f.Close()

	styles, err := newStyleSet(f)
	if err != nil {
		return fmt.Errorf("failed to create styles: %w", err)
	}

	sections := r.Sections()
	sheets := sheetNames(sections)
	for i, section := range sections {
		sheet := sheets[i]
		if err := prepareSheet(f, sheet, fresh && i == 0); err != nil {
			return fmt.Errorf("failed to prepare sheet %s: %w", sheet, err)
		}
		if err := renderSection(f, sheet, r, r.RecordsInSection(section), styles); err != nil {
			return fmt.Errorf("failed to render section %s: %w", section, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// openOrCreate opens path when it exists, otherwise returns a new workbook.
// fresh is true for a new workbook whose default sheet is still unused.
func openOrCreate(path string) (*excelize.File, bool, error) {
	if _, err := os.Stat(path); err == nil {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, false, fmt.Errorf("failed to open existing workbook: %w", err)
		}
		return f, false, nil
	}
	return excelize.NewFile(), true, nil
}

// prepareSheet makes an empty sheet named name. The default sheet of a new
// workbook is renamed; an existing sheet is replaced.
func prepareSheet(f *excelize.File, name string, renameDefault bool) error {
	if renameDefault {
		return f.SetSheetName(f.GetSheetName(0), name)
	}

	idx, err := f.GetSheetIndex(name)
	if err != nil {
		return err
	}
	if idx == -1 {
		_, err := f.NewSheet(name)
		return err
	}

	// Rebuild: add a scratch sheet, drop the old one, take over its name.
	const scratch = "__rebuild__"
	if _, err := f.NewSheet(scratch); err != nil {
		return err
	}
	if err := f.DeleteSheet(name); err != nil {
		return err
	}
	return f.SetSheetName(scratch, name)
}

// renderSection writes one section's table into sheet.
func renderSection(f *excelize.File, sheet string, r *types.FinalReport, records []types.ScoredRecord, s *styleSet) error {
	lastCol := firstQCol + r.NumQuestions - 1
	commentCol, statementCol := 0, 0
	if r.HasComment {
		lastCol++
		commentCol = lastCol
	}
	if r.HasStatement {
		lastCol++
		statementCol = lastCol
	}
	if lastCol < totalCol {
		lastCol = totalCol
	}

	if err := setWidths(f, sheet, r, commentCol, statementCol); err != nil {
		return err
	}

	// Title
	titleCell := cellName(nameCol, titleRow)
	if err := f.SetCellValue(sheet, titleCell, r.AssignmentName); err != nil {
		return err
	}
	if err := f.MergeCell(sheet, titleCell, cellName(lastCol, titleRow)); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, titleCell, cellName(lastCol, titleRow), s.header); err != nil {
		return err
	}

	// Column titles
	titles := []string{"Name", "Total"}
	for i := 0; i < r.NumQuestions; i++ {
		titles = append(titles, fmt.Sprintf("Q%d", i+1))
	}
	if r.HasComment {
		titles = append(titles, CommentTitle)
	}
	if r.HasStatement {
		titles = append(titles, statementTitle(r.StatementLabel))
	}
	for i, title := range titles {
		cell := cellName(nameCol+i, headerRow)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, s.header); err != nil {
			return err
		}
	}

	// Student rows
	for i, rec := range records {
		row := firstDataRow + i
		if err := writeRecord(f, sheet, row, r, rec, commentCol, statementCol, s); err != nil {
			return err
		}
	}

	if r.HasComment {
		return writeCommentList(f, sheet, commentCol, firstDataRow+len(records)+3, records, s)
	}
	return nil
}

// cellWrite is one value and style destined for a cell of a row.
type cellWrite struct {
	col   int
	value interface{}
	style int
}

// writeRecord writes one student row.
func writeRecord(f *excelize.File, sheet string, row int, r *types.FinalReport, rec types.ScoredRecord, commentCol, statementCol int, s *styleSet) error {
	cells := []cellWrite{
		{nameCol, rec.Name, s.text},
		{totalCol, rec.Total, s.centered},
	}

	for i := 0; i < r.NumQuestions; i++ {
		outcome := types.OutcomeIncorrect
		if i < len(rec.Outcomes) {
			outcome = rec.Outcomes[i]
		}
		var value interface{} = ""
		style := s.blank
		switch outcome {
		case types.OutcomeCorrect:
			style = s.correct
		case types.OutcomePartial:
			style = s.partial
		default:
			value = outcome.String()
		}
		cells = append(cells, cellWrite{firstQCol + i, value, style})
	}

	if commentCol > 0 {
		cells = append(cells, cellWrite{commentCol, truncate(deref(rec.Comment), commentMaxLength), s.text})
	}
	if statementCol > 0 {
		cells = append(cells, cellWrite{statementCol, truncate(deref(rec.Statement), statementMaxLength), s.text})
	}

	for _, c := range cells {
		cell := cellName(c.col, row)
		if err := f.SetCellValue(sheet, cell, c.value); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, c.style); err != nil {
			return err
		}
	}
	return nil
}

// writeCommentList writes the filtered comments as a plain list.
func writeCommentList(f *excelize.File, sheet string, col, row int, records []types.ScoredRecord, s *styleSet) error {
	comments := make([]string, 0, len(records))
	for _, rec := range records {
		comments = append(comments, deref(rec.Comment))
	}

	cell := cellName(col, row)
	if err := f.SetCellValue(sheet, cell, CommentListTitle); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, cell, cell, s.listTitle); err != nil {
		return err
	}

	for i, comment := range FilterComments(comments) {
		cell := cellName(col, row+i+1)
		if err := f.SetCellValue(sheet, cell, comment); err != nil {
			return err
		}
	}
	return nil
}

// setWidths sizes the columns of the table.
func setWidths(f *excelize.File, sheet string, r *types.FinalReport, commentCol, statementCol int) error {
	widths := map[int]float64{
		1:        widthMargin,
		nameCol:  widthName,
		totalCol: widthTotal,
	}
	for i := 0; i < r.NumQuestions; i++ {
		widths[firstQCol+i] = widthQuestion
	}
	if commentCol > 0 {
		widths[commentCol] = widthComment
	}
	if statementCol > 0 {
		widths[statementCol] = widthStatement
	}

	for col, width := range widths {
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, width); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// STYLES
// =============================================================================

type styleSet struct {
	header    int
	text      int
	centered  int
	correct   int
	partial   int
	blank     int
	listTitle int
}

func newStyleSet(f *excelize.File) (*styleSet, error) {
	thin := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}
	left := &excelize.Alignment{Horizontal: "left", Vertical: "center", Indent: 1}

	fill := func(color string) excelize.Fill {
		return excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1}
	}

	s := &styleSet{}
	defs := []struct {
		target *int
		style  *excelize.Style
	}{
		{&s.header, &excelize.Style{Border: thin, Fill: fill(colorHeader), Alignment: center}},
		{&s.text, &excelize.Style{Border: thin, Fill: fill(colorBlank), Alignment: left}},
		{&s.centered, &excelize.Style{Border: thin, Fill: fill(colorBlank), Alignment: center}},
		{&s.correct, &excelize.Style{Border: thin, Fill: fill(colorCorrect), Alignment: center}},
		{&s.partial, &excelize.Style{Border: thin, Fill: fill(colorPartial), Alignment: center}},
		{&s.blank, &excelize.Style{Border: thin, Fill: fill(colorBlank), Alignment: center}},
		{&s.listTitle, &excelize.Style{Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}}}},
	}

	for _, def := range defs {
		id, err := f.NewStyle(def.style)
		if err != nil {
			return nil, err
		}
		*def.target = id
	}
	return s, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// cellName converts 1-based column/row numbers to an A1 reference.
func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// sheetName makes a section name safe for a worksheet tab.
func sheetName(section string) string {
	name := strings.TrimSpace(section)
	if name == "" {
		name = "Unassigned"
	}
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, name)
	return truncateRunes(name, 31)
}

// sheetNames maps sections to distinct tab names, in section order.
// Excel compares tab names case-insensitively, so sections that sanitize to
// the same name get a " (2)", " (3)", ... suffix.
func sheetNames(sections []string) []string {
	used := make(map[string]bool, len(sections))
	names := make([]string, len(sections))
	for i, section := range sections {
		base := sheetName(section)
		name := base
		for n := 2; used[strings.ToLower(name)]; n++ {
			suffix := fmt.Sprintf(" (%d)", n)
			name = truncateRunes(base, 31-len(suffix)) + suffix
		}
		used[strings.ToLower(name)] = true
		names[i] = name
	}
	return names
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func statementTitle(label string) string {
	if label == "" || label == "Statement" {
		return "Statement"
	}
	return label + " Statement"
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
