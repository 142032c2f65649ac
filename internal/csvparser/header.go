package csvparser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/ginjaninja78/quiz-grade-reconciler/internal/config"
	"github.com/ginjaninja78/quiz-grade-reconciler/internal/types"
)

// pointsLabel is the trailing label cell on the points line.
const pointsLabel = "Points"

// =============================================================================
// HEADER PARSER
// =============================================================================

// ParseHeader derives the assignment metadata from the header block.
//
// PARAMETERS:
//   - lines: The header lines, in file order.
//   - cfg: Supplies the name/points/code line indices and the comment and
//     statement codes.
//
// RETURNS:
//   - The AssignmentHeader. Question columns keep the raw column index of
//     their code, and body rows are read at the same index.
//   - A *MalformedHeaderError when a configured line is missing, the name
//     field is absent, a point value is not numeric, or the number of
//     points does not line up with the question columns.
//
// HEADER LAYOUT (default indices):
//   line 4: ,"Assignment Name",...
//   line 6: ,,,,101,102,103,900,...      question codes per column
//   line 7: ,,,,,,,1,2,1,Points          point totals, left to right
func ParseHeader(lines []string, cfg config.SessionConfig) (*types.AssignmentHeader, error) {
	for _, idx := range []int{cfg.NameLineIndex, cfg.CodeLineIndex, cfg.PointsLineIndex} {
		if idx < 0 || idx >= len(lines) {
			return nil, &MalformedHeaderError{
				Line:   idx,
				Field:  -1,
				Reason: fmt.Sprintf("configured line index out of range (header has %d lines)", len(lines)),
			}
		}
	}

	header := &types.AssignmentHeader{}

	name, err := parseAssignmentName(lines[cfg.NameLineIndex], cfg.NameLineIndex)
	if err != nil {
		return nil, err
	}
	header.AssignmentName = name

	// Ordinals of the comment/statement columns among all code columns,
	// needed when the points line also covers those columns.
	var skipOrdinals []int

	codes, err := SplitRecord(lines[cfg.CodeLineIndex])
	if err != nil {
		return nil, &MalformedHeaderError{Line: cfg.CodeLineIndex, Field: -1, Reason: err.Error()}
	}

	ordinal := 0
	for j, raw := range codes {
		code := strings.TrimSpace(raw)
		if !isDecimal(code) {
			continue
		}
		switch {
		case cfg.CommentCode != "" && code == cfg.CommentCode && header.CommentColumn == nil:
			header.CommentColumn = intPtr(j)
			skipOrdinals = append(skipOrdinals, ordinal)
		case cfg.StatementCode != "" && code == cfg.StatementCode && header.StatementColumn == nil:
			header.StatementColumn = intPtr(j)
			skipOrdinals = append(skipOrdinals, ordinal)
		default:
			header.Questions = append(header.Questions, types.QuestionColumn{Index: j, Code: code})
		}
		ordinal++
	}

	points, err := parsePoints(lines[cfg.PointsLineIndex], cfg.PointsLineIndex)
	if err != nil {
		return nil, err
	}

	header.Points, err = alignPoints(points, len(header.Questions), ordinal, skipOrdinals)
	if err != nil {
		return nil, &MalformedHeaderError{Line: cfg.PointsLineIndex, Field: -1, Reason: err.Error()}
	}

	return header, nil
}

// parseAssignmentName returns the second field of the name line.
func parseAssignmentName(line string, lineIndex int) (string, error) {
	fields, err := SplitRecord(line)
	if err != nil {
		return "", &MalformedHeaderError{Line: lineIndex, Field: -1, Reason: err.Error()}
	}
	if len(fields) < 2 {
		return "", &MalformedHeaderError{Line: lineIndex, Field: 1, Reason: "assignment name field is missing"}
	}
	return strings.Trim(strings.TrimSpace(fields[1]), `"`), nil
}

// parsePoints reads every non-empty, non-label field as a float.
func parsePoints(line string, lineIndex int) ([]float64, error) {
	fields, err := SplitRecord(line)
	if err != nil {
		return nil, &MalformedHeaderError{Line: lineIndex, Field: -1, Reason: err.Error()}
	}

	var points []float64
	for j, raw := range fields {
		value := strings.TrimSpace(raw)
		if value == "" || value == pointsLabel {
			continue
		}
		p, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, &MalformedHeaderError{
				Line:   lineIndex,
				Field:  j,
				Reason: fmt.Sprintf("point value %q is not numeric", value),
			}
		}
		points = append(points, p)
	}
	return points, nil
}

// alignPoints reconciles the points vector with the question columns.
// The export either lists points for questions only, or for every code
// column (comment and statement included). In the second case the entries
// at the comment/statement ordinals are removed.
func alignPoints(points []float64, nQuestions, nCodes int, skipOrdinals []int) ([]float64, error) {
	switch len(points) {
	case nQuestions:
		return points, nil
	case nCodes:
		skip := make(map[int]bool, len(skipOrdinals))
		for _, o := range skipOrdinals {
			skip[o] = true
		}
		aligned := make([]float64, 0, nQuestions)
		for i, p := range points {
			if !skip[i] {
				aligned = append(aligned, p)
			}
		}
		return aligned, nil
	default:
		return nil, fmt.Errorf("found %d point values for %d question columns", len(points), nQuestions)
	}
}

// isDecimal reports whether s is a non-empty run of decimal digits.
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

func intPtr(v int) *int {
	return &v
}
