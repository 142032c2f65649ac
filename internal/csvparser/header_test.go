package csvparser

import (
	"errors"
	"testing"

	"github.com/ginjaninja78/quiz-grade-reconciler/internal/config"
	"github.com/ginjaninja78/quiz-grade-reconciler/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession() config.SessionConfig {
	cfg := config.DefaultSession()
	cfg.CourseNumber = "CS364"
	cfg.CommentCode = "900"
	cfg.StatementCode = "901"
	return cfg
}

// headerBlock returns a 9-line header with the given name, code, and points
// lines at the default indices.
func headerBlock(name, codes, points string) []string {
	return []string{
		"Quiz Export",
		"",
		"",
		"",
		name,
		"",
		codes,
		points,
		"",
	}
}

func TestParseHeader_Basic(t *testing.T) {
	lines := headerBlock(`,"Quiz 1"`, ",,,,101,102,103", ",,,,,,,1,2,1,Points")

	h, err := ParseHeader(lines, testSession())
	require.NoError(t, err)

	assert.Equal(t, "Quiz 1", h.AssignmentName)
	assert.Equal(t, []float64{1, 2, 1}, h.Points)
	assert.Equal(t, []types.QuestionColumn{
		{Index: 4, Code: "101"},
		{Index: 5, Code: "102"},
		{Index: 6, Code: "103"},
	}, h.Questions)
	assert.Equal(t, 3, h.NumQuestions())
	assert.False(t, h.HasComment())
	assert.False(t, h.HasStatement())
}

func TestParseHeader_CommentAndStatement(t *testing.T) {
	lines := headerBlock(`,"Quiz 2"`, ",,,,101,900,102,901", ",,,,,,,1,2,Points")

	h, err := ParseHeader(lines, testSession())
	require.NoError(t, err)

	require.NotNil(t, h.CommentColumn)
	require.NotNil(t, h.StatementColumn)
	assert.Equal(t, 5, *h.CommentColumn)
	assert.Equal(t, 7, *h.StatementColumn)
	assert.Equal(t, []types.QuestionColumn{
		{Index: 4, Code: "101"},
		{Index: 6, Code: "102"},
	}, h.Questions)
	assert.Equal(t, []float64{1, 2}, h.Points)
}

func TestParseHeader_PointsCoverEveryCodeColumn(t *testing.T) {
	// Five codes, five points: the comment and statement entries are dropped.
	lines := headerBlock(`,"Quiz 3"`, ",,,,101,900,102,901,103", ",,,,1,0,2,0,3,Points")

	h, err := ParseHeader(lines, testSession())
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2, 3}, h.Points)
	assert.Len(t, h.Questions, 3)
	assert.Len(t, h.Points, h.NumQuestions())
}

func TestParseHeader_FirstCommentOccurrenceWins(t *testing.T) {
	lines := headerBlock(`,"Quiz"`, ",,,,900,101,900", ",,,,,1,1,Points")

	h, err := ParseHeader(lines, testSession())
	require.NoError(t, err)

	require.NotNil(t, h.CommentColumn)
	assert.Equal(t, 4, *h.CommentColumn)
	// The repeated code is graded as a question.
	assert.Equal(t, []types.QuestionColumn{{Index: 5, Code: "101"}, {Index: 6, Code: "900"}}, h.Questions)
}

func TestParseHeader_NoConfiguredCodes(t *testing.T) {
	cfg := testSession()
	cfg.CommentCode = ""
	cfg.StatementCode = ""
	lines := headerBlock(`,"Quiz"`, ",,,,101,900", ",,,,1,1,Points")

	h, err := ParseHeader(lines, cfg)
	require.NoError(t, err)

	assert.False(t, h.HasComment())
	assert.Len(t, h.Questions, 2)
}

func TestParseHeader_NonDecimalCodesIgnored(t *testing.T) {
	lines := headerBlock(`,"Quiz"`, "Code,,ID,x1,101, 102 ,1.5", ",,,,1,1,Points")

	h, err := ParseHeader(lines, testSession())
	require.NoError(t, err)

	assert.Equal(t, []types.QuestionColumn{{Index: 4, Code: "101"}, {Index: 5, Code: "102"}}, h.Questions)
}

func TestParseHeader_Errors(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		line  int
		field int
	}{
		{
			name:  "too few lines",
			lines: []string{"a", "b", "c"},
			line:  4,
			field: -1,
		},
		{
			name:  "missing assignment name",
			lines: headerBlock("OnlyOneField", ",,,,101", ",,,,1,Points"),
			line:  4,
			field: 1,
		},
		{
			name:  "non-numeric point",
			lines: headerBlock(`,"Quiz"`, ",,,,101,102", ",,,,1,abc,Points"),
			line:  7,
			field: 5,
		},
		{
			name:  "points count mismatch",
			lines: headerBlock(`,"Quiz"`, ",,,,101,102,103", ",,,,1,2,Points"),
			line:  7,
			field: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHeader(tt.lines, testSession())
			require.Error(t, err)

			var mh *MalformedHeaderError
			require.True(t, errors.As(err, &mh), "got %T", err)
			assert.Equal(t, tt.line, mh.Line)
			assert.Equal(t, tt.field, mh.Field)
		})
	}
}

func TestMalformedHeaderError_Message(t *testing.T) {
	assert.Equal(t, "malformed header: line 7: bad", (&MalformedHeaderError{Line: 7, Field: -1, Reason: "bad"}).Error())
	assert.Equal(t, "malformed header: line 7, field 2: bad", (&MalformedHeaderError{Line: 7, Field: 2, Reason: "bad"}).Error())
}
