package csvparser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleExport = "\ufeffQuiz Export\n" +
	"\n" +
	"\n" +
	"\n" +
	",\"Quiz 1\"\n" +
	"\n" +
	",,,,101,102,103\n" +
	",,,,,,,1,2,1,Points\n" +
	"\n" +
	"\"Doe, John Q\",jdoe@usafa.edu\n" +
	",,,5,1,2,0\n" +
	"\n" +
	"\"Roe, Jane\",jroe@usafa.edu\n" +
	",,,2,1,0.5,0.5\n"

func TestParseReader_SplitsHeaderAndBody(t *testing.T) {
	data, err := ParseReader(strings.NewReader(sampleExport), testSession())
	require.NoError(t, err)

	require.Len(t, data.HeaderLines, 9)
	assert.Equal(t, "Quiz Export", data.HeaderLines[0])
	assert.Equal(t, `,"Quiz 1"`, data.HeaderLines[4])

	// The blank body line is skipped.
	require.Len(t, data.Rows, 4)
	assert.Equal(t, []string{"Doe, John Q", "jdoe@usafa.edu"}, data.Rows[0])
	assert.Equal(t, []string{"", "", "", "5", "1", "2", "0"}, data.Rows[1])
}

func TestParseReader_HeaderOnly(t *testing.T) {
	text := strings.Join(headerBlock(`,"Quiz"`, ",,,,101", ",,,,1,Points"), "\n") + "\n"

	data, err := ParseReader(strings.NewReader(text), testSession())
	require.NoError(t, err)
	assert.Empty(t, data.Rows)
}

func TestParseReader_TooShort(t *testing.T) {
	_, err := ParseReader(strings.NewReader("a\nb\nc\n"), testSession())

	var mh *MalformedHeaderError
	require.True(t, errors.As(err, &mh))
	assert.Equal(t, 3, mh.Line)
}

func TestParse_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quiz.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleExport), 0644))

	data, err := Parse(path, testSession())
	require.NoError(t, err)
	assert.Equal(t, path, data.SourceFile)
	assert.Len(t, data.Rows, 4)
}

func TestParse_MissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "missing.csv"), testSession())
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestSplitRecord(t *testing.T) {
	fields, err := SplitRecord(`,"Quiz, Part 1",x`)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "Quiz, Part 1", "x"}, fields)

	fields, err = SplitRecord("")
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestParseReader_KeepsCommaOnlyRows(t *testing.T) {
	text := strings.Join(headerBlock(`,"Quiz"`, ",,,,101", ",,,,1,Points"), "\n") + "\n" +
		"\"Doe, John\",jdoe@usafa.edu\n" +
		",,,,,,\n" +
		"\n" +
		"\"Roe, Jane\",jroe@usafa.edu\n" +
		",,,4,1\n"

	data, err := ParseReader(strings.NewReader(text), testSession())
	require.NoError(t, err)

	require.Len(t, data.Rows, 4)
	assert.Equal(t, []string{"", "", "", "", "", "", ""}, data.Rows[1])
	assert.Equal(t, "Roe, Jane", data.Rows[2][0])

	pairs, warning := collect(t, data.Rows)
	assert.Nil(t, warning)
	assert.Len(t, pairs, 2)
}
