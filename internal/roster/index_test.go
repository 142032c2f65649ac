package roster

import (
	"testing"

	"github.com/ginjaninja78/quiz-grade-reconciler/internal/config"
	"github.com/ginjaninja78/quiz-grade-reconciler/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession() config.SessionConfig {
	cfg := config.DefaultSession()
	cfg.CourseNumber = "CS364"
	return cfg
}

func sampleIndex() *Index {
	return Build([]types.RosterEntry{
		{Name: "Doe, John Q", Email: "jdoe@usafa.edu", Section: "A1"},
		{Name: "Roe, Jane", Email: "jroe", Section: "B2"},
		{Name: "Poe, Ed", Email: "", Section: "C3"},
	}, testSession())
}

func TestBuild_NormalizesEntries(t *testing.T) {
	idx := sampleIndex()

	require.Equal(t, 3, idx.Len())
	assert.Equal(t, types.RosterEntry{Name: "Doe, John", Email: "jdoe", Section: "A1"}, idx.Entries()[0])
}

func TestIndex_Lookups(t *testing.T) {
	idx := sampleIndex()

	section, ok := idx.LookupByEmail("jdoe@usafa.edu")
	assert.True(t, ok)
	assert.Equal(t, "A1", section)

	section, ok = idx.LookupByEmail("jroe")
	assert.True(t, ok)
	assert.Equal(t, "B2", section)

	_, ok = idx.LookupByEmail("")
	assert.False(t, ok, "empty email must never match")

	section, ok = idx.LookupByName("Poe, Ed Allan")
	assert.True(t, ok)
	assert.Equal(t, "C3", section)

	_, ok = idx.LookupByName("Nobody, Here")
	assert.False(t, ok)
}

func TestIndex_ResolvePrecedence(t *testing.T) {
	idx := sampleIndex()

	tests := []struct {
		name        string
		email       string
		studentName string
		section     string
		kind        MatchKind
	}{
		{"email wins over name", "jdoe", "Roe, Jane", "A1", MatchEmail},
		{"name fallback", "unknown", "Roe, Jane X", "B2", MatchName},
		{"empty email falls back to name", "", "Poe, Ed", "C3", MatchName},
		{"no match", "instructor", "Someone, Else", "", MatchNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			section, kind := idx.Resolve(tt.email, tt.studentName)
			assert.Equal(t, tt.section, section)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestBuild_FirstDuplicateWins(t *testing.T) {
	idx := Build([]types.RosterEntry{
		{Name: "Doe, John", Email: "jdoe", Section: "A1"},
		{Name: "Doe, John", Email: "jdoe", Section: "Z9"},
	}, testSession())

	section, _ := idx.Resolve("jdoe", "")
	assert.Equal(t, "A1", section)
	section, _ = idx.Resolve("", "Doe, John")
	assert.Equal(t, "A1", section)
}

func TestIndex_NilAndEmpty(t *testing.T) {
	var idx *Index
	assert.Equal(t, 0, idx.Len())
	assert.Equal(t, 0, Build(nil, testSession()).Len())
}

func TestMatchKind_String(t *testing.T) {
	assert.Equal(t, "email", MatchEmail.String())
	assert.Equal(t, "name", MatchName.String())
	assert.Equal(t, "none", MatchNone.String())
}
