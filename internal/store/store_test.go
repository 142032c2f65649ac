package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ginjaninja78/quiz-grade-reconciler/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "reconciler.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRoster_ReplaceAndLoad(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	first := []types.RosterEntry{
		{Name: "Doe, John", Email: "jdoe", Section: "A1"},
		{Name: "Roe, Jane", Email: "jroe", Section: "B2"},
	}
	require.NoError(t, db.ReplaceRoster(ctx, "CS364", first))
	require.NoError(t, db.ReplaceRoster(ctx, "CS110", []types.RosterEntry{{Name: "Other, One", Email: "oone", Section: "M1"}}))

	got, err := db.LoadRoster(ctx, "CS364")
	require.NoError(t, err)
	assert.Equal(t, first, got)

	// Import resets the course roster.
	second := []types.RosterEntry{{Name: "Poe, Ed", Email: "epoe", Section: "C3"}}
	require.NoError(t, db.ReplaceRoster(ctx, "CS364", second))

	got, err = db.LoadRoster(ctx, "CS364")
	require.NoError(t, err)
	assert.Equal(t, second, got)

	other, err := db.LoadRoster(ctx, "CS110")
	require.NoError(t, err)
	assert.Len(t, other, 1)

	none, err := db.LoadRoster(ctx, "MATH300")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRuns_RecordAndList(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	rep := &types.FinalReport{
		AssignmentName: "Quiz 1",
		Records:        []types.ScoredRecord{{Name: "Doe, John"}, {Name: "Roe, Jane"}},
		Unmatched: []types.UnmatchedEntry{
			{Name: "Instructor, Preview", Email: "instructor", RowNumber: 5},
			{Name: "", Email: "", RowNumber: 7},
		},
	}

	id1, err := db.RecordRun(ctx, "CS364", "quiz1.csv", rep)
	require.NoError(t, err)
	require.NotEmpty(t, id1)

	rep2 := &types.FinalReport{AssignmentName: "Quiz 2"}
	id2, err := db.RecordRun(ctx, "CS364", "", rep2)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	_, err = db.RecordRun(ctx, "CS110", "other.csv", rep2)
	require.NoError(t, err)

	runs, err := db.ListRuns(ctx, "CS364", 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, id2, runs[0].ID)
	assert.Equal(t, "Quiz 2", runs[0].AssignmentName)
	assert.Equal(t, "", runs[0].SourceFile)
	assert.Equal(t, id1, runs[1].ID)
	assert.Equal(t, 2, runs[1].Matched)
	assert.Equal(t, 2, runs[1].Unmatched)
	assert.Equal(t, "quiz1.csv", runs[1].SourceFile)
	assert.False(t, runs[1].CreatedAt.IsZero())

	limited, err := db.ListRuns(ctx, "CS364", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	unmatched, err := db.UnmatchedForRun(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, rep.Unmatched, unmatched)
}

func TestRecordRun_NilReport(t *testing.T) {
	db := openTestDB(t)
	_, err := db.RecordRun(context.Background(), "CS364", "x.csv", nil)
	require.Error(t, err)
}

func TestOpen_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reconciler.db")

	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.ReplaceRoster(ctx, "CS364", []types.RosterEntry{{Name: "Doe, John", Email: "jdoe", Section: "A1"}}))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	got, err := db.LoadRoster(ctx, "CS364")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestOpen_MissingDirectory(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "missing", "reconciler.db"))
	assert.Error(t, err)
	assert.Nil(t, db)
}
