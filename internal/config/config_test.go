package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMainConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "reconciler.yaml")

	configContent := `
output_dir: "/tmp/grades"
store_path: "/tmp/grades/reconciler.db"
log_level: debug
course_number: "CS364"
comment_code: "900"
statement_code: "901"
statement_label: Documentation
header_length: 10
asst_name_idx: 3
asst_points_idx: 8
asst_code_idx: 7
email_domain_marker: "@afacademy"
total_column: 2
recompute_total: true
roster:
  sheet: Roster
  header_row: 1
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfg, err := LoadMainConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/grades", cfg.OutputDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, DefaultReportFileFormat, cfg.ReportFileFormat)

	s := cfg.Session()
	assert.Equal(t, "CS364", s.CourseNumber)
	assert.Equal(t, "900", s.CommentCode)
	assert.Equal(t, "901", s.StatementCode)
	assert.Equal(t, "Documentation", s.StatementLabel)
	assert.Equal(t, 10, s.HeaderLength)
	assert.Equal(t, 3, s.NameLineIndex)
	assert.Equal(t, 8, s.PointsLineIndex)
	assert.Equal(t, 7, s.CodeLineIndex)
	assert.Equal(t, "@afacademy", s.EmailDomainMarker)
	assert.Equal(t, 2, s.TotalColumn)
	assert.True(t, s.RecomputeTotal)
	assert.Equal(t, "Roster", s.RosterSheet)
	assert.Equal(t, 1, s.RosterHeaderRow)
}

func TestDefaults(t *testing.T) {
	s := DefaultSession()

	assert.Equal(t, 9, s.HeaderLength)
	assert.Equal(t, 4, s.NameLineIndex)
	assert.Equal(t, 6, s.CodeLineIndex)
	assert.Equal(t, 7, s.PointsLineIndex)
	assert.Equal(t, 3, s.TotalColumn)
	assert.Equal(t, "@usafa", s.EmailDomainMarker)
	assert.Equal(t, "Statement", s.StatementLabel)
	assert.Equal(t, 2, s.RosterHeaderRow)
	assert.False(t, s.RecomputeTotal)
	assert.Empty(t, s.CourseNumber)

	cfg := Default()
	assert.Equal(t, "./output", cfg.OutputDir)
	assert.Equal(t, "./reconciler.db", cfg.StorePath)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadMainConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"name line outside header", "header_length: 5\nasst_points_idx: 3\nasst_code_idx: 2\nasst_name_idx: 7\n"},
		{"total overlaps identity columns", "total_column: 1\n"},
		{"bad yaml", "course_number: [unterminated\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := LoadMainConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSession(), cfg.Session())
}

func TestSaveMainConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "reconciler.yaml")

	cfg := Default()
	cfg.CourseNumber = "CS364"
	cfg.CommentCode = "900"
	cfg.StatementLabel = "Documentation"
	cfg.Roster.Sheet = "Roster"
	require.NoError(t, SaveMainConfig(path, cfg))

	loaded, err := LoadMainConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Session(), loaded.Session())
	assert.Equal(t, cfg.OutputDir, loaded.OutputDir)
}
