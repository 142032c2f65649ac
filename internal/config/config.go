// =============================================================================
// Quiz Grade Reconciler - Configuration Module
// =============================================================================
//
// This module loads and saves the application settings and turns them into
// the immutable SessionConfig value every component is constructed with.
//
// CONFIGURATION FILE:
//   A single YAML file (default ~/.reconciler.yaml) holding course settings,
//   header layout indices, and output locations.
//
// ARCHITECTURE:
//   - MainConfig is the mutable, on-disk representation.
//   - SessionConfig is a value copy handed to the parser, roster index,
//     and reconciliation engine. It is never mutated after creation.
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	DefaultHeaderLength      = 9
	DefaultNameLineIndex     = 4
	DefaultCodeLineIndex     = 6
	DefaultPointsLineIndex   = 7
	DefaultTotalColumn       = 3
	DefaultEmailDomainMarker = "@usafa"
	DefaultStatementLabel    = "Statement"
	DefaultRosterHeaderRow   = 2
	DefaultReportFileFormat  = "{assignment}/output.xlsx"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the persisted application settings.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// OutputDir is where report workbooks are written.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// StorePath is the SQLite database holding rosters and run history.
	// Default: "./reconciler.db"
	StorePath string `yaml:"store_path"`

	// ReportFileFormat is the report path relative to OutputDir.
	// Placeholders: {assignment}, {course}.
	ReportFileFormat string `yaml:"report_file_format"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel: "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// COURSE SETTINGS
	// =========================================================================

	// CourseNumber selects the roster rows for this course.
	CourseNumber string `yaml:"course_number"`

	// CommentCode is the question code of the free-text comment column.
	CommentCode string `yaml:"comment_code"`

	// StatementCode is the question code of the statement (documentation)
	// column.
	StatementCode string `yaml:"statement_code"`

	// StatementLabel is the report column title for the statement column.
	StatementLabel string `yaml:"statement_label"`

	// =========================================================================
	// DATA FILE LAYOUT
	// =========================================================================

	// HeaderLength is the number of header lines before the body rows.
	HeaderLength int `yaml:"header_length"`

	// NameLineIndex is the header line whose second field is the assignment
	// name.
	NameLineIndex int `yaml:"asst_name_idx"`

	// PointsLineIndex is the header line carrying the per-question points.
	PointsLineIndex int `yaml:"asst_points_idx"`

	// CodeLineIndex is the header line carrying the question codes.
	CodeLineIndex int `yaml:"asst_code_idx"`

	// EmailDomainMarker is stripped from emails, from the marker to the end.
	EmailDomainMarker string `yaml:"email_domain_marker"`

	// TotalColumn is the score row column carrying the total.
	TotalColumn *int `yaml:"total_column,omitempty"`

	// RecomputeTotal ignores TotalColumn and sums the raw question scores.
	RecomputeTotal bool `yaml:"recompute_total"`

	// =========================================================================
	// ROSTER FILE LAYOUT
	// =========================================================================

	Roster RosterSettings `yaml:"roster"`
}

// RosterSettings describes where the roster table lives in the workbook.
type RosterSettings struct {
	// Sheet is the sheet name. Empty means the first sheet.
	Sheet string `yaml:"sheet"`

	// HeaderRow is the 1-based row carrying the column titles.
	HeaderRow int `yaml:"header_row"`
}

// =============================================================================
// SESSION CONFIGURATION
// =============================================================================

// SessionConfig is the immutable view of the settings passed into each
// component constructor.
type SessionConfig struct {
	CourseNumber      string
	CommentCode       string
	StatementCode     string
	StatementLabel    string
	HeaderLength      int
	NameLineIndex     int
	PointsLineIndex   int
	CodeLineIndex     int
	EmailDomainMarker string
	TotalColumn       int
	RecomputeTotal    bool
	RosterSheet       string
	RosterHeaderRow   int
}

// Session snapshots the main configuration into a SessionConfig.
func (c *MainConfig) Session() SessionConfig {
	total := DefaultTotalColumn
	if c.TotalColumn != nil {
		total = *c.TotalColumn
	}
	return SessionConfig{
		CourseNumber:      c.CourseNumber,
		CommentCode:       c.CommentCode,
		StatementCode:     c.StatementCode,
		StatementLabel:    c.StatementLabel,
		HeaderLength:      c.HeaderLength,
		NameLineIndex:     c.NameLineIndex,
		PointsLineIndex:   c.PointsLineIndex,
		CodeLineIndex:     c.CodeLineIndex,
		EmailDomainMarker: c.EmailDomainMarker,
		TotalColumn:       total,
		RecomputeTotal:    c.RecomputeTotal,
		RosterSheet:       c.Roster.Sheet,
		RosterHeaderRow:   c.Roster.HeaderRow,
	}
}

// Default returns a configuration with every default applied.
func Default() *MainConfig {
	cfg := &MainConfig{}
	applyMainConfigDefaults(cfg)
	return cfg
}

// DefaultSession returns the SessionConfig of Default().
func DefaultSession() SessionConfig {
	return Default().Session()
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//
// RETURNS:
//   - A pointer to the MainConfig struct with defaults applied.
//   - An error if the file cannot be read or parsed.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadOrDefault loads configPath, falling back to defaults when the file
// does not exist yet.
func LoadOrDefault(configPath string) (*MainConfig, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Default(), nil
	}
	return LoadMainConfig(configPath)
}

// SaveMainConfig writes the configuration back to disk as YAML.
func SaveMainConfig(configPath string, config *MainConfig) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if dir := filepath.Dir(configPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// applyMainConfigDefaults sets default values for any unset option.
func applyMainConfigDefaults(config *MainConfig) {
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.StorePath == "" {
		config.StorePath = "./reconciler.db"
	}
	if config.ReportFileFormat == "" {
		config.ReportFileFormat = DefaultReportFileFormat
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.StatementLabel == "" {
		config.StatementLabel = DefaultStatementLabel
	}
	if config.HeaderLength == 0 {
		config.HeaderLength = DefaultHeaderLength
	}
	if config.NameLineIndex == 0 {
		config.NameLineIndex = DefaultNameLineIndex
	}
	if config.PointsLineIndex == 0 {
		config.PointsLineIndex = DefaultPointsLineIndex
	}
	if config.CodeLineIndex == 0 {
		config.CodeLineIndex = DefaultCodeLineIndex
	}
	if config.EmailDomainMarker == "" {
		config.EmailDomainMarker = DefaultEmailDomainMarker
	}
	if config.Roster.HeaderRow == 0 {
		config.Roster.HeaderRow = DefaultRosterHeaderRow
	}
}

// validateMainConfig checks the structural settings. Course-level settings
// (course number, codes) are checked by the validation package because a
// config without them is still loadable.
func validateMainConfig(config *MainConfig) error {
	lines := map[string]int{
		"asst_name_idx":   config.NameLineIndex,
		"asst_points_idx": config.PointsLineIndex,
		"asst_code_idx":   config.CodeLineIndex,
	}
	for _, key := range []string{"asst_name_idx", "asst_points_idx", "asst_code_idx"} {
		idx := lines[key]
		if idx < 0 || idx >= config.HeaderLength {
			return fmt.Errorf("%s %d is outside the %d-line header", key, idx, config.HeaderLength)
		}
	}

	if config.TotalColumn != nil && *config.TotalColumn < 2 {
		return fmt.Errorf("total_column %d overlaps the name and email columns", *config.TotalColumn)
	}

	if config.Roster.HeaderRow < 1 {
		return fmt.Errorf("roster.header_row must be at least 1")
	}

	return nil
}
