// =============================================================================
// Quiz Grade Reconciler - File Manager Utility
// =============================================================================
//
// This module provides the file helpers used around a grading run:
//   - Output directory management
//   - Report path generation from a name template
//   - Copying the processed data file next to its report
//
// OUTPUT LAYOUT:
//   <output_dir>/<assignment>/output.xlsx      (default template)
//   <output_dir>/<assignment>/unmatched.csv    (only when rows were unmatched)
//   <output_dir>/<assignment>/<source>.csv     (copy of the data file)
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager resolves and prepares output locations for one run.
type FileManager struct {
	// OutputDir is the root directory for all report output.
	OutputDir string

	// ReportFileFormat is the report path template relative to OutputDir.
	ReportFileFormat string
}

// NewFileManager creates a new FileManager.
func NewFileManager(outputDir, reportFileFormat string) *FileManager {
	return &FileManager{
		OutputDir:        outputDir,
		ReportFileFormat: reportFileFormat,
	}
}

// EnsureDirectories creates the output root if it doesn't exist.
func (fm *FileManager) EnsureDirectories() error {
	if err := os.MkdirAll(fm.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// ReportPath returns the workbook path for an assignment.
func (fm *FileManager) ReportPath(assignment, course string) string {
	name := GenerateOutputFileName(fm.ReportFileFormat, map[string]string{
		"assignment": assignment,
		"course":     course,
	})
	return filepath.Join(fm.OutputDir, name)
}

// UnmatchedPath returns the unmatched side list path, next to the report.
func (fm *FileManager) UnmatchedPath(reportPath string) string {
	return filepath.Join(filepath.Dir(reportPath), "unmatched.csv")
}

// CopySourceFile copies the processed data file into the report directory.
//
// RETURNS:
//   - The path of the copy.
//   - An error if copying fails.
func (fm *FileManager) CopySourceFile(sourcePath, reportPath string) (string, error) {
	dir := filepath.Dir(reportPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	dst := filepath.Join(dir, filepath.Base(sourcePath))
	if sameFile(sourcePath, dst) {
		return dst, nil
	}
	if err := copyFile(sourcePath, dst); err != nil {
		return "", fmt.Errorf("failed to copy data file: %w", err)
	}
	return dst, nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName expands a file name template.
//
// PARAMETERS:
//   - format: The template. Placeholders:
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               any key of params, e.g. {assignment}, {course}
//   - params: Placeholder values. Values are made safe as a single path
//             component.
//
// RETURNS:
//   - The expanded name, always ending in .xlsx.
//
// EXAMPLE:
//   format: "{course}/{assignment}_{date}.xlsx"
//   params: {"course": "CS364", "assignment": "Quiz 1"}
//   output: "CS364/Quiz 1_20240115.xlsx"
func GenerateOutputFileName(format string, params map[string]string) string {
	now := time.Now()

	// Fixed placeholder order keeps the expansion deterministic.
	pairs := []string{
		"{timestamp}", now.Format("20060102_150405"),
		"{date}", now.Format("20060102"),
	}
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		pairs = append(pairs, "{"+key+"}", SanitizePathComponent(params[key]))
	}

	result := strings.NewReplacer(pairs...).Replace(format)

	if !strings.HasSuffix(strings.ToLower(result), ".xlsx") {
		result += ".xlsx"
	}
	return result
}

// SanitizePathComponent replaces characters that are not allowed in a file
// name. An empty value becomes "unnamed".
func SanitizePathComponent(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unnamed"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if r < 0x20 {
			return '_'
		}
		return r
	}, s)
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}
	return destFile.Sync()
}

func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
