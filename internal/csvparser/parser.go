// =============================================================================
// Quiz Grade Reconciler - CSV Parser Module
// =============================================================================
//
// This module reads the quiz platform's CSV export. The file has two parts:
//   - A fixed-length header block (HeaderLength lines, conventionally 9)
//     carrying assignment metadata. Each line is itself a CSV record.
//   - A body of row-pairs: an identity row followed by a score row.
//
// FEATURES:
//   - Quoted fields with embedded commas (assignment names, comments)
//   - Lenient quoting and ragged rows, as exported by the platform
//   - Blank body lines are skipped; comma-only rows are kept as rows
//
// The file handle is released on every exit path, including parse failure.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/quiz-grade-reconciler/internal/config"
)

// =============================================================================
// DATA FILE STRUCTURE
// =============================================================================

// DataFile is a data export split into its header block and body rows.
type DataFile struct {
	// SourceFile is the path the data was read from.
	SourceFile string

	// HeaderLines are the raw header lines, trimmed.
	HeaderLines []string

	// Rows are the parsed body records in file order.
	Rows [][]string
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a data export from disk.
//
// PARAMETERS:
//   - filePath: The path to the CSV export.
//   - cfg: The session configuration (for HeaderLength).
//
// RETURNS:
//   - The header lines and body rows.
//   - A *MalformedHeaderError when the file is shorter than the header
//     block, or an I/O / CSV error.
func Parse(filePath string, cfg config.SessionConfig) (*DataFile, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	data, err := ParseReader(file, cfg)
	if err != nil {
		return nil, err
	}
	data.SourceFile = filePath
	return data, nil
}

// ParseReader reads a data export from r.
func ParseReader(r io.Reader, cfg config.SessionConfig) (*DataFile, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	if len(lines) < cfg.HeaderLength {
		return nil, &MalformedHeaderError{
			Line:   len(lines),
			Field:  -1,
			Reason: fmt.Sprintf("file has %d lines, header block needs %d", len(lines), cfg.HeaderLength),
		}
	}

	rows, err := parseBody(lines[cfg.HeaderLength:])
	if err != nil {
		return nil, err
	}

	return &DataFile{
		HeaderLines: lines[:cfg.HeaderLength],
		Rows:        rows,
	}, nil
}

// readLines splits the input into trimmed lines. A UTF-8 byte order mark on
// the first line is dropped.
func readLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var lines []string
	for scanner.Scan() {
		line := scanner.Text()
		if len(lines) == 0 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		lines = append(lines, strings.TrimSpace(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// parseBody parses the body lines as one CSV stream so that quoted fields
// spanning lines stay intact. Blank lines produce no record; a line of bare
// commas is a real row (an unattempted score row) and is kept so the
// pairing does not shift.
func parseBody(lines []string) ([][]string, error) {
	reader := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	configureReader(reader)

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read body row: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// SplitRecord parses one line as a single CSV record.
func SplitRecord(line string) ([]string, error) {
	reader := csv.NewReader(strings.NewReader(line))
	configureReader(reader)

	record, err := reader.Read()
	if err == io.EOF {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// configureReader applies the export's CSV dialect.
func configureReader(reader *csv.Reader) {
	reader.Comma = ','

	// Rows are ragged: identity rows are often shorter than score rows.
	reader.FieldsPerRecord = -1

	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}
