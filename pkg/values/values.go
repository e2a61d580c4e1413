// Package values parses the row-oriented value table, either from an inline
// semicolon-separated string or from a delimited file. Column alignment with
// the declared token count is deliberately left to pkg/validate.
package values

import (
	"fmt"
	"os"
	"strings"

	"github.com/goliatone/go-templfill/pkg/config"
)

// Decoder turns raw file bytes into text. The concrete implementation lives
// in internal/textenc and tries a fixed ordered codec list.
type Decoder interface {
	Decode(raw []byte) (string, error)
}

// Row is one ordered set of scalar values supplying one rendering.
type Row []string

// Table is the ordered, read-only collection of value rows.
type Table struct {
	rows   []Row
	source string
}

// Rows returns the value rows in source order. The returned slice must not
// be mutated.
func (t *Table) Rows() []Row { return t.rows }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Source describes where the table came from, for diagnostics.
func (t *Table) Source() string { return t.source }

// looksLikeFile reports whether input resembles a file reference: it carries
// a path separator or a data-file extension. Such inputs must exist on disk.
func looksLikeFile(input string) bool {
	if strings.ContainsAny(input, `/\`) {
		return true
	}
	for _, ext := range []string{".txt", ".csv", ".dat"} {
		if strings.HasSuffix(input, ext) {
			return true
		}
	}
	return false
}

// Parse dispatches between file and inline mode: an existing file path is
// read as a value file, a path-looking string that does not exist is an
// error, anything else is parsed as a single inline row.
func Parse(input string, dec Decoder, limits config.Limits) (*Table, error) {
	if info, err := os.Stat(input); err == nil && !info.IsDir() {
		return ParseFile(input, dec, limits)
	}
	if looksLikeFile(input) {
		return nil, &FileNotFoundError{Path: input}
	}
	return ParseInline(input, limits)
}

// ParseInline splits the raw string into columns on semicolon, yielding
// exactly one row.
func ParseInline(raw string, limits config.Limits) (*Table, error) {
	row := splitRow(raw, ";")
	if len(row) == 0 {
		return nil, ErrNoValues
	}
	tbl := &Table{rows: []Row{row}, source: "inline"}
	if err := tbl.checkValues(limits); err != nil {
		return nil, err
	}
	return tbl, nil
}

// ParseFile reads and decodes the value file, skips comment and blank lines,
// infers the column delimiter from the first surviving line (TAB, then
// semicolon, else the whole line is a single column), and applies that
// delimiter to every row.
func ParseFile(path string, dec Decoder, limits config.Limits) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("values: read %s: %w", path, err)
	}

	text, err := dec.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("values: decode %s: %w", path, err)
	}
	if strings.ContainsRune(text, '\x00') {
		return nil, fmt.Errorf("values: %s: %w", path, ErrNullByte)
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		lines = append(lines, trimmed)
		if len(lines) > limits.MaxValueRows {
			return nil, &TooManyLinesError{Path: path, Limit: limits.MaxValueRows}
		}
	}
	if len(lines) == 0 {
		return nil, ErrNoValues
	}

	// The first data line fixes the delimiter for the whole file.
	delim := inferDelimiter(lines[0])

	tbl := &Table{source: path}
	for _, line := range lines {
		var row Row
		if delim == "" {
			row = Row{line}
		} else {
			row = splitRow(line, delim)
		}
		if len(row) > 0 {
			tbl.rows = append(tbl.rows, row)
		}
	}
	if len(tbl.rows) == 0 {
		return nil, ErrNoValues
	}
	if err := tbl.checkValues(limits); err != nil {
		return nil, err
	}
	return tbl, nil
}

// inferDelimiter scans a line in fixed priority order: TAB wins over
// semicolon; neither present means single-column rows.
func inferDelimiter(line string) string {
	switch {
	case strings.Contains(line, "\t"):
		return "\t"
	case strings.Contains(line, ";"):
		return ";"
	default:
		return ""
	}
}

func splitRow(line, delim string) Row {
	var row Row
	for _, cell := range strings.Split(line, delim) {
		cell = strings.TrimSpace(cell)
		if cell != "" {
			row = append(row, cell)
		}
	}
	return row
}

func (t *Table) checkValues(limits config.Limits) error {
	for ri, row := range t.rows {
		for ci, value := range row {
			if strings.ContainsRune(value, '\x00') {
				return fmt.Errorf("values: row %d column %d: %w", ri+1, ci+1, ErrNullByte)
			}
			if len(value) > limits.MaxValueBytes {
				return &ValueTooLargeError{
					Row:   ri + 1,
					Col:   ci + 1,
					Size:  len(value),
					Limit: limits.MaxValueBytes,
				}
			}
		}
	}
	return nil
}
