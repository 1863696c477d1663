// Package tabular reads and writes flat record tables (CSV and XLSX).
package tabular

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Table is an ordered sequence of flat records under a single header row.
type Table struct {
	Header []string
	Rows   [][]string
}

var ole2Magic = []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}

// ColumnIndex returns the position of name in the header, or -1.
// Matching is exact first, then case-insensitive.
func (t *Table) ColumnIndex(name string) int {
	if t == nil {
		return -1
	}
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}

// Cell returns the trimmed value of column col in row, or "" when the row
// is short.
func (t *Table) Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// ReadFile loads a table from path. The codec is chosen by sniffing the
// file content, so a spreadsheet saved with a .csv extension still loads.
func ReadFile(path string) (*Table, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("tabular: empty path")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tabular: read %q: %w", path, err)
	}

	switch detectFormat(b, filepath.Ext(path)) {
	case "xlsx":
		return readXLSXBytes(b, path)
	case "xls":
		return nil, fmt.Errorf("tabular: %q is a legacy .xls file, save it as .xlsx or .csv", path)
	case "csv":
		return readCSVBytes(b, path)
	default:
		return nil, fmt.Errorf("tabular: unsupported file format %q", path)
	}
}

// WriteFile writes a table to path, picking the codec from the extension
// (.xlsx is a spreadsheet, anything else is CSV).
func WriteFile(t *Table, path string) error {
	if t == nil {
		return errors.New("tabular: nil table")
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("tabular: empty path")
	}

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return writeXLSXFile(t, path)
	}
	return writeCSVFile(t, path)
}

// detectFormat sniffs the leading bytes: ZIP magic means a spreadsheet,
// OLE2 magic means a legacy .xls workbook, decodable text means CSV.
func detectFormat(b []byte, ext string) string {
	if len(b) >= 2 && b[0] == 'P' && b[1] == 'K' {
		return "xlsx"
	}
	if len(b) >= 8 && bytes.Equal(b[:8], ole2Magic) {
		return "xls"
	}

	ext = strings.ToLower(strings.TrimSpace(ext))
	switch ext {
	case ".csv", ".txt", "":
		return "csv"
	case ".xlsx", ".xls":
		// Extension says spreadsheet but the content did not: fall back to
		// CSV, mirroring the tolerance for mislabeled files on the read side.
		return "csv"
	default:
		return "csv"
	}
}
