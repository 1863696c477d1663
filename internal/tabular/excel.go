package tabular

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

func readXLSXBytes(b []byte, path string) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("tabular: open xlsx %q: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("tabular: no sheets in %q", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("tabular: read sheet %q of %q: %w", sheets[0], path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("tabular: empty sheet %q of %q", sheets[0], path)
	}

	return &Table{Header: rows[0], Rows: rows[1:]}, nil
}

func writeXLSXFile(t *Table, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	if err := writeSheet(f, sheet, t.Header, t.Rows); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("tabular: save xlsx %q: %w", path, err)
	}
	return nil
}

// WriteSheet fills one sheet of an open workbook with a header row and
// data rows starting at A1.
func WriteSheet(f *excelize.File, sheet string, header []string, rows [][]string) error {
	return writeSheet(f, sheet, header, rows)
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]string) error {
	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("tabular: cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("tabular: set cell: %w", err)
		}
	}
	for i, row := range rows {
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("tabular: cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("tabular: set cell: %w", err)
			}
		}
	}
	return nil
}
