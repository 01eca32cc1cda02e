package reader

import (
	"fmt"

	"github.com/tealeg/xlsx"
)

// readXLSX decodes the first sheet. Cells are taken as their stored value so
// numbers keep full precision and dates stay as serials or text.
func readXLSX(path string) (*Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, &FileFormatError{Err: fmt.Errorf("opening workbook: %w", err)}
	}
	if len(f.Sheets) == 0 {
		return nil, &FileFormatError{Err: ErrNoHeader}
	}

	sheet := f.Sheets[0]
	raw := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		if row == nil {
			raw = append(raw, nil)
			continue
		}
		cells := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			if c != nil {
				cells[i] = c.Value
			}
		}
		raw = append(raw, cells)
	}

	t, err := newTable(".xlsx", raw)
	if err != nil {
		return nil, err
	}
	t.Serial = true
	t.Date1904 = f.Date1904
	return t, nil
}
