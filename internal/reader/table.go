package reader

import "strings"

// Table is a spreadsheet decoded to strings: one header row and data rows.
type Table struct {
	Ext    string // ".xlsx" or ".csv"
	Header []string
	Rows   []Record

	// Serial dates are allowed when the source stores dates as spreadsheet numbers.
	Serial   bool
	Date1904 bool
}

// Record is one data row. Line is its 1-based position below the header.
type Record struct {
	Line  int
	Cells []string
}

// Get returns the trimmed cell at idx, or "" past the end of the row.
func (r Record) Get(idx int) string {
	if idx < 0 || idx >= len(r.Cells) {
		return ""
	}
	return strings.TrimSpace(r.Cells[idx])
}

// Columns resolves header names to indexes. All names are required; header
// matching is exact after trimming.
func (t *Table) Columns(names ...string) (map[string]int, error) {
	idx := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		h = strings.TrimSpace(h)
		if _, seen := idx[h]; !seen {
			idx[h] = i
		}
	}
	out := make(map[string]int, len(names))
	var missing []string
	for _, n := range names {
		i, ok := idx[n]
		if !ok {
			missing = append(missing, n)
			continue
		}
		out[n] = i
	}
	if len(missing) > 0 {
		return nil, &FileFormatError{Column: strings.Join(missing, ", "), Err: ErrMissingColumn}
	}
	return out, nil
}

// newTable splits raw rows into header and data, skipping blank rows.
func newTable(ext string, raw [][]string) (*Table, error) {
	t := &Table{Ext: ext}
	line := 0
	for _, cells := range raw {
		if t.Header == nil {
			if blank(cells) {
				continue
			}
			t.Header = cells
			continue
		}
		line++
		if blank(cells) {
			continue
		}
		t.Rows = append(t.Rows, Record{Line: line, Cells: cells})
	}
	if t.Header == nil {
		return nil, &FileFormatError{Err: ErrNoHeader}
	}
	if len(t.Header) > 0 {
		t.Header[0] = strings.TrimPrefix(t.Header[0], "\ufeff")
	}
	return t, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
