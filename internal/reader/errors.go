package reader

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingColumn   = errors.New("missing required column")
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrUnknownBank     = errors.New("unknown bank format")
	ErrBadDate         = errors.New("invalid date")
	ErrBadAmount       = errors.New("invalid amount")
	ErrNoHeader        = errors.New("no header row")
)

// FileFormatError reports a file that does not have the expected shape or a
// cell that cannot be coerced. Row is the 1-based data row, 0 when the error
// is not tied to a row.
type FileFormatError struct {
	Path   string
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *FileFormatError) Error() string {
	var b strings.Builder
	b.WriteString("file format")
	if e.Path != "" {
		fmt.Fprintf(&b, " %s", e.Path)
	}
	if e.Row > 0 {
		fmt.Fprintf(&b, ": row %d", e.Row)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, ": column %q", e.Column)
	}
	if e.Value != "" {
		fmt.Fprintf(&b, ": value %q", e.Value)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *FileFormatError) Unwrap() error { return e.Err }
