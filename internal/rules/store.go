package rules

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// RuleStoreError reports a rule file that could not be read, parsed or written.
type RuleStoreError struct {
	Op   string
	Path string
	Err  error
}

func (e *RuleStoreError) Error() string {
	return fmt.Sprintf("rules %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *RuleStoreError) Unwrap() error { return e.Err }

// Load reads the rule file at path. A missing file is created with the
// default categories.
func Load(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		r := Default()
		if err := Save(path, r); err != nil {
			return nil, err
		}
		return r, nil
	}
	if err != nil {
		return nil, &RuleStoreError{Op: "load", Path: path, Err: err}
	}
	r, err := Parse(data)
	if err != nil {
		return nil, &RuleStoreError{Op: "load", Path: path, Err: err}
	}
	return r, nil
}

// Parse decodes a JSON object of category -> [pattern], keeping key order.
// Category names must be unique ignoring case.
func Parse(data []byte) (*Rules, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("top level must be an object, got %v", tok)
	}

	r := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode key: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		if existing, dup := r.lookup(name); dup {
			return nil, fmt.Errorf("category %q repeats %q: %w", name, existing, ErrCategoryExists)
		}
		var patterns []string
		if err := dec.Decode(&patterns); err != nil {
			return nil, fmt.Errorf("category %q: patterns must be a list of strings: %w", name, err)
		}
		r.set(name, patterns)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after object")
	}
	return r, nil
}

// Save writes r to path through a temporary file and rename.
func Save(path string, r *Rules) error {
	data, err := r.MarshalJSON()
	if err != nil {
		return &RuleStoreError{Op: "save", Path: path, Err: err}
	}
	if err := writeAtomic(path, data); err != nil {
		return &RuleStoreError{Op: "save", Path: path, Err: err}
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// MarshalJSON renders r in document order with four-space indentation.
func (r *Rules) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if len(r.order) == 0 {
		return []byte("{}\n"), nil
	}
	buf.WriteString("{\n")
	for i, name := range r.order {
		buf.WriteString("    ")
		if err := writeString(&buf, name); err != nil {
			return nil, err
		}
		buf.WriteString(": ")
		pats := r.patterns[name]
		if len(pats) == 0 {
			buf.WriteString("[]")
		} else {
			buf.WriteString("[\n")
			for j, p := range pats {
				buf.WriteString("        ")
				if err := writeString(&buf, p); err != nil {
					return nil, err
				}
				if j < len(pats)-1 {
					buf.WriteByte(',')
				}
				buf.WriteByte('\n')
			}
			buf.WriteString("    ]")
		}
		if i < len(r.order)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1) // Encode appends a newline
	return nil
}
