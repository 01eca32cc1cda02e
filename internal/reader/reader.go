// Package reader turns bank export spreadsheets into transactions.
package reader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/darshxm/expense-classifier/internal/database/repository"
)

// DefaultBank is used when no bank is named.
const DefaultBank = "generic"

// Format converts a decoded table into transactions.
type Format interface {
	Parse(t *Table) ([]repository.Transaction, error)
	Name() string
}

// Registry holds named formats.
type Registry struct {
	formats map[string]Format
}

// NewRegistry creates an empty format registry.
func NewRegistry() *Registry {
	return &Registry{formats: make(map[string]Format)}
}

// Register adds a format. Panics on duplicate name.
func (r *Registry) Register(f Format) {
	key := normalizeBank(f.Name())
	if _, ok := r.formats[key]; ok {
		panic("duplicate format: " + key)
	}
	r.formats[key] = f
}

// Get returns the format for bank, or nil. "ABN Amro", "abn-amro" and
// "abnamro" all name the same format.
func (r *Registry) Get(bank string) Format {
	return r.formats[normalizeBank(bank)]
}

// Names lists registered formats.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.formats))
	for k := range r.formats {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DefaultRegistry returns a registry with all built-in formats.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(GenericFormat{})
	r.Register(ABNAmroFormat{})
	r.Register(INGFormat{})
	return r
}

var defaultRegistry = DefaultRegistry()

// Read parses path with the built-in formats.
func Read(path, bank string) ([]repository.Transaction, error) {
	return defaultRegistry.Read(path, bank)
}

// Read parses the file at path using the format registered for bank. OFX
// files carry their own structure and are read regardless of bank.
func (r *Registry) Read(path, bank string) ([]repository.Transaction, error) {
	if strings.TrimSpace(bank) == "" {
		bank = DefaultBank
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	var (
		txs []repository.Transaction
		err error
	)
	switch ext {
	case ".ofx", ".qfx":
		if normalizeBank(bank) == DefaultBank {
			bank = "ofx"
		}
		txs, err = readOFX(path)
	case ".xlsx", ".csv":
		f := r.Get(bank)
		if f == nil {
			return nil, fmt.Errorf("bank %q (known: %s): %w", bank, strings.Join(r.Names(), ", "), ErrUnknownBank)
		}
		var t *Table
		if ext == ".xlsx" {
			t, err = readXLSX(path)
		} else {
			t, err = readCSV(path)
		}
		if err == nil {
			txs, err = f.Parse(t)
		}
		bank = f.Name()
	default:
		return nil, &FileFormatError{Path: path, Value: ext, Err: ErrUnsupportedFile}
	}
	if err != nil {
		var ffe *FileFormatError
		if errors.As(err, &ffe) && ffe.Path == "" {
			ffe.Path = path
		}
		return nil, err
	}

	for i := range txs {
		txs[i].Bank = normalizeBank(bank)
	}
	return txs, nil
}

func normalizeBank(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(name)))
}
