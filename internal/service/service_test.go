package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/darshxm/expense-classifier/internal/database"
	"github.com/darshxm/expense-classifier/internal/logging"
)

type fixture struct {
	ctx  context.Context
	svc  *Services
	dir  string
	book *RuleBook
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	dir := t.TempDir()
	db, err := database.Setup(ctx, filepath.Join(dir, "expenses.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	book, err := LoadRuleBook(filepath.Join(dir, "classification_rules.json"))
	require.NoError(t, err)

	return fixture{ctx: ctx, svc: New(db, book, logging.Discard()), dir: dir, book: book}
}

// writeCSV writes a generic-format file with one row per description.
func (f fixture) writeCSV(t *testing.T, name string, rows ...string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("transactiondate,amount,description\n")
	for _, r := range rows {
		b.WriteString(r)
		b.WriteByte('\n')
	}
	path := filepath.Join(f.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func rowsFor(start int, n int) []string {
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, fmt.Sprintf("2024-01-%02d,-%d.50,Shop %d", start+i, start+i, start+i))
	}
	return out
}

func writeFile(path, data string) error {
	return os.WriteFile(path, []byte(data), 0o644)
}
