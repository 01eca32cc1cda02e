package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darshxm/expense-classifier/internal/config"
)

const exportCSV = `transactiondate,amount,description
2024-01-02,-23.40,BEA Betaalpas Albert Heijn 1021 AMSTERDAM
2024-01-05,-61.15,BEA Betaalpas Shell Station A10
2024-01-09,-18.75,BEA Betaalpas Albert Heijn 1021 AMSTERDAM
`

type cli struct {
	t   *testing.T
	dir string
}

func newCLI(t *testing.T) cli {
	t.Helper()
	color.NoColor = true
	dir := t.TempDir()
	t.Setenv("EXPENSES_CONFIG", filepath.Join(dir, "missing.toml"))
	return cli{t: t, dir: dir}
}

func (c cli) path(elem ...string) string { return filepath.Join(append([]string{c.dir}, elem...)...) }

// run executes the CLI in-process against the temp database and rule file.
func (c cli) run(stdin string, args ...string) (string, string, error) {
	c.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args,
		"--db", c.path("expenses.db"),
		"--rules", c.path("rules.json"),
		"--log-level", "error",
	))
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func (c cli) mustRun(args ...string) string {
	c.t.Helper()
	stdout, stderr, err := c.run("", args...)
	require.NoError(c.t, err, stderr)
	return stdout
}

func (c cli) writeExport() string {
	c.t.Helper()
	p := c.path("export.csv")
	require.NoError(c.t, os.WriteFile(p, []byte(exportCSV), 0o644))
	return p
}

func TestImportClassifyFlow(t *testing.T) {
	c := newCLI(t)
	file := c.writeExport()

	out := c.mustRun("categories", "add-pattern", "Groceries", "Albert Heijn")
	assert.Contains(t, out, `added pattern "albert heijn" to Groceries`)

	out = c.mustRun("import", file)
	assert.Contains(t, out, "export.csv (generic): 3 rows, 3 imported, 0 duplicates skipped, 2 classified")

	out = c.mustRun("import", file)
	assert.Contains(t, out, "3 rows, 0 imported, 3 duplicates skipped")

	out = c.mustRun("list", "--unclassified")
	assert.Contains(t, out, "Shell Station")
	assert.NotContains(t, out, "Albert Heijn")
	assert.Contains(t, out, "-€61.15")
	assert.Contains(t, out, "1 expense(s)")

	c.mustRun("categories", "add-pattern", "Transport", "shell")
	out = c.mustRun("classify")
	assert.Contains(t, out, "classified 1 of 1 unclassified")
	assert.Contains(t, out, "Transport")

	out = c.mustRun("list", "--category", "Groceries")
	assert.Equal(t, 2, strings.Count(out, "Albert Heijn"))

	out = c.mustRun("imports")
	assert.Equal(t, 2, strings.Count(out, "export.csv"))
}

func TestAnalyticsTable(t *testing.T) {
	c := newCLI(t)
	file := c.writeExport()
	c.mustRun("categories", "add-pattern", "Groceries", "albert heijn")
	c.mustRun("import", file)

	out := c.mustRun("analytics", "--expenses")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Groceries")
	assert.Contains(t, lines[1], "2024-01-01")
	assert.Contains(t, lines[1], "€23.40")
	assert.Contains(t, lines[2], "2024-01-08")
	assert.Contains(t, lines[2], "€18.75")
	assert.Contains(t, lines[3], "€42.15")

	out = c.mustRun("analytics", "--raw")
	assert.Contains(t, out, "2024-01-01  Groceries")
	assert.Contains(t, out, "-€23.40")
}

func TestAnalyticsEmpty(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun("analytics")
	assert.Contains(t, out, "no classified expenses yet")
}

func TestCategoriesAddWarnsOnSimilarName(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("categories", "add", "Grocerys")
	assert.Contains(t, out, "added category Grocerys")
	assert.Contains(t, out, "similar categories exist: Groceries")

	_, _, err := c.run("", "categories", "add", "groceries")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	out = c.mustRun("categories")
	assert.Contains(t, out, "Grocerys")
	assert.Contains(t, out, "11 categories")

	out = c.mustRun("categories", "remove", "Grocerys")
	assert.Contains(t, out, "removed category Grocerys")
	out = c.mustRun("categories", "list")
	assert.NotContains(t, out, "Grocerys")

	_, _, err = c.run("", "categories", "remove", "Grocerys")
	require.Error(t, err)
}

func TestAddPatternToUnknownCategory(t *testing.T) {
	c := newCLI(t)
	_, _, err := c.run("", "categories", "add-pattern", "Nope", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
}

func TestImportUnknownBank(t *testing.T) {
	c := newCLI(t)
	file := c.writeExport()

	_, stderr, err := c.run("", "import", file, "--bank", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 file(s) failed")
	assert.Contains(t, stderr, "unknown bank format")
}

func TestResetAsksFirst(t *testing.T) {
	c := newCLI(t)
	c.mustRun("import", c.writeExport())

	out, _, err := c.run("n\n", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "aborted")
	assert.Contains(t, c.mustRun("list"), "3 expense(s)")

	out, _, err = c.run("y\n", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "database reset; rules kept")
	assert.Contains(t, c.mustRun("list"), "0 expense(s)")

	c.mustRun("reset", "--yes")
}

func TestSeedWritesAndImports(t *testing.T) {
	c := newCLI(t)
	file := c.path("sample.xlsx")

	out := c.mustRun("seed", "--out", file, "--rows", "25", "--seed", "7", "--import")
	assert.Contains(t, out, "wrote 25 expenses to "+file)
	assert.Contains(t, out, "sample.xlsx (abnamro): 25 rows")

	_, err := os.Stat(file)
	require.NoError(t, err)
	assert.Contains(t, c.mustRun("imports"), "sample.xlsx")
}

func TestSeedRejectsNonPositiveRows(t *testing.T) {
	c := newCLI(t)
	_, _, err := c.run("", "seed", "--rows", "0", "--out", c.path("x.xlsx"))
	require.Error(t, err)
}

func TestListRejectsBadDate(t *testing.T) {
	c := newCLI(t)
	_, _, err := c.run("", "list", "--from", "01/02/2024")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

func TestConfigInit(t *testing.T) {
	c := newCLI(t)
	path := c.path("conf", "config.toml")

	out := c.mustRun("config", "init", "--config", path)
	assert.Contains(t, out, "wrote "+path)

	t.Setenv("EXPENSES_CONFIG", path)
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, c.path("expenses.db"), cfg.Database.Path)
	assert.Equal(t, c.path("rules.json"), cfg.Rules.Path)
	assert.Equal(t, "error", cfg.Log.Level)

	_, _, err = c.run("", "config", "init", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	c.mustRun("config", "init", "--config", path, "--force")
}

func TestVersion(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun("--version")
	assert.Contains(t, out, "dev (commit: none, built: unknown)")
}
