package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darshxm/expense-classifier/internal/analytics"
	"github.com/darshxm/expense-classifier/internal/config"
	"github.com/darshxm/expense-classifier/internal/database"
	"github.com/darshxm/expense-classifier/internal/logging"
	"github.com/darshxm/expense-classifier/internal/rules"
	"github.com/darshxm/expense-classifier/internal/service"
)

const exportCSV = `transactiondate,amount,description
2024-01-02,-30.00,SEPA Incasso Naam: Vodafone Libertel Machtiging: 1
2024-01-03,-12.50,SEPA iDEAL Naam: Bol.com Omschrijving: order 1
2024-01-09,-30.00,SEPA Incasso Naam: Vodafone Libertel Machtiging: 2
2024-01-10,-4.10,"BEA Betaalpas Kiosk Centraal,PAS041"
`

type harness struct {
	app  *App
	svc  *service.Services
	dir  string
	file string
}

func newHarness(t *testing.T) harness {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	dir := t.TempDir()
	db, err := database.Setup(ctx, filepath.Join(dir, "expenses.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	book, err := service.LoadRuleBook(filepath.Join(dir, "rules.json"))
	require.NoError(t, err)
	svc := service.New(db, book, logging.Discard())

	file := filepath.Join(dir, "export.csv")
	require.NoError(t, os.WriteFile(file, []byte(exportCSV), 0o644))

	app := New(ctx, config.Default(), svc, logging.Discard())
	drain(t, app, app.Init())
	return harness{app: app, svc: svc, dir: dir, file: file}
}

// drain runs cmd and feeds every resulting message back into the app until
// nothing is left to do.
func drain(t *testing.T, a *App, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 100, "command loop did not settle")
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			_, next := a.Update(msg)
			queue = append(queue, next)
		}
	}
}

func press(t *testing.T, a *App, keys ...string) {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd := a.Update(msg)
		drain(t, a, cmd)
	}
}

func typeText(t *testing.T, a *App, s string) {
	t.Helper()
	for _, r := range s {
		_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		drain(t, a, cmd)
	}
}

func (h harness) importExport(t *testing.T) {
	t.Helper()
	press(t, h.app, "i")
	typeText(t, h.app, h.file)
	press(t, h.app, "enter")
}

func TestImportFromView(t *testing.T) {
	h := newHarness(t)
	assert.Empty(t, h.app.rows)

	press(t, h.app, "i")
	assert.Equal(t, viewImport, h.app.state)
	typeText(t, h.app, h.file)
	press(t, h.app, "tab")
	assert.Equal(t, "ing", h.app.currentBank(), "banks cycle in name order from generic")
	press(t, h.app, "tab", "tab")
	require.Equal(t, "generic", h.app.currentBank())
	press(t, h.app, "enter")

	assert.Equal(t, viewUnclassified, h.app.state)
	require.NotNil(t, h.app.lastImport)
	assert.Equal(t, 4, h.app.lastImport.Inserted)
	assert.Len(t, h.app.rows, 4)
	assert.Contains(t, h.app.status, "4 imported")
	assert.False(t, h.app.statusErr)

	h.importExport(t)
	assert.Equal(t, 4, h.app.lastImport.Skipped)
	assert.Contains(t, h.app.status, "4 duplicates skipped")
}

func TestImportErrorShowsInStatus(t *testing.T) {
	h := newHarness(t)
	press(t, h.app, "i")
	typeText(t, h.app, filepath.Join(h.dir, "missing.xlsx"))
	press(t, h.app, "enter")

	assert.True(t, h.app.statusErr)
	assert.True(t, strings.HasPrefix(h.app.status, "error: import missing.xlsx"))
	assert.Equal(t, viewImport, h.app.state)
	assert.Contains(t, h.app.View(), "error: import missing.xlsx")
}

func TestTypeFilterCycles(t *testing.T) {
	h := newHarness(t)
	h.importExport(t)

	press(t, h.app, "f")
	assert.Equal(t, "SEPA iDEAL", typeFilters[h.app.filter])
	require.Len(t, h.app.rows, 1)
	assert.Contains(t, h.app.rows[0].Description, "Bol.com")

	press(t, h.app, "f", "f")
	assert.Equal(t, "PAS", typeFilters[h.app.filter])
	require.Len(t, h.app.rows, 1)

	press(t, h.app, "f", "f")
	assert.Equal(t, "All", typeFilters[h.app.filter])
	assert.Len(t, h.app.rows, 4)
}

func TestClassifyMarkedAllFromMerchant(t *testing.T) {
	h := newHarness(t)
	h.importExport(t)
	require.Len(t, h.app.rows, 4)

	press(t, h.app, " ")
	assert.Len(t, h.app.marked, 1)
	press(t, h.app, "m", "c")
	require.Equal(t, modalCategoryPicker, h.app.modal)

	target := indexOf(h.app.categories, "Utilities")
	require.GreaterOrEqual(t, target, 0)
	for h.app.catCursor < target {
		press(t, h.app, "down")
	}
	press(t, h.app, "enter")
	require.Equal(t, modalConfirmClassify, h.app.modal)
	assert.Contains(t, h.app.View(), "as 'Utilities'")
	press(t, h.app, "y")

	assert.Equal(t, modalNone, h.app.modal)
	assert.Empty(t, h.app.marked)
	assert.Len(t, h.app.rows, 2, "both Vodafone debits are classified")
	assert.Contains(t, h.app.status, "classified 1 as Utilities, 1 more from vodafone libertel")
	assert.Equal(t, []string{"vodafone libertel"}, h.svc.Rules.Rules().Patterns("Utilities"))
}

func TestConfirmCanBeDeclined(t *testing.T) {
	h := newHarness(t)
	h.importExport(t)

	press(t, h.app, "c", "enter", "n")
	assert.Equal(t, modalCategoryPicker, h.app.modal)
	press(t, h.app, "esc")
	assert.Equal(t, modalNone, h.app.modal)
	assert.Len(t, h.app.rows, 4)
}

func TestClassifyAllKey(t *testing.T) {
	h := newHarness(t)
	h.importExport(t)
	require.NoError(t, h.svc.Rules.Update(func(r *rules.Rules) error {
		_, err := r.AddPattern("Miscellaneous", "kiosk")
		return err
	}))

	press(t, h.app, "g")
	assert.Equal(t, "classified 1 of 4 unclassified", h.app.status)
	assert.Len(t, h.app.rows, 3)
}

func TestNewCategoryWarnsOnSimilarName(t *testing.T) {
	h := newHarness(t)

	press(t, h.app, "n")
	require.Equal(t, modalNewCategory, h.app.modal)
	typeText(t, h.app, "Grocerys")
	press(t, h.app, "enter")

	assert.Equal(t, modalNone, h.app.modal)
	assert.Contains(t, h.app.categories, "Grocerys")
	assert.Equal(t, "added Grocerys; similar categories exist: Groceries", h.app.status)

	press(t, h.app, "n")
	typeText(t, h.app, "groceries")
	press(t, h.app, "enter")
	assert.True(t, h.app.statusErr)
	assert.Contains(t, h.app.status, "already exists")
}

func TestReloadPicksUpRuleFileEdits(t *testing.T) {
	h := newHarness(t)
	assert.NotContains(t, h.app.categories, "Subscriptions")

	edited := rules.New("Groceries", "Subscriptions")
	require.NoError(t, rules.Save(h.svc.Rules.Path, edited))
	press(t, h.app, "r")

	assert.Equal(t, []string{"Groceries", "Subscriptions"}, h.app.categories)
	assert.Equal(t, []string{"Groceries", "Subscriptions"}, h.svc.Categorizer.Categories())
}

func TestReloadReportsBrokenRuleFile(t *testing.T) {
	h := newHarness(t)
	before := h.app.categories
	require.NoError(t, os.WriteFile(h.svc.Rules.Path, []byte(`{"Food": [], "food": []}`), 0o644))

	press(t, h.app, "r")
	assert.True(t, h.app.statusErr)
	assert.Equal(t, before, h.app.categories)
}

func TestAnalyticsView(t *testing.T) {
	h := newHarness(t)
	h.importExport(t)
	press(t, h.app, " ", "c")
	press(t, h.app, "enter", "y")

	_, _ = h.app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	press(t, h.app, "a")
	assert.Equal(t, viewAnalytics, h.app.state)
	require.False(t, h.app.series.Empty())
	assert.Contains(t, h.app.View(), h.app.series.Categories[0])

	zf := h.app.zeroFill
	press(t, h.app, "z")
	assert.Equal(t, !zf, h.app.zeroFill)
	press(t, h.app, "esc")
	assert.Equal(t, viewUnclassified, h.app.state)
}

func TestResetNeedsConfirmation(t *testing.T) {
	h := newHarness(t)
	h.importExport(t)

	press(t, h.app, "X", "n")
	assert.Len(t, h.app.rows, 4)

	press(t, h.app, "X", "y")
	assert.Empty(t, h.app.rows)
	assert.Equal(t, 0, h.app.total)
	assert.Equal(t, "database reset; rules kept", h.app.status)
}

func TestQuit(t *testing.T) {
	h := newHarness(t)
	_, cmd := h.app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestRenderTrendEmpty(t *testing.T) {
	assert.Contains(t, renderTrend(analytics.Series{}, 80, 20), "No classified expenses")
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
