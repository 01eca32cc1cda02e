// Package tui is the interactive terminal front end: review unclassified
// expenses, import bank exports, manage categories and chart weekly trends.
package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/darshxm/expense-classifier/internal/analytics"
	"github.com/darshxm/expense-classifier/internal/config"
	"github.com/darshxm/expense-classifier/internal/database/repository"
	"github.com/darshxm/expense-classifier/internal/reader"
	"github.com/darshxm/expense-classifier/internal/service"
)

// typeFilters are matched against descriptions; the first disables the filter.
var typeFilters = []string{"All", "SEPA iDEAL", "SEPA Overboeking", "PAS", "Tikkie"}

// App ties together views.
type App struct {
	ctx  context.Context
	svc  *service.Services
	cfg  config.Config
	log  *log.Logger
	keys keyMap

	state         appState
	modal         modalState
	width, height int

	// unclassified view
	table        table.Model
	rows         []repository.Transaction
	marked       map[int64]bool
	suggestions  map[int64]string
	filter       int
	total        int
	unclassified int

	// classification
	categories      []string
	catCursor       int
	allFromMerchant bool
	pendingIDs      []int64

	// shared by the new category prompt and the import path
	input textinput.Model

	// import flow
	banks      []string
	bank       int
	lastImport *service.IngestResult

	series   analytics.Series
	zeroFill bool
	expenses bool

	status    string
	statusErr bool
}

type appState string

const (
	viewUnclassified appState = "unclassified"
	viewImport       appState = "import"
	viewAnalytics    appState = "analytics"
)

type modalState string

const (
	modalNone            modalState = ""
	modalCategoryPicker  modalState = "categoryPicker"
	modalConfirmClassify modalState = "confirmClassify"
	modalNewCategory     modalState = "newCategory"
	modalConfirmReset    modalState = "confirmReset"
)

func New(ctx context.Context, cfg config.Config, svc *service.Services, logger *log.Logger) *App {
	if logger == nil {
		logger = log.Default()
	}

	formats := reader.DefaultRegistry()
	if svc.Ingest != nil && svc.Ingest.Formats != nil {
		formats = svc.Ingest.Formats
	}
	banks := formats.Names()
	bank := 0
	for i, b := range banks {
		if strings.EqualFold(b, cfg.Import.DefaultBank) {
			bank = i
		}
	}

	t := table.New(
		table.WithColumns(columns(100)),
		table.WithFocused(true),
		table.WithHeight(15),
		table.WithKeyMap(tableKeys()),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(colorFocus).BorderForeground(colorSurface2)
	styles.Selected = styles.Selected.Bold(true).Foreground(colorAccent)
	t.SetStyles(styles)

	in := textinput.New()
	in.CharLimit = 512
	in.Cursor.SetMode(cursor.CursorStatic)

	return &App{
		ctx:         ctx,
		svc:         svc,
		cfg:         cfg,
		log:         logger,
		keys:        defaultKeys(),
		state:       viewUnclassified,
		table:       t,
		marked:      make(map[int64]bool),
		suggestions: make(map[int64]string),
		input:       in,
		banks:       banks,
		bank:        bank,
		zeroFill:    cfg.Analytics.ZeroFill,
		expenses:    cfg.Analytics.ExpensesOnly,
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadPending(), a.loadCategories())
}

func (a *App) loadPending() tea.Cmd {
	f := repository.Filter{Unclassified: true}
	if a.filter > 0 {
		f.Type = typeFilters[a.filter]
	}
	return func() tea.Msg {
		rows, err := a.svc.Transactions.List(a.ctx, f)
		if err != nil {
			return errMsg{err}
		}
		sugg, err := a.svc.Categorizer.Suggestions(a.ctx, rows)
		if err != nil {
			return errMsg{err}
		}
		total, unclassified, err := a.svc.Transactions.Count(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return pendingMsg{rows: rows, suggestions: sugg, total: total, unclassified: unclassified}
	}
}

func (a *App) loadCategories() tea.Cmd {
	return func() tea.Msg {
		return categoriesMsg(a.svc.Categorizer.Categories())
	}
}

// reloadRules picks up edits made to the rule file outside the app.
func (a *App) reloadRules() tea.Cmd {
	return func() tea.Msg {
		if err := a.svc.Rules.Reload(); err != nil {
			return errMsg{err}
		}
		return categoriesMsg(a.svc.Categorizer.Categories())
	}
}

func (a *App) loadSeries() tea.Cmd {
	opts := service.WeeklyOptions{ZeroFill: a.zeroFill, Expenses: a.expenses}
	return func() tea.Msg {
		s, err := a.svc.Analytics.Weekly(a.ctx, opts)
		if err != nil {
			return errMsg{err}
		}
		return seriesMsg(s)
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.resize()
	case tea.KeyMsg:
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		switch a.state {
		case viewImport:
			return a.handleImportKey(m)
		case viewAnalytics:
			return a.handleAnalyticsKey(m)
		}
		return a.handleUnclassifiedKey(m)
	case pendingMsg:
		a.setRows(m)
	case categoriesMsg:
		a.categories = []string(m)
		if a.catCursor >= len(a.categories) {
			a.catCursor = 0
		}
	case seriesMsg:
		a.series = analytics.Series(m)
	case classifiedMsg:
		a.marked = make(map[int64]bool)
		s := fmt.Sprintf("classified %d as %s", m.Result.Updated, m.Category)
		if m.Result.MerchantMatches > 0 {
			s += fmt.Sprintf(", %d more from %s", m.Result.MerchantMatches, strings.Join(m.Result.Merchants, ", "))
		}
		if n := len(m.Result.PatternsAdded); n > 0 {
			s += fmt.Sprintf(" (%d rule(s) added)", n)
		}
		a.setStatus(s)
		return a, a.loadPending()
	case classifyAllMsg:
		a.setStatus(fmt.Sprintf("classified %d of %d unclassified", m.Classified, m.Examined))
		return a, a.loadPending()
	case categoryAddedMsg:
		if len(m.Similar) > 0 {
			a.setStatus(fmt.Sprintf("added %s; similar categories exist: %s", m.Name, strings.Join(m.Similar, ", ")))
		} else {
			a.setStatus("added category " + m.Name)
		}
		return a, a.loadCategories()
	case importDoneMsg:
		res := service.IngestResult(m)
		a.lastImport = &res
		a.setStatus(fmt.Sprintf("%s: %d rows, %d imported, %d duplicates skipped, %d classified",
			res.FileName, res.Total, res.Inserted, res.Skipped, res.Classified))
		a.state = viewUnclassified
		a.input.Blur()
		return a, a.loadPending()
	case resetDoneMsg:
		a.marked = make(map[int64]bool)
		a.lastImport = nil
		a.setStatus("database reset; rules kept")
		return a, a.loadPending()
	case statusMsg:
		a.setStatus(string(m))
	case errMsg:
		a.log.Error("tui", "err", m.error)
		a.status = "error: " + m.Error()
		a.statusErr = true
	}
	return a, nil
}

func (a *App) handleUnclassifiedKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(m, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(m, a.keys.Mark):
		a.toggleMark()
	case key.Matches(m, a.keys.Filter):
		a.filter = (a.filter + 1) % len(typeFilters)
		a.marked = make(map[int64]bool)
		return a, a.loadPending()
	case key.Matches(m, a.keys.Classify):
		a.openPicker()
	case key.Matches(m, a.keys.Merchant):
		a.allFromMerchant = !a.allFromMerchant
	case key.Matches(m, a.keys.AddCat):
		a.modal = modalNewCategory
		a.input.Reset()
		a.input.Placeholder = "category name"
		return a, a.input.Focus()
	case key.Matches(m, a.keys.AutoAll):
		a.setStatus("classifying...")
		return a, a.classifyAllCmd()
	case key.Matches(m, a.keys.Import):
		a.state = viewImport
		a.input.Reset()
		a.input.Placeholder = "path to .xlsx, .csv or .ofx"
		a.status = ""
		return a, a.input.Focus()
	case key.Matches(m, a.keys.Analytics):
		a.state = viewAnalytics
		a.status = ""
		return a, a.loadSeries()
	case key.Matches(m, a.keys.Reload):
		return a, tea.Batch(a.loadPending(), a.reloadRules())
	case key.Matches(m, a.keys.Reset):
		a.modal = modalConfirmReset
	default:
		var cmd tea.Cmd
		a.table, cmd = a.table.Update(m)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleImportKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.Type == tea.KeyCtrlC:
		return a, tea.Quit
	case key.Matches(m, a.keys.Back):
		a.state = viewUnclassified
		a.input.Blur()
		a.status = ""
		return a, nil
	case key.Matches(m, a.keys.NextBank):
		if len(a.banks) > 0 {
			a.bank = (a.bank + 1) % len(a.banks)
		}
		return a, nil
	case m.Type == tea.KeyEnter:
		path := strings.TrimSpace(a.input.Value())
		if path == "" {
			a.setStatus("enter a file path")
			return a, nil
		}
		a.setStatus("importing...")
		return a, a.importCmd(path, a.currentBank())
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(m)
	return a, cmd
}

func (a *App) handleAnalyticsKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(m, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(m, a.keys.Back):
		a.state = viewUnclassified
		return a, a.loadPending()
	case key.Matches(m, a.keys.ZeroFill):
		a.zeroFill = !a.zeroFill
		return a, a.loadSeries()
	case key.Matches(m, a.keys.Expenses):
		a.expenses = !a.expenses
		return a, a.loadSeries()
	case key.Matches(m, a.keys.Reload):
		return a, a.loadSeries()
	}
	return a, nil
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Type == tea.KeyCtrlC {
		return a, tea.Quit
	}
	switch a.modal {
	case modalCategoryPicker:
		switch {
		case key.Matches(m, a.keys.Cancel):
			a.modal = modalNone
		case key.Matches(m, a.keys.Up):
			if a.catCursor > 0 {
				a.catCursor--
			}
		case key.Matches(m, a.keys.Down):
			if a.catCursor < len(a.categories)-1 {
				a.catCursor++
			}
		case key.Matches(m, a.keys.Merchant):
			a.allFromMerchant = !a.allFromMerchant
		case key.Matches(m, a.keys.Confirm):
			a.modal = modalConfirmClassify
		}
	case modalConfirmClassify:
		switch {
		case key.Matches(m, a.keys.Confirm):
			a.modal = modalNone
			category := a.categories[a.catCursor]
			return a, a.classifyCmd(a.pendingIDs, category, a.allFromMerchant)
		case key.Matches(m, a.keys.Deny), key.Matches(m, a.keys.Cancel):
			a.modal = modalCategoryPicker
		}
	case modalNewCategory:
		switch m.Type {
		case tea.KeyEsc:
			a.modal = modalNone
			a.input.Blur()
		case tea.KeyEnter:
			name := strings.TrimSpace(a.input.Value())
			if name == "" {
				a.setStatus("enter a category name")
				return a, nil
			}
			a.modal = modalNone
			a.input.Blur()
			return a, a.addCategoryCmd(name)
		default:
			var cmd tea.Cmd
			a.input, cmd = a.input.Update(m)
			return a, cmd
		}
	case modalConfirmReset:
		switch {
		case key.Matches(m, a.keys.Confirm):
			a.modal = modalNone
			return a, a.resetCmd()
		case key.Matches(m, a.keys.Deny), key.Matches(m, a.keys.Cancel):
			a.modal = modalNone
		}
	}
	return a, nil
}

func (a *App) setStatus(s string) {
	a.status = s
	a.statusErr = false
}

func (a *App) currentBank() string {
	if len(a.banks) == 0 {
		return reader.DefaultBank
	}
	return a.banks[a.bank]
}

// selectedIDs returns the marked rows, or the row under the cursor when
// nothing is marked.
func (a *App) selectedIDs() []int64 {
	var ids []int64
	for _, t := range a.rows {
		if a.marked[t.ID] {
			ids = append(ids, t.ID)
		}
	}
	if len(ids) == 0 {
		if t, ok := a.cursorRow(); ok {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

func (a *App) cursorRow() (repository.Transaction, bool) {
	i := a.table.Cursor()
	if i < 0 || i >= len(a.rows) {
		return repository.Transaction{}, false
	}
	return a.rows[i], true
}

func (a *App) toggleMark() {
	t, ok := a.cursorRow()
	if !ok {
		return
	}
	if a.marked[t.ID] {
		delete(a.marked, t.ID)
	} else {
		a.marked[t.ID] = true
	}
	a.table.SetRows(a.tableRows())
}

func (a *App) openPicker() {
	ids := a.selectedIDs()
	if len(ids) == 0 {
		a.setStatus("select one or more expenses to classify")
		return
	}
	if len(a.categories) == 0 {
		a.setStatus("no categories; press n to add one")
		return
	}
	a.pendingIDs = ids
	if s, ok := a.suggestions[ids[0]]; ok {
		for i, c := range a.categories {
			if c == s {
				a.catCursor = i
			}
		}
	}
	a.modal = modalCategoryPicker
}

func (a *App) setRows(m pendingMsg) {
	a.rows = m.rows
	a.suggestions = m.suggestions
	if a.suggestions == nil {
		a.suggestions = make(map[int64]string)
	}
	a.total, a.unclassified = m.total, m.unclassified

	present := make(map[int64]bool, len(a.rows))
	for _, t := range a.rows {
		present[t.ID] = true
	}
	for id := range a.marked {
		if !present[id] {
			delete(a.marked, id)
		}
	}

	a.table.SetRows(a.tableRows())
	switch c := a.table.Cursor(); {
	case len(a.rows) == 0:
	case c < 0:
		a.table.SetCursor(0)
	case c >= len(a.rows):
		a.table.SetCursor(len(a.rows) - 1)
	}
}

func (a *App) resize() {
	w := a.width - 2
	if w < 40 {
		w = 40
	}
	a.table.SetColumns(columns(w))
	a.table.SetWidth(w)
	h := a.height - 9
	if h < 5 {
		h = 5
	}
	a.table.SetHeight(h)
}

// commands
func (a *App) classifyCmd(ids []int64, category string, allFromMerchant bool) tea.Cmd {
	ids = append([]int64(nil), ids...)
	return func() tea.Msg {
		res, err := a.svc.Categorizer.ClassifySelected(a.ctx, ids, category, allFromMerchant)
		if err != nil {
			return errMsg{err}
		}
		return classifiedMsg{Category: category, Result: res}
	}
}

func (a *App) classifyAllCmd() tea.Cmd {
	return func() tea.Msg {
		res, err := a.svc.Categorizer.ClassifyAll(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return classifyAllMsg(res)
	}
}

func (a *App) addCategoryCmd(name string) tea.Cmd {
	return func() tea.Msg {
		res, err := a.svc.Categorizer.AddCategory(name)
		if err != nil {
			return errMsg{err}
		}
		return categoryAddedMsg(res)
	}
}

func (a *App) importCmd(path, bank string) tea.Cmd {
	abs := path
	if !filepath.IsAbs(path) {
		if p, err := filepath.Abs(path); err == nil {
			abs = p
		}
	}
	return func() tea.Msg {
		res, err := a.svc.Ingest.ImportFile(a.ctx, abs, bank)
		if err != nil {
			return errMsg{fmt.Errorf("import %s: %w", filepath.Base(abs), err)}
		}
		return importDoneMsg(res)
	}
}

func (a *App) resetCmd() tea.Cmd {
	return func() tea.Msg {
		if a.svc.Maintenance == nil {
			return errMsg{errors.New("maintenance not configured")}
		}
		if err := a.svc.Maintenance.Reset(a.ctx); err != nil {
			return errMsg{err}
		}
		return resetDoneMsg{}
	}
}

// messages
type pendingMsg struct {
	rows         []repository.Transaction
	suggestions  map[int64]string
	total        int
	unclassified int
}

type categoriesMsg []string

type seriesMsg analytics.Series

type classifiedMsg struct {
	Category string
	Result   service.SelectionResult
}

type classifyAllMsg service.ClassifyResult

type categoryAddedMsg service.AddCategoryResult

type importDoneMsg service.IngestResult

type resetDoneMsg struct{}

type statusMsg string

type errMsg struct{ error }
