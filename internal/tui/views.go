package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/darshxm/expense-classifier/internal/analytics"
	"github.com/darshxm/expense-classifier/internal/classifier"
)

func (a *App) View() string {
	var body string
	switch a.state {
	case viewImport:
		body = a.renderImport()
	case viewAnalytics:
		body = a.renderAnalytics()
	default:
		body = a.renderUnclassified()
	}
	if a.modal != modalNone {
		body += "\n\n" + a.renderModal()
	}
	return a.renderTabs() + "\n\n" + body + "\n" + a.renderStatus()
}

func (a *App) renderTabs() string {
	tabs := []struct {
		state appState
		label string
	}{
		{viewUnclassified, "Unclassified"},
		{viewImport, "Import"},
		{viewAnalytics, "Analytics"},
	}
	out := titleStyle.Render("Expense Classifier") + " "
	for _, t := range tabs {
		if t.state == a.state {
			out += activeTab.Render(t.label)
		} else {
			out += tabStyle.Render(t.label)
		}
	}
	return out
}

func (a *App) renderStatus() string {
	if a.status == "" {
		return ""
	}
	if a.statusErr {
		return errorStyle.Render(a.status)
	}
	return infoStyle.Render(a.status)
}

func (a *App) renderUnclassified() string {
	out := fmt.Sprintf("%s  %s\n", titleStyle.Render("Unclassified expenses"),
		mutedStyle.Render(fmt.Sprintf("%d of %d unclassified, %d marked", a.unclassified, a.total, len(a.marked))))
	out += fmt.Sprintf("Filter: %s   %s\n", warnStyle.Render(typeFilters[a.filter]), checkbox(a.allFromMerchant, "classify all expenses from this business"))
	if len(a.rows) == 0 {
		out += "\n" + mutedStyle.Render("Nothing to classify. Press i to import a bank export.") + "\n"
	} else {
		out += a.table.View() + "\n"
	}
	out += helpLine(a.keys.Mark, a.keys.Classify, a.keys.Merchant, a.keys.Filter, a.keys.AddCat,
		a.keys.AutoAll, a.keys.Import, a.keys.Analytics, a.keys.Reset, a.keys.Quit)
	return out
}

func (a *App) renderImport() string {
	out := titleStyle.Render("Import bank export") + "\n"
	out += "File " + a.input.View() + "\n"

	var banks []string
	for i, b := range a.banks {
		if i == a.bank {
			banks = append(banks, activeTab.Render(b))
		} else {
			banks = append(banks, tabStyle.Render(b))
		}
	}
	out += "Bank " + strings.Join(banks, "") + "\n"
	out += mutedStyle.Render("OFX/QFX files are read the same way whichever bank is selected.") + "\n"

	if r := a.lastImport; r != nil {
		out += fmt.Sprintf("\nLast import: %s (%s)\n", r.FileName, r.Bank)
		out += fmt.Sprintf("  Total rows processed: %d\n  Successfully imported: %s\n  Duplicates skipped:   %d\n  Classified by rules:  %d\n",
			r.Total, successStyle.Render(fmt.Sprint(r.Inserted)), r.Skipped, r.Classified)
	}
	out += "\n" + helpLine(hint("enter", "import"), a.keys.NextBank, a.keys.Back)
	return out
}

func (a *App) renderAnalytics() string {
	out := titleStyle.Render("Weekly spending by category") + "\n"
	mode := "net amounts"
	if a.expenses {
		mode = "spending only"
	}
	out += mutedStyle.Render(fmt.Sprintf("%s, %d weeks", mode, len(a.series.Weeks))) + "   " +
		checkbox(a.zeroFill, "zero-fill empty weeks") + "\n\n"

	w, h := a.width-2, a.height-10
	out += renderTrend(a.series, w, h) + "\n"
	if !a.series.Empty() {
		out += renderLegend(a.series, a.cfg.UI.CurrencySymbol) + "\n"
	}
	out += "\n" + helpLine(a.keys.ZeroFill, a.keys.Expenses, a.keys.Reload, a.keys.Back, a.keys.Quit)
	return out
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalCategoryPicker:
		out := titleStyle.Render(fmt.Sprintf("Classify %d expense(s)", len(a.pendingIDs))) + "\n"
		suggested := ""
		if len(a.pendingIDs) > 0 {
			suggested = a.suggestions[a.pendingIDs[0]]
		}
		for i, c := range a.categories {
			marker := "  "
			label := c
			if i == a.catCursor {
				marker = cursorStyle.Render("▶ ")
				label = cursorStyle.Render(c)
			}
			if c == suggested {
				label += " " + mutedStyle.Render("(suggested)")
			}
			out += marker + label + "\n"
		}
		out += checkbox(a.allFromMerchant, "classify all expenses from this business") + "\n"
		out += helpLine(a.keys.Up, a.keys.Down, a.keys.Merchant, hint("enter", "select"), a.keys.Cancel)
		return modalStyle.Render(out)
	case modalConfirmClassify:
		category := ""
		if a.catCursor < len(a.categories) {
			category = a.categories[a.catCursor]
		}
		out := titleStyle.Render("Confirm classification") + "\n"
		out += fmt.Sprintf("Are you sure you want to classify %d expense(s) as '%s'?", len(a.pendingIDs), category)
		if a.allFromMerchant {
			out += "\n" + warnStyle.Render("All expenses from the selected businesses will be classified too, and they become rules.")
		}
		out += "\n" + helpLine(hint("y", "yes"), hint("n", "no"))
		return modalStyle.Render(out)
	case modalNewCategory:
		out := titleStyle.Render("New category") + "\n" + a.input.View() + "\n"
		out += helpLine(hint("enter", "save"), a.keys.Cancel)
		return modalStyle.Render(out)
	case modalConfirmReset:
		out := titleStyle.Render("Reset database?") + "\n"
		out += "This deletes every expense and the import history. Classification rules are kept.\n"
		out += helpLine(hint("y", "yes"), hint("n", "no"))
		return modalStyle.Render(out)
	}
	return ""
}

func (a *App) tableRows() []table.Row {
	rows := make([]table.Row, 0, len(a.rows))
	for _, t := range a.rows {
		mark := " "
		if a.marked[t.ID] {
			mark = "*"
		}
		kind := t.TransactionType
		if kind == "" || kind == classifier.TypeUnknown {
			kind = classifier.TransactionType(t.Description)
		}
		rows = append(rows, table.Row{
			mark,
			t.Date.Format(a.dateFormat()),
			formatAmount(t.Amount, a.cfg.UI.CurrencySymbol),
			t.Description,
			kind,
			a.suggestions[t.ID],
		})
	}
	return rows
}

func (a *App) dateFormat() string {
	if a.cfg.UI.DateFormat == "" {
		return "2006-01-02"
	}
	return a.cfg.UI.DateFormat
}

func columns(width int) []table.Column {
	const fixed = 1 + 10 + 12 + 16 + 14
	desc := width - fixed - 12 // cell padding
	if desc < 20 {
		desc = 20
	}
	return []table.Column{
		{Title: " ", Width: 1},
		{Title: "Date", Width: 10},
		{Title: "Amount", Width: 12},
		{Title: "Description", Width: desc},
		{Title: "Type", Width: 16},
		{Title: "Suggestion", Width: 14},
	}
}

func checkbox(on bool, label string) string {
	box := "[ ]"
	if on {
		box = markStyle.Render("[x]")
	}
	return box + " " + label
}

func formatAmount(d decimal.Decimal, symbol string) string {
	if d.IsNegative() {
		return "-" + symbol + d.Neg().StringFixed(2)
	}
	return symbol + d.StringFixed(2)
}

// renderLegend lists each category in its chart color with its total.
func renderLegend(s analytics.Series, symbol string) string {
	parts := make([]string, 0, len(s.Categories))
	for i, c := range s.Categories {
		swatch := lipgloss.NewStyle().Foreground(categoryColor(i)).Render("■")
		parts = append(parts, swatch+" "+c+" "+mutedStyle.Render(formatAmount(s.Total(c), symbol)))
	}
	return strings.Join(parts, "  ")
}
