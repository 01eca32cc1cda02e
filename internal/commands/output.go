package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"github.com/darshxm/expense-classifier/internal/database/repository"
)

var (
	headColor  = color.New(color.Bold)
	okColor    = color.New(color.FgGreen)
	warnColor  = color.New(color.FgYellow)
	errColor   = color.New(color.FgRed)
	mutedColor = color.New(color.Faint)
	catColor   = color.New(color.FgCyan)
)

func formatAmount(d decimal.Decimal, symbol string) string {
	if d.IsNegative() {
		return "-" + symbol + d.Neg().StringFixed(2)
	}
	return symbol + d.StringFixed(2)
}

func parseDay(flag, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(repository.DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: want YYYY-MM-DD, got %q", flag, value)
	}
	return t, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func printTransaction(w io.Writer, t repository.Transaction, symbol string) {
	cat := t.Category
	c := catColor
	if !t.Classified() {
		cat, c = "-", mutedColor
	}
	amt := okColor
	if t.Amount.IsNegative() {
		amt = errColor
	}
	fmt.Fprintf(w, "%5d  %s  ", t.ID, t.Date.Format(repository.DateLayout))
	amt.Fprintf(w, "%12s", formatAmount(t.Amount, symbol))
	fmt.Fprint(w, "  ")
	c.Fprintf(w, "%-16s", truncate(cat, 16))
	fmt.Fprintf(w, "  %s\n", truncate(t.Description, 60))
}
