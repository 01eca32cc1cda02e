package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/darshxm/expense-classifier/internal/analytics"
	"github.com/darshxm/expense-classifier/internal/database/repository"
	"github.com/darshxm/expense-classifier/internal/service"
)

type analyticsOptions struct {
	zeroFill bool
	expenses bool
	raw      bool
	from, to string
}

func newAnalyticsCommand(opts *globalOptions) *cobra.Command {
	ao := &analyticsOptions{}
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show weekly spend per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalytics(cmd, opts, ao)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&ao.zeroFill, "zero-fill", true, "show every week, with zeros for quiet categories (default from config)")
	f.BoolVar(&ao.expenses, "expenses", false, "only outflows, shown as positive amounts (default from config)")
	f.BoolVar(&ao.raw, "raw", false, "one line per week and category instead of a table")
	f.StringVar(&ao.from, "from", "", "first day, YYYY-MM-DD")
	f.StringVar(&ao.to, "to", "", "last day, YYYY-MM-DD")
	return cmd
}

func runAnalytics(cmd *cobra.Command, opts *globalOptions, ao *analyticsOptions) error {
	from, err := parseDay("from", ao.from)
	if err != nil {
		return err
	}
	to, err := parseDay("to", ao.to)
	if err != nil {
		return err
	}

	a, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	wo := service.WeeklyOptions{
		From:     from,
		To:       to,
		ZeroFill: a.cfg.Analytics.ZeroFill,
		Expenses: a.cfg.Analytics.ExpensesOnly,
	}
	if cmd.Flags().Changed("zero-fill") {
		wo.ZeroFill = ao.zeroFill
	}
	if cmd.Flags().Changed("expenses") {
		wo.Expenses = ao.expenses
	}

	w := out(cmd)
	symbol := a.cfg.UI.CurrencySymbol
	if ao.raw {
		totals, err := a.svc.Analytics.Totals(cmd.Context(), wo)
		if err != nil {
			return err
		}
		for _, t := range totals {
			fmt.Fprintf(w, "%s  ", t.Week.Format(repository.DateLayout))
			catColor.Fprintf(w, "%-20s", t.Category)
			fmt.Fprintf(w, " %12s\n", formatAmount(t.Total, symbol))
		}
		return nil
	}

	s, err := a.svc.Analytics.Weekly(cmd.Context(), wo)
	if err != nil {
		return err
	}
	if s.Empty() {
		mutedColor.Fprintln(w, "no classified expenses yet")
		return nil
	}
	printSeries(w, s, symbol)
	return nil
}

// printSeries renders one row per week and one column per category.
func printSeries(w io.Writer, s analytics.Series, symbol string) {
	const width = 14
	headColor.Fprintf(w, "%-10s", "week")
	for _, c := range s.Categories {
		headColor.Fprintf(w, " %*s", width, truncate(c, width))
	}
	fmt.Fprintln(w)

	cells := make(map[string]map[string]string, len(s.Categories))
	for _, c := range s.Categories {
		cells[c] = make(map[string]string)
		for _, p := range s.Points[c] {
			cells[c][p.Week.Format(repository.DateLayout)] = formatAmount(p.Total, symbol)
		}
	}
	for _, wk := range s.Weeks {
		day := wk.Format(repository.DateLayout)
		fmt.Fprintf(w, "%-10s", day)
		for _, c := range s.Categories {
			v, ok := cells[c][day]
			if !ok {
				v = "-"
			}
			fmt.Fprintf(w, " %*s", width, v)
		}
		fmt.Fprintln(w)
	}

	mutedColor.Fprintf(w, "%-10s", "total")
	for _, c := range s.Categories {
		mutedColor.Fprintf(w, " %*s", width, formatAmount(s.Total(c), symbol))
	}
	fmt.Fprintln(w)
}
