package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/darshxm/expense-classifier/internal/database/repository"
)

type listOptions struct {
	unclassified bool
	category     string
	txType       string
	bank         string
	search       string
	from, to     string
	limit        int
}

func newListCommand(opts *globalOptions) *cobra.Command {
	lo := &listOptions{}
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored expenses",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, opts, lo)
		},
	}
	f := cmd.Flags()
	f.BoolVarP(&lo.unclassified, "unclassified", "u", false, "only expenses without a category")
	f.StringVar(&lo.category, "category", "", "only this category")
	f.StringVar(&lo.txType, "type", "", `transaction type, e.g. "SEPA iDEAL", "PAS" or "Tikkie"`)
	f.StringVar(&lo.bank, "bank", "", "only expenses imported with this bank format")
	f.StringVar(&lo.search, "search", "", "substring of the description")
	f.StringVar(&lo.from, "from", "", "first day, YYYY-MM-DD")
	f.StringVar(&lo.to, "to", "", "last day, YYYY-MM-DD")
	f.IntVarP(&lo.limit, "limit", "n", 0, "show at most n expenses (0 = all)")
	return cmd
}

func runList(cmd *cobra.Command, opts *globalOptions, lo *listOptions) error {
	from, err := parseDay("from", lo.from)
	if err != nil {
		return err
	}
	to, err := parseDay("to", lo.to)
	if err != nil {
		return err
	}

	a, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	txs, err := a.svc.Transactions.List(cmd.Context(), repository.Filter{
		Unclassified: lo.unclassified,
		Category:     lo.category,
		Type:         lo.txType,
		Bank:         lo.bank,
		Search:       lo.search,
		From:         from,
		To:           to,
	})
	if err != nil {
		return err
	}
	shown := txs
	if lo.limit > 0 && len(shown) > lo.limit {
		shown = shown[:lo.limit]
	}

	w := out(cmd)
	for _, t := range shown {
		printTransaction(w, t, a.cfg.UI.CurrencySymbol)
	}
	mutedColor.Fprintf(w, "%s\n", summary(len(shown), len(txs)))
	return nil
}

func summary(shown, total int) string {
	if shown == total {
		return fmt.Sprintf("%d expense(s)", total)
	}
	return fmt.Sprintf("%d of %d expense(s)", shown, total)
}
