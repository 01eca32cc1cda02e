package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/darshxm/expense-classifier/internal/database/repository"
)

func newCategoriesCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cat"},
		Short:   "List and edit classification categories",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCategoriesList(cmd, opts)
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List categories with their patterns and spend",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runCategoriesList(cmd, opts)
			},
		},
		&cobra.Command{
			Use:   "add NAME",
			Short: "Add a category",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runCategoriesAdd(cmd, opts, args[0])
			},
		},
		&cobra.Command{
			Use:   "add-pattern CATEGORY PATTERN",
			Short: "Add a keyword that classifies into CATEGORY",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runCategoriesAddPattern(cmd, opts, args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "remove NAME",
			Short: "Remove a category and its patterns; expenses keep their label",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runCategoriesRemove(cmd, opts, args[0])
			},
		},
	)
	return cmd
}

func runCategoriesList(cmd *cobra.Command, opts *globalOptions) error {
	a, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	counts, err := a.svc.Categorizer.CategoryCounts(cmd.Context())
	if err != nil {
		return err
	}
	byName := make(map[string]repository.CategoryTotal, len(counts))
	for _, c := range counts {
		byName[c.Category] = c
	}

	rs := a.svc.Rules.Rules()
	w := out(cmd)
	for _, name := range rs.Categories() {
		catColor.Fprintf(w, "%-20s", name)
		ct := byName[name]
		fmt.Fprintf(w, " %4d  %12s  ", ct.Count, formatAmount(repository.FromCents(ct.TotalCents), a.cfg.UI.CurrencySymbol))
		mutedColor.Fprintln(w, strings.Join(rs.Patterns(name), ", "))
	}
	mutedColor.Fprintf(w, "%d categories\n", rs.Len())
	return nil
}

func runCategoriesAdd(cmd *cobra.Command, opts *globalOptions, name string) error {
	a, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.svc.Categorizer.AddCategory(name)
	if err != nil {
		return err
	}
	w := out(cmd)
	okColor.Fprintf(w, "added category %s\n", res.Name)
	if len(res.Similar) > 0 {
		warnColor.Fprintf(w, "similar categories exist: %s\n", strings.Join(res.Similar, ", "))
	}
	return nil
}

func runCategoriesAddPattern(cmd *cobra.Command, opts *globalOptions, category, pattern string) error {
	a, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	added, err := a.svc.Categorizer.AddPattern(category, pattern)
	if err != nil {
		return err
	}
	w := out(cmd)
	if !added {
		warnColor.Fprintf(w, "%s already has pattern %q\n", category, strings.ToLower(strings.TrimSpace(pattern)))
		return nil
	}
	okColor.Fprintf(w, "added pattern %q to %s\n", strings.ToLower(strings.TrimSpace(pattern)), category)
	return nil
}

func runCategoriesRemove(cmd *cobra.Command, opts *globalOptions, name string) error {
	a, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	removed, err := a.svc.Categorizer.RemoveCategory(name)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("no category named %q", name)
	}
	okColor.Fprintf(out(cmd), "removed category %s\n", name)
	return nil
}
