package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newClassifyCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "classify",
		Short: "Apply the rules to every unclassified expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd, opts)
		},
	}
}

func runClassify(cmd *cobra.Command, opts *globalOptions) error {
	a, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.svc.Categorizer.ClassifyAll(cmd.Context())
	if err != nil {
		return err
	}

	w := out(cmd)
	okColor.Fprintf(w, "classified %d of %d unclassified\n", res.Classified, res.Examined)
	names := make([]string, 0, len(res.ByCategory))
	for c := range res.ByCategory {
		names = append(names, c)
	}
	sort.Strings(names)
	for _, c := range names {
		catColor.Fprintf(w, "  %-20s", c)
		fmt.Fprintf(w, " %d\n", res.ByCategory[c])
	}
	return nil
}
