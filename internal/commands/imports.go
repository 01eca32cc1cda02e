package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newImportsCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "imports",
		Short: "Show import history, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImports(cmd, opts)
		},
	}
}

func runImports(cmd *cobra.Command, opts *globalOptions) error {
	a, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	batches, err := a.svc.Imports.List(cmd.Context())
	if err != nil {
		return err
	}
	w := out(cmd)
	if len(batches) == 0 {
		mutedColor.Fprintln(w, "nothing imported yet")
		return nil
	}
	for _, b := range batches {
		mutedColor.Fprintf(w, "%s  ", b.ImportedAt.Local().Format(time.DateTime))
		headColor.Fprintf(w, "%-32s", truncate(b.FileName, 32))
		fmt.Fprintf(w, " %-8s %4d rows %4d imported %4d skipped\n", b.Bank, b.TotalRows, b.Inserted, b.Skipped)
	}
	return nil
}
