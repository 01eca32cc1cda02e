package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newResetCommand(opts *globalOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every stored expense and the import history; rules are kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReset(cmd, opts, yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func runReset(cmd *cobra.Command, opts *globalOptions, yes bool) error {
	if !yes {
		warnColor.Fprint(out(cmd), "Delete all expenses and import history? [y/N] ")
		line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if a := strings.ToLower(strings.TrimSpace(line)); a != "y" && a != "yes" {
			fmt.Fprintln(out(cmd), "aborted")
			return nil
		}
	}

	a, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.svc.Maintenance.Reset(cmd.Context()); err != nil {
		return err
	}
	okColor.Fprintln(out(cmd), "database reset; rules kept")
	return nil
}
