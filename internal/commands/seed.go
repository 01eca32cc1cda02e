package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/darshxm/expense-classifier/internal/sample"
)

type seedOptions struct {
	out    string
	rows   int
	seed   int64
	doLoad bool
}

func newSeedCommand(opts *globalOptions) *cobra.Command {
	so := &seedOptions{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write a sample ABN AMRO export to try the app with",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, opts, so)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&so.out, "out", "o", "sample.xlsx", "xlsx file to write")
	f.IntVar(&so.rows, "rows", 200, "number of expenses")
	f.Int64Var(&so.seed, "seed", 1, "random seed; the same seed gives the same file")
	f.BoolVar(&so.doLoad, "import", false, "import the file after writing it")
	return cmd
}

func runSeed(cmd *cobra.Command, opts *globalOptions, so *seedOptions) error {
	if so.rows <= 0 {
		return fmt.Errorf("--rows must be positive, got %d", so.rows)
	}
	txs := sample.Generate(so.rows, time.Now(), so.seed)
	if err := sample.WriteXLSX(so.out, txs); err != nil {
		return err
	}
	okColor.Fprintf(out(cmd), "wrote %d expenses to %s\n", len(txs), so.out)
	if !so.doLoad {
		return nil
	}

	a, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.svc.Ingest.ImportFile(cmd.Context(), so.out, sample.Bank)
	if err != nil {
		return err
	}
	printImport(cmd, res)
	return nil
}
