package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/darshxm/expense-classifier/internal/service"
)

func newImportCommand(opts *globalOptions) *cobra.Command {
	var bank string
	cmd := &cobra.Command{
		Use:   "import FILE...",
		Short: "Import bank exports (xlsx, csv or ofx)",
		Long: `Import one or more bank exports. Rows already stored are skipped, new rows
are classified with the current rules.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, opts, args, bank)
		},
	}
	cmd.Flags().StringVar(&bank, "bank", "", "export layout: generic, abnamro or ing (default from config)")
	return cmd
}

func runImport(cmd *cobra.Command, opts *globalOptions, files []string, bank string) error {
	a, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	if bank == "" {
		bank = a.cfg.Import.DefaultBank
	}
	failed := 0
	for _, f := range files {
		res, err := a.svc.Ingest.ImportFile(cmd.Context(), f, bank)
		if err != nil {
			failed++
			errColor.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", filepath.Base(f), err)
			continue
		}
		printImport(cmd, res)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed to import", failed, len(files))
	}
	return nil
}

func printImport(cmd *cobra.Command, res service.IngestResult) {
	w := out(cmd)
	headColor.Fprintf(w, "%s", res.FileName)
	fmt.Fprintf(w, " (%s): %d rows, ", res.Bank, res.Total)
	okColor.Fprintf(w, "%d imported", res.Inserted)
	fmt.Fprint(w, ", ")
	if res.Skipped > 0 {
		warnColor.Fprintf(w, "%d duplicates skipped", res.Skipped)
	} else {
		fmt.Fprint(w, "0 duplicates skipped")
	}
	fmt.Fprintf(w, ", %d classified\n", res.Classified)
}
