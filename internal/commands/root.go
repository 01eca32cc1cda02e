package commands

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/darshxm/expense-classifier/internal/buildinfo"
	"github.com/darshxm/expense-classifier/internal/logging"
	"github.com/darshxm/expense-classifier/internal/tui"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
// Run without a subcommand it starts the terminal UI.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}
	rootCmd := &cobra.Command{
		Use:     "expense-classifier",
		Short:   "Import bank exports, classify expenses and chart weekly spend",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd, opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default: user config dir)")
	flags.StringVar(&opts.dbPath, "db", "", "sqlite database path")
	flags.StringVar(&opts.rulesPath, "rules", "", "classification rules file")
	flags.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")

	rootCmd.AddCommand(
		newImportCommand(opts),
		newClassifyCommand(opts),
		newCategoriesCommand(opts),
		newListCommand(opts),
		newAnalyticsCommand(opts),
		newImportsCommand(opts),
		newResetCommand(opts),
		newSeedCommand(opts),
		newConfigCommand(opts),
	)

	return rootCmd
}

func runUI(cmd *cobra.Command, opts *globalOptions) error {
	cfg, err := opts.config()
	if err != nil {
		return err
	}
	logger, closer, err := logging.NewFile(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer closer.Close()

	a, err := openApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	p := tea.NewProgram(tui.New(cmd.Context(), cfg, a.svc, logger), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		logger.Error("ui exited", "err", err)
		return err
	}
	return nil
}
