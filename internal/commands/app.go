package commands

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/darshxm/expense-classifier/internal/config"
	"github.com/darshxm/expense-classifier/internal/database"
	"github.com/darshxm/expense-classifier/internal/logging"
	"github.com/darshxm/expense-classifier/internal/service"
)

type globalOptions struct {
	configPath string
	dbPath     string
	rulesPath  string
	logLevel   string
}

// config loads the configuration file and applies flag overrides on top.
func (o *globalOptions) config() (config.Config, error) {
	if o.configPath != "" {
		if err := os.Setenv(config.EnvPrefix+"_CONFIG", o.configPath); err != nil {
			return config.Config{}, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if o.dbPath != "" {
		cfg.Database.Path = o.dbPath
	}
	if o.rulesPath != "" {
		cfg.Rules.Path = o.rulesPath
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	return cfg, nil
}

type app struct {
	cfg config.Config
	db  *sql.DB
	svc *service.Services
	log *log.Logger
}

func openApp(ctx context.Context, cfg config.Config, logger *log.Logger) (*app, error) {
	db, err := database.Setup(ctx, cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	book, err := service.LoadRuleBook(cfg.Rules.Path)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("load rules: %w", err)
	}
	return &app{cfg: cfg, db: db, svc: service.New(db, book, logger), log: logger}, nil
}

func (a *app) Close() error { return a.db.Close() }

// setup opens everything a one-shot subcommand needs. Logs go to stderr so
// stdout stays clean for the command's own output.
func setup(cmd *cobra.Command, opts *globalOptions) (*app, error) {
	cfg, err := opts.config()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return openApp(cmd.Context(), cfg, logger)
}

func out(cmd *cobra.Command) io.Writer { return cmd.OutOrStdout() }
