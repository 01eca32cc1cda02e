package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/darshxm/expense-classifier/internal/database"
)

// MaintenanceService houses destructive actions surfaced through the CLI and TUI.
type MaintenanceService struct {
	DB  *sql.DB
	Log *log.Logger
}

// Reset wipes all expenses and import history. The schema and the rule file
// are kept so the app can continue running. A failed compaction afterwards
// is logged, not returned: the data is already gone.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		for _, stmt := range []string{
			"DELETE FROM expenses",
			"DELETE FROM imports",
			"DELETE FROM sqlite_sequence WHERE name = 'expenses'",
		} {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("reset: %s: %w", stmt, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	s.logger().Info("database reset")
	if err := s.Compact(ctx); err != nil {
		s.logger().Warn("compact after reset failed", "err", err)
	}
	return nil
}

// Compact reclaims the space left by deleted rows.
func (s *MaintenanceService) Compact(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if _, err := s.DB.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}
	return nil
}

func (s *MaintenanceService) logger() *log.Logger {
	if s.Log == nil {
		return log.Default()
	}
	return s.Log
}
