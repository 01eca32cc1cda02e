package service

import (
	"database/sql"

	"github.com/charmbracelet/log"

	"github.com/darshxm/expense-classifier/internal/database/repository"
	"github.com/darshxm/expense-classifier/internal/reader"
)

// Services wires every service over one database handle and rule book.
type Services struct {
	Transactions *repository.TransactionRepo
	Imports      *repository.ImportRepo
	Rules        *RuleBook

	Ingest      *IngestService
	Categorizer *CategorizerService
	Analytics   *AnalyticsService
	Maintenance *MaintenanceService
}

func New(db *sql.DB, rb *RuleBook, logger *log.Logger) *Services {
	txRepo := repository.NewTransactionRepo(db)
	importRepo := repository.NewImportRepo(db)
	return &Services{
		Transactions: txRepo,
		Imports:      importRepo,
		Rules:        rb,
		Ingest: &IngestService{
			Transactions: txRepo,
			Imports:      importRepo,
			Rules:        rb,
			Formats:      reader.DefaultRegistry(),
			Log:          logger,
		},
		Categorizer: &CategorizerService{Transactions: txRepo, Rules: rb, Log: logger},
		Analytics:   &AnalyticsService{Transactions: txRepo},
		Maintenance: &MaintenanceService{DB: db, Log: logger},
	}
}
