package service

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/darshxm/expense-classifier/internal/classifier"
	"github.com/darshxm/expense-classifier/internal/database/repository"
	"github.com/darshxm/expense-classifier/internal/reader"
)

// IngestService imports bank exports.
type IngestService struct {
	Transactions *repository.TransactionRepo
	Imports      *repository.ImportRepo
	Rules        *RuleBook
	Formats      *reader.Registry // nil means reader.DefaultRegistry
	Log          *log.Logger
}

type IngestResult struct {
	FileName   string
	Bank       string
	ImportID   string
	Total      int
	Inserted   int
	Skipped    int
	Classified int
}

// ImportFile reads path, classifies every row with the current rules and
// stores the rows not seen before. Rows without a description are counted
// as skipped. A file that fails to parse stores nothing.
func (s *IngestService) ImportFile(ctx context.Context, path, bank string) (IngestResult, error) {
	res := IngestResult{FileName: filepath.Base(path), ImportID: uuid.NewString()}

	formats := s.Formats
	if formats == nil {
		formats = reader.DefaultRegistry()
	}
	txs, err := formats.Read(path, bank)
	if err != nil {
		return res, err
	}
	res.Total = len(txs)
	if len(txs) > 0 {
		res.Bank = txs[0].Bank
	}

	rs := s.Rules.Rules()
	anyClassified := false
	keep := txs[:0]
	blank := 0
	for _, t := range txs {
		// nothing to classify or dedupe on
		if strings.TrimSpace(t.Description) == "" {
			blank++
			continue
		}
		t.ImportID = res.ImportID
		if c := classifier.Classify(t.Description, rs); c != classifier.Uncategorized {
			t.Category = c
			anyClassified = true
		}
		keep = append(keep, t)
	}

	batch, insertErr := s.Transactions.InsertBatch(ctx, keep)
	res.Inserted, res.Skipped = batch.Inserted, batch.Skipped+blank
	if len(batch.IDs) > 0 && anyClassified {
		stored, err := s.Transactions.List(ctx, repository.Filter{IDs: batch.IDs, Classified: true})
		if err == nil {
			res.Classified = len(stored)
		}
	}

	if err := s.Imports.Record(ctx, repository.ImportBatch{
		ID:        res.ImportID,
		FileName:  res.FileName,
		Bank:      res.Bank,
		TotalRows: res.Total,
		Inserted:  res.Inserted,
		Skipped:   res.Skipped,
	}); err != nil && insertErr == nil {
		return res, err
	}
	if insertErr != nil {
		s.logger().Error("import failed part-way", "file", res.FileName, "inserted", res.Inserted, "err", insertErr)
		return res, insertErr
	}

	s.logger().Info("imported", "file", res.FileName, "bank", res.Bank, "rows", res.Total,
		"inserted", res.Inserted, "skipped", res.Skipped, "classified", res.Classified)
	return res, nil
}

func (s *IngestService) logger() *log.Logger {
	if s.Log == nil {
		return log.Default()
	}
	return s.Log
}
