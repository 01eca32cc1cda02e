package service

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darshxm/expense-classifier/internal/database/repository"
	"github.com/darshxm/expense-classifier/internal/reader"
)

func TestImportFileIsIdempotent(t *testing.T) {
	f := newFixture(t)
	path := f.writeCSV(t, "jan.csv", rowsFor(1, 5)...)

	res, err := f.svc.Ingest.ImportFile(f.ctx, path, "")
	require.NoError(t, err)
	assert.Equal(t, "jan.csv", res.FileName)
	assert.Equal(t, "generic", res.Bank)
	assert.Equal(t, 5, res.Total)
	assert.Equal(t, 5, res.Inserted)
	assert.Equal(t, 0, res.Skipped)
	assert.NotEmpty(t, res.ImportID)

	again, err := f.svc.Ingest.ImportFile(f.ctx, path, "")
	require.NoError(t, err)
	assert.Equal(t, 0, again.Inserted)
	assert.Equal(t, 5, again.Skipped)
	assert.NotEqual(t, res.ImportID, again.ImportID)

	total, _, err := f.svc.Transactions.Count(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, total)

	batches, err := f.svc.Imports.List(f.ctx)
	require.NoError(t, err)
	assert.Len(t, batches, 2)
}

func TestImportFileSkipsStoredRows(t *testing.T) {
	f := newFixture(t)
	first := f.writeCSV(t, "first.csv", rowsFor(1, 3)...)
	_, err := f.svc.Ingest.ImportFile(f.ctx, first, "generic")
	require.NoError(t, err)

	// 10 rows, the first 3 already stored
	second := f.writeCSV(t, "second.csv", rowsFor(1, 10)...)
	res, err := f.svc.Ingest.ImportFile(f.ctx, second, "generic")
	require.NoError(t, err)
	assert.Equal(t, 10, res.Total)
	assert.Equal(t, 7, res.Inserted)
	assert.Equal(t, 3, res.Skipped)
}

func TestImportFileSkipsBlankDescriptions(t *testing.T) {
	f := newFixture(t)
	rows := append(rowsFor(1, 3), "2024-01-20,-4.00,   ", "2024-01-21,-5.00,")
	path := f.writeCSV(t, "blank.csv", rows...)

	res, err := f.svc.Ingest.ImportFile(f.ctx, path, "generic")
	require.NoError(t, err)
	assert.Equal(t, 5, res.Total)
	assert.Equal(t, 3, res.Inserted)
	assert.Equal(t, 2, res.Skipped)

	total, _, err := f.svc.Transactions.Count(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestImportFileClassifiesWithRules(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Categorizer.AddPattern("Groceries", "walmart")
	require.NoError(t, err)
	_, err = f.svc.Categorizer.AddCategory("Fuel")
	require.NoError(t, err)
	_, err = f.svc.Categorizer.AddPattern("Fuel", "shell")
	require.NoError(t, err)

	path := f.writeCSV(t, "mixed.csv",
		"2024-02-01,-40.00,WALMART #4521",
		"2024-02-02,-60.00,Shell Station",
		"2024-02-03,-9.99,Netflix",
	)
	res, err := f.svc.Ingest.ImportFile(f.ctx, path, "")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Classified)

	got, err := f.svc.Transactions.List(f.ctx, repository.Filter{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Groceries", got[0].Category)
	assert.Equal(t, "Fuel", got[1].Category)
	assert.Empty(t, got[2].Category)
	assert.Equal(t, res.ImportID, got[0].ImportID)
}

func TestImportFileMissingColumnPersistsNothing(t *testing.T) {
	f := newFixture(t)
	path := f.writeCSV(t, "ok.csv", rowsFor(1, 2)...)
	_, err := f.svc.Ingest.ImportFile(f.ctx, path, "")
	require.NoError(t, err)

	bad := filepath.Join(f.dir, "bad.csv")
	require.NoError(t, writeFile(bad, "transactiondate,description\n2024-03-01,Shop\n"))

	_, err = f.svc.Ingest.ImportFile(f.ctx, bad, "")
	var ffe *reader.FileFormatError
	require.True(t, errors.As(err, &ffe))
	assert.Equal(t, "amount", ffe.Column)

	total, _, err := f.svc.Transactions.Count(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	batches, err := f.svc.Imports.List(f.ctx)
	require.NoError(t, err)
	assert.Len(t, batches, 1, "failed parses are not recorded")
}
