package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darshxm/expense-classifier/internal/database/repository"
	"github.com/darshxm/expense-classifier/internal/logging"
)

func TestResetClearsExpensesAndKeepsRules(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Categorizer.AddCategory("Subscriptions")
	require.NoError(t, err)
	path := f.writeCSV(t, "jan.csv", rowsFor(1, 4)...)
	_, err = f.svc.Ingest.ImportFile(f.ctx, path, "")
	require.NoError(t, err)

	require.NoError(t, f.svc.Maintenance.Reset(f.ctx))

	total, _, err := f.svc.Transactions.Count(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, total)
	batches, err := f.svc.Imports.List(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, batches)
	assert.Contains(t, f.svc.Categorizer.Categories(), "Subscriptions")

	// the same file imports cleanly again with ids restarting at 1
	res, err := f.svc.Ingest.ImportFile(f.ctx, path, "")
	require.NoError(t, err)
	assert.Equal(t, 4, res.Inserted)
	all, err := f.svc.Transactions.List(f.ctx, repository.Filter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, all[0].ID)
}

func TestResetWithoutDB(t *testing.T) {
	var m MaintenanceService
	assert.Error(t, m.Reset(newFixture(t).ctx))
}

func TestResetLogs(t *testing.T) {
	f := newFixture(t)
	var buf bytes.Buffer
	logger, err := logging.New(&buf, "info")
	require.NoError(t, err)
	m := MaintenanceService{DB: f.svc.Maintenance.DB, Log: logger}

	require.NoError(t, m.Reset(f.ctx))
	assert.Contains(t, buf.String(), "database reset")
	assert.NotContains(t, buf.String(), "compact after reset failed")
}

func TestCompactReportsFailure(t *testing.T) {
	f := newFixture(t)
	db := f.svc.Maintenance.DB
	require.NoError(t, db.Close())

	m := MaintenanceService{DB: db, Log: logging.Discard()}
	err := m.Compact(f.ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vacuum")
}
