package repository

import (
	"context"
	"database/sql"
)

// ImportRepo records import runs.
type ImportRepo struct {
	db *sql.DB
}

func NewImportRepo(db *sql.DB) *ImportRepo { return &ImportRepo{db: db} }

func (r *ImportRepo) Record(ctx context.Context, b ImportBatch) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO imports(id, file_name, bank, total_rows, inserted, skipped, imported_at)
	VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 total_rows=excluded.total_rows, inserted=excluded.inserted, skipped=excluded.skipped;
	`, b.ID, b.FileName, b.Bank, b.TotalRows, b.Inserted, b.Skipped)
	return persistErr("record import", err)
}

// List returns import runs, newest first.
func (r *ImportRepo) List(ctx context.Context) ([]ImportBatch, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, file_name, bank, total_rows, inserted, skipped, imported_at
	FROM imports ORDER BY imported_at DESC, rowid DESC`)
	if err != nil {
		return nil, persistErr("list imports", err)
	}
	defer rows.Close()
	var out []ImportBatch
	for rows.Next() {
		var b ImportBatch
		if err := rows.Scan(&b.ID, &b.FileName, &b.Bank, &b.TotalRows, &b.Inserted, &b.Skipped, &b.ImportedAt); err != nil {
			return nil, persistErr("list imports", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list imports", err)
	}
	return out, nil
}
