package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

const unclassifiedClause = "(category IS NULL OR TRIM(category) = '' OR category IN ('Uncategorized', 'Unclassified'))"

const selectColumns = `SELECT id, transaction_date, amount_cents, description, category, bank, transaction_type,
 import_id, source_row, created_at, updated_at FROM expenses`

// Filter narrows List results. Zero values mean "no filter".
type Filter struct {
	Unclassified bool
	Classified   bool
	Category     string
	Bank         string
	Type         string // case-insensitive substring of the description, e.g. "SEPA iDEAL" or "PAS"
	Search       string
	From         time.Time
	To           time.Time // inclusive
	IDs          []int64
}

// BatchResult reports what InsertBatch did.
type BatchResult struct {
	Inserted int
	Skipped  int
	IDs      []int64
}

// TransactionRepo handles the expenses table.
type TransactionRepo struct {
	db *sql.DB
}

func NewTransactionRepo(db *sql.DB) *TransactionRepo { return &TransactionRepo{db: db} }

// InsertBatch stores every transaction whose natural key is not yet present,
// either in the database or earlier in the same batch. Rows are written one
// statement at a time; a failure leaves earlier rows in place. A batch with
// an amount that is not whole cents is refused before anything is written.
func (r *TransactionRepo) InsertBatch(ctx context.Context, txs []Transaction) (BatchResult, error) {
	var res BatchResult
	if len(txs) == 0 {
		return res, nil
	}
	for _, t := range txs {
		if !WholeCents(t.Amount) {
			return res, persistErr("insert", fmt.Errorf("row %d: %s: %w", t.SourceRow, t.Amount, ErrSubCentAmount))
		}
	}

	known, err := r.existingKeys(ctx, txs)
	if err != nil {
		return res, persistErr("load existing keys", err)
	}

	for _, t := range txs {
		k := t.Key()
		if _, dup := known[k]; dup {
			res.Skipped++
			continue
		}
		id, err := r.insert(ctx, t, k)
		if err != nil {
			if isUniqueViolation(err) {
				known[k] = struct{}{}
				res.Skipped++
				continue
			}
			return res, persistErr("insert", fmt.Errorf("row %d: %w", t.SourceRow, err))
		}
		known[k] = struct{}{}
		res.Inserted++
		res.IDs = append(res.IDs, id)
	}
	return res, nil
}

func (r *TransactionRepo) insert(ctx context.Context, t Transaction, k Key) (int64, error) {
	out, err := r.db.ExecContext(ctx, `
	INSERT INTO expenses(
	 transaction_date, amount_cents, description, category, bank, transaction_type,
	 import_id, source_row, created_at, updated_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`,
		k.Date, k.AmountCents, k.Description, nullableCategory(t.Category), t.Bank, t.TransactionType,
		t.ImportID, t.SourceRow)
	if err != nil {
		return 0, err
	}
	return out.LastInsertId()
}

// existingKeys loads the natural keys already stored within the date span of txs.
func (r *TransactionRepo) existingKeys(ctx context.Context, txs []Transaction) (map[Key]struct{}, error) {
	lo, hi := txs[0].Date, txs[0].Date
	for _, t := range txs[1:] {
		if t.Date.Before(lo) {
			lo = t.Date
		}
		if t.Date.After(hi) {
			hi = t.Date
		}
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT transaction_date, amount_cents, description FROM expenses WHERE transaction_date BETWEEN ? AND ?`,
		lo.Format(DateLayout), hi.Format(DateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	known := make(map[Key]struct{})
	for rows.Next() {
		var k Key
		if err := rows.Scan(&k.Date, &k.AmountCents, &k.Description); err != nil {
			return nil, err
		}
		known[k] = struct{}{}
	}
	return known, rows.Err()
}

// UpdateCategory sets the category of one row. An empty category marks it unclassified.
func (r *TransactionRepo) UpdateCategory(ctx context.Context, id int64, category string) error {
	out, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET category = ?, updated_at=CURRENT_TIMESTAMP WHERE id = ?`,
		nullableCategory(category), id)
	if err != nil {
		return persistErr("update category", err)
	}
	n, err := out.RowsAffected()
	if err != nil {
		return persistErr("update category", err)
	}
	if n == 0 {
		return persistErr("update category", fmt.Errorf("expense %d: %w", id, ErrNotFound))
	}
	return nil
}

// ClassifyUnclassifiedMatching assigns category to every unclassified row whose
// description contains keyword, case-insensitively. Returns the rows changed.
func (r *TransactionRepo) ClassifyUnclassifiedMatching(ctx context.Context, keyword, category string) (int64, error) {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return 0, nil
	}
	out, err := r.db.ExecContext(ctx, `
	UPDATE expenses SET category = ?, updated_at=CURRENT_TIMESTAMP
	WHERE `+unclassifiedClause+` AND instr(lower(description), ?) > 0`,
		nullableCategory(category), keyword)
	if err != nil {
		return 0, persistErr("classify matching", err)
	}
	n, err := out.RowsAffected()
	if err != nil {
		return 0, persistErr("classify matching", err)
	}
	return n, nil
}

// Get returns one expense by id.
func (r *TransactionRepo) Get(ctx context.Context, id int64) (Transaction, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return Transaction{}, persistErr("get", fmt.Errorf("expense %d: %w", id, ErrNotFound))
	}
	if err != nil {
		return Transaction{}, persistErr("get", err)
	}
	return t, nil
}

// List returns expenses matching f, oldest first.
func (r *TransactionRepo) List(ctx context.Context, f Filter) ([]Transaction, error) {
	where, args := f.clauses()

	query := selectColumns
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY transaction_date ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistErr("list", err)
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, persistErr("list", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list", err)
	}
	return out, nil
}

// Count returns the number of stored expenses and how many are unclassified.
func (r *TransactionRepo) Count(ctx context.Context) (total int, unclassified int, err error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM expenses`)
	if err = row.Scan(&total); err != nil {
		return 0, 0, persistErr("count", err)
	}
	row = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM expenses WHERE `+unclassifiedClause)
	if err = row.Scan(&unclassified); err != nil {
		return 0, 0, persistErr("count", err)
	}
	return total, unclassified, nil
}

// CategoryTotal is the summed amount of one category.
type CategoryTotal struct {
	Category   string
	TotalCents int64
	Count      int
}

// SumByCategory returns totals for classified rows, largest spend first.
func (r *TransactionRepo) SumByCategory(ctx context.Context) ([]CategoryTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT category, SUM(amount_cents) AS total, COUNT(*)
	FROM expenses
	WHERE NOT `+unclassifiedClause+`
	GROUP BY category
	ORDER BY total ASC;
	`)
	if err != nil {
		return nil, persistErr("sum by category", err)
	}
	defer rows.Close()
	var out []CategoryTotal
	for rows.Next() {
		var ct CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.TotalCents, &ct.Count); err != nil {
			return nil, persistErr("sum by category", err)
		}
		out = append(out, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("sum by category", err)
	}
	return out, nil
}

func (f Filter) clauses() ([]string, []interface{}) {
	var where []string
	var args []interface{}

	if f.Unclassified {
		where = append(where, unclassifiedClause)
	}
	if f.Classified {
		where = append(where, "NOT "+unclassifiedClause)
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.Bank != "" {
		where = append(where, "bank = ?")
		args = append(args, f.Bank)
	}
	if f.Type != "" {
		where = append(where, "instr(lower(description), ?) > 0")
		args = append(args, strings.ToLower(f.Type))
	}
	if f.Search != "" {
		where = append(where, "instr(lower(description), ?) > 0")
		args = append(args, strings.ToLower(f.Search))
	}
	if !f.From.IsZero() {
		where = append(where, "transaction_date >= ?")
		args = append(args, f.From.Format(DateLayout))
	}
	if !f.To.IsZero() {
		where = append(where, "transaction_date <= ?")
		args = append(args, f.To.Format(DateLayout))
	}
	if len(f.IDs) > 0 {
		marks := strings.TrimSuffix(strings.Repeat("?,", len(f.IDs)), ",")
		where = append(where, "id IN ("+marks+")")
		for _, id := range f.IDs {
			args = append(args, id)
		}
	}
	return where, args
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s scanner) (Transaction, error) {
	var (
		t        Transaction
		date     string
		cents    int64
		category sql.NullString
	)
	if err := s.Scan(&t.ID, &date, &cents, &t.Description, &category, &t.Bank, &t.TransactionType,
		&t.ImportID, &t.SourceRow, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return Transaction{}, err
	}
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return Transaction{}, fmt.Errorf("expense %d: bad date %q: %w", t.ID, date, err)
	}
	t.Date = d
	t.Amount = FromCents(cents)
	if category.Valid && !IsUnclassifiedLabel(category.String) {
		t.Category = category.String
	}
	return t, nil
}

func nullableCategory(c string) any {
	if IsUnclassifiedLabel(c) {
		return nil
	}
	return strings.TrimSpace(c)
}
