package repository

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is how transaction dates are stored.
const DateLayout = "2006-01-02"

// Transaction represents an expenses row. An empty Category means unclassified.
type Transaction struct {
	ID              int64
	Date            time.Time
	Amount          decimal.Decimal
	Description     string
	Category        string
	Bank            string
	TransactionType string
	ImportID        string
	SourceRow       int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Key is the natural (dedupe) key of a transaction.
type Key struct {
	Date        string
	AmountCents int64
	Description string
}

// Key returns the (date, amount, description) natural key.
func (t Transaction) Key() Key {
	return Key{
		Date:        t.Date.Format(DateLayout),
		AmountCents: Cents(t.Amount),
		Description: strings.TrimSpace(t.Description),
	}
}

// Classified reports whether the transaction carries a real category.
func (t Transaction) Classified() bool {
	return !IsUnclassifiedLabel(t.Category)
}

// ImportBatch represents one import run over one file.
type ImportBatch struct {
	ID         string
	FileName   string
	Bank       string
	TotalRows  int
	Inserted   int
	Skipped    int
	ImportedAt time.Time
}

// Cents converts an amount to integer cents, rounding half away from zero.
func Cents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

// WholeCents reports whether d has no fraction below one cent, so Cents is exact.
func WholeCents(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(2))
}

// FromCents is the inverse of Cents.
func FromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}

// unclassifiedLabels are category values that count as "not classified yet".
// Older databases stored the label instead of NULL.
var unclassifiedLabels = []string{"Uncategorized", "Unclassified"}

// IsUnclassifiedLabel reports whether category means "no category".
func IsUnclassifiedLabel(category string) bool {
	c := strings.TrimSpace(category)
	if c == "" {
		return true
	}
	for _, l := range unclassifiedLabels {
		if strings.EqualFold(c, l) {
			return true
		}
	}
	return false
}
