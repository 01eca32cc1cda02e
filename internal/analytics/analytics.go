// Package analytics aggregates expenses into weekly per-category trends.
package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/darshxm/expense-classifier/internal/database/repository"
)

// WeeklyTotal is the summed amount of one category in one week.
type WeeklyTotal struct {
	Week     time.Time // Monday 00:00 UTC
	Category string
	Total    decimal.Decimal
}

// Options adjust aggregation.
type Options struct {
	// Expenses keeps only outflows and reports them as positive amounts.
	Expenses bool
}

// WeekStart returns the Monday of t's ISO week.
func WeekStart(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// WeeklyTotals groups classified transactions by week and category. Weeks
// without activity in a category are omitted.
func WeeklyTotals(txs []repository.Transaction) []WeeklyTotal {
	return Aggregate(txs, Options{})
}

// Aggregate is WeeklyTotals with options. Output is sorted by week, then category.
func Aggregate(txs []repository.Transaction, opts Options) []WeeklyTotal {
	type key struct {
		week     time.Time
		category string
	}
	sums := make(map[key]decimal.Decimal)
	for _, t := range txs {
		if !t.Classified() {
			continue
		}
		amount := t.Amount
		if opts.Expenses {
			if !amount.IsNegative() {
				continue
			}
			amount = amount.Neg()
		}
		k := key{week: WeekStart(t.Date), category: t.Category}
		sums[k] = sums[k].Add(amount)
	}

	out := make([]WeeklyTotal, 0, len(sums))
	for k, v := range sums {
		out = append(out, WeeklyTotal{Week: k.week, Category: k.category, Total: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Week.Equal(out[j].Week) {
			return out[i].Week.Before(out[j].Week)
		}
		return out[i].Category < out[j].Category
	})
	return out
}
