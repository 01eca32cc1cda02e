package service

import (
	"context"
	"time"

	"github.com/darshxm/expense-classifier/internal/analytics"
	"github.com/darshxm/expense-classifier/internal/database/repository"
)

// AnalyticsService feeds the weekly trend chart.
type AnalyticsService struct {
	Transactions *repository.TransactionRepo
}

type WeeklyOptions struct {
	From, To time.Time // zero means unbounded
	Expenses bool
	ZeroFill bool
}

// Totals returns per-week, per-category sums of classified expenses.
func (s *AnalyticsService) Totals(ctx context.Context, opts WeeklyOptions) ([]analytics.WeeklyTotal, error) {
	txs, err := s.Transactions.List(ctx, repository.Filter{Classified: true, From: opts.From, To: opts.To})
	if err != nil {
		return nil, err
	}
	return analytics.Aggregate(txs, analytics.Options{Expenses: opts.Expenses}), nil
}

// Weekly returns the chart series.
func (s *AnalyticsService) Weekly(ctx context.Context, opts WeeklyOptions) (analytics.Series, error) {
	totals, err := s.Totals(ctx, opts)
	if err != nil {
		return analytics.Series{}, err
	}
	return analytics.Pivot(totals, analytics.PivotOptions{ZeroFill: opts.ZeroFill}), nil
}
