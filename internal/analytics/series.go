package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Point is one plotted value.
type Point struct {
	Week  time.Time
	Total decimal.Decimal
}

// Series is the chart-ready form of weekly totals.
type Series struct {
	Weeks      []time.Time
	Categories []string
	Points     map[string][]Point
}

// PivotOptions control the week axis.
type PivotOptions struct {
	// ZeroFill spans every week from the first to the last and gives each
	// category a zero where it had no activity.
	ZeroFill bool
}

// Pivot turns totals into one series per category.
func Pivot(totals []WeeklyTotal, opts PivotOptions) Series {
	s := Series{Points: make(map[string][]Point)}
	if len(totals) == 0 {
		return s
	}

	byCat := make(map[string]map[time.Time]decimal.Decimal)
	weekSet := make(map[time.Time]struct{})
	for _, t := range totals {
		if byCat[t.Category] == nil {
			byCat[t.Category] = make(map[time.Time]decimal.Decimal)
			s.Categories = append(s.Categories, t.Category)
		}
		byCat[t.Category][t.Week] = byCat[t.Category][t.Week].Add(t.Total)
		weekSet[t.Week] = struct{}{}
	}
	sort.Strings(s.Categories)

	for w := range weekSet {
		s.Weeks = append(s.Weeks, w)
	}
	sort.Slice(s.Weeks, func(i, j int) bool { return s.Weeks[i].Before(s.Weeks[j]) })

	if opts.ZeroFill {
		first, last := s.Weeks[0], s.Weeks[len(s.Weeks)-1]
		s.Weeks = s.Weeks[:0]
		for w := first; !w.After(last); w = w.AddDate(0, 0, 7) {
			s.Weeks = append(s.Weeks, w)
		}
	}

	for _, c := range s.Categories {
		for _, w := range s.Weeks {
			v, ok := byCat[c][w]
			if !ok && !opts.ZeroFill {
				continue
			}
			s.Points[c] = append(s.Points[c], Point{Week: w, Total: v})
		}
	}
	return s
}

// Empty reports whether there is nothing to plot.
func (s Series) Empty() bool { return len(s.Weeks) == 0 }

// Range returns the smallest and largest plotted value.
func (s Series) Range() (lo, hi decimal.Decimal) {
	first := true
	for _, pts := range s.Points {
		for _, p := range pts {
			if first || p.Total.LessThan(lo) {
				lo = p.Total
			}
			if first || p.Total.GreaterThan(hi) {
				hi = p.Total
			}
			first = false
		}
	}
	return lo, hi
}

// Total sums a category over all weeks.
func (s Series) Total(category string) decimal.Decimal {
	var sum decimal.Decimal
	for _, p := range s.Points[category] {
		sum = sum.Add(p.Total)
	}
	return sum
}
