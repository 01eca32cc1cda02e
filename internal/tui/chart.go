package tui

import (
	"math"
	"strconv"
	"time"

	"github.com/NimbleMarkets/ntcharts/linechart"
	tslc "github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/lipgloss"

	"github.com/darshxm/expense-classifier/internal/analytics"
)

const (
	minChartWidth  = 40
	minChartHeight = 8
)

// renderTrend draws one braille line per category over the series weeks.
func renderTrend(s analytics.Series, width, height int) string {
	if s.Empty() {
		return mutedStyle.Render("No classified expenses to chart yet.")
	}
	if width < minChartWidth {
		width = minChartWidth
	}
	if height < minChartHeight {
		height = minChartHeight
	}

	lo, hi := s.Range()
	minY := math.Min(0, lo.InexactFloat64())
	maxY := math.Max(0, hi.InexactFloat64())
	if maxY-minY < 1 {
		maxY = minY + 1
	}
	first, last := s.Weeks[0], s.Weeks[len(s.Weeks)-1]
	if !last.After(first) {
		last = first.AddDate(0, 0, 7)
	}

	chart := tslc.New(width, height)
	chart.SetXStep(2)
	chart.SetYStep(2)
	chart.AxisStyle = lipgloss.NewStyle().Foreground(colorSurface2)
	chart.LabelStyle = lipgloss.NewStyle().Foreground(colorOverlay1)
	chart.SetTimeRange(first, last)
	chart.SetViewTimeRange(first, last)
	chart.SetYRange(minY, maxY)
	chart.SetViewYRange(minY, maxY)
	chart.Model.XLabelFormatter = weekLabelFormatter()
	chart.Model.YLabelFormatter = amountLabelFormatter()

	for i, c := range s.Categories {
		chart.SetDataSetStyle(c, lipgloss.NewStyle().Foreground(categoryColor(i)))
		for _, p := range s.Points[c] {
			chart.PushDataSet(c, tslc.TimePoint{Time: p.Week, Value: p.Total.InexactFloat64()})
		}
	}
	chart.DrawBrailleAll()
	return chart.View()
}

func weekLabelFormatter() linechart.LabelFormatter {
	return func(_ int, v float64) string {
		return time.Unix(int64(v), 0).UTC().Format("Jan 02")
	}
}

func amountLabelFormatter() linechart.LabelFormatter {
	return func(_ int, v float64) string {
		return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
	}
}
