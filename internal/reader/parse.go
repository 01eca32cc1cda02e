package reader

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
)

const compactDate = "20060102"

var genericDateLayouts = []string{
	compactDate,
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
}

// parseDate tries each layout in order. When serial is set a plain number is
// also accepted as a spreadsheet date serial.
func parseDate(value string, layouts []string, serial, date1904 bool) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	// ING and ABN AMRO xlsx store 20240105 as a number
	if f, err := strconv.ParseFloat(value, 64); err == nil && f == float64(int64(f)) && len(strconv.FormatInt(int64(f), 10)) == len(compactDate) {
		value = strconv.FormatInt(int64(f), 10)
	}
	for _, l := range layouts {
		if d, err := time.Parse(l, value); err == nil {
			return dateOnly(d), true
		}
	}
	if serial {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 && f < 2958466 {
			return dateOnly(xlsx.TimeFromExcelTime(f, date1904)), true
		}
	}
	return time.Time{}, false
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// parseAmount accepts "1234.56", "1.234,56", "-12,5", "€ 12.00" and similar.
// A lone comma is the decimal separator.
func parseAmount(value string) (decimal.Decimal, bool) {
	if d, err := decimal.NewFromString(strings.TrimSpace(value)); err == nil {
		return d, true
	}
	var b strings.Builder
	for _, r := range strings.TrimSpace(value) {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-', r == '+':
			b.WriteRune(r)
		case r == '\u2212':
			b.WriteRune('-')
		}
	}
	s := b.String()
	if s == "" {
		return decimal.Decimal{}, false
	}

	dot, comma := strings.LastIndex(s, "."), strings.LastIndex(s, ",")
	switch {
	case dot >= 0 && comma >= 0:
		if comma > dot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
