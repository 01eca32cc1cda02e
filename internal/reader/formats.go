package reader

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/darshxm/expense-classifier/internal/classifier"
	"github.com/darshxm/expense-classifier/internal/database/repository"
)

// column names shared by the generic and ABN AMRO xlsx layouts
const (
	colDate        = "transactiondate"
	colAmount      = "amount"
	colDescription = "description"
)

// GenericFormat reads any sheet with transactiondate, amount and description columns.
type GenericFormat struct{}

func (GenericFormat) Name() string { return "generic" }

func (GenericFormat) Parse(t *Table) ([]repository.Transaction, error) {
	return parseColumns(t, columnSet{date: colDate, amount: colAmount, description: colDescription}, genericDateLayouts)
}

// ABNAmroFormat reads ABN AMRO exports. The xlsx download uses lowercase
// headers, the csv download title-cased ones.
type ABNAmroFormat struct{}

func (ABNAmroFormat) Name() string { return "abnamro" }

func (ABNAmroFormat) Parse(t *Table) ([]repository.Transaction, error) {
	cols := columnSet{date: colDate, amount: colAmount, description: colDescription}
	if t.Ext == ".csv" {
		cols = columnSet{date: "Transaction Date", amount: "Amount", description: "Description"}
	}
	return parseColumns(t, cols, []string{compactDate})
}

type columnSet struct {
	date, amount, description string
}

func parseColumns(t *Table, cols columnSet, layouts []string) ([]repository.Transaction, error) {
	idx, err := t.Columns(cols.date, cols.amount, cols.description)
	if err != nil {
		return nil, err
	}

	out := make([]repository.Transaction, 0, len(t.Rows))
	for _, rec := range t.Rows {
		date, err := cellDate(t, rec, cols.date, idx[cols.date], layouts)
		if err != nil {
			return nil, err
		}
		amount, err := cellAmount(rec, cols.amount, idx[cols.amount])
		if err != nil {
			return nil, err
		}
		desc := rec.Get(idx[cols.description])
		out = append(out, repository.Transaction{
			Date:            date,
			Amount:          amount,
			Description:     desc,
			TransactionType: classifier.TransactionType(desc),
			SourceRow:       rec.Line,
		})
	}
	return out, nil
}

// INGFormat reads ING exports. Amounts are unsigned with a Debit/credit
// column; the free text lives in Notifications.
type INGFormat struct{}

const (
	ingDate         = "Date"
	ingName         = "Name / Description"
	ingAccount      = "Account"
	ingCounterparty = "Counterparty"
	ingCode         = "Code"
	ingDebitCredit  = "Debit/credit"
	ingAmount       = "Amount (EUR)"
	ingType         = "Transaction type"
	ingNotes        = "Notifications"
)

func (INGFormat) Name() string { return "ing" }

func (INGFormat) Parse(t *Table) ([]repository.Transaction, error) {
	idx, err := t.Columns(ingDate, ingName, ingAccount, ingCounterparty, ingCode,
		ingDebitCredit, ingAmount, ingType, ingNotes)
	if err != nil {
		return nil, err
	}

	out := make([]repository.Transaction, 0, len(t.Rows))
	for _, rec := range t.Rows {
		date, err := cellDate(t, rec, ingDate, idx[ingDate], []string{compactDate})
		if err != nil {
			return nil, err
		}
		amount, err := cellAmount(rec, ingAmount, idx[ingAmount])
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(rec.Get(idx[ingDebitCredit]), "debit") {
			amount = amount.Abs().Neg()
		}

		desc := rec.Get(idx[ingNotes])
		if desc == "" {
			desc = rec.Get(idx[ingName])
		}
		typ := rec.Get(idx[ingType])
		if typ == "" {
			typ = classifier.TransactionType(desc)
		}
		out = append(out, repository.Transaction{
			Date:            date,
			Amount:          amount,
			Description:     desc,
			TransactionType: typ,
			SourceRow:       rec.Line,
		})
	}
	return out, nil
}

func cellDate(t *Table, rec Record, name string, i int, layouts []string) (time.Time, error) {
	v := rec.Get(i)
	d, ok := parseDate(v, layouts, t.Serial, t.Date1904)
	if !ok {
		return time.Time{}, &FileFormatError{Row: rec.Line, Column: name, Value: v, Err: ErrBadDate}
	}
	return d, nil
}

func cellAmount(rec Record, name string, i int) (decimal.Decimal, error) {
	v := rec.Get(i)
	a, ok := parseAmount(v)
	if !ok || !repository.WholeCents(a) {
		return decimal.Decimal{}, &FileFormatError{Row: rec.Line, Column: name, Value: v, Err: ErrBadAmount}
	}
	return a, nil
}
