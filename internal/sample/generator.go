// Package sample generates realistic bank exports for demos and tests.
package sample

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"

	"github.com/darshxm/expense-classifier/internal/classifier"
	"github.com/darshxm/expense-classifier/internal/database/repository"
)

// Bank is the format WriteXLSX produces.
const Bank = "abnamro"

type template struct {
	format   string // may contain one %d for a store or reference number
	min, max int64  // cents, both negative for spending
	weight   int
}

var templates = []template{
	{"BEA, Betaalpas Albert Heijn %d,PAS041 UTRECHT", -8500, -350, 10},
	{"BEA, Betaalpas Jumbo Supermarkt %d,PAS041 DELFT", -6000, -250, 6},
	{"BEA, Google Pay Lidl %d,PAS041 AMSTERDAM", -4500, -200, 4},
	{"BEA, Betaalpas Gall & Gall %d,PAS041 UTRECHT", -3500, -800, 2},
	{"BEA, Betaalpas Cafe De Zaak %d,PAS041 UTRECHT", -4800, -450, 4},
	{"SEPA iDEAL IBAN: NL44RABO0123456789 Naam: Thuisbezorgd.nl Omschrijving: order %d Kenmerk: 1", -4200, -1500, 4},
	{"SEPA iDEAL IBAN: NL91ABNA0417164300 Naam: NS Groep IZ NS Reizigers Omschrijving: %d Kenmerk: 2", -2500, -300, 5},
	{"SEPA iDEAL IBAN: NL02TIKK0123456789 Naam: Tikkie Omschrijving: beer friday %d Kenmerk: 3", -2000, -500, 2},
	{"SEPA iDEAL IBAN: NL02TIKK0123456789 Naam: Tikkie Omschrijving: groceries week %d Kenmerk: 4", -3000, -800, 2},
	{"SEPA Incasso algemeen doorlopend Incassant: NL12ZZZ Naam: Vodafone Libertel BV Machtiging: %d", -3500, -3500, 1},
	{"SEPA Incasso algemeen doorlopend Incassant: NL34ZZZ Naam: Eneco Services Machtiging: %d", -9800, -9800, 1},
	{"SEPA Incasso algemeen doorlopend Incassant: NL56ZZZ Naam: Pathe Unlimited Machtiging: %d", -2500, -2500, 1},
	{"SEPA Overboeking IBAN: NL20INGB0001234567 Naam: Woonstad Rotterdam Omschrijving: huur %d", -95000, -95000, 1},
	{"BEA, Betaalpas Kruidvat %d,PAS041 DELFT", -2200, -300, 2},
	{"BEA, Betaalpas Apotheek Centrum %d,PAS041 UTRECHT", -3000, -500, 1},
	{"SEPA Overboeking IBAN: NL69INGB0123456789 Naam: ACME BV Omschrijving: salaris %d", 285000, 285000, 1},
}

// Generate returns n expenses spread over the weeks before end, ordered by
// date. The same seed always yields the same rows.
func Generate(n int, end time.Time, seed int64) []repository.Transaction {
	rng := rand.New(rand.NewSource(seed))
	total := 0
	for _, t := range templates {
		total += t.weight
	}

	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	out := make([]repository.Transaction, 0, n)
	for i := 0; i < n; i++ {
		tpl := pick(rng, total)
		cents := tpl.min
		if tpl.max > tpl.min {
			cents += rng.Int63n(tpl.max - tpl.min + 1)
		}
		desc := fmt.Sprintf(tpl.format, 1000+rng.Intn(9000))
		out = append(out, repository.Transaction{
			Date:            end.AddDate(0, 0, -rng.Intn(84)),
			Amount:          repository.FromCents(cents),
			Description:     desc,
			Bank:            Bank,
			TransactionType: classifier.TransactionType(desc),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	for i := range out {
		out[i].SourceRow = i + 1
	}
	return out
}

func pick(rng *rand.Rand, total int) template {
	r := rng.Intn(total)
	for _, t := range templates {
		if r < t.weight {
			return t
		}
		r -= t.weight
	}
	return templates[len(templates)-1]
}

// WriteXLSX saves txs in the layout of an ABN AMRO spreadsheet download.
func WriteXLSX(path string, txs []repository.Transaction) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range []string{"accountNumber", "mutationcode", "transactiondate", "valuedate", "startsaldo", "endsaldo", "amount", "description"} {
		header.AddCell().SetString(h)
	}

	balance := decimal.NewFromInt(2500)
	for _, t := range txs {
		date := dateNumber(t.Date)
		next := balance.Add(t.Amount)

		row := sheet.AddRow()
		row.AddCell().SetString("123456789")
		row.AddCell().SetString("EUR")
		row.AddCell().SetInt(date)
		row.AddCell().SetInt(date)
		row.AddCell().SetFloat(balance.InexactFloat64())
		row.AddCell().SetFloat(next.InexactFloat64())
		row.AddCell().SetFloat(t.Amount.InexactFloat64())
		row.AddCell().SetString(t.Description)
		balance = next
	}

	if err := f.Save(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func dateNumber(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}
