package reader

import (
	"fmt"
	"os"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/darshxm/expense-classifier/internal/classifier"
	"github.com/darshxm/expense-classifier/internal/database/repository"
)

// readOFX reads bank and credit card statements from an OFX/QFX download.
func readOFX(path string) ([]repository.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	defer f.Close()

	resp, err := ofxgo.ParseResponse(f)
	if err != nil {
		return nil, &FileFormatError{Err: fmt.Errorf("parsing OFX: %w", err)}
	}

	var lists []*ofxgo.TransactionList
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			lists = append(lists, stmt.BankTranList)
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			lists = append(lists, stmt.BankTranList)
		}
	}

	var out []repository.Transaction
	line := 0
	for _, l := range lists {
		for _, st := range l.Transactions {
			line++
			amount, err := decimal.NewFromString(st.TrnAmt.Rat.FloatString(6))
			if err != nil || !repository.WholeCents(amount) {
				return nil, &FileFormatError{Row: line, Column: "TRNAMT", Value: st.TrnAmt.Rat.String(), Err: ErrBadAmount}
			}
			desc := strings.TrimSpace(string(st.Name))
			if memo := strings.TrimSpace(string(st.Memo)); memo != "" {
				if desc == "" {
					desc = memo
				} else {
					desc += " " + memo
				}
			}
			out = append(out, repository.Transaction{
				Date:            dateOnly(st.DtPosted.Time),
				Amount:          amount,
				Description:     desc,
				TransactionType: classifier.TransactionType(desc),
				SourceRow:       line,
			})
		}
	}
	return out, nil
}
