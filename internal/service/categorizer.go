package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/darshxm/expense-classifier/internal/classifier"
	"github.com/darshxm/expense-classifier/internal/database/repository"
	"github.com/darshxm/expense-classifier/internal/rules"
)

// similarCategoryDistance is how many edits apart two category names may be
// before AddCategory warns about them.
const similarCategoryDistance = 2

// CategorizerService assigns categories, automatically through the rules or
// by hand.
type CategorizerService struct {
	Transactions *repository.TransactionRepo
	Rules        *RuleBook
	Log          *log.Logger
}

type ClassifyResult struct {
	Examined   int
	Classified int
	ByCategory map[string]int
}

// ClassifyAll re-applies the rules to every unclassified expense.
func (s *CategorizerService) ClassifyAll(ctx context.Context) (ClassifyResult, error) {
	res := ClassifyResult{ByCategory: make(map[string]int)}
	pending, err := s.Transactions.List(ctx, repository.Filter{Unclassified: true})
	if err != nil {
		return res, err
	}

	rs := s.Rules.Rules()
	for _, t := range pending {
		res.Examined++
		c := classifier.Classify(t.Description, rs)
		if c == classifier.Uncategorized {
			continue
		}
		if err := s.Transactions.UpdateCategory(ctx, t.ID, c); err != nil {
			return res, err
		}
		res.Classified++
		res.ByCategory[c]++
	}
	s.logger().Info("classify all", "examined", res.Examined, "classified", res.Classified)
	return res, nil
}

type SelectionResult struct {
	Updated       int
	Merchants     []string
	PatternsAdded []string
	// MerchantMatches counts other unclassified expenses picked up through
	// the new merchant patterns.
	MerchantMatches int64
}

// ClassifySelected sets category on every id. With allFromMerchant, the
// merchants named in those expenses become patterns of category and every
// unclassified expense from them is classified too.
func (s *CategorizerService) ClassifySelected(ctx context.Context, ids []int64, category string, allFromMerchant bool) (SelectionResult, error) {
	var res SelectionResult
	canon, ok := s.Rules.Rules().Canonical(category)
	if !ok {
		return res, fmt.Errorf("%q: %w", category, rules.ErrUnknownCategory)
	}

	seen := make(map[string]bool)
	for _, id := range ids {
		t, err := s.Transactions.Get(ctx, id)
		if err != nil {
			return res, err
		}
		if err := s.Transactions.UpdateCategory(ctx, id, canon); err != nil {
			return res, err
		}
		res.Updated++

		if !allFromMerchant {
			continue
		}
		m := classifier.ExtractMerchant(t.Description)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		res.Merchants = append(res.Merchants, m)
	}
	if len(res.Merchants) == 0 {
		return res, nil
	}

	err := s.Rules.Update(func(r *rules.Rules) error {
		for _, m := range res.Merchants {
			added, err := r.AddPattern(canon, m)
			if err != nil {
				return err
			}
			if added {
				res.PatternsAdded = append(res.PatternsAdded, m)
			}
		}
		return nil
	})
	if err != nil {
		return res, err
	}

	for _, m := range res.Merchants {
		n, err := s.Transactions.ClassifyUnclassifiedMatching(ctx, m, canon)
		if err != nil {
			return res, err
		}
		res.MerchantMatches += n
	}
	s.logger().Info("classified selection", "category", canon, "updated", res.Updated,
		"merchants", strings.Join(res.Merchants, ", "), "merchant_matches", res.MerchantMatches)
	return res, nil
}

type AddCategoryResult struct {
	Name string
	// Similar lists existing categories whose names are a few edits away.
	Similar []string
}

// AddCategory appends a new category to the rule file.
func (s *CategorizerService) AddCategory(name string) (AddCategoryResult, error) {
	res := AddCategoryResult{Name: strings.TrimSpace(name)}
	err := s.Rules.Update(func(r *rules.Rules) error {
		res.Similar = r.Similar(res.Name, similarCategoryDistance)
		return r.AddCategory(res.Name)
	})
	if err != nil {
		return res, err
	}
	s.logger().Info("category added", "name", res.Name, "similar", len(res.Similar))
	return res, nil
}

// AddPattern appends a keyword to category. It reports false for a pattern
// the category already had.
func (s *CategorizerService) AddPattern(category, pattern string) (bool, error) {
	var added bool
	err := s.Rules.Update(func(r *rules.Rules) error {
		var err error
		added, err = r.AddPattern(category, pattern)
		return err
	})
	return added, err
}

// RemoveCategory drops a category and its patterns from the rule file.
// Expenses already labelled keep their label.
func (s *CategorizerService) RemoveCategory(name string) (bool, error) {
	var removed bool
	err := s.Rules.Update(func(r *rules.Rules) error {
		removed = r.RemoveCategory(name)
		return nil
	})
	if err == nil && removed {
		s.logger().Info("category removed", "name", name)
	}
	return removed, err
}

// Categories lists category names in rule order.
func (s *CategorizerService) Categories() []string {
	return s.Rules.Rules().Categories()
}

// Suggestions proposes a category for each unclassified expense in txs,
// learned from the expenses already classified. Keys are expense ids.
func (s *CategorizerService) Suggestions(ctx context.Context, txs []repository.Transaction) (map[int64]string, error) {
	known, err := s.Transactions.List(ctx, repository.Filter{Classified: true})
	if err != nil {
		return nil, err
	}
	examples := make([]classifier.Example, 0, len(known))
	for _, t := range known {
		examples = append(examples, classifier.Example{Description: t.Description, Category: t.Category})
	}
	sg := classifier.NewSuggester(examples)

	out := make(map[int64]string)
	for _, t := range txs {
		if t.Classified() {
			continue
		}
		if c, ok := sg.Suggest(t.Description); ok {
			out[t.ID] = c
		}
	}
	return out, nil
}

// CategoryCounts returns the number of expenses per category, sorted by name.
func (s *CategorizerService) CategoryCounts(ctx context.Context) ([]repository.CategoryTotal, error) {
	totals, err := s.Transactions.SumByCategory(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Category < totals[j].Category })
	return totals, nil
}

func (s *CategorizerService) logger() *log.Logger {
	if s.Log == nil {
		return log.Default()
	}
	return s.Log
}
