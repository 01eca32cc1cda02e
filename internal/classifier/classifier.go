// Package classifier assigns categories to expense descriptions using keyword rules.
package classifier

import (
	"strings"

	"github.com/darshxm/expense-classifier/internal/rules"
)

// Uncategorized is returned when no rule matches.
const Uncategorized = "Uncategorized"

// tikkieHints map words in a Tikkie "Omschrijving:" to a category. Checked in order.
var tikkieHints = []struct {
	words    []string
	category string
}{
	{[]string{"groceries"}, "Groceries"},
	{[]string{"beer", "wine"}, "Alcohol"},
	{[]string{"restaurant", "cafe"}, "Eating Out"},
}

// Classify returns the first category, in rule order, with a pattern that is a
// case-insensitive substring of description.
func Classify(description string, r *rules.Rules) string {
	lower := strings.ToLower(description)
	if r == nil {
		return Uncategorized
	}
	for _, category := range r.Categories() {
		for _, p := range r.Patterns(category) {
			p = strings.ToLower(strings.TrimSpace(p))
			if p != "" && strings.Contains(lower, p) {
				return category
			}
		}
	}
	if c, ok := tikkieFallback(description, r); ok {
		return c
	}
	return Uncategorized
}

func tikkieFallback(description string, r *rules.Rules) (string, bool) {
	if !strings.Contains(strings.ToLower(description), "tikkie") {
		return "", false
	}
	note := strings.ToLower(tikkieNote(description))
	if note == "" {
		return "", false
	}
	for _, h := range tikkieHints {
		for _, w := range h.words {
			if strings.Contains(note, w) {
				canon, ok := r.Canonical(h.category)
				return canon, ok
			}
		}
	}
	return "", false
}
