package classifier

import (
	"strings"
	"unicode"

	"github.com/jbrukh/bayesian"
)

// Example is a description with the category a user gave it.
type Example struct {
	Description string
	Category    string
}

// Suggester proposes categories for descriptions no rule matches, learning
// from expenses that were already classified.
type Suggester struct {
	classes []bayesian.Class
	vocab   map[string]struct{}
	cl      *bayesian.Classifier
}

// NewSuggester trains on examples. With fewer than two distinct categories it
// never suggests anything.
func NewSuggester(examples []Example) *Suggester {
	s := &Suggester{vocab: make(map[string]struct{})}
	seen := make(map[string]bool)
	for _, e := range examples {
		if e.Category == "" || e.Category == Uncategorized || seen[e.Category] {
			continue
		}
		seen[e.Category] = true
		s.classes = append(s.classes, bayesian.Class(e.Category))
	}
	if len(s.classes) < 2 {
		return s
	}

	s.cl = bayesian.NewClassifier(s.classes...)
	for _, e := range examples {
		if !seen[e.Category] {
			continue
		}
		terms := Terms(e.Description)
		for _, t := range terms {
			s.vocab[t] = struct{}{}
		}
		s.cl.Learn(terms, bayesian.Class(e.Category))
	}
	return s
}

// Suggest returns the most likely category when the description shares at
// least one term with the training data and a single class scores highest.
func (s *Suggester) Suggest(description string) (string, bool) {
	if s == nil || s.cl == nil {
		return "", false
	}
	terms := Terms(description)
	known := false
	for _, t := range terms {
		if _, ok := s.vocab[t]; ok {
			known = true
			break
		}
	}
	if !known {
		return "", false
	}
	_, inx, strict := s.cl.LogScores(terms)
	if !strict {
		return "", false
	}
	return string(s.classes[inx]), true
}

// Terms splits a description into lowercase words, dropping numbers and
// single characters.
func Terms(description string) []string {
	fields := strings.FieldsFunc(strings.ToLower(description), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) < 2 || isNumber(f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func isNumber(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
