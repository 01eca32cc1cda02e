// Package rules holds the category -> pattern table used to classify expenses.
package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

var (
	ErrCategoryExists  = errors.New("category already exists")
	ErrUnknownCategory = errors.New("unknown category")
	ErrEmptyName       = errors.New("name must not be empty")
)

// DefaultCategories seed a fresh rule file.
var DefaultCategories = []string{
	"Groceries",
	"Eating Out",
	"Alcohol",
	"Transport",
	"Housing",
	"Utilities",
	"Entertainment",
	"Healthcare",
	"Personal Care",
	"Miscellaneous",
}

// Rules is an ordered mapping of category name to patterns. Document order is
// match priority.
type Rules struct {
	order    []string
	patterns map[string][]string
}

// New returns rules holding the given categories with no patterns.
func New(categories ...string) *Rules {
	r := &Rules{patterns: make(map[string][]string)}
	for _, c := range categories {
		_ = r.AddCategory(c)
	}
	return r
}

// Default returns a rule set of DefaultCategories.
func Default() *Rules { return New(DefaultCategories...) }

// Clone returns a deep copy.
func (r *Rules) Clone() *Rules {
	c := &Rules{
		order:    append([]string(nil), r.order...),
		patterns: make(map[string][]string, len(r.patterns)),
	}
	for k, v := range r.patterns {
		c.patterns[k] = append([]string{}, v...)
	}
	return c
}

// Categories returns category names in document order.
func (r *Rules) Categories() []string {
	return append([]string(nil), r.order...)
}

// Len is the number of categories.
func (r *Rules) Len() int { return len(r.order) }

// Patterns returns a copy of the patterns of name, or nil when name is unknown.
func (r *Rules) Patterns(name string) []string {
	canon, ok := r.lookup(name)
	if !ok {
		return nil
	}
	return append([]string(nil), r.patterns[canon]...)
}

// Has reports whether name is a category, ignoring case.
func (r *Rules) Has(name string) bool {
	_, ok := r.lookup(name)
	return ok
}

// Canonical returns the stored spelling of name.
func (r *Rules) Canonical(name string) (string, bool) {
	return r.lookup(name)
}

func (r *Rules) lookup(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if _, ok := r.patterns[name]; ok {
		return name, true
	}
	for _, c := range r.order {
		if strings.EqualFold(c, name) {
			return c, true
		}
	}
	return "", false
}

// AddCategory appends a category with no patterns.
func (r *Rules) AddCategory(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if existing, ok := r.lookup(name); ok {
		return fmt.Errorf("%q: %w", existing, ErrCategoryExists)
	}
	r.set(name, nil)
	return nil
}

// AddPattern appends a lowercased pattern to category. It reports false when
// the pattern was already present.
func (r *Rules) AddPattern(category, pattern string) (bool, error) {
	canon, ok := r.lookup(category)
	if !ok {
		return false, fmt.Errorf("%q: %w", category, ErrUnknownCategory)
	}
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	if pattern == "" {
		return false, ErrEmptyName
	}
	for _, p := range r.patterns[canon] {
		if strings.ToLower(p) == pattern {
			return false, nil
		}
	}
	r.patterns[canon] = append(r.patterns[canon], pattern)
	return true, nil
}

// RemoveCategory drops name and its patterns. Expenses keep their label.
func (r *Rules) RemoveCategory(name string) bool {
	canon, ok := r.lookup(name)
	if !ok {
		return false
	}
	delete(r.patterns, canon)
	for i, c := range r.order {
		if c == canon {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Similar returns existing categories within maxDistance edits of name,
// compared case-insensitively.
func (r *Rules) Similar(name string, maxDistance int) []string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil
	}
	var out []string
	for _, c := range r.order {
		if levenshtein.ComputeDistance(name, strings.ToLower(c)) <= maxDistance {
			out = append(out, c)
		}
	}
	return out
}

// set keeps the first position of name and replaces its patterns.
func (r *Rules) set(name string, patterns []string) {
	if _, ok := r.patterns[name]; !ok {
		r.order = append(r.order, name)
	}
	if patterns == nil {
		patterns = []string{}
	}
	r.patterns[name] = patterns
}
