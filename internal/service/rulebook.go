package service

import (
	"sync"

	"github.com/darshxm/expense-classifier/internal/rules"
)

// RuleBook owns the rule file on disk and the copy in memory. Edits are saved
// before they become visible.
type RuleBook struct {
	Path string

	mu    sync.RWMutex
	rules *rules.Rules
}

// LoadRuleBook reads (or creates) the rule file at path.
func LoadRuleBook(path string) (*RuleBook, error) {
	r, err := rules.Load(path)
	if err != nil {
		return nil, err
	}
	return &RuleBook{Path: path, rules: r}, nil
}

// Rules returns a snapshot of the current rules.
func (b *RuleBook) Rules() *rules.Rules {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rules.Clone()
}

// Update applies fn to a copy of the rules and saves it. Nothing changes when
// fn or the save fails.
func (b *RuleBook) Update(fn func(r *rules.Rules) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	next := b.rules.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := rules.Save(b.Path, next); err != nil {
		return err
	}
	b.rules = next
	return nil
}

// Reload re-reads the rule file, picking up edits made outside the app.
func (b *RuleBook) Reload() error {
	r, err := rules.Load(b.Path)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.rules = r
	b.mu.Unlock()
	return nil
}
