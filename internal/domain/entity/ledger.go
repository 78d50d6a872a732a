package entity

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Ledger holds an account's entries in insertion order and its
// per-category budget limits.
type Ledger struct {
	entries []Entry
	budgets map[string]float64
}

// NewLedger creates an empty ledger
func NewLedger() *Ledger {
	return &Ledger{
		entries: make([]Entry, 0),
		budgets: make(map[string]float64),
	}
}

// AddEntry appends an entry, preserving insertion order
func (l *Ledger) AddEntry(entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidArgument)
	}
	l.entries = append(l.entries, *entry)
	return nil
}

// Entries returns a copy of all entries
func (l *Ledger) Entries() []Entry {
	return slices.Clone(l.entries)
}

// Len returns the number of entries
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Entry returns the entry at position i
func (l *Ledger) Entry(i int) (Entry, error) {
	if err := l.checkIndex(i); err != nil {
		return Entry{}, err
	}
	return l.entries[i], nil
}

// RemoveEntry deletes the entry at position i and returns it
func (l *Ledger) RemoveEntry(i int) (Entry, error) {
	if err := l.checkIndex(i); err != nil {
		return Entry{}, err
	}
	removed := l.entries[i]
	l.entries = slices.Delete(l.entries, i, i+1)
	return removed, nil
}

// UpdateEntry applies fn to the entry at position i in place
func (l *Ledger) UpdateEntry(i int, fn func(*Entry) error) error {
	if err := l.checkIndex(i); err != nil {
		return err
	}
	updated := l.entries[i]
	if err := fn(&updated); err != nil {
		return err
	}
	l.entries[i] = updated
	return nil
}

func (l *Ledger) checkIndex(i int) error {
	if i < 0 || i >= len(l.entries) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(l.entries))
	}
	return nil
}

// SetBudget inserts or overwrites the limit for the trimmed category name
func (l *Ledger) SetBudget(category string, amount float64) error {
	name := strings.TrimSpace(category)
	if name == "" {
		return fmt.Errorf("%w: budget category is empty", ErrInvalidArgument)
	}
	if amount < 0 {
		return fmt.Errorf("%w: budget must not be negative, got %v", ErrInvalidArgument, amount)
	}
	l.budgets[name] = amount
	return nil
}

// Budget returns the limit for a category and whether one is set.
// An empty category is reported as absent.
func (l *Ledger) Budget(category string) (float64, bool) {
	if category == "" {
		return 0, false
	}
	amount, ok := l.budgets[category]
	return amount, ok
}

func (l *Ledger) HasBudget(category string) bool {
	_, ok := l.Budget(category)
	return ok
}

func (l *Ledger) RemoveBudget(category string) {
	delete(l.budgets, category)
}

// Budgets returns a copy of the category to limit mapping
func (l *Ledger) Budgets() map[string]float64 {
	return maps.Clone(l.budgets)
}

// BudgetCategories returns budgeted categories in lexicographic order
func (l *Ledger) BudgetCategories() []string {
	return slices.Sorted(maps.Keys(l.budgets))
}

// Clone returns a deep copy of the ledger
func (l *Ledger) Clone() *Ledger {
	if l == nil {
		return NewLedger()
	}
	return &Ledger{
		entries: slices.Clone(l.entries),
		budgets: maps.Clone(l.budgets),
	}
}

// RestoreLedger rebuilds a ledger from stored entries and budgets without
// re-stamping timestamps. Used by persistence codecs.
func RestoreLedger(entries []Entry, budgets map[string]float64) (*Ledger, error) {
	ledger := NewLedger()
	for i := range entries {
		if err := ledger.AddEntry(&entries[i]); err != nil {
			return nil, err
		}
	}
	for category, amount := range budgets {
		if err := ledger.SetBudget(category, amount); err != nil {
			return nil, err
		}
	}
	return ledger, nil
}
