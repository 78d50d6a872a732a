package entity

import "time"

const (
	KindIncome  = "income"
	KindOutcome = "outcome"
)

// Entry represents a single income or expense event
type Entry struct {
	Amount    float64
	Category  string
	IsIncome  bool
	Timestamp time.Time
}

// NewEntry creates an entry stamped with the current time.
// Validation is the caller's job.
func NewEntry(amount float64, category string, isIncome bool) *Entry {
	return NewEntryAt(amount, category, isIncome, time.Now())
}

// NewEntryAt creates an entry with an explicit timestamp
func NewEntryAt(amount float64, category string, isIncome bool, ts time.Time) *Entry {
	return &Entry{
		Amount:    amount,
		Category:  category,
		IsIncome:  isIncome,
		Timestamp: ts,
	}
}

// Equal reports whether both entries carry the same category, amount,
// direction and instant.
func (e Entry) Equal(other Entry) bool {
	return e.Category == other.Category &&
		e.Amount == other.Amount &&
		e.IsIncome == other.IsIncome &&
		e.Timestamp.Equal(other.Timestamp)
}

// Kind returns "income" or "outcome"
func (e Entry) Kind() string {
	if e.IsIncome {
		return KindIncome
	}
	return KindOutcome
}

func (e *Entry) SetCategory(category string) {
	e.Category = category
}

func (e *Entry) SetAmount(amount float64) {
	e.Amount = amount
}

func (e *Entry) SetIncome(isIncome bool) {
	e.IsIncome = isIncome
}
