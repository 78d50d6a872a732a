// Package service holds the ledger aggregation engine: validated mutations
// of an account's ledger and pure queries over its entries and budgets.
//
// The engine keeps no state of its own and never logs; every failure is
// reported through the sentinel errors of the entity package.
package service

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"fintrack.com/internal/domain/entity"
)

// ExhaustedTolerance is the absolute tolerance used to treat a remaining
// budget as zero.
const ExhaustedTolerance = 0.01

// CategoryAmount is a sum of entry amounts for one category
type CategoryAmount struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// CategoryTotals is ordered lexicographically by category
type CategoryTotals []CategoryAmount

// Map converts the totals into a category to sum mapping
func (c CategoryTotals) Map() map[string]float64 {
	out := make(map[string]float64, len(c))
	for _, ca := range c {
		out[ca.Category] = ca.Amount
	}
	return out
}

// Get returns the total for a category, zero when absent
func (c CategoryTotals) Get(category string) float64 {
	i, found := slices.BinarySearchFunc(c, category, func(ca CategoryAmount, name string) int {
		return strings.Compare(ca.Category, name)
	})
	if !found {
		return 0
	}
	return c[i].Amount
}

// BudgetStatus describes one budgeted category against its spending
type BudgetStatus struct {
	Category  string  `json:"category"`
	Limit     float64 `json:"limit"`
	Spent     float64 `json:"spent"`
	Remaining float64 `json:"remaining"`
	Over      bool    `json:"over"`
	Exhausted bool    `json:"exhausted"`
	Alert     bool    `json:"alert"`
}

// AggregationEngine computes totals, groupings and budget checks over an
// account's ledger
type AggregationEngine struct {
	now func() time.Time
}

// NewAggregationEngine creates an engine that stamps entries with time.Now
func NewAggregationEngine() *AggregationEngine {
	return &AggregationEngine{now: time.Now}
}

// WithClock returns a copy of the engine using the given clock for new entries
func (e *AggregationEngine) WithClock(now func() time.Time) *AggregationEngine {
	return &AggregationEngine{now: now}
}

// AddIncome records an income entry
func (e *AggregationEngine) AddIncome(acc *entity.Account, category string, amount float64) error {
	return e.addEntry(acc, category, amount, true)
}

// AddOutcome records an expense entry
func (e *AggregationEngine) AddOutcome(acc *entity.Account, category string, amount float64) error {
	return e.addEntry(acc, category, amount, false)
}

func (e *AggregationEngine) addEntry(acc *entity.Account, category string, amount float64, isIncome bool) error {
	if err := ValidateEntryInput(category, amount); err != nil {
		return err
	}
	ledger, err := ledgerOf(acc)
	if err != nil {
		return err
	}
	return ledger.AddEntry(entity.NewEntryAt(amount, category, isIncome, e.now()))
}

// ValidateEntryInput checks a category and a strictly positive amount
func ValidateEntryInput(category string, amount float64) error {
	if strings.TrimSpace(category) == "" {
		return fmt.Errorf("%w: category is empty", entity.ErrInvalidArgument)
	}
	if !(amount > 0) || math.IsInf(amount, 1) {
		return fmt.Errorf("%w: amount must be positive, got %v", entity.ErrInvalidArgument, amount)
	}
	return nil
}

// SetBudget sets a non-negative budget limit for a category
func (e *AggregationEngine) SetBudget(acc *entity.Account, category string, amount float64) error {
	if strings.TrimSpace(category) == "" {
		return fmt.Errorf("%w: budget category is empty", entity.ErrInvalidArgument)
	}
	if amount < 0 || math.IsNaN(amount) {
		return fmt.Errorf("%w: budget must not be negative, got %v", entity.ErrInvalidArgument, amount)
	}
	ledger, err := ledgerOf(acc)
	if err != nil {
		return err
	}
	return ledger.SetBudget(category, amount)
}

// RemoveBudget deletes the budget for a category
func (e *AggregationEngine) RemoveBudget(acc *entity.Account, category string) error {
	if strings.TrimSpace(category) == "" {
		return fmt.Errorf("%w: budget category is empty", entity.ErrInvalidArgument)
	}
	ledger, err := ledgerOf(acc)
	if err != nil {
		return err
	}
	if !ledger.HasBudget(category) {
		return fmt.Errorf("%w: %q", entity.ErrCategoryNotFound, category)
	}
	ledger.RemoveBudget(category)
	return nil
}

// TotalIncome sums all income entries
func (e *AggregationEngine) TotalIncome(acc *entity.Account) float64 {
	return sumWhere(entriesOf(acc), func(en entity.Entry) bool { return en.IsIncome })
}

// TotalOutcome sums all expense entries
func (e *AggregationEngine) TotalOutcome(acc *entity.Account) float64 {
	return sumWhere(entriesOf(acc), func(en entity.Entry) bool { return !en.IsIncome })
}

// CurrentBalance is total income minus total outcome; it may be negative
func (e *AggregationEngine) CurrentBalance(acc *entity.Account) float64 {
	return e.TotalIncome(acc) - e.TotalOutcome(acc)
}

// IncomeByCategory groups income entries by category
func (e *AggregationEngine) IncomeByCategory(acc *entity.Account) CategoryTotals {
	return groupByCategory(entriesOf(acc), true)
}

// OutcomeByCategory groups expense entries by category
func (e *AggregationEngine) OutcomeByCategory(acc *entity.Account) CategoryTotals {
	return groupByCategory(entriesOf(acc), false)
}

// Budget returns the limit for a category, zero when unset
func (e *AggregationEngine) Budget(acc *entity.Account, category string) float64 {
	if acc == nil || acc.Ledger == nil {
		return 0
	}
	limit, _ := acc.Ledger.Budget(category)
	return limit
}

// Spent sums expense entries in a category
func (e *AggregationEngine) Spent(acc *entity.Account, category string) float64 {
	return sumWhere(entriesOf(acc), func(en entity.Entry) bool {
		return !en.IsIncome && en.Category == category
	})
}

// BudgetRemaining is budget minus spent; it is negative on overspend
func (e *AggregationEngine) BudgetRemaining(acc *entity.Account, category string) float64 {
	return e.Budget(acc, category) - e.Spent(acc, category)
}

// IsOverBudget reports a negative remaining budget
func (e *AggregationEngine) IsOverBudget(acc *entity.Account, category string) bool {
	return e.BudgetRemaining(acc, category) < 0
}

// IsBudgetExhausted reports a remaining budget within ExhaustedTolerance of zero
func (e *AggregationEngine) IsBudgetExhausted(acc *entity.Account, category string) bool {
	return math.Abs(e.BudgetRemaining(acc, category)) < ExhaustedTolerance
}

// IsOverBudgetByPercent reports whether spending reached percent of the
// budget. A zero budget never triggers.
func (e *AggregationEngine) IsOverBudgetByPercent(acc *entity.Account, category string, percent float64) bool {
	budget := e.Budget(acc, category)
	if budget == 0 {
		return false
	}
	return e.Spent(acc, category) >= budget*percent/100
}

// OutcomeExceedsIncome reports total outcome strictly above total income
func (e *AggregationEngine) OutcomeExceedsIncome(acc *entity.Account) bool {
	return e.TotalOutcome(acc) > e.TotalIncome(acc)
}

// EntriesInCategories returns entries whose category is in the set, in
// insertion order. An empty set yields an empty result.
func (e *AggregationEngine) EntriesInCategories(acc *entity.Account, categories map[string]struct{}) []entity.Entry {
	result := make([]entity.Entry, 0)
	if len(categories) == 0 {
		return result
	}
	for _, en := range entriesOf(acc) {
		if _, ok := categories[en.Category]; ok {
			result = append(result, en)
		}
	}
	return result
}

// EntriesInCategoriesAndRange narrows EntriesInCategories to timestamps in
// [from, to], inclusive on both ends.
func (e *AggregationEngine) EntriesInCategoriesAndRange(acc *entity.Account, from, to time.Time, categories map[string]struct{}) []entity.Entry {
	matched := e.EntriesInCategories(acc, categories)
	result := make([]entity.Entry, 0, len(matched))
	for _, en := range matched {
		if !en.Timestamp.Before(from) && !en.Timestamp.After(to) {
			result = append(result, en)
		}
	}
	return result
}

// AllCategories returns the distinct entry categories in lexicographic order
func (e *AggregationEngine) AllCategories(acc *entity.Account) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, en := range entriesOf(acc) {
		if _, ok := seen[en.Category]; ok {
			continue
		}
		seen[en.Category] = struct{}{}
		out = append(out, en.Category)
	}
	slices.Sort(out)
	return out
}

// BudgetCategories returns the budgeted categories in lexicographic order
func (e *AggregationEngine) BudgetCategories(acc *entity.Account) []string {
	if acc == nil || acc.Ledger == nil {
		return []string{}
	}
	return acc.Ledger.BudgetCategories()
}

// BudgetStatuses evaluates every budgeted category. Alert is set when
// spending reached alertPercent of the limit.
func (e *AggregationEngine) BudgetStatuses(acc *entity.Account, alertPercent float64) []BudgetStatus {
	categories := e.BudgetCategories(acc)
	statuses := make([]BudgetStatus, 0, len(categories))
	for _, category := range categories {
		limit := e.Budget(acc, category)
		spent := e.Spent(acc, category)
		remaining := limit - spent
		statuses = append(statuses, BudgetStatus{
			Category:  category,
			Limit:     limit,
			Spent:     spent,
			Remaining: remaining,
			Over:      remaining < 0,
			Exhausted: math.Abs(remaining) < ExhaustedTolerance,
			Alert:     e.IsOverBudgetByPercent(acc, category, alertPercent),
		})
	}
	return statuses
}

// CategorySet builds a set from category names, skipping blanks
func CategorySet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		set[name] = struct{}{}
	}
	return set
}

func ledgerOf(acc *entity.Account) (*entity.Ledger, error) {
	if acc == nil {
		return nil, fmt.Errorf("%w: account is nil", entity.ErrInvalidArgument)
	}
	if acc.Ledger == nil {
		acc.Ledger = entity.NewLedger()
	}
	return acc.Ledger, nil
}

func entriesOf(acc *entity.Account) []entity.Entry {
	if acc == nil || acc.Ledger == nil {
		return nil
	}
	return acc.Ledger.Entries()
}

func sumWhere(entries []entity.Entry, keep func(entity.Entry) bool) float64 {
	var total float64
	for _, en := range entries {
		if keep(en) {
			total += en.Amount
		}
	}
	return total
}

func groupByCategory(entries []entity.Entry, income bool) CategoryTotals {
	sums := make(map[string]float64)
	order := make([]string, 0)
	for _, en := range entries {
		if en.IsIncome != income {
			continue
		}
		if _, ok := sums[en.Category]; !ok {
			order = append(order, en.Category)
		}
		sums[en.Category] += en.Amount
	}
	slices.Sort(order)

	totals := make(CategoryTotals, 0, len(order))
	for _, category := range order {
		totals = append(totals, CategoryAmount{Category: category, Amount: sums[category]})
	}
	return totals
}
