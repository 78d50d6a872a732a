package usecase

import (
	"context"
	"maps"
	"slices"
	"time"

	"fintrack.com/internal/domain/entity"
	"fintrack.com/internal/domain/port"
	"fintrack.com/internal/domain/service"
)

// GetStatisticsUseCase builds read-only views over an account's ledger
type GetStatisticsUseCase struct {
	repository   port.AccountRepository
	engine       *service.AggregationEngine
	alertPercent float64
}

// NewGetStatisticsUseCase creates a new GetStatisticsUseCase
func NewGetStatisticsUseCase(
	repository port.AccountRepository,
	engine *service.AggregationEngine,
	alertPercent float64,
) *GetStatisticsUseCase {
	return &GetStatisticsUseCase{
		repository:   repository,
		engine:       engine,
		alertPercent: alertPercent,
	}
}

// Summary is the full statistics screen of one account
type Summary struct {
	Username             string                 `json:"username"`
	TotalIncome          float64                `json:"totalIncome"`
	TotalOutcome         float64                `json:"totalOutcome"`
	Balance              float64                `json:"balance"`
	OutcomeExceedsIncome bool                   `json:"outcomeExceedsIncome"`
	IncomeByCategory     service.CategoryTotals `json:"incomeByCategory"`
	OutcomeByCategory    service.CategoryTotals `json:"outcomeByCategory"`
	Budgets              []service.BudgetStatus `json:"budgets"`
	AlertPercent         float64                `json:"alertPercent"`
}

func (uc *GetStatisticsUseCase) Summary(ctx context.Context, username string) (*Summary, error) {
	acc, err := loadAccount(ctx, uc.repository, username)
	if err != nil {
		return nil, err
	}
	return &Summary{
		Username:             acc.Username,
		TotalIncome:          uc.engine.TotalIncome(acc),
		TotalOutcome:         uc.engine.TotalOutcome(acc),
		Balance:              uc.engine.CurrentBalance(acc),
		OutcomeExceedsIncome: uc.engine.OutcomeExceedsIncome(acc),
		IncomeByCategory:     uc.engine.IncomeByCategory(acc),
		OutcomeByCategory:    uc.engine.OutcomeByCategory(acc),
		Budgets:              uc.engine.BudgetStatuses(acc, uc.alertPercent),
		AlertPercent:         uc.alertPercent,
	}, nil
}

// endOfTime stands in for an open upper bound
var endOfTime = time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC)

// FilterRequest selects entries by time range and categories.
// A zero From or To leaves that side open; no categories selects all of them.
type FilterRequest struct {
	From       time.Time
	To         time.Time
	Categories []string
}

// FilterResult is the filtered entry list with its totals
type FilterResult struct {
	From       time.Time
	To         time.Time
	Swapped    bool
	Categories []string
	Entries    []entity.Entry
	Income     float64
	Outcome    float64
	Budgets    []service.BudgetStatus
}

// Filter returns entries within [From, To] in the selected categories.
// A reversed range is swapped rather than rejected.
func (uc *GetStatisticsUseCase) Filter(ctx context.Context, username string, req FilterRequest) (*FilterResult, error) {
	acc, err := loadAccount(ctx, uc.repository, username)
	if err != nil {
		return nil, err
	}

	result := &FilterResult{From: req.From, To: req.To}
	if !result.From.IsZero() && !result.To.IsZero() && result.From.After(result.To) {
		result.From, result.To = result.To, result.From
		result.Swapped = true
	}
	from, to := result.From, result.To
	if to.IsZero() {
		to = endOfTime
	}

	set := service.CategorySet(req.Categories...)
	if len(set) == 0 {
		set = service.CategorySet(uc.engine.AllCategories(acc)...)
	}
	result.Categories = slices.Sorted(maps.Keys(set))

	result.Entries = uc.engine.EntriesInCategoriesAndRange(acc, from, to, set)
	for _, e := range result.Entries {
		if e.IsIncome {
			result.Income += e.Amount
		} else {
			result.Outcome += e.Amount
		}
	}
	for _, status := range uc.engine.BudgetStatuses(acc, uc.alertPercent) {
		if _, ok := set[status.Category]; ok {
			result.Budgets = append(result.Budgets, status)
		}
	}
	return result, nil
}

// Categories lists every entry category and every budget status
type Categories struct {
	All     []string
	Budgets []service.BudgetStatus
}

func (uc *GetStatisticsUseCase) Categories(ctx context.Context, username string) (*Categories, error) {
	acc, err := loadAccount(ctx, uc.repository, username)
	if err != nil {
		return nil, err
	}
	return &Categories{
		All:     uc.engine.AllCategories(acc),
		Budgets: uc.engine.BudgetStatuses(acc, uc.alertPercent),
	}, nil
}
