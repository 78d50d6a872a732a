package usecase

import (
	"context"
	"strings"

	"fintrack.com/internal/domain/entity"
	"fintrack.com/internal/domain/port"
	"fintrack.com/internal/domain/service"
	"fintrack.com/internal/infrastructure/logger"
)

// RecordEntryUseCase adds income and outcome entries
type RecordEntryUseCase struct {
	repository   port.AccountRepository
	engine       *service.AggregationEngine
	alertPercent float64
	logger       logger.Logger
}

// NewRecordEntryUseCase creates a new RecordEntryUseCase
func NewRecordEntryUseCase(
	repository port.AccountRepository,
	engine *service.AggregationEngine,
	alertPercent float64,
	logger logger.Logger,
) *RecordEntryUseCase {
	return &RecordEntryUseCase{
		repository:   repository,
		engine:       engine,
		alertPercent: alertPercent,
		logger:       logger,
	}
}

// RecordEntryResult is the stored entry with the state it left behind
type RecordEntryResult struct {
	Entry   entity.Entry
	Balance float64
	// Budget is set for an outcome in a budgeted category
	Budget *service.BudgetStatus
}

func (uc *RecordEntryUseCase) AddIncome(ctx context.Context, username, category string, amount float64) (*RecordEntryResult, error) {
	return uc.record(ctx, username, category, amount, true)
}

func (uc *RecordEntryUseCase) AddOutcome(ctx context.Context, username, category string, amount float64) (*RecordEntryResult, error) {
	return uc.record(ctx, username, category, amount, false)
}

func (uc *RecordEntryUseCase) record(ctx context.Context, username, category string, amount float64, isIncome bool) (*RecordEntryResult, error) {
	category = strings.TrimSpace(category)
	acc, err := mutateAccount(ctx, uc.repository, username, func(acc *entity.Account) error {
		if isIncome {
			return uc.engine.AddIncome(acc, category, amount)
		}
		return uc.engine.AddOutcome(acc, category, amount)
	})
	if err != nil {
		uc.logger.LogWarning(ctx, "Entry rejected", "category", category, "reason", err.Error())
		return nil, err
	}

	entry, err := acc.Ledger.Entry(acc.Ledger.Len() - 1)
	if err != nil {
		return nil, err
	}
	result := &RecordEntryResult{
		Entry:   entry,
		Balance: uc.engine.CurrentBalance(acc),
	}
	if !isIncome {
		result.Budget = budgetStatusOf(uc.engine.BudgetStatuses(acc, uc.alertPercent), category)
	}

	uc.logger.LogInfo(ctx, "Entry recorded", "kind", entry.Kind(), "category", category, "amount", amount)
	return result, nil
}

func budgetStatusOf(statuses []service.BudgetStatus, category string) *service.BudgetStatus {
	for i := range statuses {
		if statuses[i].Category == category {
			return &statuses[i]
		}
	}
	return nil
}
