package usecase

import (
	"context"
	"strings"

	"fintrack.com/internal/domain/entity"
	"fintrack.com/internal/domain/port"
	"fintrack.com/internal/domain/service"
	"fintrack.com/internal/infrastructure/logger"
)

// ManageBudgetUseCase sets, removes and lists category budgets
type ManageBudgetUseCase struct {
	repository   port.AccountRepository
	engine       *service.AggregationEngine
	alertPercent float64
	logger       logger.Logger
}

// NewManageBudgetUseCase creates a new ManageBudgetUseCase
func NewManageBudgetUseCase(
	repository port.AccountRepository,
	engine *service.AggregationEngine,
	alertPercent float64,
	logger logger.Logger,
) *ManageBudgetUseCase {
	return &ManageBudgetUseCase{
		repository:   repository,
		engine:       engine,
		alertPercent: alertPercent,
		logger:       logger,
	}
}

// Set stores the limit and returns the category's resulting status
func (uc *ManageBudgetUseCase) Set(ctx context.Context, username, category string, amount float64) (service.BudgetStatus, error) {
	category = strings.TrimSpace(category)
	acc, err := mutateAccount(ctx, uc.repository, username, func(acc *entity.Account) error {
		return uc.engine.SetBudget(acc, category, amount)
	})
	if err != nil {
		uc.logger.LogWarning(ctx, "Budget rejected", "category", category, "reason", err.Error())
		return service.BudgetStatus{}, err
	}

	uc.logger.LogInfo(ctx, "Budget set", "category", category, "limit", amount)
	if status := budgetStatusOf(uc.engine.BudgetStatuses(acc, uc.alertPercent), category); status != nil {
		return *status, nil
	}
	return service.BudgetStatus{Category: category, Limit: amount, Remaining: amount}, nil
}

func (uc *ManageBudgetUseCase) Remove(ctx context.Context, username, category string) error {
	category = strings.TrimSpace(category)
	_, err := mutateAccount(ctx, uc.repository, username, func(acc *entity.Account) error {
		return uc.engine.RemoveBudget(acc, category)
	})
	if err != nil {
		uc.logger.LogWarning(ctx, "Budget removal rejected", "category", category, "reason", err.Error())
		return err
	}
	uc.logger.LogInfo(ctx, "Budget removed", "category", category)
	return nil
}

// List returns one status per budgeted category, sorted by category
func (uc *ManageBudgetUseCase) List(ctx context.Context, username string) ([]service.BudgetStatus, error) {
	acc, err := loadAccount(ctx, uc.repository, username)
	if err != nil {
		return nil, err
	}
	return uc.engine.BudgetStatuses(acc, uc.alertPercent), nil
}
