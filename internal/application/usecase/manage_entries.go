package usecase

import (
	"context"
	"fmt"
	"strings"

	"fintrack.com/internal/domain/entity"
	"fintrack.com/internal/domain/port"
	"fintrack.com/internal/domain/service"
	"fintrack.com/internal/infrastructure/logger"
)

// ManageEntriesUseCase lists, removes and edits existing entries
type ManageEntriesUseCase struct {
	repository port.AccountRepository
	logger     logger.Logger
}

// NewManageEntriesUseCase creates a new ManageEntriesUseCase
func NewManageEntriesUseCase(repository port.AccountRepository, logger logger.Logger) *ManageEntriesUseCase {
	return &ManageEntriesUseCase{
		repository: repository,
		logger:     logger,
	}
}

// EntryEdit lists the fields to change; nil fields are kept
type EntryEdit struct {
	Category *string
	Amount   *float64
	IsIncome *bool
}

func (e EntryEdit) empty() bool {
	return e.Category == nil && e.Amount == nil && e.IsIncome == nil
}

// List returns the entries in insertion order
func (uc *ManageEntriesUseCase) List(ctx context.Context, username string) ([]entity.Entry, error) {
	acc, err := loadAccount(ctx, uc.repository, username)
	if err != nil {
		return nil, err
	}
	return acc.Ledger.Entries(), nil
}

// Remove deletes the entry at a zero-based index
func (uc *ManageEntriesUseCase) Remove(ctx context.Context, username string, index int) (entity.Entry, error) {
	var removed entity.Entry
	_, err := mutateAccount(ctx, uc.repository, username, func(acc *entity.Account) error {
		var err error
		removed, err = acc.Ledger.RemoveEntry(index)
		return err
	})
	if err != nil {
		uc.logger.LogWarning(ctx, "Entry removal rejected", "index", index, "reason", err.Error())
		return entity.Entry{}, err
	}
	uc.logger.LogInfo(ctx, "Entry removed", "index", index, "category", removed.Category)
	return removed, nil
}

// Edit changes the entry at a zero-based index. The timestamp is kept.
func (uc *ManageEntriesUseCase) Edit(ctx context.Context, username string, index int, edit EntryEdit) (entity.Entry, error) {
	if edit.empty() {
		return entity.Entry{}, fmt.Errorf("%w: nothing to change", entity.ErrInvalidArgument)
	}

	var edited entity.Entry
	_, err := mutateAccount(ctx, uc.repository, username, func(acc *entity.Account) error {
		return acc.Ledger.UpdateEntry(index, func(e *entity.Entry) error {
			category, amount := e.Category, e.Amount
			if edit.Category != nil {
				category = strings.TrimSpace(*edit.Category)
			}
			if edit.Amount != nil {
				amount = *edit.Amount
			}
			if err := service.ValidateEntryInput(category, amount); err != nil {
				return err
			}
			e.SetCategory(category)
			e.SetAmount(amount)
			if edit.IsIncome != nil {
				e.SetIncome(*edit.IsIncome)
			}
			edited = *e
			return nil
		})
	})
	if err != nil {
		uc.logger.LogWarning(ctx, "Entry edit rejected", "index", index, "reason", err.Error())
		return entity.Entry{}, err
	}
	uc.logger.LogInfo(ctx, "Entry edited", "index", index, "category", edited.Category)
	return edited, nil
}
