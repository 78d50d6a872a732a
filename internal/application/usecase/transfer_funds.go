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

// TransferFundsUseCase moves money between two accounts as a pair of entries
type TransferFundsUseCase struct {
	repository port.AccountRepository
	engine     *service.AggregationEngine
	logger     logger.Logger
}

// NewTransferFundsUseCase creates a new TransferFundsUseCase
func NewTransferFundsUseCase(
	repository port.AccountRepository,
	engine *service.AggregationEngine,
	logger logger.Logger,
) *TransferFundsUseCase {
	return &TransferFundsUseCase{
		repository: repository,
		engine:     engine,
		logger:     logger,
	}
}

// TransferRequest describes one transfer; Description is optional
type TransferRequest struct {
	From        string
	To          string
	Amount      float64
	Description string
}

// TransferResult reports the sender's balance after the transfer
type TransferResult struct {
	SenderBalance float64
	Outcome       entity.Entry
	Income        entity.Entry
}

// Execute records an outcome for the sender and an income for the recipient
func (uc *TransferFundsUseCase) Execute(ctx context.Context, req TransferRequest) (*TransferResult, error) {
	from := strings.TrimSpace(req.From)
	to := strings.TrimSpace(req.To)
	if to == "" {
		return nil, fmt.Errorf("%w: recipient is empty", entity.ErrInvalidArgument)
	}
	if to == from {
		return nil, entity.ErrSelfTransfer
	}

	sender, err := loadAccount(ctx, uc.repository, from)
	if err != nil {
		return nil, err
	}
	recipient, err := uc.repository.Find(ctx, to)
	if err != nil {
		uc.logger.LogWarning(ctx, "Transfer rejected", "to", to, "reason", "unknown recipient")
		return nil, err
	}
	if !(req.Amount > 0) {
		return nil, fmt.Errorf("%w: amount must be positive, got %v", entity.ErrInvalidArgument, req.Amount)
	}
	if balance := uc.engine.CurrentBalance(sender); req.Amount > balance {
		uc.logger.LogWarning(ctx, "Transfer rejected", "to", to, "amount", req.Amount, "balance", balance)
		return nil, fmt.Errorf("%w: available %.2f", entity.ErrInsufficientFunds, balance)
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = "Transfer to " + to
	}
	originalSender := sender.Clone()
	originalRecipient := recipient.Clone()

	if err := uc.engine.AddOutcome(sender, description, req.Amount); err != nil {
		return nil, err
	}
	if err := uc.engine.AddIncome(recipient, "Transfer from "+sender.Username, req.Amount); err != nil {
		return nil, err
	}

	if err := uc.repository.Save(ctx, sender.Username, sender); err != nil {
		return nil, fmt.Errorf("save sender: %w", err)
	}
	if err := uc.repository.Save(ctx, recipient.Username, recipient); err != nil {
		uc.rollback(ctx, originalSender, originalRecipient)
		return nil, fmt.Errorf("save recipient: %w", err)
	}

	outcome, _ := sender.Ledger.Entry(sender.Ledger.Len() - 1)
	income, _ := recipient.Ledger.Entry(recipient.Ledger.Len() - 1)

	uc.logger.LogInfo(ctx, "Transfer completed", "from", sender.Username, "to", to, "amount", req.Amount)
	return &TransferResult{
		SenderBalance: uc.engine.CurrentBalance(sender),
		Outcome:       outcome,
		Income:        income,
	}, nil
}

// rollback saves both accounts as they were before the transfer
func (uc *TransferFundsUseCase) rollback(ctx context.Context, accounts ...*entity.Account) {
	for _, acc := range accounts {
		if err := uc.repository.Save(ctx, acc.Username, acc); err != nil {
			uc.logger.LogError(ctx, "Failed to roll back account after transfer failure", err, "user", acc.Username)
		}
	}
}
