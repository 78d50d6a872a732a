package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"fintrack.com/internal/domain/entity"
	"fintrack.com/internal/domain/port"
	"fintrack.com/internal/infrastructure/logger"
)

// InMemoryAccounts implements the AccountRepository port
type InMemoryAccounts struct {
	mu       sync.RWMutex
	accounts map[string]*entity.Account
	logger   logger.Logger
}

// NewInMemoryAccounts creates an empty in-memory account store
func NewInMemoryAccounts(logger logger.Logger) *InMemoryAccounts {
	return &InMemoryAccounts{
		accounts: make(map[string]*entity.Account),
		logger:   logger,
	}
}

var _ port.AccountRepository = (*InMemoryAccounts)(nil)

// Save stores a copy of the account under username
func (r *InMemoryAccounts) Save(ctx context.Context, username string, account *entity.Account) error {
	if strings.TrimSpace(username) == "" || account == nil {
		return fmt.Errorf("%w: username and account are required", entity.ErrInvalidArgument)
	}

	r.mu.Lock()
	r.accounts[username] = account.Clone()
	r.mu.Unlock()

	r.logger.LogDebug(ctx, "Account saved", "user", username)
	return nil
}

// Find returns a copy of the stored account
func (r *InMemoryAccounts) Find(_ context.Context, username string) (*entity.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[username]
	if !ok {
		return nil, fmt.Errorf("%w: %q", entity.ErrUserNotFound, username)
	}
	return account.Clone(), nil
}

// Delete removes an account; unknown usernames are ignored
func (r *InMemoryAccounts) Delete(ctx context.Context, username string) error {
	r.mu.Lock()
	delete(r.accounts, username)
	r.mu.Unlock()

	r.logger.LogDebug(ctx, "Account deleted", "user", username)
	return nil
}

// FindAll returns independent copies of every account
func (r *InMemoryAccounts) FindAll(_ context.Context) (map[string]*entity.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Create a copy to avoid race conditions
	accountsCopy := make(map[string]*entity.Account, len(r.accounts))
	for username, account := range r.accounts {
		accountsCopy[username] = account.Clone()
	}
	return accountsCopy, nil
}

// ReplaceAll swaps the whole account map; nil empties the store
func (r *InMemoryAccounts) ReplaceAll(ctx context.Context, accounts map[string]*entity.Account) error {
	replacement := make(map[string]*entity.Account, len(accounts))
	for username, account := range accounts {
		if account == nil {
			continue
		}
		replacement[username] = account.Clone()
	}

	r.mu.Lock()
	r.accounts = replacement
	r.mu.Unlock()

	r.logger.LogInfo(ctx, "Accounts replaced", "count", len(replacement))
	return nil
}

// restore swaps in a map the caller already owns, without cloning
func (r *InMemoryAccounts) restore(accounts map[string]*entity.Account) {
	r.mu.Lock()
	r.accounts = accounts
	r.mu.Unlock()
}

// Contains reports whether username is stored
func (r *InMemoryAccounts) Contains(_ context.Context, username string) bool {
	if username == "" {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.accounts[username]
	return ok
}
