package usecase

import (
	"context"
	"errors"
	"fmt"

	"fintrack.com/internal/domain/entity"
	"fintrack.com/internal/domain/port"
)

// ErrNotLoggedIn is returned when a command needs a session and none is active
var ErrNotLoggedIn = errors.New("not logged in")

// loadAccount fetches an account for a read-only operation
func loadAccount(ctx context.Context, repository port.AccountRepository, username string) (*entity.Account, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is empty", entity.ErrInvalidArgument)
	}
	return repository.Find(ctx, username)
}

// mutateAccount loads an account, applies fn and saves the result.
// Nothing is saved when fn fails.
func mutateAccount(ctx context.Context, repository port.AccountRepository, username string, fn func(*entity.Account) error) (*entity.Account, error) {
	acc, err := loadAccount(ctx, repository, username)
	if err != nil {
		return nil, err
	}
	if err := fn(acc); err != nil {
		return nil, err
	}
	if err := repository.Save(ctx, acc.Username, acc); err != nil {
		return nil, fmt.Errorf("save account: %w", err)
	}
	return acc, nil
}
