package usecase

import (
	"context"

	"fintrack.com/internal/domain/entity"
	"fintrack.com/internal/domain/port"
	"fintrack.com/internal/infrastructure/logger"
)

// SessionUseCase tracks the logged-in user between commands
type SessionUseCase struct {
	store      port.SessionStore
	repository port.AccountRepository
	logger     logger.Logger
}

// NewSessionUseCase creates a new SessionUseCase
func NewSessionUseCase(store port.SessionStore, repository port.AccountRepository, logger logger.Logger) *SessionUseCase {
	return &SessionUseCase{
		store:      store,
		repository: repository,
		logger:     logger,
	}
}

// Current returns the logged-in username. A session pointing at a deleted
// account is cleared and reported as ErrNotLoggedIn.
func (uc *SessionUseCase) Current(ctx context.Context) (string, error) {
	username, err := uc.store.Load(ctx)
	if err != nil {
		return "", err
	}
	if username == "" {
		return "", ErrNotLoggedIn
	}
	if !uc.repository.Contains(ctx, username) {
		uc.logger.LogWarning(ctx, "Session refers to a missing account", "username", username)
		if err := uc.store.Clear(ctx); err != nil {
			return "", err
		}
		return "", ErrNotLoggedIn
	}
	return username, nil
}

func (uc *SessionUseCase) Begin(ctx context.Context, username string) error {
	if !uc.repository.Contains(ctx, username) {
		return entity.ErrUserNotFound
	}
	return uc.store.Store(ctx, username)
}

// End logs out; ending without a session is not an error
func (uc *SessionUseCase) End(ctx context.Context) error {
	return uc.store.Clear(ctx)
}
