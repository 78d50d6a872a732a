package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"fintrack.com/internal/domain/entity"
	"fintrack.com/internal/domain/port"
	"fintrack.com/internal/infrastructure/logger"
)

// AuthenticateUseCase registers, logs in and deletes accounts
type AuthenticateUseCase struct {
	repository port.AccountRepository
	hasher     port.PasswordHasher
	logger     logger.Logger
}

// NewAuthenticateUseCase creates a new AuthenticateUseCase
func NewAuthenticateUseCase(
	repository port.AccountRepository,
	hasher port.PasswordHasher,
	logger logger.Logger,
) *AuthenticateUseCase {
	return &AuthenticateUseCase{
		repository: repository,
		hasher:     hasher,
		logger:     logger,
	}
}

// Register creates an account with an empty ledger
func (uc *AuthenticateUseCase) Register(ctx context.Context, username, password string) (*entity.Account, error) {
	if err := entity.ValidateCredentials(username, password); err != nil {
		uc.logger.LogWarning(ctx, "Registration rejected", "reason", err.Error())
		return nil, err
	}
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	if uc.repository.Contains(ctx, username) {
		uc.logger.LogWarning(ctx, "Registration rejected", "username", username, "reason", "exists")
		return nil, fmt.Errorf("%w: %s", entity.ErrUserAlreadyExists, username)
	}

	hash, err := uc.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	acc, err := entity.NewAccount(username, hash)
	if err != nil {
		return nil, err
	}
	if err := uc.repository.Save(ctx, username, acc); err != nil {
		uc.logger.LogError(ctx, "Failed to save new account", err, "username", username)
		return nil, fmt.Errorf("save account: %w", err)
	}

	uc.logger.LogInfo(ctx, "Account registered", "username", username)
	return acc, nil
}

// Login checks the credentials of an existing account
func (uc *AuthenticateUseCase) Login(ctx context.Context, username, password string) (*entity.Account, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return nil, fmt.Errorf("%w: username and password are required", entity.ErrInvalidArgument)
	}
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	acc, err := uc.repository.Find(ctx, username)
	if err != nil {
		uc.logger.LogWarning(ctx, "Login rejected", "username", username, "reason", "unknown user")
		return nil, err
	}

	if err := uc.verifyPassword(ctx, acc, password); err != nil {
		uc.logger.LogWarning(ctx, "Login rejected", "username", username, "reason", "password")
		return nil, err
	}

	uc.logger.LogInfo(ctx, "Logged in", "username", username)
	return acc, nil
}

// HandleLogin logs in when the user exists and registers otherwise.
// The boolean reports whether a new account was created.
func (uc *AuthenticateUseCase) HandleLogin(ctx context.Context, username, password string) (*entity.Account, bool, error) {
	if uc.repository.Contains(ctx, strings.TrimSpace(username)) {
		acc, err := uc.Login(ctx, username, password)
		return acc, false, err
	}
	acc, err := uc.Register(ctx, username, password)
	return acc, err == nil, err
}

// DeleteAccount removes an account after checking its password
func (uc *AuthenticateUseCase) DeleteAccount(ctx context.Context, username, password string) error {
	acc, err := uc.Login(ctx, username, password)
	if err != nil {
		return err
	}
	if err := uc.repository.Delete(ctx, acc.Username); err != nil {
		uc.logger.LogError(ctx, "Failed to delete account", err, "username", acc.Username)
		return fmt.Errorf("delete account: %w", err)
	}
	uc.logger.LogInfo(ctx, "Account deleted", "username", acc.Username)
	return nil
}

// verifyPassword compares against the stored hash. Accounts imported from
// older exports may still hold a plain password; on a match it is replaced
// by a hash.
func (uc *AuthenticateUseCase) verifyPassword(ctx context.Context, acc *entity.Account, password string) error {
	err := uc.hasher.Compare(acc.Password, password)
	if err == nil || errors.Is(err, entity.ErrPasswordMismatch) {
		return err
	}

	if subtle.ConstantTimeCompare([]byte(acc.Password), []byte(password)) != 1 {
		return entity.ErrPasswordMismatch
	}
	hash, err := uc.hasher.Hash(password)
	if err != nil {
		return err
	}
	acc.Password = hash
	if err := uc.repository.Save(ctx, acc.Username, acc); err != nil {
		return fmt.Errorf("save rehashed password: %w", err)
	}
	uc.logger.LogInfo(ctx, "Plain password replaced by hash", "username", acc.Username)
	return nil
}
