package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"fintrack.com/internal/domain/entity"
	"fintrack.com/internal/domain/port"
	"fintrack.com/internal/infrastructure/logger"
)

// ExportAccountUseCase writes one account to a standalone JSON file
type ExportAccountUseCase struct {
	repository port.AccountRepository
	files      port.AccountFiles
	logger     logger.Logger
}

// NewExportAccountUseCase creates a new ExportAccountUseCase
func NewExportAccountUseCase(repository port.AccountRepository, files port.AccountFiles, logger logger.Logger) *ExportAccountUseCase {
	return &ExportAccountUseCase{
		repository: repository,
		files:      files,
		logger:     logger,
	}
}

// Execute exports the account and returns the written path.
// An empty path means <username>.json; a path without extension gets .json.
func (uc *ExportAccountUseCase) Execute(ctx context.Context, username, path string) (string, error) {
	acc, err := loadAccount(ctx, uc.repository, username)
	if err != nil {
		return "", err
	}

	path = strings.TrimSpace(path)
	if path == "" {
		path = acc.Username
	}
	if filepath.Ext(path) == "" {
		path += ".json"
	}

	if err := uc.files.Export(ctx, acc, path); err != nil {
		uc.logger.LogError(ctx, "Failed to export account", err, "file", path)
		return "", err
	}
	uc.logger.LogInfo(ctx, "Account exported", "file", path, "entries", acc.Ledger.Len())
	return path, nil
}

// ImportAccountUseCase reads an account from a JSON file into the store
type ImportAccountUseCase struct {
	repository port.AccountRepository
	files      port.AccountFiles
	logger     logger.Logger
}

// NewImportAccountUseCase creates a new ImportAccountUseCase
func NewImportAccountUseCase(repository port.AccountRepository, files port.AccountFiles, logger logger.Logger) *ImportAccountUseCase {
	return &ImportAccountUseCase{
		repository: repository,
		files:      files,
		logger:     logger,
	}
}

// Execute imports the file. An existing account with the same username is
// replaced only when overwrite is set.
func (uc *ImportAccountUseCase) Execute(ctx context.Context, path string, overwrite bool) (*entity.Account, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: file name is empty", entity.ErrInvalidArgument)
	}
	if filepath.Ext(path) == "" {
		path += ".json"
	}

	acc, err := uc.files.Import(ctx, path)
	if err != nil {
		uc.logger.LogWarning(ctx, "Import rejected", "file", path, "reason", err.Error())
		return nil, err
	}
	if !overwrite && uc.repository.Contains(ctx, acc.Username) {
		return nil, fmt.Errorf("%w: %s", entity.ErrUserAlreadyExists, acc.Username)
	}
	if err := uc.repository.Save(ctx, acc.Username, acc); err != nil {
		return nil, fmt.Errorf("save imported account: %w", err)
	}

	uc.logger.LogInfo(ctx, "Account imported", "file", path, "username", acc.Username, "entries", acc.Ledger.Len())
	return acc, nil
}
