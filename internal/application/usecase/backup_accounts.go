package usecase

import (
	"context"

	"fintrack.com/internal/domain/port"
	"fintrack.com/internal/infrastructure/logger"
)

// BackupAccountsUseCase writes a timestamped copy of every account
type BackupAccountsUseCase struct {
	archiver port.AccountArchiver
	logger   logger.Logger
}

// NewBackupAccountsUseCase creates a new BackupAccountsUseCase
func NewBackupAccountsUseCase(archiver port.AccountArchiver, logger logger.Logger) *BackupAccountsUseCase {
	return &BackupAccountsUseCase{
		archiver: archiver,
		logger:   logger,
	}
}

// Execute returns the location of the written backup
func (uc *BackupAccountsUseCase) Execute(ctx context.Context) (string, error) {
	location, err := uc.archiver.Backup(ctx)
	if err != nil {
		uc.logger.LogWarning(ctx, "Backup failed", "reason", err.Error())
		return "", err
	}
	return location, nil
}
