package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"fintrack.com/internal/domain/entity"
	"fintrack.com/internal/domain/port"
	"fintrack.com/internal/infrastructure/logger"
)

// ErrBackupUnsupported is returned when the snapshot store cannot write backups
var ErrBackupUnsupported = errors.New("snapshot store does not support backups")

// SnapshotAccounts keeps accounts in memory and overwrites the whole
// snapshot after every mutation.
type SnapshotAccounts struct {
	*InMemoryAccounts

	// serializes snapshot writes so the file always reflects the latest map
	writeMu sync.Mutex
	store   port.SnapshotStore
	logger  logger.Logger
}

// OpenSnapshotAccounts loads the snapshot and returns a repository backed by it
func OpenSnapshotAccounts(ctx context.Context, store port.SnapshotStore, logger logger.Logger) (*SnapshotAccounts, error) {
	accounts, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	memory := NewInMemoryAccounts(logger)
	if err := memory.ReplaceAll(ctx, accounts); err != nil {
		return nil, err
	}

	logger.LogInfo(ctx, "Accounts loaded", "count", len(accounts))

	return &SnapshotAccounts{
		InMemoryAccounts: memory,
		store:            store,
		logger:           logger,
	}, nil
}

var (
	_ port.AccountRepository = (*SnapshotAccounts)(nil)
	_ port.AccountArchiver   = (*SnapshotAccounts)(nil)
)

func (r *SnapshotAccounts) Save(ctx context.Context, username string, account *entity.Account) error {
	return r.mutate(ctx, func() error {
		return r.InMemoryAccounts.Save(ctx, username, account)
	})
}

func (r *SnapshotAccounts) Delete(ctx context.Context, username string) error {
	return r.mutate(ctx, func() error {
		return r.InMemoryAccounts.Delete(ctx, username)
	})
}

func (r *SnapshotAccounts) ReplaceAll(ctx context.Context, accounts map[string]*entity.Account) error {
	return r.mutate(ctx, func() error {
		return r.InMemoryAccounts.ReplaceAll(ctx, accounts)
	})
}

// mutate applies change and writes the snapshot. When the write fails the
// in-memory map is put back to its previous state, so memory never holds
// what the store refused.
func (r *SnapshotAccounts) mutate(ctx context.Context, change func() error) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	previous, err := r.InMemoryAccounts.FindAll(ctx)
	if err != nil {
		return err
	}
	if err := change(); err != nil {
		return err
	}
	if err := r.flushLocked(ctx); err != nil {
		r.InMemoryAccounts.restore(previous)
		r.logger.LogWarning(ctx, "In-memory accounts restored after failed write", "count", len(previous))
		return err
	}
	return nil
}

// Flush writes the current account map to the snapshot store
func (r *SnapshotAccounts) Flush(ctx context.Context) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	return r.flushLocked(ctx)
}

func (r *SnapshotAccounts) flushLocked(ctx context.Context) error {
	accounts, err := r.InMemoryAccounts.FindAll(ctx)
	if err != nil {
		return err
	}
	if err := r.store.Save(ctx, accounts); err != nil {
		r.logger.LogError(ctx, "Failed to write snapshot", err, "count", len(accounts))
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Backup writes a point-in-time copy when the store supports it
func (r *SnapshotAccounts) Backup(ctx context.Context) (string, error) {
	backuper, ok := r.store.(port.Backuper)
	if !ok {
		return "", ErrBackupUnsupported
	}
	accounts, err := r.InMemoryAccounts.FindAll(ctx)
	if err != nil {
		return "", err
	}
	location, err := backuper.Backup(ctx, accounts)
	if err != nil {
		r.logger.LogError(ctx, "Failed to write backup", err)
		return "", fmt.Errorf("write backup: %w", err)
	}
	r.logger.LogInfo(ctx, "Backup written", "location", location, "count", len(accounts))
	return location, nil
}
