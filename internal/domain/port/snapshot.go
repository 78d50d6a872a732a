package port

import (
	"context"

	"fintrack.com/internal/domain/entity"
)

// SnapshotStore persists the whole account map at once
type SnapshotStore interface {
	Save(ctx context.Context, accounts map[string]*entity.Account) error
	Load(ctx context.Context) (map[string]*entity.Account, error)
}

// Backuper writes a point-in-time copy of the account map and returns its location
type Backuper interface {
	Backup(ctx context.Context, accounts map[string]*entity.Account) (string, error)
}
