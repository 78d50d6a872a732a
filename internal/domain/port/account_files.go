package port

import (
	"context"

	"fintrack.com/internal/domain/entity"
)

// AccountFiles exports and imports single accounts as standalone files
type AccountFiles interface {
	Export(ctx context.Context, account *entity.Account, path string) error
	Import(ctx context.Context, path string) (*entity.Account, error)
}

// AccountArchiver writes a point-in-time copy of all stored accounts
type AccountArchiver interface {
	Backup(ctx context.Context) (string, error)
}
