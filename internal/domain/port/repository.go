package port

import (
	"context"

	"fintrack.com/internal/domain/entity"
)

// AccountRepository is the port for keyed account storage.
// Implementations must be safe for concurrent use and must never hand out
// references to their internal state.
type AccountRepository interface {
	Save(ctx context.Context, username string, account *entity.Account) error
	Find(ctx context.Context, username string) (*entity.Account, error)
	Delete(ctx context.Context, username string) error
	FindAll(ctx context.Context) (map[string]*entity.Account, error)
	ReplaceAll(ctx context.Context, accounts map[string]*entity.Account) error
	Contains(ctx context.Context, username string) bool
}
