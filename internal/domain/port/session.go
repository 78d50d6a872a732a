package port

import "context"

// SessionStore remembers which user is logged in between CLI invocations.
// Load returns an empty username when nobody is logged in.
type SessionStore interface {
	Load(ctx context.Context) (string, error)
	Store(ctx context.Context, username string) error
	Clear(ctx context.Context) error
}
