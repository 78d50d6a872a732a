package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fintrack.com/internal/domain/port"
	"fintrack.com/internal/infrastructure/logger"
)

// FileStore keeps the logged-in username in a small file
type FileStore struct {
	path   string
	logger logger.Logger
}

var _ port.SessionStore = (*FileStore)(nil)

func NewFileStore(path string, logger logger.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// Load returns "" when no session file exists
func (s *FileStore) Load(_ context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read session %s: %w", s.path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileStore) Store(ctx context.Context, username string) error {
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create session directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, []byte(username+"\n"), 0o600); err != nil {
		return fmt.Errorf("write session %s: %w", s.path, err)
	}
	s.logger.LogDebug(ctx, "Session stored", "file", s.path)
	return nil
}

func (s *FileStore) Clear(ctx context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session %s: %w", s.path, err)
	}
	s.logger.LogDebug(ctx, "Session cleared", "file", s.path)
	return nil
}

// MemoryStore is a process-local session, used with the memory storage driver
type MemoryStore struct {
	username string
}

var _ port.SessionStore = (*MemoryStore)(nil)

func (s *MemoryStore) Load(context.Context) (string, error) { return s.username, nil }

func (s *MemoryStore) Store(_ context.Context, username string) error {
	s.username = username
	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.username = ""
	return nil
}
