package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack.com/internal/domain/entity"
	"fintrack.com/internal/infrastructure/logger"
)

func TestSQLiteSnapshot_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "db", "fintrack.db")

	store, err := OpenSQLiteSnapshot(dbPath, "", logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	accounts := map[string]*entity.Account{
		"alice": sampleAccount(t, "alice"),
		"bob":   sampleAccount(t, "bob"),
	}
	require.NoError(t, store.Save(ctx, accounts))

	got, err = store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assertSameAccount(t, accounts["bob"], got["bob"])

	delete(accounts, "bob")
	require.NoError(t, store.Save(ctx, accounts))
	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Contains(t, got, "alice")
}

func TestSQLiteSnapshot_Reopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "fintrack.db")

	first, err := OpenSQLiteSnapshot(dbPath, "", logger.Discard())
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, map[string]*entity.Account{"alice": sampleAccount(t, "alice")}))
	require.NoError(t, first.Close())

	// migrations must tolerate an already migrated database
	second, err := OpenSQLiteSnapshot(dbPath, "", logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	got, err := second.Load(ctx)
	require.NoError(t, err)
	assert.Contains(t, got, "alice")
}

func TestSQLiteSnapshot_Backup(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	backupDir := filepath.Join(dir, "backups")

	store, err := OpenSQLiteSnapshot(filepath.Join(dir, "fintrack.db"), backupDir, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	store.now = func() time.Time { return time.UnixMilli(42) }

	_, err = store.Backup(ctx, nil)
	assert.ErrorIs(t, err, ErrNothingToBackup)

	accounts := map[string]*entity.Account{"alice": sampleAccount(t, "alice")}
	require.NoError(t, store.Save(ctx, accounts))

	path, err := store.Backup(ctx, accounts)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(backupDir, "backup_users_42.db"), path)

	copied, err := OpenSQLiteSnapshot(path, "", logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = copied.Close() })
	got, err := copied.Load(ctx)
	require.NoError(t, err)
	assertSameAccount(t, accounts["alice"], got["alice"])
}
