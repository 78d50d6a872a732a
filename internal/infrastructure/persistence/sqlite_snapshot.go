package persistence

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"fintrack.com/internal/domain/entity"
	"fintrack.com/internal/domain/port"
	"fintrack.com/internal/infrastructure/logger"
)

// SQLiteSnapshot stores one JSON document per account in a SQLite table
type SQLiteSnapshot struct {
	db        *sql.DB
	backupDir string
	logger    logger.Logger
	now       func() time.Time
}

var (
	_ port.SnapshotStore = (*SQLiteSnapshot)(nil)
	_ port.Backuper      = (*SQLiteSnapshot)(nil)
)

// OpenSQLiteSnapshot opens (creating if needed) and migrates the database
func OpenSQLiteSnapshot(dbPath, backupDir string, logger logger.Logger) (*SQLiteSnapshot, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	if backupDir == "" {
		backupDir = "."
	}
	return &SQLiteSnapshot{db: db, backupDir: backupDir, logger: logger, now: time.Now}, nil
}

func (s *SQLiteSnapshot) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load reads every stored account
func (s *SQLiteSnapshot) Load(ctx context.Context) (map[string]*entity.Account, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT username, payload FROM accounts`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	accounts := make(map[string]*entity.Account)
	for rows.Next() {
		var username, payload string
		if err := rows.Scan(&username, &payload); err != nil {
			return nil, fmt.Errorf("scan account row: %w", err)
		}
		acc, err := DecodeAccount(strings.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("decode account %q: %w", username, err)
		}
		accounts[username] = acc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	s.logger.LogDebug(ctx, "Accounts loaded from SQLite", "count", len(accounts))
	return accounts, nil
}

// Save replaces all rows with the given map in one transaction
func (s *SQLiteSnapshot) Save(ctx context.Context, accounts map[string]*entity.Account) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM accounts`); err != nil {
		return fmt.Errorf("clear accounts: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO accounts (username, payload) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for username, acc := range accounts {
		if acc == nil {
			continue
		}
		var buf bytes.Buffer
		if err = EncodeAccount(acc, &buf); err != nil {
			return err
		}
		if _, err = stmt.ExecContext(ctx, username, buf.String()); err != nil {
			return fmt.Errorf("insert account %q: %w", username, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit accounts: %w", err)
	}

	s.logger.LogDebug(ctx, "Accounts saved to SQLite", "count", len(accounts))
	return nil
}

// Backup copies the database to backup_users_<unix millis>.db with VACUUM INTO
func (s *SQLiteSnapshot) Backup(ctx context.Context, accounts map[string]*entity.Account) (string, error) {
	if len(accounts) == 0 {
		return "", ErrNothingToBackup
	}
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}
	path := filepath.Join(s.backupDir, "backup_users_"+strconv.FormatInt(s.now().UnixMilli(), 10)+".db")
	if _, err := s.db.ExecContext(ctx, `VACUUM INTO ?`, path); err != nil {
		return "", fmt.Errorf("vacuum into %s: %w", path, err)
	}
	s.logger.LogInfo(ctx, "Backup created", "file", path, "count", len(accounts))
	return path, nil
}
