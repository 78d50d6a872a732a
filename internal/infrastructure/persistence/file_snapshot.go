package persistence

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"

	"fintrack.com/internal/domain/entity"
	"fintrack.com/internal/domain/port"
	"fintrack.com/internal/infrastructure/logger"
)

const (
	CodecJSON   = "json"
	CodecZstd   = "zstd"
	CodecBrotli = "brotli"
)

// ErrNothingToBackup is returned when a backup is requested for an empty map
var ErrNothingToBackup = errors.New("no accounts to back up")

// FileSnapshot stores the whole account map in a single file
type FileSnapshot struct {
	path      string
	codec     string
	backupDir string
	logger    logger.Logger
	now       func() time.Time
}

var (
	_ port.SnapshotStore = (*FileSnapshot)(nil)
	_ port.Backuper      = (*FileSnapshot)(nil)
)

// NewFileSnapshot creates a file snapshot store. codec is "json", "zstd" or "brotli".
func NewFileSnapshot(path, codec, backupDir string, logger logger.Logger) (*FileSnapshot, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: snapshot path is empty", entity.ErrInvalidArgument)
	}
	switch codec {
	case "":
		codec = CodecJSON
	case CodecJSON, CodecZstd, CodecBrotli:
	default:
		return nil, fmt.Errorf("%w: unknown snapshot codec %q", entity.ErrInvalidArgument, codec)
	}
	if backupDir == "" {
		backupDir = "."
	}
	return &FileSnapshot{
		path:      path,
		codec:     codec,
		backupDir: backupDir,
		logger:    logger,
		now:       time.Now,
	}, nil
}

func (s *FileSnapshot) Path() string {
	return s.path
}

// Load reads the snapshot; a missing file yields an empty map
func (s *FileSnapshot) Load(ctx context.Context) (map[string]*entity.Account, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.LogInfo(ctx, "Snapshot file not found, starting empty", "file", s.path)
		return map[string]*entity.Account{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open snapshot %s: %w", s.path, err)
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.Size() == 0 {
		return map[string]*entity.Account{}, nil
	}

	accounts, err := s.decode(f)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", s.path, err)
	}
	s.logger.LogDebug(ctx, "Snapshot loaded", "file", s.path, "count", len(accounts))
	return accounts, nil
}

// Save overwrites the snapshot file through a temporary file and rename
func (s *FileSnapshot) Save(ctx context.Context, accounts map[string]*entity.Account) error {
	if err := s.writeFile(s.path, accounts); err != nil {
		return err
	}
	s.logger.LogDebug(ctx, "Snapshot written", "file", s.path, "count", len(accounts))
	return nil
}

// Backup writes backup_users_<unix millis>.data into the backup directory
func (s *FileSnapshot) Backup(ctx context.Context, accounts map[string]*entity.Account) (string, error) {
	if len(accounts) == 0 {
		return "", ErrNothingToBackup
	}
	name := "backup_users_" + strconv.FormatInt(s.now().UnixMilli(), 10) + ".data"
	path := filepath.Join(s.backupDir, name)
	if err := s.writeFile(path, accounts); err != nil {
		return "", err
	}
	s.logger.LogInfo(ctx, "Backup created", "file", path, "count", len(accounts))
	return path, nil
}

func (s *FileSnapshot) writeFile(path string, accounts map[string]*entity.Account) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = s.encode(tmp, accounts); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace snapshot %s: %w", path, err)
	}
	return nil
}

func (s *FileSnapshot) encode(w io.Writer, accounts map[string]*entity.Account) error {
	switch s.codec {
	case CodecZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return fmt.Errorf("create zstd writer: %w", err)
		}
		if err := EncodeAccounts(accounts, zw); err != nil {
			_ = zw.Close()
			return err
		}
		return zw.Close()
	case CodecBrotli:
		bw := brotli.NewWriterLevel(w, brotli.DefaultCompression)
		if err := EncodeAccounts(accounts, bw); err != nil {
			_ = bw.Close()
			return err
		}
		return bw.Close()
	default:
		buf := bufio.NewWriter(w)
		if err := EncodeAccounts(accounts, buf); err != nil {
			return err
		}
		return buf.Flush()
	}
}

func (s *FileSnapshot) decode(r io.Reader) (map[string]*entity.Account, error) {
	switch s.codec {
	case CodecZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("create zstd reader: %w", err)
		}
		defer zr.Close()
		return DecodeAccounts(zr)
	case CodecBrotli:
		return DecodeAccounts(brotli.NewReader(r))
	default:
		return DecodeAccounts(bufio.NewReader(r))
	}
}
