// Package persistence stores accounts on disk: whole-map snapshots (plain,
// zstd-compressed or brotli-compressed JSON files, or a SQLite table) and
// single-account JSON export/import.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fintrack.com/internal/domain/entity"
	"fintrack.com/internal/domain/port"
)

// ErrNotJSONFile is returned when an import path lacks the .json extension
var ErrNotJSONFile = errors.New("file must have a .json extension")

type accountDocument struct {
	Username string          `json:"username"`
	Password string          `json:"password"`
	Ledger   *ledgerDocument `json:"ledger,omitempty"`
}

type ledgerDocument struct {
	Entries []entryDocument    `json:"entries"`
	Budgets map[string]float64 `json:"budgets"`
}

type entryDocument struct {
	Amount    float64   `json:"amount"`
	Category  string    `json:"category"`
	Income    bool      `json:"income"`
	Timestamp time.Time `json:"timestamp"`
}

func toDocument(acc *entity.Account) accountDocument {
	doc := accountDocument{
		Username: acc.Username,
		Password: acc.Password,
		Ledger: &ledgerDocument{
			Entries: make([]entryDocument, 0),
			Budgets: make(map[string]float64),
		},
	}
	if acc.Ledger == nil {
		return doc
	}
	for _, e := range acc.Ledger.Entries() {
		doc.Ledger.Entries = append(doc.Ledger.Entries, entryDocument{
			Amount:    e.Amount,
			Category:  e.Category,
			Income:    e.IsIncome,
			Timestamp: e.Timestamp,
		})
	}
	doc.Ledger.Budgets = acc.Ledger.Budgets()
	return doc
}

func fromDocument(doc accountDocument) (*entity.Account, error) {
	username := strings.TrimSpace(doc.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is missing", entity.ErrInvalidArgument)
	}
	if doc.Ledger == nil {
		return &entity.Account{Username: username, Password: doc.Password, Ledger: entity.NewLedger()}, nil
	}

	entries := make([]entity.Entry, 0, len(doc.Ledger.Entries))
	for i, e := range doc.Ledger.Entries {
		if strings.TrimSpace(e.Category) == "" || !(e.Amount > 0) {
			return nil, fmt.Errorf("%w: entry %d of %q has category %q and amount %v",
				entity.ErrInvalidArgument, i, username, e.Category, e.Amount)
		}
		entries = append(entries, entity.Entry{
			Amount:    e.Amount,
			Category:  e.Category,
			IsIncome:  e.Income,
			Timestamp: e.Timestamp,
		})
	}
	ledger, err := entity.RestoreLedger(entries, doc.Ledger.Budgets)
	if err != nil {
		return nil, fmt.Errorf("restore ledger of %q: %w", username, err)
	}
	return &entity.Account{Username: username, Password: doc.Password, Ledger: ledger}, nil
}

// EncodeAccount writes one account as indented JSON
func EncodeAccount(acc *entity.Account, w io.Writer) error {
	if acc == nil {
		return fmt.Errorf("%w: account is nil", entity.ErrInvalidArgument)
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(toDocument(acc)); err != nil {
		return fmt.Errorf("failed to encode account as JSON: %w", err)
	}
	return nil
}

// DecodeAccount reads one account. A missing ledger yields an empty one.
func DecodeAccount(r io.Reader) (*entity.Account, error) {
	var doc accountDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode account JSON: %w", err)
	}
	return fromDocument(doc)
}

// EncodeAccounts writes the whole account map as JSON
func EncodeAccounts(accounts map[string]*entity.Account, w io.Writer) error {
	docs := make(map[string]accountDocument, len(accounts))
	for username, acc := range accounts {
		if acc == nil {
			continue
		}
		docs[username] = toDocument(acc)
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(docs); err != nil {
		return fmt.Errorf("failed to encode accounts as JSON: %w", err)
	}
	return nil
}

// DecodeAccounts reads an account map written by EncodeAccounts
func DecodeAccounts(r io.Reader) (map[string]*entity.Account, error) {
	var docs map[string]accountDocument
	if err := json.NewDecoder(r).Decode(&docs); err != nil {
		return nil, fmt.Errorf("failed to decode accounts JSON: %w", err)
	}
	accounts := make(map[string]*entity.Account, len(docs))
	for username, doc := range docs {
		acc, err := fromDocument(doc)
		if err != nil {
			return nil, err
		}
		accounts[username] = acc
	}
	return accounts, nil
}

// DefaultExportPath is <username>.json in dir
func DefaultExportPath(dir, username string) string {
	return filepath.Join(dir, username+".json")
}

// ExportFile writes acc to path, creating parent directories
func ExportFile(acc *entity.Account, path string) (err error) {
	if acc == nil {
		return fmt.Errorf("%w: account is nil", entity.ErrInvalidArgument)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close export file %s: %w", path, closeErr)
		}
	}()

	return EncodeAccount(acc, f)
}

// ImportFile reads one account from a .json file
func ImportFile(path string) (*entity.Account, error) {
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return nil, fmt.Errorf("%w: %s", ErrNotJSONFile, path)
	}
	f, err := os.Open(path)
	if err != nil {
		// unwrapped so callers can check os.IsNotExist
		return nil, err
	}
	defer f.Close()

	return DecodeAccount(f)
}

// JSONAccountFiles adapts ExportFile and ImportFile to port.AccountFiles
type JSONAccountFiles struct{}

var _ port.AccountFiles = JSONAccountFiles{}

func (JSONAccountFiles) Export(_ context.Context, acc *entity.Account, path string) error {
	return ExportFile(acc, path)
}

func (JSONAccountFiles) Import(_ context.Context, path string) (*entity.Account, error) {
	return ImportFile(path)
}
