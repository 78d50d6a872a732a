package usecase

import (
	"context"
	"errors"
	"maps"
	"strings"

	"fintrack.com/internal/domain/entity"
	"fintrack.com/internal/infrastructure/logger"
)

var testLogger = logger.Discard()

// mockAccountRepository is a map-backed AccountRepository whose writes can be failed
type mockAccountRepository struct {
	accounts   map[string]*entity.Account
	saveFunc   func(ctx context.Context, username string, account *entity.Account) error
	deleteFunc func(ctx context.Context, username string) error
	saves      int
}

func newMockRepository(accounts ...*entity.Account) *mockAccountRepository {
	m := &mockAccountRepository{accounts: make(map[string]*entity.Account)}
	for _, acc := range accounts {
		m.accounts[acc.Username] = acc.Clone()
	}
	return m
}

func (m *mockAccountRepository) Save(ctx context.Context, username string, account *entity.Account) error {
	m.saves++
	if m.saveFunc != nil {
		if err := m.saveFunc(ctx, username, account); err != nil {
			return err
		}
	}
	m.accounts[username] = account.Clone()
	return nil
}

func (m *mockAccountRepository) Find(_ context.Context, username string) (*entity.Account, error) {
	acc, ok := m.accounts[username]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	return acc.Clone(), nil
}

func (m *mockAccountRepository) Delete(ctx context.Context, username string) error {
	if m.deleteFunc != nil {
		if err := m.deleteFunc(ctx, username); err != nil {
			return err
		}
	}
	delete(m.accounts, username)
	return nil
}

func (m *mockAccountRepository) FindAll(context.Context) (map[string]*entity.Account, error) {
	return maps.Clone(m.accounts), nil
}

func (m *mockAccountRepository) ReplaceAll(_ context.Context, accounts map[string]*entity.Account) error {
	m.accounts = maps.Clone(accounts)
	return nil
}

func (m *mockAccountRepository) Contains(_ context.Context, username string) bool {
	_, ok := m.accounts[username]
	return ok
}

// mockHasher prefixes passwords instead of hashing them
type mockHasher struct {
	hashFunc func(password string) (string, error)
}

var errMalformedHash = errors.New("malformed hash")

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed:" + password, nil
}

func (m *mockHasher) Compare(hash, password string) error {
	if !strings.HasPrefix(hash, "hashed:") {
		return errMalformedHash
	}
	if hash != "hashed:"+password {
		return entity.ErrPasswordMismatch
	}
	return nil
}

// mockSessionStore keeps the session in memory
type mockSessionStore struct {
	username string
	loadErr  error
}

func (m *mockSessionStore) Load(context.Context) (string, error) { return m.username, m.loadErr }

func (m *mockSessionStore) Store(_ context.Context, username string) error {
	m.username = username
	return nil
}

func (m *mockSessionStore) Clear(context.Context) error {
	m.username = ""
	return nil
}

// mockAccountFiles records exports and serves imports from a map
type mockAccountFiles struct {
	exported   map[string]*entity.Account
	files      map[string]*entity.Account
	exportFunc func(path string) error
}

func (m *mockAccountFiles) Export(_ context.Context, acc *entity.Account, path string) error {
	if m.exportFunc != nil {
		if err := m.exportFunc(path); err != nil {
			return err
		}
	}
	if m.exported == nil {
		m.exported = make(map[string]*entity.Account)
	}
	m.exported[path] = acc.Clone()
	return nil
}

func (m *mockAccountFiles) Import(_ context.Context, path string) (*entity.Account, error) {
	acc, ok := m.files[path]
	if !ok {
		return nil, errors.New("file not found: " + path)
	}
	return acc.Clone(), nil
}

// mockArchiver implements port.AccountArchiver
type mockArchiver struct {
	backupFunc func(ctx context.Context) (string, error)
}

func (m *mockArchiver) Backup(ctx context.Context) (string, error) {
	if m.backupFunc != nil {
		return m.backupFunc(ctx)
	}
	return "backup_users_1.data", nil
}

func mustAccount(username, password string) *entity.Account {
	acc, err := entity.NewAccount(username, password)
	if err != nil {
		panic(err)
	}
	return acc
}
