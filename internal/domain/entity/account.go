package entity

import (
	"fmt"
	"strings"
)

const (
	MinUsernameLength = 3
	MinPasswordLength = 4
)

// Account is a user identity plus the ledger it owns
type Account struct {
	Username string
	Password string
	Ledger   *Ledger
}

// NewAccount validates credentials and creates an account with an empty ledger
func NewAccount(username, password string) (*Account, error) {
	if err := ValidateCredentials(username, password); err != nil {
		return nil, err
	}
	return &Account{
		Username: strings.TrimSpace(username),
		Password: strings.TrimSpace(password),
		Ledger:   NewLedger(),
	}, nil
}

// ValidateCredentials checks the username and password rules
func ValidateCredentials(username, password string) error {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	if username == "" {
		return fmt.Errorf("%w: username is empty", ErrInvalidArgument)
	}
	if password == "" {
		return fmt.Errorf("%w: password is empty", ErrInvalidArgument)
	}
	if len([]rune(username)) < MinUsernameLength {
		return fmt.Errorf("%w: username must be at least %d characters", ErrInvalidArgument, MinUsernameLength)
	}
	if len([]rune(password)) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidArgument, MinPasswordLength)
	}
	return nil
}

// SameAs reports whether both accounts have the same identity
func (a *Account) SameAs(other *Account) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.Username == other.Username
}

// Clone returns a deep copy of the account
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	return &Account{
		Username: a.Username,
		Password: a.Password,
		Ledger:   a.Ledger.Clone(),
	}
}

func (a *Account) String() string {
	entries, budgets := 0, 0
	if a.Ledger != nil {
		entries = a.Ledger.Len()
		budgets = len(a.Ledger.budgets)
	}
	return fmt.Sprintf("User: %s (entries: %d, budgets: %d)", a.Username, entries, budgets)
}
