package security

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"fintrack.com/internal/domain/entity"
)

func TestBcryptHasher_HashAndCompare(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("secret")
	if err != nil {
		t.Fatalf("BcryptHasher.Hash() error = %v", err)
	}
	if hash == "secret" {
		t.Fatal("BcryptHasher.Hash() returned the plain password")
	}

	tests := []struct {
		name     string
		hash     string
		password string
		wantErr  error
		anyErr   bool
	}{
		{name: "correct password", hash: hash, password: "secret"},
		{name: "wrong password", hash: hash, password: "Secret", wantErr: entity.ErrPasswordMismatch},
		{name: "malformed hash", hash: "not-a-hash", password: "secret", anyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := hasher.Compare(tt.hash, tt.password)
			if tt.anyErr {
				if err == nil || errors.Is(err, entity.ErrPasswordMismatch) {
					t.Errorf("BcryptHasher.Compare() error = %v, want a non-mismatch error", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("BcryptHasher.Compare() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewBcryptHasher_CostFallback(t *testing.T) {
	if got := NewBcryptHasher(0).cost; got != bcrypt.DefaultCost {
		t.Errorf("NewBcryptHasher(0).cost = %d, want %d", got, bcrypt.DefaultCost)
	}
	if got := NewBcryptHasher(bcrypt.MaxCost + 1).cost; got != bcrypt.DefaultCost {
		t.Errorf("NewBcryptHasher(MaxCost+1).cost = %d, want %d", got, bcrypt.DefaultCost)
	}
}
