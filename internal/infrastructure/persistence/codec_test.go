package persistence

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack.com/internal/domain/entity"
)

func sampleAccount(t *testing.T, username string) *entity.Account {
	t.Helper()
	acc, err := entity.NewAccount(username, "secret")
	require.NoError(t, err)

	base := time.Date(2024, 3, 1, 9, 30, 0, 123456789, time.UTC)
	require.NoError(t, acc.Ledger.AddEntry(entity.NewEntryAt(1500, "salary", true, base)))
	require.NoError(t, acc.Ledger.AddEntry(entity.NewEntryAt(42.5, "food", false, base.Add(time.Hour))))
	require.NoError(t, acc.Ledger.AddEntry(entity.NewEntryAt(7.25, "food", false, base.Add(2*time.Hour))))
	require.NoError(t, acc.Ledger.SetBudget("food", 300))
	require.NoError(t, acc.Ledger.SetBudget("travel", 0))
	return acc
}

func assertSameAccount(t *testing.T, want, got *entity.Account) {
	t.Helper()
	assert.Equal(t, want.Username, got.Username)
	assert.Equal(t, want.Password, got.Password)
	assert.Equal(t, want.Ledger.Budgets(), got.Ledger.Budgets())

	wantEntries, gotEntries := want.Ledger.Entries(), got.Ledger.Entries()
	require.Len(t, gotEntries, len(wantEntries))
	for i := range wantEntries {
		assert.True(t, wantEntries[i].Equal(gotEntries[i]), "entry %d: want %+v, got %+v", i, wantEntries[i], gotEntries[i])
	}
}

func TestEncodeDecodeAccount(t *testing.T) {
	acc := sampleAccount(t, "alice")

	var buf bytes.Buffer
	require.NoError(t, EncodeAccount(acc, &buf))
	assert.Contains(t, buf.String(), `"username": "alice"`)

	got, err := DecodeAccount(&buf)
	require.NoError(t, err)
	assertSameAccount(t, acc, got)
}

func TestDecodeAccount_MissingLedger(t *testing.T) {
	got, err := DecodeAccount(strings.NewReader(`{"username":"bob","password":"pw"}`))
	require.NoError(t, err)
	require.NotNil(t, got.Ledger)
	assert.Equal(t, 0, got.Ledger.Len())
	assert.Empty(t, got.Ledger.Budgets())
}

func TestDecodeAccount_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "not json", input: "users.data"},
		{name: "missing username", input: `{"password":"pw"}`},
		{name: "blank category", input: `{"username":"bob","ledger":{"entries":[{"amount":1,"category":" ","income":true}]}}`},
		{name: "zero amount", input: `{"username":"bob","ledger":{"entries":[{"amount":0,"category":"food","income":false}]}}`},
		{name: "negative budget", input: `{"username":"bob","ledger":{"entries":[],"budgets":{"food":-1}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeAccount(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestEncodeDecodeAccounts(t *testing.T) {
	accounts := map[string]*entity.Account{
		"alice": sampleAccount(t, "alice"),
		"bob":   sampleAccount(t, "bob"),
		"ghost": nil,
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeAccounts(accounts, &buf))

	got, err := DecodeAccounts(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assertSameAccount(t, accounts["alice"], got["alice"])
	assertSameAccount(t, accounts["bob"], got["bob"])
}

func TestExportImportFile(t *testing.T) {
	dir := t.TempDir()
	acc := sampleAccount(t, "alice")

	path := DefaultExportPath(filepath.Join(dir, "exports"), acc.Username)
	assert.Equal(t, "alice.json", filepath.Base(path))

	require.NoError(t, ExportFile(acc, path))

	got, err := ImportFile(path)
	require.NoError(t, err)
	assertSameAccount(t, acc, got)
}

func TestImportFile_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("wrong extension", func(t *testing.T) {
		path := filepath.Join(dir, "alice.txt")
		require.NoError(t, os.WriteFile(path, []byte(`{"username":"alice"}`), 0o644))

		_, err := ImportFile(path)
		assert.ErrorIs(t, err, ErrNotJSONFile)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ImportFile(filepath.Join(dir, "nobody.json"))
		assert.True(t, os.IsNotExist(err), "error = %v", err)
	})

	t.Run("uppercase extension", func(t *testing.T) {
		path := filepath.Join(dir, "carol.JSON")
		require.NoError(t, os.WriteFile(path, []byte(`{"username":"carol","password":"pw"}`), 0o644))

		got, err := ImportFile(path)
		require.NoError(t, err)
		assert.Equal(t, "carol", got.Username)
	})

	t.Run("nil account export", func(t *testing.T) {
		assert.ErrorIs(t, ExportFile(nil, filepath.Join(dir, "x.json")), entity.ErrInvalidArgument)
	})
}
