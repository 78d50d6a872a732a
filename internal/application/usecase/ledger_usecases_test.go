package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack.com/internal/domain/entity"
	"fintrack.com/internal/domain/service"
)

func fixedEngine(ts time.Time) *service.AggregationEngine {
	return service.NewAggregationEngine().WithClock(func() time.Time { return ts })
}

func ptr[T any](v T) *T { return &v }

func TestRecordEntryUseCase(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	saveErr := errors.New("disk full")

	base := mustAccount("alice", "hashed:secret")
	_ = base.Ledger.SetBudget("food", 100)
	_ = base.Ledger.AddEntry(entity.NewEntryAt(1000, "salary", true, now))
	_ = base.Ledger.AddEntry(entity.NewEntryAt(70, "food", false, now))

	tests := []struct {
		name        string
		income      bool
		username    string
		category    string
		amount      float64
		saveFunc    func(context.Context, string, *entity.Account) error
		wantErr     error
		wantBalance float64
		wantBudget  *service.BudgetStatus
	}{
		{name: "income", income: true, username: "alice", category: "bonus", amount: 50, wantBalance: 980},
		{name: "outcome without budget", username: "alice", category: "taxi", amount: 30, wantBalance: 900},
		{
			name:        "outcome reaching alert",
			username:    "alice",
			category:    " food ",
			amount:      15,
			wantBalance: 915,
			wantBudget:  &service.BudgetStatus{Category: "food", Limit: 100, Spent: 85, Remaining: 15, Alert: true},
		},
		{
			name:        "outcome over budget",
			username:    "alice",
			category:    "food",
			amount:      40,
			wantBalance: 890,
			wantBudget:  &service.BudgetStatus{Category: "food", Limit: 100, Spent: 110, Remaining: -10, Over: true, Alert: true},
		},
		{name: "zero amount", username: "alice", category: "food", amount: 0, wantErr: entity.ErrInvalidArgument},
		{name: "blank category", username: "alice", category: " ", amount: 5, wantErr: entity.ErrInvalidArgument},
		{name: "unknown user", username: "bob", category: "food", amount: 5, wantErr: entity.ErrUserNotFound},
		{name: "no session user", username: "", category: "food", amount: 5, wantErr: entity.ErrInvalidArgument},
		{
			name:     "save failure",
			username: "alice",
			category: "food",
			amount:   5,
			saveFunc: func(context.Context, string, *entity.Account) error { return saveErr },
			wantErr:  saveErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository(base)
			repo.saveFunc = tt.saveFunc
			uc := NewRecordEntryUseCase(repo, fixedEngine(now), 80, testLogger)

			var result *RecordEntryResult
			var err error
			if tt.income {
				result, err = uc.AddIncome(ctx, tt.username, tt.category, tt.amount)
			} else {
				result, err = uc.AddOutcome(ctx, tt.username, tt.category, tt.amount)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("RecordEntryUseCase error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				stored, _ := repo.Find(ctx, "alice")
				if stored.Ledger.Len() != 2 {
					t.Errorf("failed call changed stored ledger to %d entries", stored.Ledger.Len())
				}
				return
			}

			if result.Balance != tt.wantBalance {
				t.Errorf("Balance = %v, want %v", result.Balance, tt.wantBalance)
			}
			if !result.Entry.Timestamp.Equal(now) || result.Entry.IsIncome != tt.income {
				t.Errorf("Entry = %+v", result.Entry)
			}
			switch {
			case tt.wantBudget == nil && result.Budget != nil:
				t.Errorf("Budget = %+v, want nil", result.Budget)
			case tt.wantBudget != nil && (result.Budget == nil || *result.Budget != *tt.wantBudget):
				t.Errorf("Budget = %+v, want %+v", result.Budget, tt.wantBudget)
			}
		})
	}
}

func TestManageEntriesUseCase(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	newRepo := func() *mockAccountRepository {
		acc := mustAccount("alice", "hashed:secret")
		_ = acc.Ledger.AddEntry(entity.NewEntryAt(100, "salary", true, ts))
		_ = acc.Ledger.AddEntry(entity.NewEntryAt(20, "food", false, ts))
		return newMockRepository(acc)
	}

	t.Run("list", func(t *testing.T) {
		uc := NewManageEntriesUseCase(newRepo(), testLogger)
		entries, err := uc.List(ctx, "alice")
		if err != nil {
			t.Fatalf("ManageEntriesUseCase.List() error = %v", err)
		}
		if len(entries) != 2 || entries[0].Category != "salary" || entries[1].Category != "food" {
			t.Errorf("List() = %+v", entries)
		}
	})

	t.Run("remove", func(t *testing.T) {
		repo := newRepo()
		uc := NewManageEntriesUseCase(repo, testLogger)

		removed, err := uc.Remove(ctx, "alice", 0)
		if err != nil {
			t.Fatalf("ManageEntriesUseCase.Remove() error = %v", err)
		}
		if removed.Category != "salary" {
			t.Errorf("removed = %+v, want salary entry", removed)
		}
		stored, _ := repo.Find(ctx, "alice")
		if stored.Ledger.Len() != 1 {
			t.Errorf("Ledger.Len() = %d, want 1", stored.Ledger.Len())
		}

		for _, index := range []int{-1, 1, 5} {
			if _, err := uc.Remove(ctx, "alice", index); !errors.Is(err, entity.ErrIndexOutOfRange) {
				t.Errorf("Remove(%d) error = %v, want %v", index, err, entity.ErrIndexOutOfRange)
			}
		}
	})

	tests := []struct {
		name    string
		index   int
		edit    EntryEdit
		wantErr error
		want    entity.Entry
	}{
		{
			name:  "change category",
			index: 1,
			edit:  EntryEdit{Category: ptr(" groceries ")},
			want:  entity.Entry{Amount: 20, Category: "groceries", Timestamp: ts},
		},
		{
			name:  "change amount and direction",
			index: 1,
			edit:  EntryEdit{Amount: ptr(35.5), IsIncome: ptr(true)},
			want:  entity.Entry{Amount: 35.5, Category: "food", IsIncome: true, Timestamp: ts},
		},
		{name: "nothing to change", index: 1, wantErr: entity.ErrInvalidArgument},
		{name: "blank category", index: 1, edit: EntryEdit{Category: ptr("  ")}, wantErr: entity.ErrInvalidArgument},
		{name: "negative amount", index: 0, edit: EntryEdit{Amount: ptr(-3.0)}, wantErr: entity.ErrInvalidArgument},
		{name: "bad index", index: 2, edit: EntryEdit{Amount: ptr(3.0)}, wantErr: entity.ErrIndexOutOfRange},
	}

	for _, tt := range tests {
		t.Run("edit "+tt.name, func(t *testing.T) {
			repo := newRepo()
			uc := NewManageEntriesUseCase(repo, testLogger)

			got, err := uc.Edit(ctx, "alice", tt.index, tt.edit)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ManageEntriesUseCase.Edit() error = %v, wantErr %v", err, tt.wantErr)
			}
			stored, _ := repo.Find(ctx, "alice")
			if tt.wantErr != nil {
				if e, _ := stored.Ledger.Entry(1); e.Category != "food" || e.Amount != 20 || e.IsIncome {
					t.Errorf("rejected edit changed the entry: %+v", e)
				}
				return
			}
			if !got.Equal(tt.want) {
				t.Errorf("Edit() = %+v, want %+v", got, tt.want)
			}
			if e, _ := stored.Ledger.Entry(tt.index); !e.Equal(tt.want) {
				t.Errorf("stored entry = %+v, want %+v", e, tt.want)
			}
		})
	}
}

func TestManageBudgetUseCase(t *testing.T) {
	ctx := context.Background()
	acc := mustAccount("alice", "hashed:secret")
	_ = acc.Ledger.AddEntry(entity.NewEntry(300, "food", false))
	repo := newMockRepository(acc)
	uc := NewManageBudgetUseCase(repo, service.NewAggregationEngine(), 80, testLogger)

	status, err := uc.Set(ctx, "alice", " food ", 250)
	if err != nil {
		t.Fatalf("ManageBudgetUseCase.Set() error = %v", err)
	}
	want := service.BudgetStatus{Category: "food", Limit: 250, Spent: 300, Remaining: -50, Over: true, Alert: true}
	if status != want {
		t.Errorf("Set() = %+v, want %+v", status, want)
	}

	if _, err := uc.Set(ctx, "alice", "rent", -1); !errors.Is(err, entity.ErrInvalidArgument) {
		t.Errorf("Set(negative) error = %v, want %v", err, entity.ErrInvalidArgument)
	}
	if _, err := uc.Set(ctx, "alice", "rent", 0); err != nil {
		t.Errorf("Set(zero) error = %v", err)
	}

	statuses, err := uc.List(ctx, "alice")
	if err != nil {
		t.Fatalf("ManageBudgetUseCase.List() error = %v", err)
	}
	if len(statuses) != 2 || statuses[0].Category != "food" || statuses[1].Category != "rent" {
		t.Errorf("List() = %+v", statuses)
	}
	if statuses[1].Alert || !statuses[1].Exhausted {
		t.Errorf("zero budget status = %+v, want exhausted without alert", statuses[1])
	}

	if err := uc.Remove(ctx, "alice", "food"); err != nil {
		t.Fatalf("ManageBudgetUseCase.Remove() error = %v", err)
	}
	if err := uc.Remove(ctx, "alice", "food"); !errors.Is(err, entity.ErrCategoryNotFound) {
		t.Errorf("second Remove() error = %v, want %v", err, entity.ErrCategoryNotFound)
	}
	if err := uc.Remove(ctx, "alice", " "); !errors.Is(err, entity.ErrInvalidArgument) {
		t.Errorf("Remove(blank) error = %v, want %v", err, entity.ErrInvalidArgument)
	}
}
