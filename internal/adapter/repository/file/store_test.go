package file

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fincalc/finsync/internal/domain"
)

func testAccount(id int64) domain.Account {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return domain.Account{
		ID:        id,
		Name:      "Checking",
		Balance:   decimal.RequireFromString("1000.50"),
		Currency:  "RUB",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestAccountStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewAccountStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	account := testAccount(1)
	if err := store.Create(ctx, account); err != nil {
		t.Fatalf("create: %v", err)
	}

	found, err := store.FindByID(ctx, 1)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !found.Balance.Equal(account.Balance) {
		t.Errorf("balance changed: %s vs %s", account.Balance, found.Balance)
	}
	if !found.CreatedAt.Equal(account.CreatedAt) {
		t.Errorf("created_at changed: %v vs %v", account.CreatedAt, found.CreatedAt)
	}

	// Duplicate insert is an error: the caller is expected to use Update.
	if err := store.Create(ctx, account); err == nil {
		t.Error("expected duplicate insert to fail")
	}

	if err := store.Delete(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.FindByID(ctx, 1); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
	// Deleting again is a no-op.
	if err := store.Delete(ctx, 1); err != nil {
		t.Errorf("delete of absent id must be a no-op, got %v", err)
	}
}

func TestAccountStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewAccountStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Create(ctx, testAccount(1)); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewAccountStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	accounts, err := reopened.FetchAll(ctx)
	if err != nil {
		t.Fatalf("fetch all: %v", err)
	}
	if len(accounts) != 1 || accounts[0].ID != 1 {
		t.Fatalf("stored state lost across reopen: %+v", accounts)
	}
}

func TestTransactionStore_ListByAccount(t *testing.T) {
	dir := t.TempDir()
	store, err := NewTransactionStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	brief := domain.AccountBrief{ID: 1, Name: "Checking", Balance: decimal.RequireFromString("100"), Currency: "RUB"}
	other := domain.AccountBrief{ID: 2, Name: "Savings", Balance: decimal.RequireFromString("50"), Currency: "RUB"}
	category := domain.Category{ID: 10, Name: "Salary", Emoji: "💰", Direction: domain.DirectionIncome}
	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	for _, tx := range []domain.Transaction{
		{ID: 1, Account: brief, Category: category, Amount: decimal.RequireFromString("10.00"), TransactionDate: date},
		{ID: 2, Account: other, Category: category, Amount: decimal.RequireFromString("20.00"), TransactionDate: date},
	} {
		if err := store.Create(ctx, tx); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := store.ListByAccount(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("expected only account 1's transaction, got %+v", got)
	}
}

func TestAccountBackupStore_UpsertOverwritesSlot(t *testing.T) {
	dir := t.TempDir()
	store, err := NewAccountBackupStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := store.Upsert(ctx, domain.AccountBackup{ID: 1, Action: domain.BackupCreate, IdempotencyKey: "key-first", Account: testAccount(1)}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	edited := testAccount(1)
	edited.Name = "Renamed"
	if err := store.Upsert(ctx, domain.AccountBackup{ID: 1, Action: domain.BackupUpdate, IdempotencyKey: "key-second", Account: edited}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	pending, err := store.AllPending(ctx)
	if err != nil {
		t.Fatalf("all pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("one slot per id: expected 1 record, got %d", len(pending))
	}
	if pending[0].Action != domain.BackupUpdate || pending[0].Account.Name != "Renamed" {
		t.Errorf("newest intent must win the slot, got %+v", pending[0])
	}
	if pending[0].IdempotencyKey != "key-second" {
		t.Errorf("idempotency key must survive the round trip, got %q", pending[0].IdempotencyKey)
	}

	if err := store.Remove(ctx, 1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := store.Remove(ctx, 1); err != nil {
		t.Errorf("remove of absent id must be a no-op, got %v", err)
	}
}

func TestTransactionBackupStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewTransactionBackupStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	date := time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC)
	tx := domain.Transaction{
		ID:              -42,
		Account:         domain.AccountBrief{ID: 1, Name: "Checking", Balance: decimal.RequireFromString("1250.00"), Currency: "RUB"},
		Category:        domain.Category{ID: 10, Name: "Salary", Emoji: "💰", Direction: domain.DirectionIncome},
		Amount:          decimal.RequireFromString("250.00"),
		TransactionDate: date,
	}
	if err := store.Upsert(ctx, domain.TransactionBackup{ID: tx.ID, Action: domain.BackupCreate, IdempotencyKey: "key-reopen", Transaction: tx}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	reopened, err := NewTransactionBackupStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	pending, err := reopened.AllPending(ctx)
	if err != nil {
		t.Fatalf("all pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("ledger lost across reopen: %+v", pending)
	}
	if !pending[0].Transaction.Amount.Equal(tx.Amount) {
		t.Errorf("amount changed: %s vs %s", tx.Amount, pending[0].Transaction.Amount)
	}
	if pending[0].IdempotencyKey != "key-reopen" {
		t.Errorf("idempotency key lost across reopen, got %q", pending[0].IdempotencyKey)
	}
}
