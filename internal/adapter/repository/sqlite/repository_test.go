package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fincalc/finsync/internal/domain"
	infra "github.com/fincalc/finsync/internal/infrastructure/sqlite"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := infra.OpenInMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testAccount(id int64) domain.Account {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return domain.Account{
		ID:        id,
		UserID:    7,
		Name:      "Checking",
		Balance:   decimal.RequireFromString("1000.50"),
		Currency:  "RUB",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestAccountRepository_RoundTrip(t *testing.T) {
	repo := NewAccountRepository(newTestDB(t))
	ctx := context.Background()

	account := testAccount(1)
	if err := repo.Create(ctx, account); err != nil {
		t.Fatalf("create: %v", err)
	}

	found, err := repo.FindByID(ctx, 1)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.Name != account.Name || found.Currency != account.Currency {
		t.Errorf("round trip changed fields: %+v", found)
	}
	if !found.Balance.Equal(account.Balance) {
		t.Errorf("balance changed: %s vs %s", account.Balance, found.Balance)
	}
	if !found.CreatedAt.Equal(account.CreatedAt) {
		t.Errorf("created_at changed: %v vs %v", account.CreatedAt, found.CreatedAt)
	}

	account.Balance = decimal.RequireFromString("2000.00")
	if err := repo.Update(ctx, account); err != nil {
		t.Fatalf("update: %v", err)
	}
	found, _ = repo.FindByID(ctx, 1)
	if !found.Balance.Equal(decimal.RequireFromString("2000.00")) {
		t.Errorf("update not applied, balance %s", found.Balance)
	}

	all, err := repo.FetchAll(ctx)
	if err != nil {
		t.Fatalf("fetch all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 account, got %d", len(all))
	}

	if err := repo.Delete(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.FindByID(ctx, 1); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountRepository_AbsentIDNoOps(t *testing.T) {
	repo := NewAccountRepository(newTestDB(t))
	ctx := context.Background()

	if err := repo.Update(ctx, testAccount(42)); err != nil {
		t.Errorf("update of absent id must be a no-op, got %v", err)
	}
	if err := repo.Delete(ctx, 42); err != nil {
		t.Errorf("delete of absent id must be a no-op, got %v", err)
	}
}

func TestAccountRepository_NegativeIDs(t *testing.T) {
	repo := NewAccountRepository(newTestDB(t))
	ctx := context.Background()

	offline := testAccount(-1718000000000)
	if err := repo.Create(ctx, offline); err != nil {
		t.Fatalf("create with negative id: %v", err)
	}
	found, err := repo.FindByID(ctx, offline.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.ID != offline.ID {
		t.Errorf("expected id %d, got %d", offline.ID, found.ID)
	}
}

func TestCategoryRepository_DirectionRoundTrip(t *testing.T) {
	repo := NewCategoryRepository(newTestDB(t))
	ctx := context.Background()

	income := domain.Category{ID: 1, Name: "Salary", Emoji: "💰", Direction: domain.DirectionIncome}
	outcome := domain.Category{ID: 2, Name: "Rent", Emoji: "🏠", Direction: domain.DirectionOutcome}
	for _, c := range []domain.Category{income, outcome} {
		if err := repo.Create(ctx, c); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	found, err := repo.FindByID(ctx, 1)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.Direction != domain.DirectionIncome {
		t.Errorf("income flag lost: %s", found.Direction)
	}
	found, _ = repo.FindByID(ctx, 2)
	if found.Direction != domain.DirectionOutcome {
		t.Errorf("outcome flag lost: %s", found.Direction)
	}
}

func TestTransactionRepository_ListByAccount(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	brief := domain.AccountBrief{ID: 1, Name: "Checking", Balance: decimal.RequireFromString("100"), Currency: "RUB"}
	other := domain.AccountBrief{ID: 2, Name: "Savings", Balance: decimal.RequireFromString("50"), Currency: "RUB"}
	category := domain.Category{ID: 10, Name: "Salary", Emoji: "💰", Direction: domain.DirectionIncome}
	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	comment := "bonus"
	rows := []domain.Transaction{
		{ID: 1, Account: brief, Category: category, Amount: decimal.RequireFromString("10.00"), TransactionDate: date, Comment: &comment, CreatedAt: date, UpdatedAt: date},
		{ID: 2, Account: other, Category: category, Amount: decimal.RequireFromString("20.00"), TransactionDate: date, CreatedAt: date, UpdatedAt: date},
	}
	for _, tx := range rows {
		if err := repo.Create(ctx, tx); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := repo.ListByAccount(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("expected only account 1's transaction, got %+v", got)
	}
	if got[0].Comment == nil || *got[0].Comment != "bonus" {
		t.Error("comment lost in round trip")
	}
	if got[0].Category.Direction != domain.DirectionIncome {
		t.Errorf("category direction lost: %s", got[0].Category.Direction)
	}

	nope, err := repo.FindByID(ctx, 99)
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("expected ErrTransactionNotFound, got %v (tx %+v)", err, nope)
	}
}

func TestAccountBackupRepository_UpsertOverwritesSlot(t *testing.T) {
	repo := NewAccountBackupRepository(newTestDB(t))
	ctx := context.Background()

	first := domain.AccountBackup{ID: 1, Action: domain.BackupCreate, IdempotencyKey: "key-first", Account: testAccount(1)}
	if err := repo.Upsert(ctx, first); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	edited := testAccount(1)
	edited.Name = "Renamed"
	second := domain.AccountBackup{ID: 1, Action: domain.BackupUpdate, IdempotencyKey: "key-second", Account: edited}
	if err := repo.Upsert(ctx, second); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	pending, err := repo.AllPending(ctx)
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

	if err := repo.Remove(ctx, 1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	pending, _ = repo.AllPending(ctx)
	if len(pending) != 0 {
		t.Errorf("expected empty ledger, got %d records", len(pending))
	}

	// Removing again is a no-op.
	if err := repo.Remove(ctx, 1); err != nil {
		t.Errorf("remove of absent id must be a no-op, got %v", err)
	}
}

func TestTransactionBackupRepository_SnapshotRoundTrip(t *testing.T) {
	repo := NewTransactionBackupRepository(newTestDB(t))
	ctx := context.Background()

	date := time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC)
	tx := domain.Transaction{
		ID:              -1718000000001,
		Account:         domain.AccountBrief{ID: 1, Name: "Checking", Balance: decimal.RequireFromString("1250.00"), Currency: "RUB"},
		Category:        domain.Category{ID: 10, Name: "Salary", Emoji: "💰", Direction: domain.DirectionIncome},
		Amount:          decimal.RequireFromString("250.00"),
		TransactionDate: date,
		CreatedAt:       date,
		UpdatedAt:       date,
	}

	if err := repo.Upsert(ctx, domain.TransactionBackup{ID: tx.ID, Action: domain.BackupCreate, Transaction: tx}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	pending, err := repo.AllPending(ctx)
	if err != nil {
		t.Fatalf("all pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 record, got %d", len(pending))
	}
	got := pending[0].Transaction
	if !got.Amount.Equal(tx.Amount) {
		t.Errorf("amount changed: %s vs %s", tx.Amount, got.Amount)
	}
	if !got.TransactionDate.Equal(date) {
		t.Errorf("date changed: %v vs %v", date, got.TransactionDate)
	}
	if got.Account.ID != 1 || got.Category.Direction != domain.DirectionIncome {
		t.Errorf("embedded snapshot changed: %+v", got)
	}
}
