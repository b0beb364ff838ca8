package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	gomock "go.uber.org/mock/gomock"

	"github.com/fincalc/finsync/internal/domain"
	"github.com/fincalc/finsync/internal/usecase"
	"github.com/fincalc/finsync/internal/usecase/mocks"
)

var errBackendDown = errors.New("connection refused")

type remoteStatusError struct{ status int }

func (e remoteStatusError) Error() string   { return "unexpected status" }
func (e remoteStatusError) StatusCode() int { return e.status }

func newAccountFixture(t *testing.T) (*usecase.AccountUseCase, *mocks.MockAccountGateway, *mocks.MockAccountStore, *mocks.MockAccountLedger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	idGen := mocks.NewMockIDGenerator(ctrl)
	idGen.EXPECT().NextID().Return(int64(-1000)).AnyTimes()

	gateway := mocks.NewMockAccountGateway()
	store := mocks.NewMockAccountStore()
	ledger := mocks.NewMockAccountLedger()
	uc := usecase.NewAccountUseCase(gateway, store, ledger, idGen, zerolog.Nop(), nil)
	return uc, gateway, store, ledger
}

func TestAccountUseCase_Create(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.AccountInput
		setupMocks  func(*mocks.MockAccountGateway)
		expectError bool
	}{
		{
			name: "successful remote creation",
			input: usecase.AccountInput{
				Name:     "Checking",
				Balance:  decimal.RequireFromString("1000.00"),
				Currency: "RUB",
			},
			setupMocks:  func(gateway *mocks.MockAccountGateway) {},
			expectError: false,
		},
		{
			name: "backend unreachable re-throws",
			input: usecase.AccountInput{
				Name:     "Checking",
				Balance:  decimal.RequireFromString("1000.00"),
				Currency: "RUB",
			},
			setupMocks: func(gateway *mocks.MockAccountGateway) {
				gateway.CreateAccountFunc = func(ctx context.Context, key string, account domain.Account) (domain.Account, error) {
					return domain.Account{}, errBackendDown
				}
			},
			expectError: true,
		},
		{
			name: "invalid currency rejected",
			input: usecase.AccountInput{
				Name:     "Checking",
				Balance:  decimal.RequireFromString("1000.00"),
				Currency: "rub",
			},
			setupMocks:  func(gateway *mocks.MockAccountGateway) {},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, gateway, _, _ := newAccountFixture(t)
			tt.setupMocks(gateway)

			account, err := uc.Create(context.Background(), tt.input)

			if tt.expectError {
				if err == nil {
					t.Error("expected error, got nil")
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				if account == nil {
					t.Fatal("expected account, got nil")
				}
				if account.Name != tt.input.Name {
					t.Errorf("expected name %q, got %q", tt.input.Name, account.Name)
				}
			}
		})
	}
}

func TestAccountUseCase_Create_OfflineQueuesWithNegativeID(t *testing.T) {
	uc, gateway, store, ledger := newAccountFixture(t)
	gateway.CreateAccountFunc = func(ctx context.Context, key string, account domain.Account) (domain.Account, error) {
		return domain.Account{}, errBackendDown
	}

	_, err := uc.Create(context.Background(), usecase.AccountInput{
		Name:     "Checking",
		Balance:  decimal.RequireFromString("1000.00"),
		Currency: "RUB",
	})
	if !errors.Is(err, errBackendDown) {
		t.Fatalf("expected transport error, got %v", err)
	}

	stored, err := store.FindByID(context.Background(), -1000)
	if err != nil {
		t.Fatalf("expected local row under temporary id: %v", err)
	}
	if stored.Name != "Checking" {
		t.Errorf("expected stored name %q, got %q", "Checking", stored.Name)
	}

	backups, _ := ledger.AllPending(context.Background())
	if len(backups) != 1 {
		t.Fatalf("expected one pending backup, got %d", len(backups))
	}
	if backups[0].Action != domain.BackupCreate {
		t.Errorf("expected create action, got %s", backups[0].Action)
	}
	if backups[0].ID >= 0 {
		t.Errorf("expected negative temporary id, got %d", backups[0].ID)
	}
}

func TestAccountUseCase_Create_ConfirmedClearsLedger(t *testing.T) {
	uc, _, store, ledger := newAccountFixture(t)

	account, err := uc.Create(context.Background(), usecase.AccountInput{
		Name:     "Savings",
		Balance:  decimal.RequireFromString("50.00"),
		Currency: "USD",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := store.FindByID(context.Background(), account.ID); err != nil {
		t.Errorf("confirmed account missing from local store: %v", err)
	}
	backups, _ := ledger.AllPending(context.Background())
	if len(backups) != 0 {
		t.Errorf("expected empty ledger after confirmed write, got %d records", len(backups))
	}
}

func TestAccountUseCase_ListAll_FallbackMergePrefersLedger(t *testing.T) {
	uc, gateway, store, ledger := newAccountFixture(t)
	gateway.AccountsFunc = func(ctx context.Context) ([]domain.Account, error) {
		return nil, errBackendDown
	}
	gateway.UpdateAccountFunc = func(ctx context.Context, key string, id int64, account domain.Account) (domain.Account, error) {
		return domain.Account{}, errBackendDown
	}

	ctx := context.Background()
	stale := domain.Account{ID: 1, Name: "Old name", Currency: "RUB"}
	if err := store.Create(ctx, stale); err != nil {
		t.Fatal(err)
	}
	other := domain.Account{ID: 2, Name: "Untouched", Currency: "RUB"}
	if err := store.Create(ctx, other); err != nil {
		t.Fatal(err)
	}
	edited := domain.Account{ID: 1, Name: "New name", Currency: "RUB"}
	if err := ledger.Upsert(ctx, domain.AccountBackup{ID: 1, Action: domain.BackupUpdate, Account: edited}); err != nil {
		t.Fatal(err)
	}

	accounts, err := uc.ListAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}

	byID := make(map[int64]domain.Account)
	for _, a := range accounts {
		byID[a.ID] = a
	}
	if byID[1].Name != "New name" {
		t.Errorf("ledger version must win the merge, got name %q", byID[1].Name)
	}
	if byID[2].Name != "Untouched" {
		t.Errorf("local-only account must survive the merge, got name %q", byID[2].Name)
	}
}

func TestAccountUseCase_ListAll_FallbackHidesPendingDeletes(t *testing.T) {
	uc, gateway, store, ledger := newAccountFixture(t)
	gateway.AccountsFunc = func(ctx context.Context) ([]domain.Account, error) {
		return nil, errBackendDown
	}
	gateway.DeleteAccountFunc = func(ctx context.Context, key string, id int64) error {
		return errBackendDown
	}

	ctx := context.Background()
	doomed := domain.Account{ID: 7, Name: "Doomed", Currency: "RUB"}
	if err := store.Create(ctx, doomed); err != nil {
		t.Fatal(err)
	}
	if err := ledger.Upsert(ctx, domain.AccountBackup{ID: 7, Action: domain.BackupDelete, Account: doomed}); err != nil {
		t.Fatal(err)
	}

	accounts, err := uc.ListAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, a := range accounts {
		if a.ID == 7 {
			t.Error("account with pending delete must not appear in the merge")
		}
	}
}

func TestAccountUseCase_ReplayPending_CreateMovesToRealID(t *testing.T) {
	uc, _, store, ledger := newAccountFixture(t)

	ctx := context.Background()
	offline := domain.Account{ID: -1000, Name: "Queued", Currency: "RUB"}
	if err := store.Create(ctx, offline); err != nil {
		t.Fatal(err)
	}
	if err := ledger.Upsert(ctx, domain.AccountBackup{ID: -1000, Action: domain.BackupCreate, Account: offline}); err != nil {
		t.Fatal(err)
	}

	remaining, err := uc.ReplayPending(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected 0 remaining, got %d", remaining)
	}

	if _, err := store.FindByID(ctx, -1000); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Error("temporary row must be dropped after a confirmed replay")
	}
	if _, err := store.FindByID(ctx, 1); err != nil {
		t.Errorf("confirmed row missing under backend id: %v", err)
	}
	backups, _ := ledger.AllPending(ctx)
	if len(backups) != 0 {
		t.Errorf("expected empty ledger, got %d records", len(backups))
	}
}

func TestAccountUseCase_ReplayPending_DeleteNotFoundIsSuccess(t *testing.T) {
	uc, gateway, store, ledger := newAccountFixture(t)
	gateway.DeleteAccountFunc = func(ctx context.Context, key string, id int64) error {
		return remoteStatusError{status: 404}
	}

	ctx := context.Background()
	if err := ledger.Upsert(ctx, domain.AccountBackup{ID: 3, Action: domain.BackupDelete, Account: domain.Account{ID: 3}}); err != nil {
		t.Fatal(err)
	}
	if err := store.Create(ctx, domain.Account{ID: 3, Name: "Gone", Currency: "RUB"}); err != nil {
		t.Fatal(err)
	}

	remaining, err := uc.ReplayPending(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("404 on delete replay must count as success, got %d remaining", remaining)
	}
	backups, _ := ledger.AllPending(ctx)
	if len(backups) != 0 {
		t.Errorf("expected empty ledger, got %d records", len(backups))
	}
}

func TestAccountUseCase_ReplayPending_FailureKeepsRecord(t *testing.T) {
	uc, gateway, _, ledger := newAccountFixture(t)
	gateway.UpdateAccountFunc = func(ctx context.Context, key string, id int64, account domain.Account) (domain.Account, error) {
		return domain.Account{}, errBackendDown
	}

	ctx := context.Background()
	if err := ledger.Upsert(ctx, domain.AccountBackup{ID: 5, Action: domain.BackupUpdate, Account: domain.Account{ID: 5, Name: "Stuck"}}); err != nil {
		t.Fatal(err)
	}

	remaining, err := uc.ReplayPending(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if remaining != 1 {
		t.Fatalf("expected 1 remaining, got %d", remaining)
	}
	backups, _ := ledger.AllPending(ctx)
	if len(backups) != 1 {
		t.Errorf("failed record must stay queued, got %d records", len(backups))
	}
}

func TestAccountUseCase_PrimaryAccount(t *testing.T) {
	t.Run("returns first account", func(t *testing.T) {
		uc, gateway, _, _ := newAccountFixture(t)
		gateway.AccountsFunc = func(ctx context.Context) ([]domain.Account, error) {
			return []domain.Account{
				{ID: 10, Name: "First", Currency: "RUB"},
				{ID: 11, Name: "Second", Currency: "RUB"},
			}, nil
		}

		account, err := uc.PrimaryAccount(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if account.ID != 10 {
			t.Errorf("expected account 10, got %d", account.ID)
		}
	})

	t.Run("no accounts anywhere", func(t *testing.T) {
		uc, _, _, _ := newAccountFixture(t)

		_, err := uc.PrimaryAccount(context.Background())
		if !errors.Is(err, domain.ErrNoAccounts) {
			t.Errorf("expected ErrNoAccounts, got %v", err)
		}
	})
}

func TestAccountUseCase_Delete_OfflineHidesLocally(t *testing.T) {
	uc, gateway, store, ledger := newAccountFixture(t)
	gateway.DeleteAccountFunc = func(ctx context.Context, key string, id int64) error {
		return errBackendDown
	}

	ctx := context.Background()
	if err := store.Create(ctx, domain.Account{ID: 4, Name: "Closing", Currency: "RUB"}); err != nil {
		t.Fatal(err)
	}

	err := uc.Delete(ctx, 4)
	if !errors.Is(err, errBackendDown) {
		t.Fatalf("expected transport error, got %v", err)
	}

	if _, err := store.FindByID(ctx, 4); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Error("account must disappear locally even while the delete is queued")
	}
	backups, _ := ledger.AllPending(ctx)
	if len(backups) != 1 || backups[0].Action != domain.BackupDelete {
		t.Fatalf("expected one pending delete, got %+v", backups)
	}
	if backups[0].Account.Name != "Closing" {
		t.Errorf("delete backup must carry the last known snapshot, got %q", backups[0].Account.Name)
	}
}

func TestAccountUseCase_Update_OverwritesPendingSlot(t *testing.T) {
	uc, gateway, _, ledger := newAccountFixture(t)
	gateway.UpdateAccountFunc = func(ctx context.Context, key string, id int64, account domain.Account) (domain.Account, error) {
		return domain.Account{}, errBackendDown
	}

	ctx := context.Background()
	for _, name := range []string{"First edit", "Second edit"} {
		_, err := uc.Update(ctx, 9, usecase.AccountInput{
			Name:     name,
			Balance:  decimal.RequireFromString("10.00"),
			Currency: "RUB",
		})
		if !errors.Is(err, errBackendDown) {
			t.Fatalf("expected transport error, got %v", err)
		}
	}

	backups, _ := ledger.AllPending(ctx)
	if len(backups) != 1 {
		t.Fatalf("one slot per id: expected 1 backup, got %d", len(backups))
	}
	if backups[0].Account.Name != "Second edit" {
		t.Errorf("newest intent must win the slot, got %q", backups[0].Account.Name)
	}
}

func TestAccountUseCase_Create_ReplayResendsOriginalKey(t *testing.T) {
	uc, gateway, _, ledger := newAccountFixture(t)
	var keys []string
	gateway.CreateAccountFunc = func(ctx context.Context, key string, account domain.Account) (domain.Account, error) {
		keys = append(keys, key)
		return domain.Account{}, errBackendDown
	}

	ctx := context.Background()
	_, err := uc.Create(ctx, usecase.AccountInput{
		Name:     "Checking",
		Balance:  decimal.RequireFromString("1000.00"),
		Currency: "RUB",
	})
	if !errors.Is(err, errBackendDown) {
		t.Fatalf("expected transport error, got %v", err)
	}

	backups, _ := ledger.AllPending(ctx)
	if len(backups) != 1 || backups[0].IdempotencyKey == "" {
		t.Fatalf("queued create must persist its idempotency key, got %+v", backups)
	}
	if keys[0] != backups[0].IdempotencyKey {
		t.Errorf("ledger key %q must match the key of the first attempt %q", backups[0].IdempotencyKey, keys[0])
	}

	if _, err := uc.ReplayPending(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keys) != 2 || keys[1] != keys[0] {
		t.Errorf("replay must resend the key of the first attempt, got %v", keys)
	}
}

func TestAccountUseCase_Update_KeepsPendingCreateSlot(t *testing.T) {
	uc, gateway, _, ledger := newAccountFixture(t)
	gateway.CreateAccountFunc = func(ctx context.Context, key string, account domain.Account) (domain.Account, error) {
		return domain.Account{}, errBackendDown
	}
	gateway.UpdateAccountFunc = func(ctx context.Context, key string, id int64, account domain.Account) (domain.Account, error) {
		return domain.Account{}, errBackendDown
	}

	ctx := context.Background()
	_, err := uc.Create(ctx, usecase.AccountInput{
		Name:     "First name",
		Balance:  decimal.RequireFromString("10.00"),
		Currency: "RUB",
	})
	if !errors.Is(err, errBackendDown) {
		t.Fatalf("expected transport error, got %v", err)
	}
	backups, _ := ledger.AllPending(ctx)
	if len(backups) != 1 {
		t.Fatalf("expected one pending backup, got %d", len(backups))
	}
	createKey := backups[0].IdempotencyKey

	_, err = uc.Update(ctx, backups[0].ID, usecase.AccountInput{
		Name:     "Second name",
		Balance:  decimal.RequireFromString("20.00"),
		Currency: "RUB",
	})
	if !errors.Is(err, errBackendDown) {
		t.Fatalf("expected transport error, got %v", err)
	}

	backups, _ = ledger.AllPending(ctx)
	if len(backups) != 1 {
		t.Fatalf("one slot per id: expected 1 backup, got %d", len(backups))
	}
	// The entity never reached the backend, so the slot must stay a create.
	// An update action here would replay as a PUT against a temporary id.
	if backups[0].Action != domain.BackupCreate {
		t.Errorf("editing a pending create must keep the create action, got %s", backups[0].Action)
	}
	if backups[0].Account.Name != "Second name" {
		t.Errorf("slot must carry the newest snapshot, got %q", backups[0].Account.Name)
	}
	if backups[0].IdempotencyKey != createKey {
		t.Errorf("slot must keep the original creation key, got %q want %q", backups[0].IdempotencyKey, createKey)
	}
}
