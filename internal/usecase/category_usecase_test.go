package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	gomock "go.uber.org/mock/gomock"

	"github.com/fincalc/finsync/internal/domain"
	"github.com/fincalc/finsync/internal/usecase"
	"github.com/fincalc/finsync/internal/usecase/mocks"
)

func newCategoryFixture(t *testing.T) (*usecase.CategoryUseCase, *mocks.MockCategoryGateway, *mocks.MockCategoryStore, *mocks.MockCategoryLedger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	idGen := mocks.NewMockIDGenerator(ctrl)
	idGen.EXPECT().NextID().Return(int64(-2000)).AnyTimes()

	gateway := mocks.NewMockCategoryGateway()
	store := mocks.NewMockCategoryStore()
	ledger := mocks.NewMockCategoryLedger()
	uc := usecase.NewCategoryUseCase(gateway, store, ledger, idGen, zerolog.Nop(), nil)
	return uc, gateway, store, ledger
}

func TestCategoryUseCase_Create(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.CategoryInput
		setupMocks  func(*mocks.MockCategoryGateway)
		expectError bool
	}{
		{
			name: "successful remote creation",
			input: usecase.CategoryInput{
				Name:      "Groceries",
				Emoji:     "🛒",
				Direction: domain.DirectionOutcome,
			},
			setupMocks:  func(gateway *mocks.MockCategoryGateway) {},
			expectError: false,
		},
		{
			name: "invalid direction rejected",
			input: usecase.CategoryInput{
				Name:      "Groceries",
				Emoji:     "🛒",
				Direction: domain.Direction("sideways"),
			},
			setupMocks:  func(gateway *mocks.MockCategoryGateway) {},
			expectError: true,
		},
		{
			name: "multi-rune emoji rejected",
			input: usecase.CategoryInput{
				Name:      "Groceries",
				Emoji:     "🛒🛒",
				Direction: domain.DirectionOutcome,
			},
			setupMocks:  func(gateway *mocks.MockCategoryGateway) {},
			expectError: true,
		},
		{
			name: "backend unreachable re-throws",
			input: usecase.CategoryInput{
				Name:      "Groceries",
				Emoji:     "🛒",
				Direction: domain.DirectionOutcome,
			},
			setupMocks: func(gateway *mocks.MockCategoryGateway) {
				gateway.CreateCategoryFunc = func(ctx context.Context, key string, category domain.Category) (domain.Category, error) {
					return domain.Category{}, errBackendDown
				}
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, gateway, _, _ := newCategoryFixture(t)
			tt.setupMocks(gateway)

			category, err := uc.Create(context.Background(), tt.input)

			if tt.expectError {
				if err == nil {
					t.Error("expected error, got nil")
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				if category == nil {
					t.Fatal("expected category, got nil")
				}
				if category.Name != tt.input.Name {
					t.Errorf("expected name %q, got %q", tt.input.Name, category.Name)
				}
			}
		})
	}
}

func TestCategoryUseCase_ListByDirection_FilterAgreesOnlineAndOffline(t *testing.T) {
	seed := []domain.Category{
		{ID: 1, Name: "Salary", Emoji: "💰", Direction: domain.DirectionIncome},
		{ID: 2, Name: "Groceries", Emoji: "🛒", Direction: domain.DirectionOutcome},
		{ID: 3, Name: "Gifts", Emoji: "🎁", Direction: domain.DirectionIncome},
	}

	uc, gateway, store, _ := newCategoryFixture(t)
	ctx := context.Background()

	// Online pass: the gateway serves the full set through the
	// direction-specific endpoint.
	gateway.CategoriesByDirectionFunc = func(ctx context.Context, direction domain.Direction) ([]domain.Category, error) {
		var out []domain.Category
		for _, c := range seed {
			if c.Direction == direction {
				out = append(out, c)
			}
		}
		return out, nil
	}

	online, err := uc.ListByDirection(ctx, domain.DirectionIncome)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Offline pass over the same data in the local store.
	for _, c := range seed {
		if err := store.Create(ctx, c); err != nil {
			t.Fatal(err)
		}
	}
	gateway.CategoriesByDirectionFunc = func(ctx context.Context, direction domain.Direction) ([]domain.Category, error) {
		return nil, errBackendDown
	}

	offline, err := uc.ListByDirection(ctx, domain.DirectionIncome)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(online) != len(offline) {
		t.Fatalf("online and offline filters disagree: %d vs %d", len(online), len(offline))
	}
	for i := range online {
		if online[i].ID != offline[i].ID {
			t.Errorf("result %d differs: online id %d, offline id %d", i, online[i].ID, offline[i].ID)
		}
		if online[i].Direction != domain.DirectionIncome {
			t.Errorf("unexpected direction %s in filtered result", online[i].Direction)
		}
	}
}

func TestCategoryUseCase_ListByDirection_InvalidDirection(t *testing.T) {
	uc, _, _, _ := newCategoryFixture(t)
	_, err := uc.ListByDirection(context.Background(), domain.Direction("both"))
	if !errors.Is(err, domain.ErrInvalidDirection) {
		t.Errorf("expected ErrInvalidDirection, got %v", err)
	}
}

func TestCategoryUseCase_Update_OfflineQueues(t *testing.T) {
	uc, gateway, store, ledger := newCategoryFixture(t)
	gateway.UpdateCategoryFunc = func(ctx context.Context, key string, id int64, category domain.Category) (domain.Category, error) {
		return domain.Category{}, errBackendDown
	}

	ctx := context.Background()
	_, err := uc.Update(ctx, 2, usecase.CategoryInput{
		Name:      "Food",
		Emoji:     "🍎",
		Direction: domain.DirectionOutcome,
	})
	if !errors.Is(err, errBackendDown) {
		t.Fatalf("expected transport error, got %v", err)
	}

	stored, err := store.FindByID(ctx, 2)
	if err != nil {
		t.Fatalf("expected synthesized local row: %v", err)
	}
	if stored.Name != "Food" {
		t.Errorf("expected name %q, got %q", "Food", stored.Name)
	}
	backups, _ := ledger.AllPending(ctx)
	if len(backups) != 1 || backups[0].Action != domain.BackupUpdate {
		t.Fatalf("expected one pending update, got %+v", backups)
	}
}

func TestCategoryUseCase_ReplayPending_DrainsQueue(t *testing.T) {
	uc, _, store, ledger := newCategoryFixture(t)

	ctx := context.Background()
	offline := domain.Category{ID: -2000, Name: "Queued", Emoji: "📦", Direction: domain.DirectionOutcome}
	if err := store.Create(ctx, offline); err != nil {
		t.Fatal(err)
	}
	if err := ledger.Upsert(ctx, domain.CategoryBackup{ID: -2000, Action: domain.BackupCreate, Category: offline}); err != nil {
		t.Fatal(err)
	}

	remaining, err := uc.ReplayPending(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected 0 remaining, got %d", remaining)
	}
	if _, err := store.FindByID(ctx, -2000); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Error("temporary row must be dropped after replay")
	}
	if _, err := store.FindByID(ctx, 1); err != nil {
		t.Errorf("confirmed row missing under backend id: %v", err)
	}
}
