package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/fincalc/finsync/internal/domain"
	"github.com/fincalc/finsync/internal/infrastructure/metrics"
)

// CategoryUseCase is the sync coordinator for categories.
type CategoryUseCase struct {
	gateway CategoryGateway
	store   CategoryStore
	ledger  CategoryLedger
	idGen   IDGenerator
	locks   *keyedMutex
	logger  zerolog.Logger
	inst    instruments
}

// NewCategoryUseCase creates a new CategoryUseCase.
func NewCategoryUseCase(gateway CategoryGateway, store CategoryStore, ledger CategoryLedger, idGen IDGenerator, logger zerolog.Logger, m *metrics.Metrics) *CategoryUseCase {
	return &CategoryUseCase{
		gateway: gateway,
		store:   store,
		ledger:  ledger,
		idGen:   idGen,
		locks:   newKeyedMutex(),
		logger:  logger.With().Str("kind", "category").Logger(),
		inst:    instruments{kind: "category", metrics: m},
	}
}

// CategoryInput carries the caller-supplied fields of a category mutation.
type CategoryInput struct {
	Name      string
	Emoji     string
	Direction domain.Direction
}

func (in CategoryInput) validate() error {
	if err := domain.ValidateName(in.Name); err != nil {
		return err
	}
	if err := domain.ValidateEmoji(in.Emoji); err != nil {
		return err
	}
	if !in.Direction.Valid() {
		return domain.ErrInvalidDirection
	}
	return nil
}

// ListAll returns all categories, remote when reachable and the local merge
// otherwise.
func (uc *CategoryUseCase) ListAll(ctx context.Context) ([]domain.Category, error) {
	return uc.list(ctx, nil)
}

// ListByDirection returns categories of one direction. The filter is applied
// to whichever side served the read, so online and offline results agree.
func (uc *CategoryUseCase) ListByDirection(ctx context.Context, direction domain.Direction) ([]domain.Category, error) {
	if !direction.Valid() {
		return nil, domain.ErrInvalidDirection
	}
	return uc.list(ctx, &direction)
}

func (uc *CategoryUseCase) list(ctx context.Context, direction *domain.Direction) ([]domain.Category, error) {
	if _, err := uc.ReplayPending(ctx); err != nil {
		uc.logger.Warn().Err(err).Msg("replay pass failed")
	}

	var (
		categories []domain.Category
		err        error
	)
	if direction != nil {
		categories, err = uc.gateway.CategoriesByDirection(ctx, *direction)
	} else {
		categories, err = uc.gateway.Categories(ctx)
	}
	if err != nil {
		uc.logger.Debug().Err(err).Msg("remote fetch failed, serving local merge")
		uc.inst.fallback()
		merged, merr := uc.localMerge(ctx)
		if merr != nil {
			return nil, merr
		}
		return filterByDirection(merged, direction), nil
	}

	for _, category := range categories {
		if err := uc.refreshLocal(ctx, category); err != nil {
			return nil, err
		}
	}
	return filterByDirection(categories, direction), nil
}

func filterByDirection(categories []domain.Category, direction *domain.Direction) []domain.Category {
	if direction == nil {
		return categories
	}
	filtered := categories[:0:0]
	for _, category := range categories {
		if category.Direction == *direction {
			filtered = append(filtered, category)
		}
	}
	return filtered
}

// Create creates a category remotely, or queues the creation under a
// temporary negative id and re-throws the transport error.
func (uc *CategoryUseCase) Create(ctx context.Context, input CategoryInput) (*domain.Category, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	candidate := domain.Category{
		Name:      input.Name,
		Emoji:     input.Emoji,
		Direction: input.Direction,
	}

	key := newMutationKey()
	confirmed, err := uc.gateway.CreateCategory(ctx, key, candidate)
	if err == nil {
		if err := uc.confirmLocal(ctx, confirmed); err != nil {
			return nil, err
		}
		return &confirmed, nil
	}

	candidate.ID = uc.idGen.NextID()
	uc.queueOffline(ctx, domain.BackupCreate, key, candidate)
	return nil, fmt.Errorf("%w: %w", domain.ErrQueuedOffline, err)
}

// Update updates a category remotely, or queues the update and re-throws the
// transport error.
func (uc *CategoryUseCase) Update(ctx context.Context, id int64, input CategoryInput) (*domain.Category, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	candidate := domain.Category{
		ID:        id,
		Name:      input.Name,
		Emoji:     input.Emoji,
		Direction: input.Direction,
	}

	key := newMutationKey()
	confirmed, err := uc.gateway.UpdateCategory(ctx, key, id, candidate)
	if err == nil {
		if err := uc.confirmLocal(ctx, confirmed); err != nil {
			return nil, err
		}
		return &confirmed, nil
	}

	uc.queueOffline(ctx, domain.BackupUpdate, key, candidate)
	return nil, fmt.Errorf("%w: %w", domain.ErrQueuedOffline, err)
}

// Delete deletes a category remotely, or queues the deletion and re-throws
// the transport error.
func (uc *CategoryUseCase) Delete(ctx context.Context, id int64) error {
	key := newMutationKey()
	err := uc.gateway.DeleteCategory(ctx, key, id)
	if err == nil {
		uc.locks.Lock(id)
		defer uc.locks.Unlock(id)
		if serr := uc.store.Delete(ctx, id); serr != nil {
			return serr
		}
		return uc.ledger.Remove(ctx, id)
	}

	snapshot := domain.Category{ID: id}
	if existing, ferr := uc.store.FindByID(ctx, id); ferr == nil {
		snapshot = *existing
	}

	uc.locks.Lock(id)
	if serr := uc.store.Delete(ctx, id); serr != nil {
		uc.logger.Error().Err(serr).Int64("id", id).Msg("local delete failed")
	}
	if lerr := uc.ledger.Upsert(ctx, domain.CategoryBackup{ID: id, Action: domain.BackupDelete, IdempotencyKey: key, Category: snapshot}); lerr != nil {
		uc.logger.Error().Err(lerr).Int64("id", id).Msg("ledger upsert failed")
	}
	uc.locks.Unlock(id)

	uc.inst.queued(domain.BackupDelete)
	uc.logger.Info().Int64("id", id).Msg("delete queued offline")
	return fmt.Errorf("%w: %w", domain.ErrQueuedOffline, err)
}

// ReplayPending attempts every queued backup once.
func (uc *CategoryUseCase) ReplayPending(ctx context.Context) (int, error) {
	backups, err := uc.ledger.AllPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("read category ledger: %w", err)
	}

	remaining := 0
	for _, backup := range backups {
		if err := uc.replayOne(ctx, backup); err != nil {
			remaining++
			uc.inst.replay("failure")
			uc.logger.Debug().Err(err).Int64("id", backup.ID).Str("action", string(backup.Action)).Msg("replay failed")
			continue
		}
		uc.inst.replay("success")
	}
	uc.inst.pending(remaining)
	return remaining, nil
}

// PendingCount reports how many category mutations await replay.
func (uc *CategoryUseCase) PendingCount(ctx context.Context) (int, error) {
	backups, err := uc.ledger.AllPending(ctx)
	if err != nil {
		return 0, err
	}
	return len(backups), nil
}

func (uc *CategoryUseCase) replayOne(ctx context.Context, backup domain.CategoryBackup) error {
	uc.locks.Lock(backup.ID)
	defer uc.locks.Unlock(backup.ID)

	switch backup.Action {
	case domain.BackupCreate:
		confirmed, err := uc.gateway.CreateCategory(ctx, backup.IdempotencyKey, backup.Category)
		if err != nil {
			return err
		}
		if err := uc.store.Delete(ctx, backup.ID); err != nil {
			return err
		}
		if err := uc.upsertLocal(ctx, confirmed); err != nil {
			return err
		}
	case domain.BackupUpdate:
		confirmed, err := uc.gateway.UpdateCategory(ctx, backup.IdempotencyKey, backup.ID, backup.Category)
		if err != nil {
			return err
		}
		if err := uc.upsertLocal(ctx, confirmed); err != nil {
			return err
		}
	case domain.BackupDelete:
		err := uc.gateway.DeleteCategory(ctx, backup.IdempotencyKey, backup.ID)
		if err != nil && !isRemoteNotFound(err) {
			return err
		}
		if err := uc.store.Delete(ctx, backup.ID); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown backup action %q", backup.Action)
	}

	return uc.ledger.Remove(ctx, backup.ID)
}

func (uc *CategoryUseCase) localMerge(ctx context.Context) ([]domain.Category, error) {
	backups, err := uc.ledger.AllPending(ctx)
	if err != nil {
		return nil, err
	}
	local, err := uc.store.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	pending := make([]domain.Category, 0, len(backups))
	deleted := make(map[int64]struct{})
	for _, backup := range backups {
		if backup.Action == domain.BackupDelete {
			deleted[backup.ID] = struct{}{}
			continue
		}
		pending = append(pending, backup.Category)
	}

	visible := local[:0:0]
	for _, category := range local {
		if _, gone := deleted[category.ID]; !gone {
			visible = append(visible, category)
		}
	}

	return mergeByID(pending, visible, func(c domain.Category) int64 { return c.ID }), nil
}

func (uc *CategoryUseCase) confirmLocal(ctx context.Context, category domain.Category) error {
	uc.locks.Lock(category.ID)
	defer uc.locks.Unlock(category.ID)

	if err := uc.upsertLocal(ctx, category); err != nil {
		return err
	}
	return uc.ledger.Remove(ctx, category.ID)
}

func (uc *CategoryUseCase) refreshLocal(ctx context.Context, category domain.Category) error {
	uc.locks.Lock(category.ID)
	defer uc.locks.Unlock(category.ID)
	return uc.upsertLocal(ctx, category)
}

func (uc *CategoryUseCase) upsertLocal(ctx context.Context, category domain.Category) error {
	_, err := uc.store.FindByID(ctx, category.ID)
	switch {
	case errors.Is(err, domain.ErrCategoryNotFound):
		return uc.store.Create(ctx, category)
	case err != nil:
		return err
	}
	return uc.store.Update(ctx, category)
}

func (uc *CategoryUseCase) queueOffline(ctx context.Context, action domain.BackupAction, key string, category domain.Category) {
	uc.locks.Lock(category.ID)
	defer uc.locks.Unlock(category.ID)

	if err := uc.upsertLocal(ctx, category); err != nil {
		uc.logger.Error().Err(err).Int64("id", category.ID).Msg("local write failed")
	}

	backup := domain.CategoryBackup{ID: category.ID, Action: action, IdempotencyKey: key, Category: category}
	// An update landing on a slot that still holds a create stays a create.
	if action == domain.BackupUpdate {
		if existing, ok := uc.pendingFor(ctx, category.ID); ok && existing.Action == domain.BackupCreate {
			backup.Action = domain.BackupCreate
			backup.IdempotencyKey = existing.IdempotencyKey
		}
	}
	if err := uc.ledger.Upsert(ctx, backup); err != nil {
		uc.logger.Error().Err(err).Int64("id", category.ID).Msg("ledger upsert failed")
	}

	uc.inst.queued(backup.Action)
	uc.logger.Info().Int64("id", category.ID).Str("action", string(backup.Action)).Msg("mutation queued offline")
}

func (uc *CategoryUseCase) pendingFor(ctx context.Context, id int64) (domain.CategoryBackup, bool) {
	backups, err := uc.ledger.AllPending(ctx)
	if err != nil {
		return domain.CategoryBackup{}, false
	}
	for _, backup := range backups {
		if backup.ID == id {
			return backup, true
		}
	}
	return domain.CategoryBackup{}, false
}
