package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/fincalc/finsync/internal/domain"
	"github.com/fincalc/finsync/internal/infrastructure/metrics"
)

// AccountUseCase is the sync coordinator for accounts. Reads drain the ledger
// first and fall back to the local merge when the backend is unreachable;
// writes go remote-first and queue offline on failure.
type AccountUseCase struct {
	gateway AccountGateway
	store   AccountStore
	ledger  AccountLedger
	idGen   IDGenerator
	locks   *keyedMutex
	logger  zerolog.Logger
	inst    instruments
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(gateway AccountGateway, store AccountStore, ledger AccountLedger, idGen IDGenerator, logger zerolog.Logger, m *metrics.Metrics) *AccountUseCase {
	return &AccountUseCase{
		gateway: gateway,
		store:   store,
		ledger:  ledger,
		idGen:   idGen,
		locks:   newKeyedMutex(),
		logger:  logger.With().Str("kind", "account").Logger(),
		inst:    instruments{kind: "account", metrics: m},
	}
}

// AccountInput carries the caller-supplied fields of an account mutation.
type AccountInput struct {
	Name     string
	Balance  decimal.Decimal
	Currency string
}

func (in AccountInput) validate() error {
	if err := domain.ValidateName(in.Name); err != nil {
		return err
	}
	return domain.ValidateCurrency(in.Currency)
}

// ListAll returns all accounts: remote state when reachable (refreshing the
// local store), otherwise the merge of local store and pending ledger.
func (uc *AccountUseCase) ListAll(ctx context.Context) ([]domain.Account, error) {
	if _, err := uc.ReplayPending(ctx); err != nil {
		uc.logger.Warn().Err(err).Msg("replay pass failed")
	}

	accounts, err := uc.gateway.Accounts(ctx)
	if err != nil {
		uc.logger.Debug().Err(err).Msg("remote fetch failed, serving local merge")
		uc.inst.fallback()
		return uc.localMerge(ctx)
	}

	for _, account := range accounts {
		if err := uc.refreshLocal(ctx, account); err != nil {
			return nil, err
		}
	}
	return accounts, nil
}

// PrimaryAccount returns the device user's account: the first one listed.
func (uc *AccountUseCase) PrimaryAccount(ctx context.Context) (*domain.Account, error) {
	accounts, err := uc.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, domain.ErrNoAccounts
	}
	return &accounts[0], nil
}

// Create creates an account remotely, or queues the creation under a temporary
// negative id and re-throws the transport error.
func (uc *AccountUseCase) Create(ctx context.Context, input AccountInput) (*domain.Account, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	candidate := domain.Account{
		Name:      input.Name,
		Balance:   input.Balance,
		Currency:  input.Currency,
		CreatedAt: now,
		UpdatedAt: now,
	}

	key := newMutationKey()
	confirmed, err := uc.gateway.CreateAccount(ctx, key, candidate)
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

// Update updates an account remotely, or queues the update and re-throws the
// transport error.
func (uc *AccountUseCase) Update(ctx context.Context, id int64, input AccountInput) (*domain.Account, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	candidate := domain.Account{
		ID:        id,
		Name:      input.Name,
		Balance:   input.Balance,
		Currency:  input.Currency,
		CreatedAt: now,
		UpdatedAt: now,
	}

	key := newMutationKey()
	confirmed, err := uc.gateway.UpdateAccount(ctx, key, id, candidate)
	if err == nil {
		if err := uc.confirmLocal(ctx, confirmed); err != nil {
			return nil, err
		}
		return &confirmed, nil
	}

	// Keep fields the caller does not control from the stored copy.
	if existing, ferr := uc.store.FindByID(ctx, id); ferr == nil {
		candidate.UserID = existing.UserID
		candidate.CreatedAt = existing.CreatedAt
	}
	uc.queueOffline(ctx, domain.BackupUpdate, key, candidate)
	return nil, fmt.Errorf("%w: %w", domain.ErrQueuedOffline, err)
}

// Delete deletes an account remotely, or queues the deletion and re-throws the
// transport error. Locally the account disappears either way.
func (uc *AccountUseCase) Delete(ctx context.Context, id int64) error {
	key := newMutationKey()
	err := uc.gateway.DeleteAccount(ctx, key, id)
	if err == nil {
		uc.locks.Lock(id)
		defer uc.locks.Unlock(id)
		if serr := uc.store.Delete(ctx, id); serr != nil {
			return serr
		}
		return uc.ledger.Remove(ctx, id)
	}

	snapshot := domain.Account{ID: id, UpdatedAt: time.Now().UTC()}
	if existing, ferr := uc.store.FindByID(ctx, id); ferr == nil {
		snapshot = *existing
	}

	uc.locks.Lock(id)
	if serr := uc.store.Delete(ctx, id); serr != nil {
		uc.logger.Error().Err(serr).Int64("id", id).Msg("local delete failed")
	}
	if lerr := uc.ledger.Upsert(ctx, domain.AccountBackup{ID: id, Action: domain.BackupDelete, IdempotencyKey: key, Account: snapshot}); lerr != nil {
		uc.logger.Error().Err(lerr).Int64("id", id).Msg("ledger upsert failed")
	}
	uc.locks.Unlock(id)

	uc.inst.queued(domain.BackupDelete)
	uc.logger.Info().Int64("id", id).Msg("delete queued offline")
	return fmt.Errorf("%w: %w", domain.ErrQueuedOffline, err)
}

// ReplayPending attempts every queued backup once. Individual failures are
// isolated: a bad record is left in place and the drain continues.
func (uc *AccountUseCase) ReplayPending(ctx context.Context) (int, error) {
	backups, err := uc.ledger.AllPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("read account ledger: %w", err)
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

// PendingCount reports how many account mutations await replay.
func (uc *AccountUseCase) PendingCount(ctx context.Context) (int, error) {
	backups, err := uc.ledger.AllPending(ctx)
	if err != nil {
		return 0, err
	}
	return len(backups), nil
}

func (uc *AccountUseCase) replayOne(ctx context.Context, backup domain.AccountBackup) error {
	uc.locks.Lock(backup.ID)
	defer uc.locks.Unlock(backup.ID)

	switch backup.Action {
	case domain.BackupCreate:
		confirmed, err := uc.gateway.CreateAccount(ctx, backup.IdempotencyKey, backup.Account)
		if err != nil {
			return err
		}
		// The backend assigned a real id; the temporary row goes away.
		if err := uc.store.Delete(ctx, backup.ID); err != nil {
			return err
		}
		if err := uc.upsertLocal(ctx, confirmed); err != nil {
			return err
		}
	case domain.BackupUpdate:
		confirmed, err := uc.gateway.UpdateAccount(ctx, backup.IdempotencyKey, backup.ID, backup.Account)
		if err != nil {
			return err
		}
		if err := uc.upsertLocal(ctx, confirmed); err != nil {
			return err
		}
	case domain.BackupDelete:
		err := uc.gateway.DeleteAccount(ctx, backup.IdempotencyKey, backup.ID)
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

func (uc *AccountUseCase) localMerge(ctx context.Context) ([]domain.Account, error) {
	backups, err := uc.ledger.AllPending(ctx)
	if err != nil {
		return nil, err
	}
	local, err := uc.store.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	pending := make([]domain.Account, 0, len(backups))
	deleted := make(map[int64]struct{})
	for _, backup := range backups {
		if backup.Action == domain.BackupDelete {
			deleted[backup.ID] = struct{}{}
			continue
		}
		pending = append(pending, backup.Account)
	}

	visible := local[:0:0]
	for _, account := range local {
		if _, gone := deleted[account.ID]; !gone {
			visible = append(visible, account)
		}
	}

	return mergeByID(pending, visible, func(a domain.Account) int64 { return a.ID }), nil
}

// confirmLocal mirrors a confirmed write into the local store and clears any
// stale offline intent for the same id.
func (uc *AccountUseCase) confirmLocal(ctx context.Context, account domain.Account) error {
	uc.locks.Lock(account.ID)
	defer uc.locks.Unlock(account.ID)

	if err := uc.upsertLocal(ctx, account); err != nil {
		return err
	}
	return uc.ledger.Remove(ctx, account.ID)
}

func (uc *AccountUseCase) refreshLocal(ctx context.Context, account domain.Account) error {
	uc.locks.Lock(account.ID)
	defer uc.locks.Unlock(account.ID)
	return uc.upsertLocal(ctx, account)
}

func (uc *AccountUseCase) upsertLocal(ctx context.Context, account domain.Account) error {
	_, err := uc.store.FindByID(ctx, account.ID)
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return uc.store.Create(ctx, account)
	case err != nil:
		return err
	}
	return uc.store.Update(ctx, account)
}

// queueOffline writes the synthesized account locally and records the intent in
// the ledger. Persistence failures are logged, not returned: the caller gets
// the original transport error either way.
func (uc *AccountUseCase) queueOffline(ctx context.Context, action domain.BackupAction, key string, account domain.Account) {
	uc.locks.Lock(account.ID)
	defer uc.locks.Unlock(account.ID)

	if err := uc.upsertLocal(ctx, account); err != nil {
		uc.logger.Error().Err(err).Int64("id", account.ID).Msg("local write failed")
	}

	backup := domain.AccountBackup{ID: account.ID, Action: action, IdempotencyKey: key, Account: account}
	// An update landing on a slot that still holds a create stays a create:
	// the entity never reached the backend, so a PUT for it would 404 forever.
	if action == domain.BackupUpdate {
		if existing, ok := uc.pendingFor(ctx, account.ID); ok && existing.Action == domain.BackupCreate {
			backup.Action = domain.BackupCreate
			backup.IdempotencyKey = existing.IdempotencyKey
		}
	}
	if err := uc.ledger.Upsert(ctx, backup); err != nil {
		uc.logger.Error().Err(err).Int64("id", account.ID).Msg("ledger upsert failed")
	}

	uc.inst.queued(backup.Action)
	uc.logger.Info().Int64("id", account.ID).Str("action", string(backup.Action)).Msg("mutation queued offline")
}

func (uc *AccountUseCase) pendingFor(ctx context.Context, id int64) (domain.AccountBackup, bool) {
	backups, err := uc.ledger.AllPending(ctx)
	if err != nil {
		return domain.AccountBackup{}, false
	}
	for _, backup := range backups {
		if backup.ID == id {
			return backup, true
		}
	}
	return domain.AccountBackup{}, false
}
