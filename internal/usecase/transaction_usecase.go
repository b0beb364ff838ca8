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

// TransactionUseCase is the sync coordinator for transactions. Besides the
// usual replay, fetch and queue mechanics it keeps the local account balance
// consistent with offline transaction mutations.
type TransactionUseCase struct {
	gateway TransactionGateway
	store   TransactionStore
	ledger  TransactionLedger

	accounts      AccountStore
	accountLedger AccountLedger
	categories    CategoryStore

	idGen        IDGenerator
	locks        *keyedMutex
	accountLocks *keyedMutex
	logger       zerolog.Logger
	inst         instruments
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	gateway TransactionGateway,
	store TransactionStore,
	ledger TransactionLedger,
	accounts AccountStore,
	accountLedger AccountLedger,
	categories CategoryStore,
	idGen IDGenerator,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *TransactionUseCase {
	return &TransactionUseCase{
		gateway:       gateway,
		store:         store,
		ledger:        ledger,
		accounts:      accounts,
		accountLedger: accountLedger,
		categories:    categories,
		idGen:         idGen,
		locks:         newKeyedMutex(),
		accountLocks:  newKeyedMutex(),
		logger:        logger.With().Str("kind", "transaction").Logger(),
		inst:          instruments{kind: "transaction", metrics: m},
	}
}

// TransactionInput carries the caller-supplied fields of a transaction mutation.
type TransactionInput struct {
	AccountID       int64
	CategoryID      int64
	Amount          decimal.Decimal
	TransactionDate time.Time
	Comment         *string
}

func (in TransactionInput) validate() error {
	return domain.ValidateAmount(in.Amount)
}

// ListInput selects the transactions to read. Direction, when set, narrows the
// result to one side of the ledger.
type ListInput struct {
	AccountID int64
	From      time.Time
	To        time.Time
	Direction *domain.Direction
}

// List returns the account's transactions for the period: remote state when
// reachable, the local merge otherwise. The direction filter is applied to
// whichever side served the read.
func (uc *TransactionUseCase) List(ctx context.Context, input ListInput) ([]domain.Transaction, error) {
	if _, err := uc.ReplayPending(ctx); err != nil {
		uc.logger.Warn().Err(err).Msg("replay pass failed")
	}

	transactions, err := uc.gateway.TransactionsForPeriod(ctx, input.AccountID, input.From, input.To)
	if err != nil {
		uc.logger.Debug().Err(err).Msg("remote fetch failed, serving local merge")
		uc.inst.fallback()
		merged, merr := uc.localMerge(ctx, input.AccountID)
		if merr != nil {
			return nil, merr
		}
		return filterTransactions(merged, input), nil
	}

	for _, tx := range transactions {
		if err := uc.refreshLocal(ctx, tx); err != nil {
			return nil, err
		}
	}
	return filterTransactions(transactions, input), nil
}

// filterTransactions keeps transactions inside the period whose category
// matches the optional direction. Applied identically online and offline so
// both paths agree on what the period contains.
func filterTransactions(transactions []domain.Transaction, input ListInput) []domain.Transaction {
	filtered := transactions[:0:0]
	for _, tx := range transactions {
		if tx.TransactionDate.Before(input.From) || tx.TransactionDate.After(input.To) {
			continue
		}
		if input.Direction != nil && tx.Category.Direction != *input.Direction {
			continue
		}
		filtered = append(filtered, tx)
	}
	return filtered
}

// Create creates a transaction remotely, or synthesizes one locally under a
// temporary negative id, queues it, adjusts the account balance, and re-throws
// the transport error.
func (uc *TransactionUseCase) Create(ctx context.Context, input TransactionInput) (*domain.Transaction, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	candidate := uc.synthesize(ctx, 0, input, now, now)

	key := newMutationKey()
	confirmed, err := uc.gateway.CreateTransaction(ctx, key, candidate)
	if err == nil {
		if cerr := uc.confirmLocal(ctx, confirmed); cerr != nil {
			return nil, cerr
		}
		return &confirmed, nil
	}

	candidate.ID = uc.idGen.NextID()
	uc.queueOffline(ctx, domain.BackupCreate, key, candidate)
	uc.queueAccountDelta(ctx, input.AccountID, candidate.SignedAmount(), now)
	return nil, fmt.Errorf("%w: %w", domain.ErrQueuedOffline, err)
}

// Update updates a transaction remotely, or queues the update, adjusts the
// account balance by the difference in signed amounts, and re-throws the
// transport error.
func (uc *TransactionUseCase) Update(ctx context.Context, id int64, input TransactionInput) (*domain.Transaction, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	candidate := uc.synthesize(ctx, id, input, now, now)

	key := newMutationKey()
	confirmed, err := uc.gateway.UpdateTransaction(ctx, key, id, candidate)
	if err == nil {
		if cerr := uc.confirmLocal(ctx, confirmed); cerr != nil {
			return nil, cerr
		}
		return &confirmed, nil
	}

	previous, ferr := uc.store.FindByID(ctx, id)
	if ferr == nil {
		candidate.CreatedAt = previous.CreatedAt
	}
	uc.queueOffline(ctx, domain.BackupUpdate, key, candidate)

	// Balance moves by the change in signed amount. Without the previous
	// snapshot the delta is unknowable, so the balance stays put.
	if ferr == nil {
		delta := candidate.SignedAmount().Sub(previous.SignedAmount())
		uc.queueAccountDelta(ctx, input.AccountID, delta, now)
	}
	return nil, fmt.Errorf("%w: %w", domain.ErrQueuedOffline, err)
}

// Delete deletes a transaction remotely, or queues the deletion, reverts its
// effect on the account balance, and re-throws the transport error.
func (uc *TransactionUseCase) Delete(ctx context.Context, id int64) error {
	key := newMutationKey()
	err := uc.gateway.DeleteTransaction(ctx, key, id)
	if err == nil {
		uc.locks.Lock(id)
		defer uc.locks.Unlock(id)
		if serr := uc.store.Delete(ctx, id); serr != nil {
			return serr
		}
		return uc.ledger.Remove(ctx, id)
	}

	now := time.Now().UTC()
	snapshot := domain.Transaction{ID: id, UpdatedAt: now}
	existing, ferr := uc.store.FindByID(ctx, id)
	if ferr == nil {
		snapshot = *existing
	}

	uc.locks.Lock(id)
	if serr := uc.store.Delete(ctx, id); serr != nil {
		uc.logger.Error().Err(serr).Int64("id", id).Msg("local delete failed")
	}
	if lerr := uc.ledger.Upsert(ctx, domain.TransactionBackup{ID: id, Action: domain.BackupDelete, IdempotencyKey: key, Transaction: snapshot}); lerr != nil {
		uc.logger.Error().Err(lerr).Int64("id", id).Msg("ledger upsert failed")
	}
	uc.locks.Unlock(id)

	if ferr == nil {
		uc.queueAccountDelta(ctx, snapshot.Account.ID, snapshot.SignedAmount().Neg(), now)
	}

	uc.inst.queued(domain.BackupDelete)
	uc.logger.Info().Int64("id", id).Msg("delete queued offline")
	return fmt.Errorf("%w: %w", domain.ErrQueuedOffline, err)
}

// ReplayPending attempts every queued backup once.
func (uc *TransactionUseCase) ReplayPending(ctx context.Context) (int, error) {
	backups, err := uc.ledger.AllPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("read transaction ledger: %w", err)
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

// PendingCount reports how many transaction mutations await replay.
func (uc *TransactionUseCase) PendingCount(ctx context.Context) (int, error) {
	backups, err := uc.ledger.AllPending(ctx)
	if err != nil {
		return 0, err
	}
	return len(backups), nil
}

func (uc *TransactionUseCase) replayOne(ctx context.Context, backup domain.TransactionBackup) error {
	uc.locks.Lock(backup.ID)
	defer uc.locks.Unlock(backup.ID)

	switch backup.Action {
	case domain.BackupCreate:
		confirmed, err := uc.gateway.CreateTransaction(ctx, backup.IdempotencyKey, backup.Transaction)
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
		confirmed, err := uc.gateway.UpdateTransaction(ctx, backup.IdempotencyKey, backup.ID, backup.Transaction)
		if err != nil {
			return err
		}
		if err := uc.upsertLocal(ctx, confirmed); err != nil {
			return err
		}
	case domain.BackupDelete:
		err := uc.gateway.DeleteTransaction(ctx, backup.IdempotencyKey, backup.ID)
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

func (uc *TransactionUseCase) localMerge(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	backups, err := uc.ledger.AllPending(ctx)
	if err != nil {
		return nil, err
	}

	var local []domain.Transaction
	if accountID > 0 {
		local, err = uc.store.ListByAccount(ctx, accountID)
	} else {
		local, err = uc.store.FetchAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	pending := make([]domain.Transaction, 0, len(backups))
	deleted := make(map[int64]struct{})
	for _, backup := range backups {
		if backup.Action == domain.BackupDelete {
			deleted[backup.ID] = struct{}{}
			continue
		}
		if accountID > 0 && backup.Transaction.Account.ID != accountID {
			continue
		}
		pending = append(pending, backup.Transaction)
	}

	visible := local[:0:0]
	for _, tx := range local {
		if _, gone := deleted[tx.ID]; !gone {
			visible = append(visible, tx)
		}
	}

	return mergeByID(pending, visible, func(t domain.Transaction) int64 { return t.ID }), nil
}

// synthesize builds a full transaction snapshot from the raw input, resolving
// the account summary and category from the local store. Missing references
// become empty placeholders rather than errors; the backend remains the
// authority once the change replays.
func (uc *TransactionUseCase) synthesize(ctx context.Context, id int64, input TransactionInput, createdAt, updatedAt time.Time) domain.Transaction {
	brief := domain.AccountBrief{ID: input.AccountID}
	if account, err := uc.accounts.FindByID(ctx, input.AccountID); err == nil {
		brief = account.Brief()
	}

	category := domain.Category{ID: input.CategoryID, Direction: domain.DirectionOutcome}
	if found, err := uc.categories.FindByID(ctx, input.CategoryID); err == nil {
		category = *found
	}

	return domain.Transaction{
		ID:              id,
		Account:         brief,
		Category:        category,
		Amount:          input.Amount,
		TransactionDate: input.TransactionDate,
		Comment:         input.Comment,
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}
}

func (uc *TransactionUseCase) confirmLocal(ctx context.Context, tx domain.Transaction) error {
	uc.locks.Lock(tx.ID)
	defer uc.locks.Unlock(tx.ID)

	if err := uc.upsertLocal(ctx, tx); err != nil {
		return err
	}
	return uc.ledger.Remove(ctx, tx.ID)
}

func (uc *TransactionUseCase) refreshLocal(ctx context.Context, tx domain.Transaction) error {
	uc.locks.Lock(tx.ID)
	defer uc.locks.Unlock(tx.ID)
	return uc.upsertLocal(ctx, tx)
}

func (uc *TransactionUseCase) upsertLocal(ctx context.Context, tx domain.Transaction) error {
	_, err := uc.store.FindByID(ctx, tx.ID)
	switch {
	case errors.Is(err, domain.ErrTransactionNotFound):
		return uc.store.Create(ctx, tx)
	case err != nil:
		return err
	}
	return uc.store.Update(ctx, tx)
}

func (uc *TransactionUseCase) queueOffline(ctx context.Context, action domain.BackupAction, key string, tx domain.Transaction) {
	uc.locks.Lock(tx.ID)
	defer uc.locks.Unlock(tx.ID)

	if err := uc.upsertLocal(ctx, tx); err != nil {
		uc.logger.Error().Err(err).Int64("id", tx.ID).Msg("local write failed")
	}

	backup := domain.TransactionBackup{ID: tx.ID, Action: action, IdempotencyKey: key, Transaction: tx}
	// An update landing on a slot that still holds a create stays a create:
	// the transaction never reached the backend, so a PUT for it would 404
	// forever.
	if action == domain.BackupUpdate {
		if existing, ok := uc.pendingFor(ctx, tx.ID); ok && existing.Action == domain.BackupCreate {
			backup.Action = domain.BackupCreate
			backup.IdempotencyKey = existing.IdempotencyKey
		}
	}
	if err := uc.ledger.Upsert(ctx, backup); err != nil {
		uc.logger.Error().Err(err).Int64("id", tx.ID).Msg("ledger upsert failed")
	}

	uc.inst.queued(backup.Action)
	uc.logger.Info().Int64("id", tx.ID).Str("action", string(backup.Action)).Msg("mutation queued offline")
}

func (uc *TransactionUseCase) pendingFor(ctx context.Context, id int64) (domain.TransactionBackup, bool) {
	backups, err := uc.ledger.AllPending(ctx)
	if err != nil {
		return domain.TransactionBackup{}, false
	}
	for _, backup := range backups {
		if backup.ID == id {
			return backup, true
		}
	}
	return domain.TransactionBackup{}, false
}

// queueAccountDelta applies an offline balance change to the local account and
// queues an account update so the backend converges on reconnect. Failures are
// logged only: the transaction mutation itself already succeeded or was queued.
func (uc *TransactionUseCase) queueAccountDelta(ctx context.Context, accountID int64, delta decimal.Decimal, now time.Time) {
	if delta.IsZero() {
		return
	}

	uc.accountLocks.Lock(accountID)
	defer uc.accountLocks.Unlock(accountID)

	account, err := uc.accounts.FindByID(ctx, accountID)
	if err != nil {
		uc.logger.Warn().Err(err).Int64("account_id", accountID).Msg("balance adjustment skipped, account unknown locally")
		return
	}

	adjusted := account.ApplyDelta(delta, now)
	if err := uc.accounts.Update(ctx, adjusted); err != nil {
		uc.logger.Error().Err(err).Int64("account_id", accountID).Msg("balance update failed")
		return
	}

	backup := domain.AccountBackup{ID: accountID, Action: domain.BackupUpdate, IdempotencyKey: newMutationKey(), Account: adjusted}
	// An account that was itself created offline keeps its create slot; the
	// adjusted balance rides along in the snapshot.
	if existing, ok := uc.pendingAccount(ctx, accountID); ok && existing.Action == domain.BackupCreate {
		backup.Action = domain.BackupCreate
		backup.IdempotencyKey = existing.IdempotencyKey
	}
	if err := uc.accountLedger.Upsert(ctx, backup); err != nil {
		uc.logger.Error().Err(err).Int64("account_id", accountID).Msg("account ledger upsert failed")
	}
	uc.logger.Debug().Int64("account_id", accountID).Str("delta", delta.String()).Msg("balance adjusted offline")
}

func (uc *TransactionUseCase) pendingAccount(ctx context.Context, id int64) (domain.AccountBackup, bool) {
	backups, err := uc.accountLedger.AllPending(ctx)
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
