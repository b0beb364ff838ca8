package file

import (
	"context"
	"fmt"

	"github.com/fincalc/finsync/internal/domain"
	"github.com/fincalc/finsync/internal/wire"
)

// backupRecord is the on-disk shape of a queued mutation.
type backupRecord[P any] struct {
	ID             int64  `json:"id"`
	Action         string `json:"action"`
	IdempotencyKey string `json:"idempotencyKey,omitempty"`
	Payload        P      `json:"payload"`
}

func backupID[P any](r backupRecord[P]) int64 { return r.ID }

// AccountBackupStore is the file-backed pending-change ledger for accounts.
type AccountBackupStore struct {
	col *collection[backupRecord[wire.AccountPayload]]
}

// NewAccountBackupStore creates a file-backed account ledger in dir.
func NewAccountBackupStore(dir string) (*AccountBackupStore, error) {
	col, err := newCollection(dir, "account_backups.json", backupID[wire.AccountPayload])
	if err != nil {
		return nil, err
	}
	return &AccountBackupStore{col: col}, nil
}

// AllPending returns every queued account backup.
func (s *AccountBackupStore) AllPending(ctx context.Context) ([]domain.AccountBackup, error) {
	records, err := s.col.all()
	if err != nil {
		return nil, err
	}

	backups := make([]domain.AccountBackup, 0, len(records))
	for _, r := range records {
		account, err := r.Payload.Domain()
		if err != nil {
			return nil, fmt.Errorf("account backup %d: %w", r.ID, err)
		}
		backups = append(backups, domain.AccountBackup{
			ID:             r.ID,
			Action:         domain.BackupAction(r.Action),
			IdempotencyKey: r.IdempotencyKey,
			Account:        account,
		})
	}
	return backups, nil
}

// Upsert inserts the backup or overwrites the existing record for the same id.
func (s *AccountBackupStore) Upsert(ctx context.Context, backup domain.AccountBackup) error {
	return s.col.upsert(backupRecord[wire.AccountPayload]{
		ID:             backup.ID,
		Action:         string(backup.Action),
		IdempotencyKey: backup.IdempotencyKey,
		Payload:        wire.AccountToPayload(backup.Account),
	})
}

// Remove deletes the backup for the id. No-op when absent.
func (s *AccountBackupStore) Remove(ctx context.Context, id int64) error {
	return s.col.remove(id)
}

// CategoryBackupStore is the file-backed pending-change ledger for categories.
type CategoryBackupStore struct {
	col *collection[backupRecord[wire.CategoryPayload]]
}

// NewCategoryBackupStore creates a file-backed category ledger in dir.
func NewCategoryBackupStore(dir string) (*CategoryBackupStore, error) {
	col, err := newCollection(dir, "category_backups.json", backupID[wire.CategoryPayload])
	if err != nil {
		return nil, err
	}
	return &CategoryBackupStore{col: col}, nil
}

// AllPending returns every queued category backup.
func (s *CategoryBackupStore) AllPending(ctx context.Context) ([]domain.CategoryBackup, error) {
	records, err := s.col.all()
	if err != nil {
		return nil, err
	}

	backups := make([]domain.CategoryBackup, 0, len(records))
	for _, r := range records {
		backups = append(backups, domain.CategoryBackup{
			ID:             r.ID,
			Action:         domain.BackupAction(r.Action),
			IdempotencyKey: r.IdempotencyKey,
			Category:       r.Payload.Domain(),
		})
	}
	return backups, nil
}

// Upsert inserts the backup or overwrites the existing record for the same id.
func (s *CategoryBackupStore) Upsert(ctx context.Context, backup domain.CategoryBackup) error {
	return s.col.upsert(backupRecord[wire.CategoryPayload]{
		ID:             backup.ID,
		Action:         string(backup.Action),
		IdempotencyKey: backup.IdempotencyKey,
		Payload:        wire.CategoryToPayload(backup.Category),
	})
}

// Remove deletes the backup for the id. No-op when absent.
func (s *CategoryBackupStore) Remove(ctx context.Context, id int64) error {
	return s.col.remove(id)
}

// TransactionBackupStore is the file-backed pending-change ledger for transactions.
type TransactionBackupStore struct {
	col *collection[backupRecord[wire.TransactionPayload]]
}

// NewTransactionBackupStore creates a file-backed transaction ledger in dir.
func NewTransactionBackupStore(dir string) (*TransactionBackupStore, error) {
	col, err := newCollection(dir, "transaction_backups.json", backupID[wire.TransactionPayload])
	if err != nil {
		return nil, err
	}
	return &TransactionBackupStore{col: col}, nil
}

// AllPending returns every queued transaction backup.
func (s *TransactionBackupStore) AllPending(ctx context.Context) ([]domain.TransactionBackup, error) {
	records, err := s.col.all()
	if err != nil {
		return nil, err
	}

	backups := make([]domain.TransactionBackup, 0, len(records))
	for _, r := range records {
		tx, err := r.Payload.Domain()
		if err != nil {
			return nil, fmt.Errorf("transaction backup %d: %w", r.ID, err)
		}
		backups = append(backups, domain.TransactionBackup{
			ID:             r.ID,
			Action:         domain.BackupAction(r.Action),
			IdempotencyKey: r.IdempotencyKey,
			Transaction:    tx,
		})
	}
	return backups, nil
}

// Upsert inserts the backup or overwrites the existing record for the same id.
func (s *TransactionBackupStore) Upsert(ctx context.Context, backup domain.TransactionBackup) error {
	return s.col.upsert(backupRecord[wire.TransactionPayload]{
		ID:             backup.ID,
		Action:         string(backup.Action),
		IdempotencyKey: backup.IdempotencyKey,
		Payload:        wire.TransactionToPayload(backup.Transaction),
	})
}

// Remove deletes the backup for the id. No-op when absent.
func (s *TransactionBackupStore) Remove(ctx context.Context, id int64) error {
	return s.col.remove(id)
}
