package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/fincalc/finsync/internal/domain"
	"github.com/fincalc/finsync/internal/wire"
)

// Backup ledgers persist not-yet-confirmed mutations. One row per entity id;
// upserting a newer intent for the same id overwrites the older one. Snapshots
// are stored as wire payloads so the on-disk shape matches the wire shape.

// AccountBackupRepository is the pending-change ledger for accounts.
type AccountBackupRepository struct {
	db *sql.DB
}

// NewAccountBackupRepository creates a new AccountBackupRepository.
func NewAccountBackupRepository(db *sql.DB) *AccountBackupRepository {
	return &AccountBackupRepository{db: db}
}

// AllPending returns every queued account backup.
func (r *AccountBackupRepository) AllPending(ctx context.Context) ([]domain.AccountBackup, error) {
	rows, err := queryBackups(ctx, r.db, "account_backups")
	if err != nil {
		return nil, err
	}

	backups := make([]domain.AccountBackup, 0, len(rows))
	for _, row := range rows {
		var payload wire.AccountPayload
		if err := json.Unmarshal(row.payload, &payload); err != nil {
			return nil, fmt.Errorf("decode account backup %d: %w", row.id, err)
		}
		account, err := payload.Domain()
		if err != nil {
			return nil, fmt.Errorf("decode account backup %d: %w", row.id, err)
		}
		backups = append(backups, domain.AccountBackup{
			ID:             row.id,
			Action:         domain.BackupAction(row.action),
			IdempotencyKey: row.key,
			Account:        account,
		})
	}
	return backups, nil
}

// Upsert inserts the backup or overwrites the existing record for the same id.
func (r *AccountBackupRepository) Upsert(ctx context.Context, backup domain.AccountBackup) error {
	payload, err := json.Marshal(wire.AccountToPayload(backup.Account))
	if err != nil {
		return fmt.Errorf("encode account backup %d: %w", backup.ID, err)
	}
	return upsertBackup(ctx, r.db, "account_backups", backup.ID, backup.Action, backup.IdempotencyKey, payload)
}

// Remove deletes the backup for the id. No-op when absent.
func (r *AccountBackupRepository) Remove(ctx context.Context, id int64) error {
	return removeBackup(ctx, r.db, "account_backups", id)
}

// CategoryBackupRepository is the pending-change ledger for categories.
type CategoryBackupRepository struct {
	db *sql.DB
}

// NewCategoryBackupRepository creates a new CategoryBackupRepository.
func NewCategoryBackupRepository(db *sql.DB) *CategoryBackupRepository {
	return &CategoryBackupRepository{db: db}
}

// AllPending returns every queued category backup.
func (r *CategoryBackupRepository) AllPending(ctx context.Context) ([]domain.CategoryBackup, error) {
	rows, err := queryBackups(ctx, r.db, "category_backups")
	if err != nil {
		return nil, err
	}

	backups := make([]domain.CategoryBackup, 0, len(rows))
	for _, row := range rows {
		var payload wire.CategoryPayload
		if err := json.Unmarshal(row.payload, &payload); err != nil {
			return nil, fmt.Errorf("decode category backup %d: %w", row.id, err)
		}
		backups = append(backups, domain.CategoryBackup{
			ID:             row.id,
			Action:         domain.BackupAction(row.action),
			IdempotencyKey: row.key,
			Category:       payload.Domain(),
		})
	}
	return backups, nil
}

// Upsert inserts the backup or overwrites the existing record for the same id.
func (r *CategoryBackupRepository) Upsert(ctx context.Context, backup domain.CategoryBackup) error {
	payload, err := json.Marshal(wire.CategoryToPayload(backup.Category))
	if err != nil {
		return fmt.Errorf("encode category backup %d: %w", backup.ID, err)
	}
	return upsertBackup(ctx, r.db, "category_backups", backup.ID, backup.Action, backup.IdempotencyKey, payload)
}

// Remove deletes the backup for the id. No-op when absent.
func (r *CategoryBackupRepository) Remove(ctx context.Context, id int64) error {
	return removeBackup(ctx, r.db, "category_backups", id)
}

// TransactionBackupRepository is the pending-change ledger for transactions.
type TransactionBackupRepository struct {
	db *sql.DB
}

// NewTransactionBackupRepository creates a new TransactionBackupRepository.
func NewTransactionBackupRepository(db *sql.DB) *TransactionBackupRepository {
	return &TransactionBackupRepository{db: db}
}

// AllPending returns every queued transaction backup.
func (r *TransactionBackupRepository) AllPending(ctx context.Context) ([]domain.TransactionBackup, error) {
	rows, err := queryBackups(ctx, r.db, "transaction_backups")
	if err != nil {
		return nil, err
	}

	backups := make([]domain.TransactionBackup, 0, len(rows))
	for _, row := range rows {
		var payload wire.TransactionPayload
		if err := json.Unmarshal(row.payload, &payload); err != nil {
			return nil, fmt.Errorf("decode transaction backup %d: %w", row.id, err)
		}
		tx, err := payload.Domain()
		if err != nil {
			return nil, fmt.Errorf("decode transaction backup %d: %w", row.id, err)
		}
		backups = append(backups, domain.TransactionBackup{
			ID:             row.id,
			Action:         domain.BackupAction(row.action),
			IdempotencyKey: row.key,
			Transaction:    tx,
		})
	}
	return backups, nil
}

// Upsert inserts the backup or overwrites the existing record for the same id.
func (r *TransactionBackupRepository) Upsert(ctx context.Context, backup domain.TransactionBackup) error {
	payload, err := json.Marshal(wire.TransactionToPayload(backup.Transaction))
	if err != nil {
		return fmt.Errorf("encode transaction backup %d: %w", backup.ID, err)
	}
	return upsertBackup(ctx, r.db, "transaction_backups", backup.ID, backup.Action, backup.IdempotencyKey, payload)
}

// Remove deletes the backup for the id. No-op when absent.
func (r *TransactionBackupRepository) Remove(ctx context.Context, id int64) error {
	return removeBackup(ctx, r.db, "transaction_backups", id)
}

type backupRow struct {
	id      int64
	action  string
	key     string
	payload []byte
}

func queryBackups(ctx context.Context, db *sql.DB, table string) ([]backupRow, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, action, idempotency_key, payload FROM `+table+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var result []backupRow
	for rows.Next() {
		var row backupRow
		if err := rows.Scan(&row.id, &row.action, &row.key, &row.payload); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func upsertBackup(ctx context.Context, db *sql.DB, table string, id int64, action domain.BackupAction, key string, payload []byte) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO `+table+` (id, action, idempotency_key, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET action = excluded.action, idempotency_key = excluded.idempotency_key, payload = excluded.payload
	`, id, string(action), key, payload)
	if err != nil {
		return fmt.Errorf("upsert into %s: %w", table, err)
	}
	return nil
}

func removeBackup(ctx context.Context, db *sql.DB, table string, id int64) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	return nil
}
