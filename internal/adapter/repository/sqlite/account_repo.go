package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fincalc/finsync/internal/domain"
)

// AccountRepository stores the last known-good account state.
type AccountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// FetchAll returns all locally stored accounts.
func (r *AccountRepository) FetchAll(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, balance, currency, created_at, updated_at
		FROM accounts
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// Create inserts an account.
func (r *AccountRepository) Create(ctx context.Context, account domain.Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, user_id, name, balance, currency, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		account.ID, account.UserID, account.Name, account.Balance.String(),
		account.Currency, account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert account %d: %w", account.ID, err)
	}
	return nil
}

// Update overwrites an existing account. No-op when the id is not stored.
func (r *AccountRepository) Update(ctx context.Context, account domain.Account) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET user_id = ?, name = ?, balance = ?, currency = ?, created_at = ?, updated_at = ?
		WHERE id = ?
	`,
		account.UserID, account.Name, account.Balance.String(), account.Currency,
		account.CreatedAt, account.UpdatedAt, account.ID,
	)
	if err != nil {
		return fmt.Errorf("update account %d: %w", account.ID, err)
	}
	return nil
}

// Delete removes an account. No-op when the id is not stored.
func (r *AccountRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete account %d: %w", id, err)
	}
	return nil
}

// FindByID returns the stored account or domain.ErrAccountNotFound.
func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, balance, currency, created_at, updated_at
		FROM accounts
		WHERE id = ?
	`, id)

	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var (
		account    domain.Account
		balanceStr string
	)
	err := row.Scan(
		&account.ID, &account.UserID, &account.Name, &balanceStr,
		&account.Currency, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		return domain.Account{}, err
	}

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return domain.Account{}, fmt.Errorf("scan account %d balance: %w", account.ID, err)
	}
	account.Balance = balance
	return account, nil
}
