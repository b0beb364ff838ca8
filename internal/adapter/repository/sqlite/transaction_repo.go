package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fincalc/finsync/internal/domain"
)

// TransactionRepository stores the last known-good transaction state. The
// embedded account summary and category are denormalized into columns so a row
// can be rendered without joins even when the referenced entities were never
// synced.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `
	id, account_id, account_name, account_balance, account_currency,
	category_id, category_name, category_emoji, category_is_income,
	amount, transaction_date, comment, created_at, updated_at
`

// FetchAll returns all locally stored transactions.
func (r *TransactionRepository) FetchAll(ctx context.Context) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		ORDER BY transaction_date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// ListByAccount returns all locally stored transactions of one account.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE account_id = ?
		ORDER BY transaction_date DESC
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("query transactions for account %d: %w", accountID, err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// Create inserts a transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx domain.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		tx.ID, tx.Account.ID, tx.Account.Name, tx.Account.Balance.String(), tx.Account.Currency,
		tx.Category.ID, tx.Category.Name, tx.Category.Emoji, tx.Category.Direction.IsIncome(),
		tx.Amount.String(), tx.TransactionDate, tx.Comment, tx.CreatedAt, tx.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction %d: %w", tx.ID, err)
	}
	return nil
}

// Update overwrites an existing transaction. No-op when the id is not stored.
func (r *TransactionRepository) Update(ctx context.Context, tx domain.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET account_id = ?, account_name = ?, account_balance = ?, account_currency = ?,
			category_id = ?, category_name = ?, category_emoji = ?, category_is_income = ?,
			amount = ?, transaction_date = ?, comment = ?, created_at = ?, updated_at = ?
		WHERE id = ?
	`,
		tx.Account.ID, tx.Account.Name, tx.Account.Balance.String(), tx.Account.Currency,
		tx.Category.ID, tx.Category.Name, tx.Category.Emoji, tx.Category.Direction.IsIncome(),
		tx.Amount.String(), tx.TransactionDate, tx.Comment, tx.CreatedAt, tx.UpdatedAt,
		tx.ID,
	)
	if err != nil {
		return fmt.Errorf("update transaction %d: %w", tx.ID, err)
	}
	return nil
}

// Delete removes a transaction. No-op when the id is not stored.
func (r *TransactionRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	return nil
}

// FindByID returns the stored transaction or domain.ErrTransactionNotFound.
func (r *TransactionRepository) FindByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE id = ?
	`, id)

	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return &tx, nil
}

func collectTransactions(rows *sql.Rows) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

func scanTransaction(row rowScanner) (domain.Transaction, error) {
	var (
		tx              domain.Transaction
		accountBalance  string
		categoryIncome  bool
		amountStr       string
		comment         sql.NullString
	)
	err := row.Scan(
		&tx.ID, &tx.Account.ID, &tx.Account.Name, &accountBalance, &tx.Account.Currency,
		&tx.Category.ID, &tx.Category.Name, &tx.Category.Emoji, &categoryIncome,
		&amountStr, &tx.TransactionDate, &comment, &tx.CreatedAt, &tx.UpdatedAt,
	)
	if err != nil {
		return domain.Transaction{}, err
	}

	balance, err := decimal.NewFromString(accountBalance)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("scan transaction %d account balance: %w", tx.ID, err)
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("scan transaction %d amount: %w", tx.ID, err)
	}

	tx.Account.Balance = balance
	tx.Category.Direction = domain.DirectionFromIncome(categoryIncome)
	tx.Amount = amount
	if comment.Valid {
		tx.Comment = &comment.String
	}
	return tx, nil
}
