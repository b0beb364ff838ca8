package file

import (
	"context"
	"fmt"

	"github.com/fincalc/finsync/internal/domain"
	"github.com/fincalc/finsync/internal/wire"
)

// AccountStore is the file-backed local store for accounts.
type AccountStore struct {
	col *collection[wire.AccountPayload]
}

// NewAccountStore creates a file-backed account store in dir.
func NewAccountStore(dir string) (*AccountStore, error) {
	col, err := newCollection(dir, "accounts.json", func(p wire.AccountPayload) int64 { return p.ID })
	if err != nil {
		return nil, err
	}
	return &AccountStore{col: col}, nil
}

// FetchAll returns all stored accounts.
func (s *AccountStore) FetchAll(ctx context.Context) ([]domain.Account, error) {
	payloads, err := s.col.all()
	if err != nil {
		return nil, err
	}

	accounts := make([]domain.Account, 0, len(payloads))
	for _, p := range payloads {
		account, err := p.Domain()
		if err != nil {
			return nil, fmt.Errorf("account %d: %w", p.ID, err)
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

// Create inserts an account.
func (s *AccountStore) Create(ctx context.Context, account domain.Account) error {
	return s.col.insert(wire.AccountToPayload(account))
}

// Update overwrites an existing account. No-op when the id is not stored.
func (s *AccountStore) Update(ctx context.Context, account domain.Account) error {
	return s.col.replace(wire.AccountToPayload(account))
}

// Delete removes an account. No-op when the id is not stored.
func (s *AccountStore) Delete(ctx context.Context, id int64) error {
	return s.col.remove(id)
}

// FindByID returns the stored account or domain.ErrAccountNotFound.
func (s *AccountStore) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	payload, ok, err := s.col.find(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrAccountNotFound
	}

	account, err := payload.Domain()
	if err != nil {
		return nil, fmt.Errorf("account %d: %w", id, err)
	}
	return &account, nil
}

// CategoryStore is the file-backed local store for categories.
type CategoryStore struct {
	col *collection[wire.CategoryPayload]
}

// NewCategoryStore creates a file-backed category store in dir.
func NewCategoryStore(dir string) (*CategoryStore, error) {
	col, err := newCollection(dir, "categories.json", func(p wire.CategoryPayload) int64 { return p.ID })
	if err != nil {
		return nil, err
	}
	return &CategoryStore{col: col}, nil
}

// FetchAll returns all stored categories.
func (s *CategoryStore) FetchAll(ctx context.Context) ([]domain.Category, error) {
	payloads, err := s.col.all()
	if err != nil {
		return nil, err
	}

	categories := make([]domain.Category, 0, len(payloads))
	for _, p := range payloads {
		categories = append(categories, p.Domain())
	}
	return categories, nil
}

// Create inserts a category.
func (s *CategoryStore) Create(ctx context.Context, category domain.Category) error {
	return s.col.insert(wire.CategoryToPayload(category))
}

// Update overwrites an existing category. No-op when the id is not stored.
func (s *CategoryStore) Update(ctx context.Context, category domain.Category) error {
	return s.col.replace(wire.CategoryToPayload(category))
}

// Delete removes a category. No-op when the id is not stored.
func (s *CategoryStore) Delete(ctx context.Context, id int64) error {
	return s.col.remove(id)
}

// FindByID returns the stored category or domain.ErrCategoryNotFound.
func (s *CategoryStore) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	payload, ok, err := s.col.find(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}

	category := payload.Domain()
	return &category, nil
}

// TransactionStore is the file-backed local store for transactions.
type TransactionStore struct {
	col *collection[wire.TransactionPayload]
}

// NewTransactionStore creates a file-backed transaction store in dir.
func NewTransactionStore(dir string) (*TransactionStore, error) {
	col, err := newCollection(dir, "transactions.json", func(p wire.TransactionPayload) int64 { return p.ID })
	if err != nil {
		return nil, err
	}
	return &TransactionStore{col: col}, nil
}

// FetchAll returns all stored transactions.
func (s *TransactionStore) FetchAll(ctx context.Context) ([]domain.Transaction, error) {
	payloads, err := s.col.all()
	if err != nil {
		return nil, err
	}

	transactions := make([]domain.Transaction, 0, len(payloads))
	for _, p := range payloads {
		tx, err := p.Domain()
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", p.ID, err)
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

// ListByAccount returns all stored transactions of one account.
func (s *TransactionStore) ListByAccount(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	all, err := s.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	var transactions []domain.Transaction
	for _, tx := range all {
		if tx.Account.ID == accountID {
			transactions = append(transactions, tx)
		}
	}
	return transactions, nil
}

// Create inserts a transaction.
func (s *TransactionStore) Create(ctx context.Context, tx domain.Transaction) error {
	return s.col.insert(wire.TransactionToPayload(tx))
}

// Update overwrites an existing transaction. No-op when the id is not stored.
func (s *TransactionStore) Update(ctx context.Context, tx domain.Transaction) error {
	return s.col.replace(wire.TransactionToPayload(tx))
}

// Delete removes a transaction. No-op when the id is not stored.
func (s *TransactionStore) Delete(ctx context.Context, id int64) error {
	return s.col.remove(id)
}

// FindByID returns the stored transaction or domain.ErrTransactionNotFound.
func (s *TransactionStore) FindByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	payload, ok, err := s.col.find(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}

	tx, err := payload.Domain()
	if err != nil {
		return nil, fmt.Errorf("transaction %d: %w", id, err)
	}
	return &tx, nil
}
