package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/fincalc/finsync/internal/domain"
)

// MockAccountStore is a mock implementation of AccountStore.
type MockAccountStore struct {
	mu       sync.RWMutex
	accounts map[int64]domain.Account
	order    []int64

	FetchAllFunc func(ctx context.Context) ([]domain.Account, error)
	CreateFunc   func(ctx context.Context, account domain.Account) error
	UpdateFunc   func(ctx context.Context, account domain.Account) error
	DeleteFunc   func(ctx context.Context, id int64) error
	FindByIDFunc func(ctx context.Context, id int64) (*domain.Account, error)
}

func NewMockAccountStore() *MockAccountStore {
	return &MockAccountStore{
		accounts: make(map[int64]domain.Account),
	}
}

func (m *MockAccountStore) FetchAll(ctx context.Context) ([]domain.Account, error) {
	if m.FetchAllFunc != nil {
		return m.FetchAllFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	accounts := make([]domain.Account, 0, len(m.order))
	for _, id := range m.order {
		if acc, ok := m.accounts[id]; ok {
			accounts = append(accounts, acc)
		}
	}
	return accounts, nil
}

func (m *MockAccountStore) Create(ctx context.Context, account domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.ID]; !ok {
		m.order = append(m.order, account.ID)
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountStore) Update(ctx context.Context, account domain.Account) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.ID]; ok {
		m.accounts[account.ID] = account
	}
	return nil
}

func (m *MockAccountStore) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.accounts, id)
	return nil
}

func (m *MockAccountStore) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		return &acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

// MockCategoryStore is a mock implementation of CategoryStore.
type MockCategoryStore struct {
	mu         sync.RWMutex
	categories map[int64]domain.Category
	order      []int64

	FetchAllFunc func(ctx context.Context) ([]domain.Category, error)
	CreateFunc   func(ctx context.Context, category domain.Category) error
	UpdateFunc   func(ctx context.Context, category domain.Category) error
	DeleteFunc   func(ctx context.Context, id int64) error
	FindByIDFunc func(ctx context.Context, id int64) (*domain.Category, error)
}

func NewMockCategoryStore() *MockCategoryStore {
	return &MockCategoryStore{
		categories: make(map[int64]domain.Category),
	}
}

func (m *MockCategoryStore) FetchAll(ctx context.Context) ([]domain.Category, error) {
	if m.FetchAllFunc != nil {
		return m.FetchAllFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	categories := make([]domain.Category, 0, len(m.order))
	for _, id := range m.order {
		if cat, ok := m.categories[id]; ok {
			categories = append(categories, cat)
		}
	}
	return categories, nil
}

func (m *MockCategoryStore) Create(ctx context.Context, category domain.Category) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, category)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[category.ID]; !ok {
		m.order = append(m.order, category.ID)
	}
	m.categories[category.ID] = category
	return nil
}

func (m *MockCategoryStore) Update(ctx context.Context, category domain.Category) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, category)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[category.ID]; ok {
		m.categories[category.ID] = category
	}
	return nil
}

func (m *MockCategoryStore) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.categories, id)
	return nil
}

func (m *MockCategoryStore) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if cat, ok := m.categories[id]; ok {
		return &cat, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// MockTransactionStore is a mock implementation of TransactionStore.
type MockTransactionStore struct {
	mu           sync.RWMutex
	transactions map[int64]domain.Transaction
	order        []int64

	FetchAllFunc      func(ctx context.Context) ([]domain.Transaction, error)
	ListByAccountFunc func(ctx context.Context, accountID int64) ([]domain.Transaction, error)
	CreateFunc        func(ctx context.Context, tx domain.Transaction) error
	UpdateFunc        func(ctx context.Context, tx domain.Transaction) error
	DeleteFunc        func(ctx context.Context, id int64) error
	FindByIDFunc      func(ctx context.Context, id int64) (*domain.Transaction, error)
}

func NewMockTransactionStore() *MockTransactionStore {
	return &MockTransactionStore{
		transactions: make(map[int64]domain.Transaction),
	}
}

func (m *MockTransactionStore) FetchAll(ctx context.Context) ([]domain.Transaction, error) {
	if m.FetchAllFunc != nil {
		return m.FetchAllFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	transactions := make([]domain.Transaction, 0, len(m.order))
	for _, id := range m.order {
		if tx, ok := m.transactions[id]; ok {
			transactions = append(transactions, tx)
		}
	}
	return transactions, nil
}

func (m *MockTransactionStore) ListByAccount(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var transactions []domain.Transaction
	for _, id := range m.order {
		if tx, ok := m.transactions[id]; ok && tx.Account.ID == accountID {
			transactions = append(transactions, tx)
		}
	}
	return transactions, nil
}

func (m *MockTransactionStore) Create(ctx context.Context, tx domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.transactions[tx.ID]; !ok {
		m.order = append(m.order, tx.ID)
	}
	m.transactions[tx.ID] = tx
	return nil
}

func (m *MockTransactionStore) Update(ctx context.Context, tx domain.Transaction) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.transactions[tx.ID]; ok {
		m.transactions[tx.ID] = tx
	}
	return nil
}

func (m *MockTransactionStore) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.transactions, id)
	return nil
}

func (m *MockTransactionStore) FindByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if tx, ok := m.transactions[id]; ok {
		return &tx, nil
	}
	return nil, domain.ErrTransactionNotFound
}

// MockAccountLedger is a mock implementation of AccountLedger.
type MockAccountLedger struct {
	mu      sync.RWMutex
	backups map[int64]domain.AccountBackup
	order   []int64

	AllPendingFunc func(ctx context.Context) ([]domain.AccountBackup, error)
	UpsertFunc     func(ctx context.Context, backup domain.AccountBackup) error
	RemoveFunc     func(ctx context.Context, id int64) error
}

func NewMockAccountLedger() *MockAccountLedger {
	return &MockAccountLedger{
		backups: make(map[int64]domain.AccountBackup),
	}
}

func (m *MockAccountLedger) AllPending(ctx context.Context) ([]domain.AccountBackup, error) {
	if m.AllPendingFunc != nil {
		return m.AllPendingFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	backups := make([]domain.AccountBackup, 0, len(m.order))
	for _, id := range m.order {
		if b, ok := m.backups[id]; ok {
			backups = append(backups, b)
		}
	}
	return backups, nil
}

func (m *MockAccountLedger) Upsert(ctx context.Context, backup domain.AccountBackup) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, backup)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.backups[backup.ID]; !ok {
		m.order = append(m.order, backup.ID)
	}
	m.backups[backup.ID] = backup
	return nil
}

func (m *MockAccountLedger) Remove(ctx context.Context, id int64) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.backups, id)
	return nil
}

// MockCategoryLedger is a mock implementation of CategoryLedger.
type MockCategoryLedger struct {
	mu      sync.RWMutex
	backups map[int64]domain.CategoryBackup
	order   []int64

	AllPendingFunc func(ctx context.Context) ([]domain.CategoryBackup, error)
	UpsertFunc     func(ctx context.Context, backup domain.CategoryBackup) error
	RemoveFunc     func(ctx context.Context, id int64) error
}

func NewMockCategoryLedger() *MockCategoryLedger {
	return &MockCategoryLedger{
		backups: make(map[int64]domain.CategoryBackup),
	}
}

func (m *MockCategoryLedger) AllPending(ctx context.Context) ([]domain.CategoryBackup, error) {
	if m.AllPendingFunc != nil {
		return m.AllPendingFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	backups := make([]domain.CategoryBackup, 0, len(m.order))
	for _, id := range m.order {
		if b, ok := m.backups[id]; ok {
			backups = append(backups, b)
		}
	}
	return backups, nil
}

func (m *MockCategoryLedger) Upsert(ctx context.Context, backup domain.CategoryBackup) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, backup)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.backups[backup.ID]; !ok {
		m.order = append(m.order, backup.ID)
	}
	m.backups[backup.ID] = backup
	return nil
}

func (m *MockCategoryLedger) Remove(ctx context.Context, id int64) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.backups, id)
	return nil
}

// MockTransactionLedger is a mock implementation of TransactionLedger.
type MockTransactionLedger struct {
	mu      sync.RWMutex
	backups map[int64]domain.TransactionBackup
	order   []int64

	AllPendingFunc func(ctx context.Context) ([]domain.TransactionBackup, error)
	UpsertFunc     func(ctx context.Context, backup domain.TransactionBackup) error
	RemoveFunc     func(ctx context.Context, id int64) error
}

func NewMockTransactionLedger() *MockTransactionLedger {
	return &MockTransactionLedger{
		backups: make(map[int64]domain.TransactionBackup),
	}
}

func (m *MockTransactionLedger) AllPending(ctx context.Context) ([]domain.TransactionBackup, error) {
	if m.AllPendingFunc != nil {
		return m.AllPendingFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	backups := make([]domain.TransactionBackup, 0, len(m.order))
	for _, id := range m.order {
		if b, ok := m.backups[id]; ok {
			backups = append(backups, b)
		}
	}
	return backups, nil
}

func (m *MockTransactionLedger) Upsert(ctx context.Context, backup domain.TransactionBackup) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, backup)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.backups[backup.ID]; !ok {
		m.order = append(m.order, backup.ID)
	}
	m.backups[backup.ID] = backup
	return nil
}

func (m *MockTransactionLedger) Remove(ctx context.Context, id int64) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.backups, id)
	return nil
}

// MockAccountGateway is a mock implementation of AccountGateway. The default
// behavior simulates a reachable backend that assigns sequential ids.
type MockAccountGateway struct {
	mu       sync.RWMutex
	accounts map[int64]domain.Account
	order    []int64
	nextID   int64

	AccountsFunc      func(ctx context.Context) ([]domain.Account, error)
	CreateAccountFunc func(ctx context.Context, key string, account domain.Account) (domain.Account, error)
	UpdateAccountFunc func(ctx context.Context, key string, id int64, account domain.Account) (domain.Account, error)
	DeleteAccountFunc func(ctx context.Context, key string, id int64) error
}

func NewMockAccountGateway() *MockAccountGateway {
	return &MockAccountGateway{
		accounts: make(map[int64]domain.Account),
		nextID:   1,
	}
}

func (m *MockAccountGateway) Accounts(ctx context.Context) ([]domain.Account, error) {
	if m.AccountsFunc != nil {
		return m.AccountsFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	accounts := make([]domain.Account, 0, len(m.order))
	for _, id := range m.order {
		if acc, ok := m.accounts[id]; ok {
			accounts = append(accounts, acc)
		}
	}
	return accounts, nil
}

func (m *MockAccountGateway) CreateAccount(ctx context.Context, key string, account domain.Account) (domain.Account, error) {
	if m.CreateAccountFunc != nil {
		return m.CreateAccountFunc(ctx, key, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	account.ID = m.nextID
	m.nextID++
	m.accounts[account.ID] = account
	m.order = append(m.order, account.ID)
	return account, nil
}

func (m *MockAccountGateway) UpdateAccount(ctx context.Context, key string, id int64, account domain.Account) (domain.Account, error) {
	if m.UpdateAccountFunc != nil {
		return m.UpdateAccountFunc(ctx, key, id, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	account.ID = id
	if _, ok := m.accounts[id]; !ok {
		m.order = append(m.order, id)
	}
	m.accounts[id] = account
	return account, nil
}

func (m *MockAccountGateway) DeleteAccount(ctx context.Context, key string, id int64) error {
	if m.DeleteAccountFunc != nil {
		return m.DeleteAccountFunc(ctx, key, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.accounts, id)
	return nil
}

// MockCategoryGateway is a mock implementation of CategoryGateway.
type MockCategoryGateway struct {
	mu         sync.RWMutex
	categories map[int64]domain.Category
	order      []int64
	nextID     int64

	CategoriesFunc            func(ctx context.Context) ([]domain.Category, error)
	CategoriesByDirectionFunc func(ctx context.Context, direction domain.Direction) ([]domain.Category, error)
	CreateCategoryFunc        func(ctx context.Context, key string, category domain.Category) (domain.Category, error)
	UpdateCategoryFunc        func(ctx context.Context, key string, id int64, category domain.Category) (domain.Category, error)
	DeleteCategoryFunc        func(ctx context.Context, key string, id int64) error
}

func NewMockCategoryGateway() *MockCategoryGateway {
	return &MockCategoryGateway{
		categories: make(map[int64]domain.Category),
		nextID:     1,
	}
}

func (m *MockCategoryGateway) Categories(ctx context.Context) ([]domain.Category, error) {
	if m.CategoriesFunc != nil {
		return m.CategoriesFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	categories := make([]domain.Category, 0, len(m.order))
	for _, id := range m.order {
		if cat, ok := m.categories[id]; ok {
			categories = append(categories, cat)
		}
	}
	return categories, nil
}

func (m *MockCategoryGateway) CategoriesByDirection(ctx context.Context, direction domain.Direction) ([]domain.Category, error) {
	if m.CategoriesByDirectionFunc != nil {
		return m.CategoriesByDirectionFunc(ctx, direction)
	}
	all, err := m.Categories(ctx)
	if err != nil {
		return nil, err
	}
	var filtered []domain.Category
	for _, cat := range all {
		if cat.Direction == direction {
			filtered = append(filtered, cat)
		}
	}
	return filtered, nil
}

func (m *MockCategoryGateway) CreateCategory(ctx context.Context, key string, category domain.Category) (domain.Category, error) {
	if m.CreateCategoryFunc != nil {
		return m.CreateCategoryFunc(ctx, key, category)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	category.ID = m.nextID
	m.nextID++
	m.categories[category.ID] = category
	m.order = append(m.order, category.ID)
	return category, nil
}

func (m *MockCategoryGateway) UpdateCategory(ctx context.Context, key string, id int64, category domain.Category) (domain.Category, error) {
	if m.UpdateCategoryFunc != nil {
		return m.UpdateCategoryFunc(ctx, key, id, category)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	category.ID = id
	if _, ok := m.categories[id]; !ok {
		m.order = append(m.order, id)
	}
	m.categories[id] = category
	return category, nil
}

func (m *MockCategoryGateway) DeleteCategory(ctx context.Context, key string, id int64) error {
	if m.DeleteCategoryFunc != nil {
		return m.DeleteCategoryFunc(ctx, key, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.categories, id)
	return nil
}

// MockTransactionGateway is a mock implementation of TransactionGateway.
type MockTransactionGateway struct {
	mu           sync.RWMutex
	transactions map[int64]domain.Transaction
	order        []int64
	nextID       int64

	TransactionsForPeriodFunc func(ctx context.Context, accountID int64, from, to time.Time) ([]domain.Transaction, error)
	CreateTransactionFunc     func(ctx context.Context, key string, tx domain.Transaction) (domain.Transaction, error)
	UpdateTransactionFunc     func(ctx context.Context, key string, id int64, tx domain.Transaction) (domain.Transaction, error)
	DeleteTransactionFunc     func(ctx context.Context, key string, id int64) error
}

func NewMockTransactionGateway() *MockTransactionGateway {
	return &MockTransactionGateway{
		transactions: make(map[int64]domain.Transaction),
		nextID:       1,
	}
}

func (m *MockTransactionGateway) TransactionsForPeriod(ctx context.Context, accountID int64, from, to time.Time) ([]domain.Transaction, error) {
	if m.TransactionsForPeriodFunc != nil {
		return m.TransactionsForPeriodFunc(ctx, accountID, from, to)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var transactions []domain.Transaction
	for _, id := range m.order {
		tx, ok := m.transactions[id]
		if !ok || tx.Account.ID != accountID {
			continue
		}
		if tx.TransactionDate.Before(from) || tx.TransactionDate.After(to) {
			continue
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

func (m *MockTransactionGateway) CreateTransaction(ctx context.Context, key string, tx domain.Transaction) (domain.Transaction, error) {
	if m.CreateTransactionFunc != nil {
		return m.CreateTransactionFunc(ctx, key, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx.ID = m.nextID
	m.nextID++
	m.transactions[tx.ID] = tx
	m.order = append(m.order, tx.ID)
	return tx, nil
}

func (m *MockTransactionGateway) UpdateTransaction(ctx context.Context, key string, id int64, tx domain.Transaction) (domain.Transaction, error) {
	if m.UpdateTransactionFunc != nil {
		return m.UpdateTransactionFunc(ctx, key, id, tx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx.ID = id
	if _, ok := m.transactions[id]; !ok {
		m.order = append(m.order, id)
	}
	m.transactions[id] = tx
	return tx, nil
}

func (m *MockTransactionGateway) DeleteTransaction(ctx context.Context, key string, id int64) error {
	if m.DeleteTransactionFunc != nil {
		return m.DeleteTransactionFunc(ctx, key, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.transactions, id)
	return nil
}
