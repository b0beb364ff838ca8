package usecase

import (
	"context"
	"time"

	"github.com/fincalc/finsync/internal/domain"
)

// AccountStore defines durable local storage of last known-good accounts.
type AccountStore interface {
	FetchAll(ctx context.Context) ([]domain.Account, error)
	Create(ctx context.Context, account domain.Account) error
	Update(ctx context.Context, account domain.Account) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Account, error)
}

// CategoryStore defines durable local storage of last known-good categories.
type CategoryStore interface {
	FetchAll(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, category domain.Category) error
	Update(ctx context.Context, category domain.Category) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Category, error)
}

// TransactionStore defines durable local storage of last known-good transactions.
type TransactionStore interface {
	FetchAll(ctx context.Context) ([]domain.Transaction, error)
	ListByAccount(ctx context.Context, accountID int64) ([]domain.Transaction, error)
	Create(ctx context.Context, tx domain.Transaction) error
	Update(ctx context.Context, tx domain.Transaction) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Transaction, error)
}

// AccountLedger is the pending-change ledger for accounts.
type AccountLedger interface {
	AllPending(ctx context.Context) ([]domain.AccountBackup, error)
	Upsert(ctx context.Context, backup domain.AccountBackup) error
	Remove(ctx context.Context, id int64) error
}

// CategoryLedger is the pending-change ledger for categories.
type CategoryLedger interface {
	AllPending(ctx context.Context) ([]domain.CategoryBackup, error)
	Upsert(ctx context.Context, backup domain.CategoryBackup) error
	Remove(ctx context.Context, id int64) error
}

// TransactionLedger is the pending-change ledger for transactions.
type TransactionLedger interface {
	AllPending(ctx context.Context) ([]domain.TransactionBackup, error)
	Upsert(ctx context.Context, backup domain.TransactionBackup) error
	Remove(ctx context.Context, id int64) error
}

// AccountGateway defines the remote backend operations for accounts. Mutations
// take a full snapshot; implementations serialize only the request fields.
// key is the mutation's Idempotency-Key and must be identical on every retry
// of the same logical mutation.
type AccountGateway interface {
	Accounts(ctx context.Context) ([]domain.Account, error)
	CreateAccount(ctx context.Context, key string, account domain.Account) (domain.Account, error)
	UpdateAccount(ctx context.Context, key string, id int64, account domain.Account) (domain.Account, error)
	DeleteAccount(ctx context.Context, key string, id int64) error
}

// CategoryGateway defines the remote backend operations for categories.
type CategoryGateway interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	CategoriesByDirection(ctx context.Context, direction domain.Direction) ([]domain.Category, error)
	CreateCategory(ctx context.Context, key string, category domain.Category) (domain.Category, error)
	UpdateCategory(ctx context.Context, key string, id int64, category domain.Category) (domain.Category, error)
	DeleteCategory(ctx context.Context, key string, id int64) error
}

// TransactionGateway defines the remote backend operations for transactions.
type TransactionGateway interface {
	TransactionsForPeriod(ctx context.Context, accountID int64, from, to time.Time) ([]domain.Transaction, error)
	CreateTransaction(ctx context.Context, key string, tx domain.Transaction) (domain.Transaction, error)
	UpdateTransaction(ctx context.Context, key string, id int64, tx domain.Transaction) (domain.Transaction, error)
	DeleteTransaction(ctx context.Context, key string, id int64) error
}

// IDGenerator assigns temporary ids to entities created while offline.
type IDGenerator interface {
	NextID() int64
}

// Replayer drains a pending-change ledger against the backend. It returns the
// number of records still pending after the pass.
type Replayer interface {
	ReplayPending(ctx context.Context) (int, error)
}
