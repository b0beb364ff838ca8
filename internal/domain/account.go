package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a bank account as last seen from the backend, or as
// synthesized locally while a change is pending.
type Account struct {
	ID        int64
	UserID    int64
	Name      string
	Balance   decimal.Decimal
	Currency  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AccountBrief is the account summary embedded in a transaction.
type AccountBrief struct {
	ID       int64
	Name     string
	Balance  decimal.Decimal
	Currency string
}

// Brief returns the embeddable summary of the account.
func (a Account) Brief() AccountBrief {
	return AccountBrief{
		ID:       a.ID,
		Name:     a.Name,
		Balance:  a.Balance,
		Currency: a.Currency,
	}
}

// ApplyDelta returns a copy of the account with delta added to its balance and
// the updated-at timestamp refreshed.
func (a Account) ApplyDelta(delta decimal.Decimal, now time.Time) Account {
	a.Balance = a.Balance.Add(delta)
	a.UpdatedAt = now
	return a
}
