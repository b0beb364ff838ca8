package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a single income or outcome operation. The embedded
// account summary and category mirror the backend response shape so that a
// locally queued transaction can still be rendered without extra lookups.
type Transaction struct {
	ID              int64
	Account         AccountBrief
	Category        Category
	Amount          decimal.Decimal
	TransactionDate time.Time
	Comment         *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SignedAmount returns the amount signed by the category direction: positive
// for income, negative for outcome. Used when computing account balance deltas.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Category.Direction == DirectionIncome {
		return t.Amount
	}
	return t.Amount.Neg()
}
