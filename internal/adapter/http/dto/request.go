package dto

import (
	"github.com/shopspring/decimal"

	"github.com/fincalc/finsync/internal/domain"
	"github.com/fincalc/finsync/internal/usecase"
	"github.com/fincalc/finsync/internal/wire"
)

// CreateAccountRequest is the request body for account mutations.
type CreateAccountRequest struct {
	Name     string `json:"name"`
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
}

// ToInput converts the request to a use case input.
func (r CreateAccountRequest) ToInput() (usecase.AccountInput, error) {
	balance, err := decimal.NewFromString(r.Balance)
	if err != nil {
		return usecase.AccountInput{}, &wire.ParseError{Field: "balance", Value: r.Balance, Err: err}
	}
	return usecase.AccountInput{
		Name:     r.Name,
		Balance:  balance,
		Currency: r.Currency,
	}, nil
}

// CreateCategoryRequest is the request body for category mutations.
type CreateCategoryRequest struct {
	Name     string `json:"name"`
	Emoji    string `json:"emoji"`
	IsIncome bool   `json:"isIncome"`
}

// ToInput converts the request to a use case input.
func (r CreateCategoryRequest) ToInput() usecase.CategoryInput {
	return usecase.CategoryInput{
		Name:      r.Name,
		Emoji:     r.Emoji,
		Direction: domain.DirectionFromIncome(r.IsIncome),
	}
}

// CreateTransactionRequest is the request body for transaction mutations.
type CreateTransactionRequest struct {
	AccountID       int64     `json:"accountId"`
	CategoryID      int64     `json:"categoryId"`
	Amount          string    `json:"amount"`
	TransactionDate wire.Time `json:"transactionDate"`
	Comment         *string   `json:"comment,omitempty"`
}

// ToInput converts the request to a use case input.
func (r CreateTransactionRequest) ToInput() (usecase.TransactionInput, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return usecase.TransactionInput{}, &wire.ParseError{Field: "amount", Value: r.Amount, Err: err}
	}
	return usecase.TransactionInput{
		AccountID:       r.AccountID,
		CategoryID:      r.CategoryID,
		Amount:          amount,
		TransactionDate: r.TransactionDate.Time,
		Comment:         r.Comment,
	}, nil
}
