// Package wire defines the JSON payloads exchanged with the backend. The same
// types back the file store and the ledger snapshots, so there is exactly one
// codec for both the wire and the on-disk representation.
package wire

import (
	"github.com/shopspring/decimal"

	"github.com/fincalc/finsync/internal/domain"
)

// AccountPayload is the wire shape of an account. Balance travels as a decimal
// string to avoid floating-point drift.
type AccountPayload struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"userId"`
	Name      string `json:"name"`
	Balance   string `json:"balance"`
	Currency  string `json:"currency"`
	CreatedAt Time   `json:"createdAt"`
	UpdatedAt Time   `json:"updatedAt"`
}

// AccountBriefPayload is the account summary embedded in a transaction payload.
type AccountBriefPayload struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
}

// CategoryPayload is the wire shape of a category.
type CategoryPayload struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Emoji    string `json:"emoji"`
	IsIncome bool   `json:"isIncome"`
}

// TransactionPayload is the wire shape of a transaction ("TransactionResponse").
type TransactionPayload struct {
	ID              int64               `json:"id"`
	Account         AccountBriefPayload `json:"account"`
	Category        CategoryPayload     `json:"category"`
	Amount          string              `json:"amount"`
	TransactionDate Time                `json:"transactionDate"`
	Comment         *string             `json:"comment,omitempty"`
	CreatedAt       Time                `json:"createdAt"`
	UpdatedAt       Time                `json:"updatedAt"`
}

// AccountRequest is the body for account create and update calls.
type AccountRequest struct {
	Name     string `json:"name"`
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
}

// CategoryRequest is the body for category create and update calls.
type CategoryRequest struct {
	Name     string `json:"name"`
	Emoji    string `json:"emoji"`
	IsIncome bool   `json:"isIncome"`
}

// TransactionRequest is the body for transaction create and update calls.
type TransactionRequest struct {
	AccountID       int64   `json:"accountId"`
	CategoryID      int64   `json:"categoryId"`
	Amount          string  `json:"amount"`
	TransactionDate Time    `json:"transactionDate"`
	Comment         *string `json:"comment,omitempty"`
}

// Domain converts the payload to a domain account.
func (p AccountPayload) Domain() (domain.Account, error) {
	balance, err := decimal.NewFromString(p.Balance)
	if err != nil {
		return domain.Account{}, &ParseError{Field: "balance", Value: p.Balance, Err: err}
	}
	return domain.Account{
		ID:        p.ID,
		UserID:    p.UserID,
		Name:      p.Name,
		Balance:   balance,
		Currency:  p.Currency,
		CreatedAt: p.CreatedAt.Time,
		UpdatedAt: p.UpdatedAt.Time,
	}, nil
}

// AccountToPayload converts a domain account to its wire shape.
func AccountToPayload(a domain.Account) AccountPayload {
	return AccountPayload{
		ID:        a.ID,
		UserID:    a.UserID,
		Name:      a.Name,
		Balance:   a.Balance.String(),
		Currency:  a.Currency,
		CreatedAt: NewTime(a.CreatedAt),
		UpdatedAt: NewTime(a.UpdatedAt),
	}
}

// Domain converts the payload to a domain account brief.
func (p AccountBriefPayload) Domain() (domain.AccountBrief, error) {
	balance, err := decimal.NewFromString(p.Balance)
	if err != nil {
		return domain.AccountBrief{}, &ParseError{Field: "balance", Value: p.Balance, Err: err}
	}
	return domain.AccountBrief{
		ID:       p.ID,
		Name:     p.Name,
		Balance:  balance,
		Currency: p.Currency,
	}, nil
}

// BriefToPayload converts a domain account brief to its wire shape.
func BriefToPayload(b domain.AccountBrief) AccountBriefPayload {
	return AccountBriefPayload{
		ID:       b.ID,
		Name:     b.Name,
		Balance:  b.Balance.String(),
		Currency: b.Currency,
	}
}

// Domain converts the payload to a domain category.
func (p CategoryPayload) Domain() domain.Category {
	return domain.Category{
		ID:        p.ID,
		Name:      p.Name,
		Emoji:     p.Emoji,
		Direction: domain.DirectionFromIncome(p.IsIncome),
	}
}

// CategoryToPayload converts a domain category to its wire shape.
func CategoryToPayload(c domain.Category) CategoryPayload {
	return CategoryPayload{
		ID:       c.ID,
		Name:     c.Name,
		Emoji:    c.Emoji,
		IsIncome: c.Direction.IsIncome(),
	}
}

// Domain converts the payload to a domain transaction.
func (p TransactionPayload) Domain() (domain.Transaction, error) {
	amount, err := decimal.NewFromString(p.Amount)
	if err != nil {
		return domain.Transaction{}, &ParseError{Field: "amount", Value: p.Amount, Err: err}
	}
	account, err := p.Account.Domain()
	if err != nil {
		return domain.Transaction{}, err
	}
	return domain.Transaction{
		ID:              p.ID,
		Account:         account,
		Category:        p.Category.Domain(),
		Amount:          amount,
		TransactionDate: p.TransactionDate.Time,
		Comment:         p.Comment,
		CreatedAt:       p.CreatedAt.Time,
		UpdatedAt:       p.UpdatedAt.Time,
	}, nil
}

// TransactionToPayload converts a domain transaction to its wire shape.
func TransactionToPayload(t domain.Transaction) TransactionPayload {
	return TransactionPayload{
		ID:              t.ID,
		Account:         BriefToPayload(t.Account),
		Category:        CategoryToPayload(t.Category),
		Amount:          t.Amount.String(),
		TransactionDate: NewTime(t.TransactionDate),
		Comment:         t.Comment,
		CreatedAt:       NewTime(t.CreatedAt),
		UpdatedAt:       NewTime(t.UpdatedAt),
	}
}

// TransactionToRequest builds the mutation body for a transaction snapshot.
func TransactionToRequest(t domain.Transaction) TransactionRequest {
	return TransactionRequest{
		AccountID:       t.Account.ID,
		CategoryID:      t.Category.ID,
		Amount:          t.Amount.String(),
		TransactionDate: NewTime(t.TransactionDate),
		Comment:         t.Comment,
	}
}

// AccountToRequest builds the mutation body for an account snapshot.
func AccountToRequest(a domain.Account) AccountRequest {
	return AccountRequest{
		Name:     a.Name,
		Balance:  a.Balance.String(),
		Currency: a.Currency,
	}
}

// CategoryToRequest builds the mutation body for a category snapshot.
func CategoryToRequest(c domain.Category) CategoryRequest {
	return CategoryRequest{
		Name:     c.Name,
		Emoji:    c.Emoji,
		IsIncome: c.Direction.IsIncome(),
	}
}
