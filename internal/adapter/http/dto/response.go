package dto

import (
	"github.com/fincalc/finsync/internal/domain"
	"github.com/fincalc/finsync/internal/wire"
)

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// QueuedResponse reports that a mutation could not reach the backend and was
// queued for replay.
type QueuedResponse struct {
	Queued bool   `json:"queued"`
	Reason string `json:"reason"`
}

// SyncResponse reports the outcome of a forced replay pass.
type SyncResponse struct {
	Remaining map[string]int `json:"remaining"`
}

// PendingResponse reports per-kind pending ledger sizes.
type PendingResponse struct {
	Pending map[string]int `json:"pending"`
}

// AccountsFromDomain converts accounts to their wire form.
func AccountsFromDomain(accounts []domain.Account) []wire.AccountPayload {
	out := make([]wire.AccountPayload, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, wire.AccountToPayload(a))
	}
	return out
}

// CategoriesFromDomain converts categories to their wire form.
func CategoriesFromDomain(categories []domain.Category) []wire.CategoryPayload {
	out := make([]wire.CategoryPayload, 0, len(categories))
	for _, c := range categories {
		out = append(out, wire.CategoryToPayload(c))
	}
	return out
}

// TransactionsFromDomain converts transactions to their wire form.
func TransactionsFromDomain(transactions []domain.Transaction) []wire.TransactionPayload {
	out := make([]wire.TransactionPayload, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, wire.TransactionToPayload(t))
	}
	return out
}
