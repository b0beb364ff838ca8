package domain

import "errors"

var (
	// Local lookup errors
	ErrAccountNotFound     = errors.New("account not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrNoAccounts          = errors.New("no accounts available")

	// Validation errors
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidCurrency  = errors.New("invalid currency code")
	ErrInvalidDirection = errors.New("direction must be income or outcome")
	ErrInvalidName      = errors.New("invalid name")

	// ErrQueuedOffline marks a mutation that was saved locally because the
	// backend could not be reached. It wraps the original transport error so
	// callers can distinguish "queued for sync" from a real failure.
	ErrQueuedOffline = errors.New("queued offline pending sync")
)
