package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fincalc/finsync/internal/adapter/http/dto"
	"github.com/fincalc/finsync/internal/domain"
	"github.com/fincalc/finsync/internal/usecase"
	"github.com/fincalc/finsync/internal/wire"
)

const queryDateLayout = "2006-01-02"

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	List(ctx context.Context, input usecase.ListInput) ([]domain.Transaction, error)
	Create(ctx context.Context, input usecase.TransactionInput) (*domain.Transaction, error)
	Update(ctx context.Context, id int64, input usecase.TransactionInput) (*domain.Transaction, error)
	Delete(ctx context.Context, id int64) error
}

// TransactionHandler handles transaction-related HTTP requests.
type TransactionHandler struct {
	transactionUC    TransactionService
	defaultAccountID int64
}

// NewTransactionHandler creates a new TransactionHandler. defaultAccountID is
// the account listed when the accountId query parameter is absent; zero means
// no default.
func NewTransactionHandler(transactionUC TransactionService, defaultAccountID int64) *TransactionHandler {
	return &TransactionHandler{transactionUC: transactionUC, defaultAccountID: defaultAccountID}
}

// List lists transactions for an account over a period. Defaults to the
// current month when no range is given.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	input, err := h.parseListInput(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid query", err.Error())
		return
	}

	transactions, err := h.transactionUC.List(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(transactions))
}

// Create creates a new transaction, queueing it locally when offline.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	input, err := req.ToInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	tx, err := h.transactionUC.Create(r.Context(), input)
	if err != nil {
		switch {
		case isRejected(err):
			writeError(w, http.StatusBadRequest, "invalid transaction", err.Error())
		case errors.Is(err, domain.ErrQueuedOffline):
			writeQueued(w, err)
		default:
			writeError(w, mapDomainError(err), "failed to create transaction", err.Error())
		}
		return
	}
	writeJSON(w, http.StatusCreated, wire.TransactionToPayload(*tx))
}

// Update updates a transaction, queueing the change locally when offline.
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction id", err.Error())
		return
	}

	var req dto.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	input, err := req.ToInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	tx, err := h.transactionUC.Update(r.Context(), id, input)
	if err != nil {
		switch {
		case isRejected(err):
			writeError(w, http.StatusBadRequest, "invalid transaction", err.Error())
		case errors.Is(err, domain.ErrQueuedOffline):
			writeQueued(w, err)
		default:
			writeError(w, mapDomainError(err), "failed to update transaction", err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, wire.TransactionToPayload(*tx))
}

// Delete deletes a transaction, queueing the deletion locally when offline.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction id", err.Error())
		return
	}

	if err := h.transactionUC.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrQueuedOffline) {
			writeQueued(w, err)
			return
		}
		writeError(w, mapDomainError(err), "failed to delete transaction", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TransactionHandler) parseListInput(r *http.Request) (usecase.ListInput, error) {
	query := r.URL.Query()

	accountID := h.defaultAccountID
	if raw := query.Get("accountId"); raw != "" || accountID == 0 {
		var err error
		accountID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return usecase.ListInput{}, &wire.ParseError{Field: "accountId", Value: raw, Err: err}
		}
	}

	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).Add(-time.Nanosecond)

	if raw := query.Get("startDate"); raw != "" {
		day, err := time.Parse(queryDateLayout, raw)
		if err != nil {
			return usecase.ListInput{}, &wire.ParseError{Field: "startDate", Value: raw, Err: err}
		}
		from = day
	}
	if raw := query.Get("endDate"); raw != "" {
		day, err := time.Parse(queryDateLayout, raw)
		if err != nil {
			return usecase.ListInput{}, &wire.ParseError{Field: "endDate", Value: raw, Err: err}
		}
		to = day.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	input := usecase.ListInput{AccountID: accountID, From: from, To: to}
	if raw := query.Get("direction"); raw != "" {
		direction := domain.Direction(raw)
		if !direction.Valid() {
			return usecase.ListInput{}, domain.ErrInvalidDirection
		}
		input.Direction = &direction
	}
	return input, nil
}
