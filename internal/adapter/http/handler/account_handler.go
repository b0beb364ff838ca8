package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fincalc/finsync/internal/adapter/http/dto"
	"github.com/fincalc/finsync/internal/domain"
	"github.com/fincalc/finsync/internal/usecase"
	"github.com/fincalc/finsync/internal/wire"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	ListAll(ctx context.Context) ([]domain.Account, error)
	PrimaryAccount(ctx context.Context) (*domain.Account, error)
	Create(ctx context.Context, input usecase.AccountInput) (*domain.Account, error)
	Update(ctx context.Context, id int64, input usecase.AccountInput) (*domain.Account, error)
	Delete(ctx context.Context, id int64) error
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC       AccountService
	defaultCurrency string
}

// NewAccountHandler creates a new AccountHandler. defaultCurrency fills in
// create and update requests that omit the currency field.
func NewAccountHandler(accountUC AccountService, defaultCurrency string) *AccountHandler {
	return &AccountHandler{accountUC: accountUC, defaultCurrency: defaultCurrency}
}

// List lists all accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountUC.ListAll(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list accounts", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dto.AccountsFromDomain(accounts))
}

// Primary returns the device user's account.
func (h *AccountHandler) Primary(w http.ResponseWriter, r *http.Request) {
	account, err := h.accountUC.PrimaryAccount(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to resolve primary account", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, wire.AccountToPayload(*account))
}

// Create creates a new account, queueing it locally when offline.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Currency == "" {
		req.Currency = h.defaultCurrency
	}
	input, err := req.ToInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.accountUC.Create(r.Context(), input)
	if err != nil {
		switch {
		case isRejected(err):
			writeError(w, http.StatusBadRequest, "invalid account", err.Error())
		case errors.Is(err, domain.ErrQueuedOffline):
			writeQueued(w, err)
		default:
			writeError(w, mapDomainError(err), "failed to create account", err.Error())
		}
		return
	}
	writeJSON(w, http.StatusCreated, wire.AccountToPayload(*account))
}

// Update updates an account, queueing the change locally when offline.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account id", err.Error())
		return
	}

	var req dto.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Currency == "" {
		req.Currency = h.defaultCurrency
	}
	input, err := req.ToInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.accountUC.Update(r.Context(), id, input)
	if err != nil {
		switch {
		case isRejected(err):
			writeError(w, http.StatusBadRequest, "invalid account", err.Error())
		case errors.Is(err, domain.ErrQueuedOffline):
			writeQueued(w, err)
		default:
			writeError(w, mapDomainError(err), "failed to update account", err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, wire.AccountToPayload(*account))
}

// Delete deletes an account, queueing the deletion locally when offline.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account id", err.Error())
		return
	}

	if err := h.accountUC.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrQueuedOffline) {
			writeQueued(w, err)
			return
		}
		writeError(w, mapDomainError(err), "failed to delete account", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
