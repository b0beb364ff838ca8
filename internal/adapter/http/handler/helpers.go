package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fincalc/finsync/internal/adapter/http/dto"
	"github.com/fincalc/finsync/internal/domain"
	"github.com/fincalc/finsync/internal/wire"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeQueued reports a mutation that was accepted locally and queued for
// replay because the backend was unreachable.
func writeQueued(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusAccepted, dto.QueuedResponse{
		Queued: true,
		Reason: err.Error(),
	})
}

// isRejected reports whether err is a local validation or decoding failure,
// meaning nothing was queued and the client input is at fault.
func isRejected(err error) bool {
	var parseErr *wire.ParseError
	if errors.As(err, &parseErr) {
		return true
	}
	switch {
	case errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidDirection):
		return true
	}
	return false
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrCategoryNotFound),
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrNoAccounts):
		return http.StatusNotFound
	case isRejected(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseIDParam parses the {id} chi URL parameter.
func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
