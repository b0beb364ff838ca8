package handler

import (
	"context"
	"net/http"

	"github.com/fincalc/finsync/internal/adapter/http/dto"
)

// SyncService is a per-kind sync coordinator as seen by the sync endpoints.
type SyncService interface {
	ReplayPending(ctx context.Context) (int, error)
	PendingCount(ctx context.Context) (int, error)
}

// SyncTarget names one coordinator for the sync endpoints.
type SyncTarget struct {
	Kind    string
	Service SyncService
}

// SyncHandler exposes forced replay and ledger inspection.
type SyncHandler struct {
	targets []SyncTarget
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(targets []SyncTarget) *SyncHandler {
	return &SyncHandler{targets: targets}
}

// Replay forces a replay pass over every ledger and reports what remains.
func (h *SyncHandler) Replay(w http.ResponseWriter, r *http.Request) {
	remaining := make(map[string]int, len(h.targets))
	for _, target := range h.targets {
		n, err := target.Service.ReplayPending(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "replay failed", err.Error())
			return
		}
		remaining[target.Kind] = n
	}
	writeJSON(w, http.StatusOK, dto.SyncResponse{Remaining: remaining})
}

// Pending reports per-kind pending ledger sizes.
func (h *SyncHandler) Pending(w http.ResponseWriter, r *http.Request) {
	pending := make(map[string]int, len(h.targets))
	for _, target := range h.targets {
		n, err := target.Service.PendingCount(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "ledger read failed", err.Error())
			return
		}
		pending[target.Kind] = n
	}
	writeJSON(w, http.StatusOK, dto.PendingResponse{Pending: pending})
}
