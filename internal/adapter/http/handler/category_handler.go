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

// CategoryService defines the behavior needed by CategoryHandler.
type CategoryService interface {
	ListAll(ctx context.Context) ([]domain.Category, error)
	ListByDirection(ctx context.Context, direction domain.Direction) ([]domain.Category, error)
	Create(ctx context.Context, input usecase.CategoryInput) (*domain.Category, error)
	Update(ctx context.Context, id int64, input usecase.CategoryInput) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
}

// CategoryHandler handles category-related HTTP requests.
type CategoryHandler struct {
	categoryUC CategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryUC CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryUC: categoryUC}
}

// List lists categories, optionally narrowed by the direction query parameter.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		categories []domain.Category
		err        error
	)
	if raw := r.URL.Query().Get("direction"); raw != "" {
		categories, err = h.categoryUC.ListByDirection(r.Context(), domain.Direction(raw))
	} else {
		categories, err = h.categoryUC.ListAll(r.Context())
	}
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list categories", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, dto.CategoriesFromDomain(categories))
}

// Create creates a new category, queueing it locally when offline.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	category, err := h.categoryUC.Create(r.Context(), req.ToInput())
	if err != nil {
		switch {
		case isRejected(err):
			writeError(w, http.StatusBadRequest, "invalid category", err.Error())
		case errors.Is(err, domain.ErrQueuedOffline):
			writeQueued(w, err)
		default:
			writeError(w, mapDomainError(err), "failed to create category", err.Error())
		}
		return
	}
	writeJSON(w, http.StatusCreated, wire.CategoryToPayload(*category))
}

// Update updates a category, queueing the change locally when offline.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id", err.Error())
		return
	}

	var req dto.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	category, err := h.categoryUC.Update(r.Context(), id, req.ToInput())
	if err != nil {
		switch {
		case isRejected(err):
			writeError(w, http.StatusBadRequest, "invalid category", err.Error())
		case errors.Is(err, domain.ErrQueuedOffline):
			writeQueued(w, err)
		default:
			writeError(w, mapDomainError(err), "failed to update category", err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, wire.CategoryToPayload(*category))
}

// Delete deletes a category, queueing the deletion locally when offline.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid category id", err.Error())
		return
	}

	if err := h.categoryUC.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrQueuedOffline) {
			writeQueued(w, err)
			return
		}
		writeError(w, mapDomainError(err), "failed to delete category", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
