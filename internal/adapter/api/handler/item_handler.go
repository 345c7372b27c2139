package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/user/storefront/internal/adapter/api/middleware"
	"github.com/user/storefront/internal/domain"
	"github.com/user/storefront/internal/usecase"
)

// ItemHandler handles catalog CRUD.
type ItemHandler struct {
	items  *usecase.ItemService
	logger *slog.Logger
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(items *usecase.ItemService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{items: items, logger: logger}
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.ItemInput
	if err := decodeBody(r, &input); err != nil {
		writeError(w, h.logger, err)
		return
	}

	item, err := h.items.Create(r.Context(), middleware.IdentityFrom(r.Context()), input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, domain.ErrValidation)
		return
	}

	item, err := h.items.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	items, err := h.items.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, domain.ErrValidation)
		return
	}

	var patch domain.ItemPatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, h.logger, err)
		return
	}

	item, err := h.items.Update(r.Context(), middleware.IdentityFrom(r.Context()), id, patch)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, domain.ErrValidation)
		return
	}

	if err := h.items.Delete(r.Context(), middleware.IdentityFrom(r.Context()), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "item deleted"})
}
