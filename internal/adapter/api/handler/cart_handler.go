package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/user/storefront/internal/adapter/api/middleware"
	"github.com/user/storefront/internal/domain"
	"github.com/user/storefront/internal/usecase"
)

// CartHandler handles cart reads and mutations.
type CartHandler struct {
	carts  *usecase.CartService
	logger *slog.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(carts *usecase.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{carts: carts, logger: logger}
}

type addToCartRequest struct {
	ItemID uuid.UUID `json:"item_id"`
}

func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	row, err := h.carts.AddToCart(r.Context(), middleware.IdentityFrom(r.Context()), req.ItemID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, domain.ErrValidation)
		return
	}

	if err := h.carts.RemoveFromCart(r.Context(), middleware.IdentityFrom(r.Context()), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "removed from cart"})
}

func (h *CartHandler) List(w http.ResponseWriter, r *http.Request) {
	lines, err := h.carts.Cart(r.Context(), middleware.IdentityFrom(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, lines)
}
