package handler

import (
	"log/slog"
	"net/http"

	"github.com/user/storefront/internal/adapter/api/middleware"
	"github.com/user/storefront/internal/usecase"
)

// CheckoutHandler handles the cart-to-order conversion.
type CheckoutHandler struct {
	checkout *usecase.CheckoutService
	logger   *slog.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(checkout *usecase.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, logger: logger}
}

type checkoutRequest struct {
	PaymentToken string `json:"payment_token"`
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	order, err := h.checkout.Checkout(r.Context(), middleware.IdentityFrom(r.Context()), req.PaymentToken)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}
