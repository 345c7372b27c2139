package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/user/storefront/internal/adapter/api/middleware"
	"github.com/user/storefront/internal/domain"
	"github.com/user/storefront/internal/usecase"
)

// UserHandler handles account queries, permission administration, and order
// visibility.
type UserHandler struct {
	users  *usecase.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *usecase.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// Me answers with the requester's account, or null for anonymous callers.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Me(r.Context(), middleware.IdentityFrom(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context(), middleware.IdentityFrom(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

type updatePermissionsRequest struct {
	Permissions []domain.Permission `json:"permissions"`
}

func (h *UserHandler) UpdatePermissions(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, domain.ErrValidation)
		return
	}

	var req updatePermissionsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.users.UpdatePermissions(r.Context(), middleware.IdentityFrom(r.Context()), id, req.Permissions)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, domain.ErrValidation)
		return
	}

	order, err := h.users.GetOrder(r.Context(), middleware.IdentityFrom(r.Context()), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *UserHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.users.ListOrders(r.Context(), middleware.IdentityFrom(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}
