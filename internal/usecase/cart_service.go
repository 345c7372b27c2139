package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/user/storefront/internal/domain"
)

// CartService is the cart reconciler. Ownership on reads is implicit: every
// query is scoped to the requester's own cart.
type CartService struct {
	carts  domain.CartRepository
	items  domain.ItemRepository
	logger *slog.Logger
}

// NewCartService creates a new CartService.
func NewCartService(carts domain.CartRepository, items domain.ItemRepository, logger *slog.Logger) *CartService {
	return &CartService{carts: carts, items: items, logger: logger}
}

// AddToCart merges one unit of an item into the requester's cart: an
// existing row for the (user, item) pair gains quantity 1, otherwise a new
// row is created with quantity 1. The store performs the read-modify-write
// atomically, so double-clicks and concurrent tabs cannot produce duplicate
// rows or lost increments.
func (s *CartService) AddToCart(ctx context.Context, ident Identity, itemID uuid.UUID) (*domain.CartItem, error) {
	if !ident.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	// The item must exist before it can be carted.
	if _, err := s.items.FindByID(ctx, itemID); err != nil {
		return nil, err
	}

	return s.carts.Upsert(ctx, ident.UserID, itemID)
}

// RemoveFromCart deletes a cart row outright; there is no partial-quantity
// decrement. A row owned by someone else fails with ErrPermissionDenied and
// nothing is deleted.
func (s *CartService) RemoveFromCart(ctx context.Context, ident Identity, cartItemID uuid.UUID) error {
	if !ident.Authenticated() {
		return domain.ErrUnauthenticated
	}

	row, err := s.carts.FindByID(ctx, cartItemID)
	if err != nil {
		return err
	}
	if row.UserID != ident.UserID {
		return domain.ErrPermissionDenied
	}

	return s.carts.Delete(ctx, cartItemID)
}

// Cart returns the requester's cart with item details.
func (s *CartService) Cart(ctx context.Context, ident Identity) ([]*domain.CartLine, error) {
	if !ident.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	return s.carts.LinesForUser(ctx, ident.UserID)
}
