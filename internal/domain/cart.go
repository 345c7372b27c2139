package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CartItem links a user to a catalog item with a quantity. At most one row
// exists per (user, item) pair; the reconciler preserves that invariant by
// incrementing quantity instead of inserting duplicates.
type CartItem struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ItemID    uuid.UUID `json:"item_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

// CartLine is a cart item joined with its catalog item, as read for
// display and for the checkout snapshot.
type CartLine struct {
	CartItem
	Item Item `json:"item"`
}

// CartRepository defines the store interface for cart state.
type CartRepository interface {
	// Upsert inserts a cart row with quantity 1 or, when a row for the
	// (user, item) pair already exists, increments its quantity by one.
	// The read-modify-write must be atomic: concurrent calls for the same
	// pair may never produce two rows or lose an increment.
	Upsert(ctx context.Context, userID, itemID uuid.UUID) (*CartItem, error)

	FindByID(ctx context.Context, id uuid.UUID) (*CartItem, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// LinesForUser reads the user's full cart with item details joined in.
	LinesForUser(ctx context.Context, userID uuid.UUID) ([]*CartLine, error)
}
