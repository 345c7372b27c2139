package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OrderItem is a denormalized copy of a catalog item frozen into an order
// at charge time. It keeps its own identity; catalog changes or deletions
// after checkout never touch it.
type OrderItem struct {
	ID          uuid.UUID `json:"id"`
	OrderID     uuid.UUID `json:"order_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"`
	LargeImage  string    `json:"large_image,omitempty"`
	Price       int64     `json:"price"`
	Quantity    int       `json:"quantity"`
}

// Order is immutable once created. Total always equals the sum of
// price*quantity over its items, in minor currency units, as computed at
// charge time.
type Order struct {
	ID        uuid.UUID    `json:"id"`
	UserID    uuid.UUID    `json:"user_id"`
	ChargeID  string       `json:"charge_id"`
	Total     int64        `json:"total"`
	Items     []*OrderItem `json:"items"`
	CreatedAt time.Time    `json:"created_at"`
}

// OrderRepository defines the store interface for orders.
type OrderRepository interface {
	// CreateWithCartCleanup persists the order and its items and deletes the
	// given cart rows in a single transaction. Only the listed cart item ids
	// are deleted, so cart mutations racing with a checkout are not lost.
	CreateWithCartCleanup(ctx context.Context, order *Order, cartItemIDs []uuid.UUID) error

	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Order, error)
}
