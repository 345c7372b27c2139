package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Item is a catalog entity. Price is in the payment provider's minor
// currency unit (cents).
type Item struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"`
	LargeImage  string    `json:"large_image,omitempty"`
	Price       int64     `json:"price"`
	UserID      uuid.UUID `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ItemPatch is a partial update for an item. The item identifier is carried
// separately by the operation, so a patch cannot overwrite it by
// construction. Nil fields are left unchanged.
type ItemPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Image       *string `json:"image,omitempty"`
	LargeImage  *string `json:"large_image,omitempty"`
	Price       *int64  `json:"price,omitempty"`
}

// ItemRepository defines the store interface for the catalog.
type ItemRepository interface {
	Create(ctx context.Context, item *Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)
	List(ctx context.Context, limit, offset int) ([]*Item, error)
	Update(ctx context.Context, id uuid.UUID, patch ItemPatch) (*Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
