package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/user/storefront/internal/domain"
)

// ItemInput holds the fields for creating a catalog item.
type ItemInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	LargeImage  string `json:"large_image"`
	Price       int64  `json:"price"`
}

// ItemService manages the catalog. Gate policy per operation:
//
//	create: authenticated session
//	update: authenticated session (ownership not enforced)
//	delete: owner OR any of {ADMIN, ITEMDELETE}
//	get/list: unrestricted
type ItemService struct {
	items  domain.ItemRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewItemService creates a new ItemService.
func NewItemService(items domain.ItemRepository, logger *slog.Logger) *ItemService {
	return &ItemService{items: items, logger: logger, now: time.Now}
}

// Create adds a catalog item owned by the requester.
func (s *ItemService) Create(ctx context.Context, ident Identity, input ItemInput) (*domain.Item, error) {
	if !ident.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if input.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}

	now := s.now().UTC()
	item := &domain.Item{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		Image:       input.Image,
		LargeImage:  input.LargeImage,
		Price:       input.Price,
		UserID:      ident.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Update applies a partial update to an item. The patch type cannot carry
// an id, so the item's identity is fixed by construction.
//
// Ownership is deliberately not checked here: the original storefront never
// did, and that gap is reproduced as documented behavior rather than fixed
// silently.
func (s *ItemService) Update(ctx context.Context, ident Identity, id uuid.UUID, patch domain.ItemPatch) (*domain.Item, error) {
	if !ident.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	if patch.Price != nil && *patch.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	return s.items.Update(ctx, id, patch)
}

// Delete removes an item. Allowed for the item's owner, or for holders of
// any of ADMIN or ITEMDELETE.
func (s *ItemService) Delete(ctx context.Context, ident Identity, id uuid.UUID) error {
	if !ident.Authenticated() {
		return domain.ErrUnauthenticated
	}

	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return err
	}

	ownsItem := item.UserID == ident.UserID
	if !ownsItem && !domain.HasAny(ident.Permissions, []domain.Permission{domain.PermissionAdmin, domain.PermissionItemDelete}) {
		return domain.ErrPermissionDenied
	}

	if err := s.items.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("item deleted", "item_id", id, "requester_id", ident.UserID)
	return nil
}

// Get returns a single item.
func (s *ItemService) Get(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	return s.items.FindByID(ctx, id)
}

// List returns a page of catalog items.
func (s *ItemService) List(ctx context.Context, limit, offset int) ([]*domain.Item, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.items.List(ctx, limit, offset)
}
