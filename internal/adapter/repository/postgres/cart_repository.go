package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/user/storefront/internal/domain"
)

// CartRepository implements domain.CartRepository for PostgreSQL.
type CartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new PostgreSQL cart repository.
func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db: db}
}

// Upsert relies on the (user_id, item_id) unique constraint: the insert and
// the increment are one atomic statement, so concurrent adds for the same
// pair serialize in the database instead of racing in this process.
func (r *CartRepository) Upsert(ctx context.Context, userID, itemID uuid.UUID) (*domain.CartItem, error) {
	query := `
		INSERT INTO cart_items (id, user_id, item_id, quantity, created_at)
		VALUES ($1, $2, $3, 1, $4)
		ON CONFLICT (user_id, item_id)
		DO UPDATE SET quantity = cart_items.quantity + 1
		RETURNING id, user_id, item_id, quantity, created_at
	`
	var row domain.CartItem
	err := r.db.QueryRowContext(ctx, query, uuid.New(), userID, itemID, time.Now().UTC()).Scan(
		&row.ID, &row.UserID, &row.ItemID, &row.Quantity, &row.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert cart item: %w", err)
	}
	return &row, nil
}

func (r *CartRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.CartItem, error) {
	query := `SELECT id, user_id, item_id, quantity, created_at FROM cart_items WHERE id = $1`
	var row domain.CartItem
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&row.ID, &row.UserID, &row.ItemID, &row.Quantity, &row.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find cart item: %w", err)
	}
	return &row, nil
}

func (r *CartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CartRepository) LinesForUser(ctx context.Context, userID uuid.UUID) ([]*domain.CartLine, error) {
	query := `
		SELECT c.id, c.user_id, c.item_id, c.quantity, c.created_at,
		       i.id, i.title, i.description, i.image, i.large_image, i.price, i.user_id, i.created_at, i.updated_at
		FROM cart_items c
		JOIN items i ON i.id = c.item_id
		WHERE c.user_id = $1
		ORDER BY c.created_at
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("cart lines: %w", err)
	}
	defer rows.Close()

	var lines []*domain.CartLine
	for rows.Next() {
		var line domain.CartLine
		err := rows.Scan(
			&line.CartItem.ID, &line.CartItem.UserID, &line.CartItem.ItemID, &line.CartItem.Quantity, &line.CartItem.CreatedAt,
			&line.Item.ID, &line.Item.Title, &line.Item.Description, &line.Item.Image, &line.Item.LargeImage,
			&line.Item.Price, &line.Item.UserID, &line.Item.CreatedAt, &line.Item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, &line)
	}
	return lines, rows.Err()
}
