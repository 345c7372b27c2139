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

// ItemRepository implements domain.ItemRepository for PostgreSQL.
type ItemRepository struct {
	db *sql.DB
}

// NewItemRepository creates a new PostgreSQL item repository.
func NewItemRepository(db *sql.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

const itemColumns = `id, title, description, image, large_image, price, user_id, created_at, updated_at`

func (r *ItemRepository) Create(ctx context.Context, item *domain.Item) error {
	query := `
		INSERT INTO items (id, title, description, image, large_image, price, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.Title, item.Description, item.Image, item.LargeImage,
		item.Price, item.UserID, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

func (r *ItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	return r.scanItem(r.db.QueryRowContext(ctx, query, id))
}

func (r *ItemRepository) List(ctx context.Context, limit, offset int) ([]*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []*domain.Item
	for rows.Next() {
		item, err := r.scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Update applies only the patch's non-nil fields; the row's id is never part
// of the update set.
func (r *ItemRepository) Update(ctx context.Context, id uuid.UUID, patch domain.ItemPatch) (*domain.Item, error) {
	query := `
		UPDATE items SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			image = COALESCE($4, image),
			large_image = COALESCE($5, large_image),
			price = COALESCE($6, price),
			updated_at = $7
		WHERE id = $1
		RETURNING ` + itemColumns
	row := r.db.QueryRowContext(ctx, query,
		id,
		nullString(patch.Title),
		nullString(patch.Description),
		nullString(patch.Image),
		nullString(patch.LargeImage),
		nullInt64(patch.Price),
		time.Now().UTC(),
	)
	return r.scanItem(row)
}

func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ItemRepository) scanItem(row rowScanner) (*domain.Item, error) {
	var item domain.Item
	err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&item.Image,
		&item.LargeImage,
		&item.Price,
		&item.UserID,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan item: %w", err)
	}
	return &item, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt64(n *int64) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *n, Valid: true}
}
