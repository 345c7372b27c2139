package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/user/storefront/internal/domain"
)

// OrderRepository implements domain.OrderRepository for PostgreSQL.
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new PostgreSQL order repository.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateWithCartCleanup writes the order, its item snapshots, and the cart
// deletion in one transaction. Only the listed cart rows are deleted; rows
// added to the cart after the checkout snapshot survive.
func (r *OrderRepository) CreateWithCartCleanup(ctx context.Context, order *domain.Order, cartItemIDs []uuid.UUID) error {
	txn, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin checkout tx: %w", err)
	}
	defer txn.Rollback() // Rollback is a no-op if Commit() is called

	_, err = txn.ExecContext(ctx, `
		INSERT INTO orders (id, user_id, charge_id, total, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, order.ID, order.UserID, order.ChargeID, order.Total, order.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	if len(order.Items) > 0 {
		stmt, err := txn.PrepareContext(ctx, pq.CopyIn("order_items",
			"id", "order_id", "title", "description", "image", "large_image", "price", "quantity"))
		if err != nil {
			return fmt.Errorf("prepare order items: %w", err)
		}
		for _, oi := range order.Items {
			if _, err := stmt.ExecContext(ctx, oi.ID, oi.OrderID, oi.Title, oi.Description, oi.Image, oi.LargeImage, oi.Price, oi.Quantity); err != nil {
				_ = stmt.Close()
				return fmt.Errorf("copy order item: %w", err)
			}
		}
		if _, err := stmt.ExecContext(ctx); err != nil {
			_ = stmt.Close()
			return fmt.Errorf("flush order items: %w", err)
		}
		if err := stmt.Close(); err != nil {
			return fmt.Errorf("close order items stmt: %w", err)
		}
	}

	if len(cartItemIDs) > 0 {
		if _, err := txn.ExecContext(ctx, `DELETE FROM cart_items WHERE id = ANY($1)`, pq.Array(cartItemIDs)); err != nil {
			return fmt.Errorf("clear cart snapshot: %w", err)
		}
	}

	return txn.Commit()
}

func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var order domain.Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, charge_id, total, created_at FROM orders WHERE id = $1
	`, id).Scan(&order.ID, &order.UserID, &order.ChargeID, &order.Total, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}

	items, err := r.itemsForOrders(ctx, []uuid.UUID{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]
	return &order, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, charge_id, total, created_at
		FROM orders WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	var ids []uuid.UUID
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(&order.ID, &order.UserID, &order.ChargeID, &order.Total, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, &order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return orders, nil
	}
	items, err := r.itemsForOrders(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, order := range orders {
		order.Items = items[order.ID]
	}
	return orders, nil
}

func (r *OrderRepository) itemsForOrders(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]*domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, title, description, image, large_image, price, quantity
		FROM order_items WHERE order_id = ANY($1)
	`, pq.Array(orderIDs))
	if err != nil {
		return nil, fmt.Errorf("order items: %w", err)
	}
	defer rows.Close()

	items := make(map[uuid.UUID][]*domain.OrderItem)
	for rows.Next() {
		var oi domain.OrderItem
		if err := rows.Scan(&oi.ID, &oi.OrderID, &oi.Title, &oi.Description, &oi.Image, &oi.LargeImage, &oi.Price, &oi.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items[oi.OrderID] = append(items[oi.OrderID], &oi)
	}
	return items, rows.Err()
}
