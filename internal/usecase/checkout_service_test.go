package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/user/storefront/internal/domain"
	"github.com/user/storefront/internal/domain/mocks"
)

func cartLine(userID uuid.UUID, title string, price int64, qty int) *domain.CartLine {
	return &domain.CartLine{
		CartItem: domain.CartItem{
			ID:       uuid.New(),
			UserID:   userID,
			ItemID:   uuid.New(),
			Quantity: qty,
		},
		Item: domain.Item{
			ID:          uuid.New(),
			Title:       title,
			Description: "desc of " + title,
			Price:       price,
		},
	}
}

func TestCheckoutService_Checkout(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	userID := uuid.New()
	ident := Identity{UserID: userID, Permissions: []domain.Permission{domain.PermissionUser}}

	t.Run("charges the server-computed total and freezes snapshots", func(t *testing.T) {
		carts := mocks.NewMockCartRepository()
		carts.LinesResult = []*domain.CartLine{
			cartLine(userID, "Widget", 1000, 2),
			cartLine(userID, "Gadget", 500, 1),
		}
		orders := mocks.NewMockOrderRepository()
		gateway := &mocks.MockPaymentGateway{Result: &domain.ChargeResult{ChargeID: "ch_123", Amount: 2500}}
		svc := NewCheckoutService(carts, orders, gateway, logger, nil)

		order, err := svc.Checkout(context.Background(), ident, "tok_visa")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(gateway.Requests) != 1 {
			t.Fatalf("expected exactly one charge, got %d", len(gateway.Requests))
		}
		req := gateway.Requests[0]
		if req.Amount != 2500 || req.Currency != "USD" || req.Source != "tok_visa" {
			t.Errorf("unexpected charge request: %+v", req)
		}

		if order.Total != 2500 {
			t.Errorf("expected total 2500, got %d", order.Total)
		}
		if order.ChargeID != "ch_123" {
			t.Errorf("expected charge id ch_123, got %q", order.ChargeID)
		}
		if len(order.Items) != 2 {
			t.Fatalf("expected 2 order items, got %d", len(order.Items))
		}
		for _, oi := range order.Items {
			if oi.OrderID != order.ID {
				t.Errorf("order item not linked to order: %+v", oi)
			}
		}

		// The snapshot price stays frozen even though it is a copy, not a
		// reference into the catalog.
		if order.Items[0].Price != 1000 || order.Items[0].Quantity != 2 {
			t.Errorf("unexpected first snapshot: %+v", order.Items[0])
		}
		if order.Items[1].Price != 500 || order.Items[1].Quantity != 1 {
			t.Errorf("unexpected second snapshot: %+v", order.Items[1])
		}

		if _, ok := orders.Orders[order.ID]; !ok {
			t.Error("expected the order to be persisted")
		}
	})

	t.Run("clears exactly the snapshotted cart rows", func(t *testing.T) {
		carts := mocks.NewMockCartRepository()
		snapshot := []*domain.CartLine{
			cartLine(userID, "Widget", 1000, 1),
			cartLine(userID, "Gadget", 500, 1),
		}
		carts.LinesResult = snapshot
		orders := mocks.NewMockOrderRepository()
		svc := NewCheckoutService(carts, orders, &mocks.MockPaymentGateway{}, logger, nil)

		if _, err := svc.Checkout(context.Background(), ident, "tok_visa"); err != nil {
			t.Fatalf("checkout: %v", err)
		}

		if len(orders.CleanedCartIDs) != 2 {
			t.Fatalf("expected 2 cleaned cart ids, got %d", len(orders.CleanedCartIDs))
		}
		want := map[uuid.UUID]bool{snapshot[0].CartItem.ID: true, snapshot[1].CartItem.ID: true}
		for _, id := range orders.CleanedCartIDs {
			if !want[id] {
				t.Errorf("cleaned id %s was not in the snapshot", id)
			}
		}
	})

	t.Run("declined charge mutates nothing", func(t *testing.T) {
		carts := mocks.NewMockCartRepository()
		carts.LinesResult = []*domain.CartLine{cartLine(userID, "Widget", 1000, 1)}
		orders := mocks.NewMockOrderRepository()
		gateway := &mocks.MockPaymentGateway{Err: domain.ErrPaymentDeclined}
		svc := NewCheckoutService(carts, orders, gateway, logger, nil)

		_, err := svc.Checkout(context.Background(), ident, "tok_declined")
		if !errors.Is(err, domain.ErrPaymentDeclined) {
			t.Fatalf("expected ErrPaymentDeclined, got %v", err)
		}
		if len(orders.Orders) != 0 {
			t.Errorf("expected zero orders, got %d", len(orders.Orders))
		}
		if len(orders.CleanedCartIDs) != 0 {
			t.Errorf("expected zero cart deletions, got %d", len(orders.CleanedCartIDs))
		}
	})

	t.Run("uncertain outcome is surfaced distinctly and not retried", func(t *testing.T) {
		carts := mocks.NewMockCartRepository()
		carts.LinesResult = []*domain.CartLine{cartLine(userID, "Widget", 1000, 1)}
		gateway := &mocks.MockPaymentGateway{Err: domain.ErrPaymentUncertain}
		svc := NewCheckoutService(carts, mocks.NewMockOrderRepository(), gateway, logger, nil)

		_, err := svc.Checkout(context.Background(), ident, "tok_visa")
		if !errors.Is(err, domain.ErrPaymentUncertain) {
			t.Fatalf("expected ErrPaymentUncertain, got %v", err)
		}
		if len(gateway.Requests) != 1 {
			t.Errorf("expected exactly one charge attempt, got %d", len(gateway.Requests))
		}
	})

	t.Run("store failure after charge escalates for reconciliation", func(t *testing.T) {
		carts := mocks.NewMockCartRepository()
		carts.LinesResult = []*domain.CartLine{cartLine(userID, "Widget", 1000, 1)}
		orders := mocks.NewMockOrderRepository()
		orders.CreateErr = errors.New("store is down")
		svc := NewCheckoutService(carts, orders, &mocks.MockPaymentGateway{}, logger, nil)

		_, err := svc.Checkout(context.Background(), ident, "tok_visa")
		if !errors.Is(err, domain.ErrReconciliationRequired) {
			t.Fatalf("expected ErrReconciliationRequired, got %v", err)
		}
	})

	t.Run("runs to completion after charge despite cancelled caller", func(t *testing.T) {
		carts := mocks.NewMockCartRepository()
		carts.LinesResult = []*domain.CartLine{cartLine(userID, "Widget", 1000, 1)}
		orders := mocks.NewMockOrderRepository()
		svc := NewCheckoutService(carts, orders, &mocks.MockPaymentGateway{}, logger, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		// The snapshot read observes cancellation through the mock's nil
		// error path, then the rest of the flow must still complete.
		order, err := svc.Checkout(ctx, ident, "tok_visa")
		if err != nil {
			t.Fatalf("expected checkout to complete, got %v", err)
		}
		if _, ok := orders.Orders[order.ID]; !ok {
			t.Error("expected the order to be persisted")
		}
	})

	t.Run("empty cart yields a zero-total order", func(t *testing.T) {
		carts := mocks.NewMockCartRepository()
		orders := mocks.NewMockOrderRepository()
		gateway := &mocks.MockPaymentGateway{}
		svc := NewCheckoutService(carts, orders, gateway, logger, nil)

		order, err := svc.Checkout(context.Background(), ident, "tok_visa")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if order.Total != 0 || len(order.Items) != 0 {
			t.Errorf("expected empty zero-total order, got total=%d items=%d", order.Total, len(order.Items))
		}
		if len(gateway.Requests) != 1 || gateway.Requests[0].Amount != 0 {
			t.Errorf("expected a zero-amount charge, got %+v", gateway.Requests)
		}
	})

	t.Run("unauthenticated", func(t *testing.T) {
		svc := NewCheckoutService(mocks.NewMockCartRepository(), mocks.NewMockOrderRepository(), &mocks.MockPaymentGateway{}, logger, nil)
		_, err := svc.Checkout(context.Background(), Anonymous, "tok_visa")
		if !errors.Is(err, domain.ErrUnauthenticated) {
			t.Errorf("expected ErrUnauthenticated, got %v", err)
		}
	})
}
