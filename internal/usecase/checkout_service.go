package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/user/storefront/internal/adapter/metrics"
	"github.com/user/storefront/internal/domain"
)

// CheckoutService converts a cart into an immutable, priced order while
// coordinating the one-shot external charge. The flow is linear with no
// internal retries:
//
//	authenticate -> snapshot -> price -> charge -> materialize -> clear
//
// Nothing is written before the charge succeeds, and after it succeeds the
// operation runs to completion even if the caller goes away.
type CheckoutService struct {
	carts   domain.CartRepository
	orders  domain.OrderRepository
	gateway domain.PaymentGateway
	logger  *slog.Logger
	metrics *metrics.StoreMetrics
	now     func() time.Time
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(
	carts domain.CartRepository,
	orders domain.OrderRepository,
	gateway domain.PaymentGateway,
	logger *slog.Logger,
	m *metrics.StoreMetrics,
) *CheckoutService {
	return &CheckoutService{
		carts:   carts,
		orders:  orders,
		gateway: gateway,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

// Checkout prices the requester's cart, charges the payment source, and
// materializes the order. paymentToken is the client-held token for the
// payment source; the amount charged is always the server-computed total.
//
// An empty cart proceeds and yields a zero-total order. No idempotency key
// is attached to the charge, so a caller retrying after ErrPaymentUncertain
// risks a double charge; that resolution belongs to a higher layer.
func (s *CheckoutService) Checkout(ctx context.Context, ident Identity, paymentToken string) (*domain.Order, error) {
	// 1. Authenticate.
	if !ident.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	// 2. Snapshot the cart with item details. Everything below works off
	// this snapshot; cart mutations racing with the checkout are untouched.
	lines, err := s.carts.LinesForUser(ctx, ident.UserID)
	if err != nil {
		s.countCheckout("error")
		return nil, err
	}

	// 3. Price the snapshot. The client never supplies the amount.
	var total int64
	for _, line := range lines {
		total += line.Item.Price * int64(line.Quantity)
	}

	// Once the charge is issued the operation must run to completion, so
	// the dangerous charged-but-no-order window cannot grow because a
	// request context was torn down.
	ctx = context.WithoutCancel(ctx)

	// 4. Charge. Declines and ambiguous outcomes surface as distinct
	// errors; neither is retried here.
	charge, err := s.gateway.Charge(ctx, domain.ChargeRequest{
		Amount:   total,
		Currency: "USD",
		Source:   paymentToken,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPaymentDeclined):
			s.countCheckout("declined")
		case errors.Is(err, domain.ErrPaymentUncertain):
			s.countCheckout("uncertain")
			s.logger.Warn("charge outcome uncertain, not retrying",
				"user_id", ident.UserID, "amount", total)
		default:
			s.countCheckout("error")
		}
		return nil, err
	}

	// 5. Materialize the order from the snapshot. Each order item is a
	// frozen copy of the catalog item with its own identity.
	order := &domain.Order{
		ID:        uuid.New(),
		UserID:    ident.UserID,
		ChargeID:  charge.ChargeID,
		Total:     total,
		CreatedAt: s.now().UTC(),
	}
	snapshotIDs := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		order.Items = append(order.Items, &domain.OrderItem{
			ID:          uuid.New(),
			OrderID:     order.ID,
			Title:       line.Item.Title,
			Description: line.Item.Description,
			Image:       line.Item.Image,
			LargeImage:  line.Item.LargeImage,
			Price:       line.Item.Price,
			Quantity:    line.Quantity,
		})
		snapshotIDs = append(snapshotIDs, line.CartItem.ID)
	}

	// 6. Persist the order and clear exactly the snapshotted cart rows in
	// one transaction. A failure here means money was captured with no
	// order on record: escalate it distinctly, never as a generic error.
	if err := s.orders.CreateWithCartCleanup(ctx, order, snapshotIDs); err != nil {
		s.countCheckout("error")
		if s.metrics != nil {
			s.metrics.ReconciliationNeeded.Inc()
		}
		s.logger.Error("charge captured but order not persisted, requires reconciliation",
			"charge_id", charge.ChargeID,
			"user_id", ident.UserID,
			"amount", total,
			"error", err,
		)
		return nil, fmt.Errorf("%w: charge %s: %v", domain.ErrReconciliationRequired, charge.ChargeID, err)
	}

	s.countCheckout("success")
	if s.metrics != nil {
		s.metrics.ChargedCentsTotal.Add(float64(total))
	}
	s.logger.Info("checkout completed",
		"order_id", order.ID, "charge_id", charge.ChargeID, "total", total, "items", len(order.Items))

	// 7. Return the order.
	return order, nil
}

func (s *CheckoutService) countCheckout(outcome string) {
	if s.metrics != nil {
		s.metrics.CheckoutsTotal.WithLabelValues(outcome).Inc()
	}
}
