package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"womart-storefront/clients"
	apperrors "womart-storefront/errors"
	"womart-storefront/models"

	"go.uber.org/zap"
)

// OrderCreator submits an order to the backend.
type OrderCreator interface {
	CreateOrder(ctx context.Context, token string, order *models.CreateOrderRequest) error
}

// CheckoutState is the state of the current or last checkout attempt.
type CheckoutState int

const (
	CheckoutIdle CheckoutState = iota
	CheckoutSubmitting
	CheckoutSucceeded
	CheckoutFailed
)

func (s CheckoutState) String() string {
	switch s {
	case CheckoutIdle:
		return "idle"
	case CheckoutSubmitting:
		return "submitting"
	case CheckoutSucceeded:
		return "succeeded"
	case CheckoutFailed:
		return "failed"
	}
	return "unknown"
}

// CheckoutSubmitter turns a shopper's cart and coupon into an order.
//
// Each Submit is one attempt: Idle -> Submitting -> Succeeded | Failed. Only
// Submitting blocks a new attempt; a failed attempt may be retried with the
// untouched cart. Orders carry no idempotency key, so a retry after a
// timeout can create a duplicate order.
type CheckoutSubmitter struct {
	orders  OrderCreator
	cart    *CartStore
	coupons *CouponResolver
	metrics MetricsRecorder
	logger  *zap.Logger

	mu    sync.Mutex
	state CheckoutState
}

func NewCheckoutSubmitter(
	orders OrderCreator,
	cart *CartStore,
	coupons *CouponResolver,
	metrics MetricsRecorder,
	logger *zap.Logger,
) *CheckoutSubmitter {
	return &CheckoutSubmitter{
		orders:  orders,
		cart:    cart,
		coupons: coupons,
		metrics: recorderOrNop(metrics),
		logger:  logger,
	}
}

// State reports the state of the current or last attempt.
func (s *CheckoutSubmitter) State() CheckoutState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Submit places an order for the cart as it is right now. An empty cart is
// rejected without a network call. On success the ordered quantities and
// the coupon are removed; on failure both are left exactly as they were.
func (s *CheckoutSubmitter) Submit(ctx context.Context, token string) (*models.Receipt, error) {
	s.mu.Lock()
	if s.state == CheckoutSubmitting {
		s.mu.Unlock()
		return nil, apperrors.ErrCheckoutInProgress
	}
	lines := s.cart.Lines()
	if len(lines) == 0 {
		s.mu.Unlock()
		return nil, apperrors.ErrEmptyCart
	}
	s.state = CheckoutSubmitting
	s.mu.Unlock()

	coupon := s.coupons.Applied()
	totals := ComputeTotals(Subtotal(lines), coupon)
	order := buildOrder(lines, coupon, totals)

	if err := s.orders.CreateOrder(ctx, token, order); err != nil {
		s.setState(CheckoutFailed)
		_ = s.metrics.RecordCount(ctx, MetricOrdersFailed, nil)

		var statusErr *clients.StatusError
		if errors.As(err, &statusErr) {
			s.logger.Warn("Order rejected by backend", zap.Int("status", statusErr.StatusCode), zap.String("body", statusErr.Body))
			return nil, apperrors.Wrap(apperrors.ErrOrderRejected, err)
		}
		s.logger.Error("Order submission failed", zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrConnection, err)
	}

	// The order exists now; a storage failure must not turn this into an
	// error the shopper would retry. Lines added meanwhile stay in the cart.
	if err := s.cart.RemoveOrdered(ctx, lines); err != nil {
		s.logger.Error("Order placed but cart could not be cleared", zap.Error(err))
	}
	s.coupons.Remove()
	s.setState(CheckoutSucceeded)
	_ = s.metrics.RecordCount(ctx, MetricCartCheckouts, nil)

	s.logger.Info("Order placed",
		zap.Int("lines", len(order.Items)),
		zap.String("coupon", order.CouponCode),
		zap.String("total", totals.Total.StringFixed(2)),
	)

	return &models.Receipt{
		Items:      order.Items,
		CouponCode: order.CouponCode,
		Subtotal:   totals.Subtotal,
		Discount:   totals.Discount,
		TotalPaid:  totals.Total,
	}, nil
}

func (s *CheckoutSubmitter) setState(state CheckoutState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func buildOrder(lines []models.CartLine, coupon *models.Coupon, totals models.Totals) *models.CreateOrderRequest {
	items := make([]models.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, models.OrderItem{ProductID: l.ProductID, Quantity: l.Quantity})
	}

	order := &models.CreateOrderRequest{
		Items:     items,
		TotalPaid: json.Number(totals.Total.StringFixed(2)),
	}
	if coupon != nil {
		order.CouponCode = coupon.Code
	}
	return order
}

