package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"womart-storefront/clients"
	apperrors "womart-storefront/errors"
	"womart-storefront/models"
	"womart-storefront/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type checkoutFixture struct {
	repo     *flakyRepo
	cart     *services.CartStore
	coupons  *services.CouponResolver
	finder   *mockCouponFinder
	orders   *mockOrderCreator
	metrics  *mockMetrics
	checkout *services.CheckoutSubmitter
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	f := &checkoutFixture{
		finder:  &mockCouponFinder{findFn: couponFound(fixed500)},
		orders:  &mockOrderCreator{},
		metrics: &mockMetrics{},
	}
	f.repo, _ = newRepo()
	f.cart = newStore(t, f.repo)
	f.coupons = services.NewCouponResolver(f.finder, f.metrics, zap.NewNop())
	f.checkout = services.NewCheckoutSubmitter(f.orders, f.cart, f.coupons, f.metrics, zap.NewNop())
	return f
}

func TestCheckout_PlacesOrderWithFixedCoupon(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)

	require.NoError(t, f.cart.AddItem(ctx, product(1, "2859.99")))
	require.NoError(t, f.cart.AddItem(ctx, product(1, "2859.99")))
	_, err := f.coupons.Resolve(ctx, "tok", "WOMART500")
	require.NoError(t, err)

	totals := f.coupons.Totals(f.cart.Subtotal())
	assert.Equal(t, "500.00", totals.Discount.StringFixed(2))
	assert.Equal(t, "5219.98", totals.Total.StringFixed(2))

	receipt, err := f.checkout.Submit(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "5219.98", receipt.TotalPaid.StringFixed(2))
	assert.Equal(t, "WOMART500", receipt.CouponCode)

	orders := f.orders.Orders()
	require.Len(t, orders, 1)
	body, err := json.Marshal(orders[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"itens":[{"produtoId":1,"quantidade":2}],"codigoCupom":"WOMART500","totalPago":5219.98}`, string(body))

	assert.True(t, f.cart.IsEmpty())
	assert.Empty(t, storedLines(t, f.repo))
	assert.Nil(t, f.coupons.Applied())
	assert.Equal(t, services.CheckoutSucceeded, f.checkout.State())
	assert.Equal(t, 1, f.metrics.Count(services.MetricCartCheckouts))
}

func TestCheckout_OmitsCouponCodeWithoutCoupon(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	require.NoError(t, f.cart.AddItem(ctx, product(7, "10.50")))
	require.NoError(t, f.cart.AddItem(ctx, product(8, "1")))

	_, err := f.checkout.Submit(ctx, "tok")
	require.NoError(t, err)

	body, err := json.Marshal(f.orders.Orders()[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"itens":[{"produtoId":7,"quantidade":1},{"produtoId":8,"quantidade":1}],"totalPago":11.50}`, string(body))
}

func TestCheckout_EmptyCartMakesNoCall(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.checkout.Submit(context.Background(), "tok")
	assert.True(t, errors.Is(err, apperrors.ErrEmptyCart))
	assert.Empty(t, f.orders.Orders())
	assert.Equal(t, services.CheckoutIdle, f.checkout.State())
}

func TestCheckout_FailureLeavesCartAndCoupon(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr *apperrors.Error
	}{
		{"backend rejects", &clients.StatusError{StatusCode: 422, Body: `{"error":"sem estoque"}`}, apperrors.ErrOrderRejected},
		{"network down", errors.New("dial tcp: connection refused"), apperrors.ErrConnection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newCheckoutFixture(t)
			f.orders.createFn = func(context.Context, string, *models.CreateOrderRequest) error { return tt.err }
			require.NoError(t, f.cart.AddItem(ctx, product(1, "2859.99")))
			_, err := f.coupons.Resolve(ctx, "", "WOMART500")
			require.NoError(t, err)

			_, err = f.checkout.Submit(ctx, "tok")
			assert.True(t, errors.Is(err, tt.wantErr))
			assert.Len(t, f.cart.Lines(), 1)
			assert.Len(t, storedLines(t, f.repo), 1)
			assert.Equal(t, "WOMART500", f.coupons.Applied().Code)
			assert.Equal(t, services.CheckoutFailed, f.checkout.State())
			assert.Equal(t, 1, f.metrics.Count(services.MetricOrdersFailed))
		})
	}
}

func TestCheckout_RetryAfterFailure(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	f.orders.createFn = func(context.Context, string, *models.CreateOrderRequest) error {
		return errors.New("timeout")
	}
	require.NoError(t, f.cart.AddItem(ctx, product(1, "10")))

	_, err := f.checkout.Submit(ctx, "tok")
	require.Error(t, err)

	f.orders.createFn = nil
	_, err = f.checkout.Submit(ctx, "tok")
	require.NoError(t, err)
	assert.Len(t, f.orders.Orders(), 2)
	assert.True(t, f.cart.IsEmpty())
}

func TestCheckout_RejectsSecondSubmitWhileInFlight(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	started := make(chan struct{})
	release := make(chan struct{})
	f.orders.createFn = func(context.Context, string, *models.CreateOrderRequest) error {
		close(started)
		<-release
		return nil
	}
	require.NoError(t, f.cart.AddItem(ctx, product(1, "10")))

	done := make(chan error, 1)
	go func() {
		_, err := f.checkout.Submit(ctx, "tok")
		done <- err
	}()

	<-started
	assert.Equal(t, services.CheckoutSubmitting, f.checkout.State())
	_, err := f.checkout.Submit(ctx, "tok")
	assert.True(t, errors.Is(err, apperrors.ErrCheckoutInProgress))

	close(release)
	require.NoError(t, <-done)
	assert.Len(t, f.orders.Orders(), 1)
}

func TestCheckout_KeepsItemsAddedDuringSubmission(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	require.NoError(t, f.cart.AddItem(ctx, product(1, "10")))
	f.orders.createFn = func(context.Context, string, *models.CreateOrderRequest) error {
		return f.cart.AddItem(ctx, product(2, "20"))
	}

	receipt, err := f.checkout.Submit(ctx, "tok")
	require.NoError(t, err)
	require.Len(t, receipt.Items, 1)
	assert.Equal(t, int64(1), receipt.Items[0].ProductID)

	lines := f.cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(2), lines[0].ProductID)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestCheckout_SucceedsWhenCartUpdateFails(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t)
	require.NoError(t, f.cart.AddItem(ctx, product(1, "10")))
	f.repo.failSave = true

	receipt, err := f.checkout.Submit(ctx, "tok")
	require.NoError(t, err)
	assert.NotNil(t, receipt)
	assert.Equal(t, services.CheckoutSucceeded, f.checkout.State())
}

func TestCheckoutState_String(t *testing.T) {
	assert.Equal(t, "idle", services.CheckoutIdle.String())
	assert.Equal(t, "submitting", services.CheckoutSubmitting.String())
	assert.Equal(t, "succeeded", services.CheckoutSucceeded.String())
	assert.Equal(t, "failed", services.CheckoutFailed.String())
}
