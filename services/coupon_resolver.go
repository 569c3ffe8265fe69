package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"womart-storefront/clients"
	apperrors "womart-storefront/errors"
	"womart-storefront/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CouponFinder looks a coupon up by its code.
type CouponFinder interface {
	FindCouponByCode(ctx context.Context, token, code string) (*models.Coupon, error)
}

// CouponResolver holds the at most one coupon applied to a shopper's cart.
//
// Lookups are serialized. State changes are versioned: a lookup whose
// version is no longer current when its response arrives is discarded, so
// the last state update wins rather than the last request sent.
type CouponResolver struct {
	finder  CouponFinder
	metrics MetricsRecorder
	logger  *zap.Logger

	resolveMu sync.Mutex

	mu      sync.Mutex
	applied *models.Coupon
	lastErr error
	version uint64
}

func NewCouponResolver(finder CouponFinder, metrics MetricsRecorder, logger *zap.Logger) *CouponResolver {
	return &CouponResolver{
		finder:  finder,
		metrics: recorderOrNop(metrics),
		logger:  logger,
	}
}

// Resolve looks code up and applies it when it exists and is active. On any
// failure the previously applied coupon stays in place and the error is
// kept for display.
func (r *CouponResolver) Resolve(ctx context.Context, token, code string) (*models.Coupon, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperrors.ErrEmptyCouponCode
	}

	r.resolveMu.Lock()
	defer r.resolveMu.Unlock()

	r.mu.Lock()
	version := r.version
	r.mu.Unlock()

	coupon, lookupErr := r.finder.FindCouponByCode(ctx, token, code)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.version != version {
		r.logger.Info("Discarding stale coupon lookup", zap.String("code", code))
		return nil, apperrors.ErrCouponSuperseded
	}

	var err error
	switch {
	case lookupErr != nil:
		if !errors.Is(lookupErr, clients.ErrNotFound) {
			r.logger.Warn("Coupon lookup failed", zap.String("code", code), zap.Error(lookupErr))
		}
		err = apperrors.Wrap(apperrors.ErrCouponNotFound, lookupErr)
	case coupon == nil || !coupon.DiscountType.Valid():
		err = apperrors.ErrCouponNotFound
	case !coupon.Active:
		err = apperrors.ErrCouponInactive
	}

	r.version++
	if err != nil {
		r.lastErr = err
		_ = r.metrics.RecordCount(ctx, MetricCouponsRejected, map[string]string{"Reason": apperrors.From(err).Message})
		return nil, err
	}

	applied := *coupon
	r.applied = &applied
	r.lastErr = nil
	_ = r.metrics.RecordCount(ctx, MetricCouponsApplied, map[string]string{"Type": string(coupon.DiscountType)})
	r.logger.Info("Coupon applied", zap.String("code", applied.Code), zap.String("type", string(applied.DiscountType)))

	out := applied
	return &out, nil
}

// Remove clears the applied coupon and any error state.
func (r *CouponResolver) Remove() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applied = nil
	r.lastErr = nil
	r.version++
}

// Applied returns a copy of the applied coupon, or nil.
func (r *CouponResolver) Applied() *models.Coupon {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.applied == nil {
		return nil
	}
	c := *r.applied
	return &c
}

// LastError is the error of the most recent failed resolution, cleared by a
// successful one or by Remove.
func (r *CouponResolver) LastError() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// Totals prices subtotal with the currently applied coupon.
func (r *CouponResolver) Totals(subtotal decimal.Decimal) models.Totals {
	return ComputeTotals(subtotal, r.Applied())
}
