package services

import (
	"context"
	"sync"
	"time"

	"womart-storefront/database"
	"womart-storefront/models"

	"go.uber.org/zap"
)

// Shopper bundles the cart, coupon and checkout state of one storefront
// session. The explicit owner of the cart is its CartStore.
type Shopper struct {
	ID       string
	Cart     *CartStore
	Coupons  *CouponResolver
	Checkout *CheckoutSubmitter

	mu       sync.Mutex
	user     *models.Session
	lastSeen time.Time
}

// User returns the logged-in user, or nil for a guest.
func (s *Shopper) User() *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// SetUser records the logged-in user; nil logs out.
func (s *Shopper) SetUser(user *models.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user == nil {
		s.user = nil
		return
	}
	u := *user
	s.user = &u
}

func (s *Shopper) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Shopper) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen.Before(cutoff)
}

// ShopperRegistry creates shoppers on first use and keeps them in memory.
// Carts survive eviction because they live in storage.
type ShopperRegistry struct {
	repo    CartRepository
	coupons CouponFinder
	orders  OrderCreator
	metrics MetricsRecorder
	logger  *zap.Logger
	now     func() time.Time

	mu       sync.Mutex
	shoppers map[string]*Shopper
}

func NewShopperRegistry(
	repo CartRepository,
	coupons CouponFinder,
	orders OrderCreator,
	metrics MetricsRecorder,
	logger *zap.Logger,
) *ShopperRegistry {
	return &ShopperRegistry{
		repo:     repo,
		coupons:  coupons,
		orders:   orders,
		metrics:  recorderOrNop(metrics),
		logger:   logger,
		now:      time.Now,
		shoppers: make(map[string]*Shopper),
	}
}

// Get returns the shopper for sessionID, rehydrating its cart from storage
// the first time it is seen.
func (r *ShopperRegistry) Get(ctx context.Context, sessionID string) *Shopper {
	r.mu.Lock()
	s, ok := r.shoppers[sessionID]
	r.mu.Unlock()
	if ok {
		s.touch(r.now())
		return s
	}

	// load outside the lock; storage may be remote
	created := r.newShopper(ctx, sessionID)

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.shoppers[sessionID]; ok {
		s.touch(r.now())
		return s
	}
	created.touch(r.now())
	r.shoppers[sessionID] = created
	return created
}

func (r *ShopperRegistry) newShopper(ctx context.Context, sessionID string) *Shopper {
	logger := r.logger.With(zap.String("session_id", sessionID))
	cart := NewCartStore(ctx, r.repo, database.SessionCartKey(sessionID), logger)
	coupons := NewCouponResolver(r.coupons, r.metrics, logger)
	return &Shopper{
		ID:       sessionID,
		Cart:     cart,
		Coupons:  coupons,
		Checkout: NewCheckoutSubmitter(r.orders, cart, coupons, r.metrics, logger),
	}
}

// Sweep drops shoppers not seen for idle and returns how many were dropped.
func (r *ShopperRegistry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.shoppers {
		if s.Checkout.State() == CheckoutSubmitting {
			continue
		}
		if s.idleSince(cutoff) {
			delete(r.shoppers, id)
			n++
		}
	}
	return n
}

// Len is the number of shoppers held in memory.
func (r *ShopperRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.shoppers)
}

// SetClock replaces the registry clock. Tests only.
func (r *ShopperRegistry) SetClock(now func() time.Time) {
	r.now = now
}
