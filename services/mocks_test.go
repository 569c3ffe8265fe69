package services_test

import (
	"context"
	"sync"

	"womart-storefront/models"
)

// --- Mock CouponFinder ---

type mockCouponFinder struct {
	findFn func(ctx context.Context, token, code string) (*models.Coupon, error)

	mu    sync.Mutex
	calls int
}

func (m *mockCouponFinder) FindCouponByCode(ctx context.Context, token, code string) (*models.Coupon, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.findFn(ctx, token, code)
}

func (m *mockCouponFinder) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// --- Mock OrderCreator ---

type mockOrderCreator struct {
	createFn func(ctx context.Context, token string, order *models.CreateOrderRequest) error

	mu     sync.Mutex
	orders []*models.CreateOrderRequest
}

func (m *mockOrderCreator) CreateOrder(ctx context.Context, token string, order *models.CreateOrderRequest) error {
	m.mu.Lock()
	m.orders = append(m.orders, order)
	m.mu.Unlock()
	if m.createFn == nil {
		return nil
	}
	return m.createFn(ctx, token, order)
}

func (m *mockOrderCreator) Orders() []*models.CreateOrderRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*models.CreateOrderRequest(nil), m.orders...)
}

// --- Mock MetricsRecorder ---

type recordedMetric struct {
	name       string
	dimensions map[string]string
}

type mockMetrics struct {
	mu      sync.Mutex
	records []recordedMetric
}

func (m *mockMetrics) RecordCount(_ context.Context, name string, dimensions map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, recordedMetric{name: name, dimensions: dimensions})
	return nil
}

func (m *mockMetrics) Count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.records {
		if r.name == name {
			n++
		}
	}
	return n
}

func couponFound(c models.Coupon) func(context.Context, string, string) (*models.Coupon, error) {
	return func(context.Context, string, string) (*models.Coupon, error) {
		return &c, nil
	}
}
