package services

import (
	"context"
	"sync"

	apperrors "womart-storefront/errors"
	"womart-storefront/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartRepository is the persistence the cart store writes through to.
type CartRepository interface {
	GetCart(ctx context.Context, key string) ([]models.CartLine, error)
	SaveCart(ctx context.Context, key string, lines []models.CartLine) error
}

// CartStore is the single owner of one shopper's cart. Every mutation is
// written to storage before it becomes visible in memory, so the two never
// disagree once a call returns.
type CartStore struct {
	mu     sync.Mutex
	lines  []models.CartLine
	repo   CartRepository
	key    string
	logger *zap.Logger
}

// NewCartStore rehydrates the cart stored under key. Unreadable or corrupt
// data yields an empty cart.
func NewCartStore(ctx context.Context, repo CartRepository, key string, logger *zap.Logger) *CartStore {
	s := &CartStore{repo: repo, key: key, logger: logger}

	lines, err := repo.GetCart(ctx, key)
	if err != nil {
		logger.Warn("Stored cart unreadable, starting empty", zap.String("key", key), zap.Error(err))
		return s
	}
	index := make(map[int64]int, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 {
			logger.Warn("Dropping stored cart line with invalid quantity",
				zap.String("key", key), zap.Int64("product_id", l.ProductID), zap.Int("quantity", l.Quantity))
			continue
		}
		if l.UnitPrice.IsNegative() {
			logger.Warn("Dropping stored cart line with negative price",
				zap.String("key", key), zap.Int64("product_id", l.ProductID), zap.String("preco", l.UnitPrice.String()))
			continue
		}
		if i, ok := index[l.ProductID]; ok {
			s.lines[i].Quantity += l.Quantity
			continue
		}
		index[l.ProductID] = len(s.lines)
		s.lines = append(s.lines, l)
	}
	return s
}

// AddItem increments the line for product, or appends a new line with
// quantity 1.
func (s *CartStore) AddItem(ctx context.Context, product models.Product) error {
	if product.Price.IsNegative() {
		return apperrors.ErrInvalidPrice
	}
	return s.mutate(ctx, func(lines []models.CartLine) ([]models.CartLine, bool) {
		for i := range lines {
			if lines[i].ProductID == product.ID {
				lines[i].Quantity++
				return lines, true
			}
		}
		return append(lines, models.CartLine{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  1,
			Fields:    product.Fields,
		}.Clone()), true
	})
}

// RemoveItem deletes the line for productID. Absent products are ignored.
func (s *CartStore) RemoveItem(ctx context.Context, productID int64) error {
	return s.mutate(ctx, func(lines []models.CartLine) ([]models.CartLine, bool) {
		for i := range lines {
			if lines[i].ProductID == productID {
				return append(lines[:i], lines[i+1:]...), true
			}
		}
		return lines, false
	})
}

// UpdateQuantity replaces the quantity of an existing line. Quantities
// below 1 are rejected and leave the cart unchanged; unknown products are
// ignored.
func (s *CartStore) UpdateQuantity(ctx context.Context, productID int64, quantity int) error {
	if quantity < 1 {
		return apperrors.ErrInvalidQuantity
	}
	return s.mutate(ctx, func(lines []models.CartLine) ([]models.CartLine, bool) {
		for i := range lines {
			if lines[i].ProductID == productID {
				if lines[i].Quantity == quantity {
					return lines, false
				}
				lines[i].Quantity = quantity
				return lines, true
			}
		}
		return lines, false
	})
}

// Clear empties the cart.
func (s *CartStore) Clear(ctx context.Context) error {
	return s.mutate(ctx, func([]models.CartLine) ([]models.CartLine, bool) {
		return nil, true
	})
}

// RemoveOrdered takes the quantities of ordered out of the cart, dropping
// lines that reach zero. Lines added or increased after ordered was taken
// keep the difference.
func (s *CartStore) RemoveOrdered(ctx context.Context, ordered []models.CartLine) error {
	return s.mutate(ctx, func(lines []models.CartLine) ([]models.CartLine, bool) {
		if len(ordered) == 0 {
			return lines, false
		}
		taken := make(map[int64]int, len(ordered))
		for _, o := range ordered {
			taken[o.ProductID] += o.Quantity
		}
		kept := lines[:0]
		for _, l := range lines {
			l.Quantity -= taken[l.ProductID]
			if l.Quantity > 0 {
				kept = append(kept, l)
			}
		}
		return kept, true
	})
}

// Lines returns a copy of the cart in insertion order.
func (s *CartStore) Lines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneLines(s.lines)
}

// Subtotal is the sum of unitPrice x quantity over the current lines.
func (s *CartStore) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Subtotal(s.lines)
}

// Count is the total number of units in the cart.
func (s *CartStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no lines.
func (s *CartStore) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines) == 0
}

// Subtotal sums a set of lines.
func Subtotal(lines []models.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

// mutate applies fn to a copy of the lines, persists the result and swaps
// it in. fn reports whether anything changed; unchanged carts are not
// rewritten.
func (s *CartStore) mutate(ctx context.Context, fn func([]models.CartLine) ([]models.CartLine, bool)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, changed := fn(cloneLines(s.lines))
	if !changed {
		return nil
	}
	if err := s.repo.SaveCart(ctx, s.key, next); err != nil {
		s.logger.Error("Failed to persist cart", zap.String("key", s.key), zap.Error(err))
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}
	s.lines = next
	return nil
}

func cloneLines(lines []models.CartLine) []models.CartLine {
	if len(lines) == 0 {
		return nil
	}
	out := make([]models.CartLine, len(lines))
	for i, l := range lines {
		out[i] = l.Clone()
	}
	return out
}
