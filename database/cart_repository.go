package database

import (
	"context"
	"encoding/json"

	"womart-storefront/models"
)

// CartStorageKey is the fixed key under which a cart is stored.
const CartStorageKey = "womart_cart"

// SessionCartKey scopes the cart key to one storefront session.
func SessionCartKey(sessionID string) string {
	return CartStorageKey + ":" + sessionID
}

// CartRepository stores a cart as one JSON array of product records with
// their quantity.
type CartRepository struct {
	storage LocalStorage
}

func NewCartRepository(storage LocalStorage) *CartRepository {
	return &CartRepository{storage: storage}
}

// GetCart returns the stored lines, or nil when nothing is stored under key.
func (r *CartRepository) GetCart(ctx context.Context, key string) ([]models.CartLine, error) {
	data, ok, err := r.storage.GetItem(ctx, key)
	if err != nil || !ok {
		return nil, err
	}

	var lines []models.CartLine
	if err := json.Unmarshal([]byte(data), &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// SaveCart rewrites the whole cart under key. An empty cart is stored as [].
func (r *CartRepository) SaveCart(ctx context.Context, key string, lines []models.CartLine) error {
	if lines == nil {
		lines = []models.CartLine{}
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return r.storage.SetItem(ctx, key, string(data))
}
