package database_test

import (
	"context"
	"encoding/json"
	"testing"

	"womart-storefront/database"
	"womart-storefront/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartRepository_RoundTripKeepsProductFields(t *testing.T) {
	ctx := context.Background()
	storage := database.NewMemoryStorage()
	repo := database.NewCartRepository(storage)

	lines := []models.CartLine{{
		ProductID: 1,
		Name:      "Cadeira",
		UnitPrice: decimal.RequireFromString("2859.99"),
		Quantity:  2,
		Fields:    map[string]json.RawMessage{"categoria": json.RawMessage(`"Casa"`)},
	}}
	require.NoError(t, repo.SaveCart(ctx, database.CartStorageKey, lines))

	got, err := repo.GetCart(ctx, database.CartStorageKey)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ProductID)
	assert.Equal(t, "Cadeira", got[0].Name)
	assert.True(t, got[0].UnitPrice.Equal(decimal.RequireFromString("2859.99")))
	assert.Equal(t, 2, got[0].Quantity)
	assert.JSONEq(t, `"Casa"`, string(got[0].Fields["categoria"]))
}

func TestCartRepository_StoredLayout(t *testing.T) {
	ctx := context.Background()
	storage := database.NewMemoryStorage()
	repo := database.NewCartRepository(storage)

	require.NoError(t, repo.SaveCart(ctx, "k", []models.CartLine{{
		ProductID: 7,
		Name:      "Mesa",
		UnitPrice: decimal.NewFromInt(1000),
		Quantity:  3,
		Fields:    map[string]json.RawMessage{"imagem": json.RawMessage(`"mesa.png"`)},
	}}))

	raw, ok, err := storage.GetItem(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":7,"nome":"Mesa","preco":1000,"quantity":3,"imagem":"mesa.png"}]`, raw)
}

func TestCartRepository_EmptyCartIsStoredAsArray(t *testing.T) {
	ctx := context.Background()
	storage := database.NewMemoryStorage()
	repo := database.NewCartRepository(storage)

	require.NoError(t, repo.SaveCart(ctx, "k", nil))
	raw, _, _ := storage.GetItem(ctx, "k")
	assert.Equal(t, "[]", raw)
}

func TestCartRepository_MissingKey(t *testing.T) {
	repo := database.NewCartRepository(database.NewMemoryStorage())

	lines, err := repo.GetCart(context.Background(), "absent")
	assert.NoError(t, err)
	assert.Nil(t, lines)
}

func TestCartRepository_CorruptData(t *testing.T) {
	ctx := context.Background()
	storage := database.NewMemoryStorage()
	_ = storage.SetItem(ctx, "k", "{not json")

	_, err := database.NewCartRepository(storage).GetCart(ctx, "k")
	assert.Error(t, err)
}

func TestCartRepository_LineWithoutQuantityIsRejected(t *testing.T) {
	ctx := context.Background()
	storage := database.NewMemoryStorage()
	_ = storage.SetItem(ctx, "k", `[{"id":1,"nome":"x","preco":10}]`)

	_, err := database.NewCartRepository(storage).GetCart(ctx, "k")
	assert.Error(t, err)
}

func TestSessionCartKey(t *testing.T) {
	assert.Equal(t, "womart_cart:abc", database.SessionCartKey("abc"))
}
