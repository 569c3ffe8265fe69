package database_test

import (
	"context"
	"os"
	"testing"
	"time"

	"womart-storefront/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs only against a real Redis: REDIS_TEST_URL=redis://localhost:6379/15
func TestRedisStorage_SetGetRemove(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("skipping redis test; set REDIS_TEST_URL to run")
	}
	ctx := context.Background()

	client, err := database.NewRedisClient(ctx, url)
	require.NoError(t, err)
	defer client.Close()

	s := database.NewRedisStorage(client, time.Minute)
	key := "test:" + t.Name()

	require.NoError(t, s.SetItem(ctx, key, "[]"))
	v, ok, err := s.GetItem(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)

	ttl, err := client.TTL(ctx, "storefront:"+key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, s.RemoveItem(ctx, key))
	_, ok, err = s.GetItem(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}
