package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient parses redisURL and checks the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// RedisStorage stores items as plain string keys that expire after ttl
// without a write. A zero ttl keeps them forever.
type RedisStorage struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStorage(client *redis.Client, ttl time.Duration) *RedisStorage {
	return &RedisStorage{
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisStorage) getKey(key string) string {
	return "storefront:" + key
}

func (r *RedisStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, r.getKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *RedisStorage) SetItem(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, r.getKey(key), value, r.ttl).Err()
}

func (r *RedisStorage) RemoveItem(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.getKey(key)).Err()
}
