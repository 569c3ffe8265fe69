package database

import (
	"context"
	"fmt"
	"time"
)

// LocalStorage is the durable key/value store that backs a shopper's cart,
// modelled on the browser localStorage API.
type LocalStorage interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Options selects and configures a storage backend.
type Options struct {
	Backend    string
	SQLitePath string
	RedisURL   string
	RedisTTL   time.Duration
}

// Open builds the storage backend named in opts. The returned close func
// releases the underlying connection.
func Open(ctx context.Context, opts Options) (LocalStorage, func() error, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemoryStorage(), func() error { return nil }, nil
	case BackendSQLite:
		s, err := NewSQLiteStorage(opts.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case BackendRedis:
		client, err := NewRedisClient(ctx, opts.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return NewRedisStorage(client, opts.RedisTTL), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
