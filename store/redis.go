package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend is a Redis-based Backend. Keys are tracked in an index set
// so Keys and Len do not need SCAN.
type RedisBackend struct {
	client *redis.Client
	mu     sync.RWMutex
	closed bool
	ttl    time.Duration // Optional TTL for keys
	prefix string
	index  string // Set key for indexing all keys
}

// RedisConfig configures the Redis backend
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // Optional prefix for keys (e.g., "will:", "retained:")
	TTL      time.Duration // Optional: TTL for keys (0 = no TTL)
	Options  *redis.Options
}

// NewRedisBackend connects to Redis and verifies the connection
func NewRedisBackend(config RedisConfig) (*RedisBackend, error) {
	var client *redis.Client

	if config.Options != nil {
		client = redis.NewClient(config.Options)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:     config.Addr,
			Password: config.Password,
			DB:       config.DB,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	prefix := config.Prefix
	if prefix == "" {
		prefix = "props:"
	}

	return &RedisBackend{
		client: client,
		ttl:    config.TTL,
		prefix: prefix,
		index:  prefix + "index",
	}, nil
}

// makeKey creates a Redis key with the prefix
func (r *RedisBackend) makeKey(key string) string {
	return r.prefix + key
}

// check must be called with mu held for the whole operation, so Close
// cannot release the client underneath it.
func (r *RedisBackend) check(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if r.closed {
		return ErrStoreClosed
	}
	return nil
}

// Put stores or updates a value
func (r *RedisBackend) Put(ctx context.Context, key string, value []byte) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if err := r.check(ctx); err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.makeKey(key), value, r.ttl)
	pipe.SAdd(ctx, r.index, key)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save value: %w", err)
	}
	return nil
}

// Get retrieves a value by key. A key whose TTL expired is dropped from the
// index on the way out.
func (r *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if err := r.check(ctx); err != nil {
		return nil, err
	}

	data, err := r.client.Get(ctx, r.makeKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.client.SRem(ctx, r.index, key)
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load value: %w", err)
	}

	return data, nil
}

// Delete removes a value
func (r *RedisBackend) Delete(ctx context.Context, key string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if err := r.check(ctx); err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.makeKey(key))
	pipe.SRem(ctx, r.index, key)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete value: %w", err)
	}
	return nil
}

// Has checks if a key exists
func (r *RedisBackend) Has(ctx context.Context, key string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if err := r.check(ctx); err != nil {
		return false, err
	}

	count, err := r.client.Exists(ctx, r.makeKey(key)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}

	return count > 0, nil
}

// Keys returns all indexed keys
func (r *RedisBackend) Keys(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if err := r.check(ctx); err != nil {
		return nil, err
	}

	keys, err := r.client.SMembers(ctx, r.index).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	return keys, nil
}

// Close closes the backend
func (r *RedisBackend) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrStoreClosed
	}

	r.closed = true
	return r.client.Close()
}

// Len returns the number of indexed keys
func (r *RedisBackend) Len(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if err := r.check(ctx); err != nil {
		return 0, err
	}

	count, err := r.client.SCard(ctx, r.index).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}

	return count, nil
}
