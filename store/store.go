package store

import (
	"context"
)

// Backend is a byte-oriented key-value store. Values handed to Put and
// returned from Get are owned by the caller.
type Backend interface {
	Reader
	Metrics

	// Put stores or replaces the value under key
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend; later calls return ErrStoreClosed
	Close() error
}

type Reader interface {
	// Get retrieves the value of key or ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Has checks if a key exists
	Has(ctx context.Context, key string) (bool, error)

	// Keys returns all keys
	Keys(ctx context.Context) ([]string, error)
}

// Metrics provides metrics about the store
type Metrics interface {
	// Len returns the total number of keys
	Len(ctx context.Context) (int64, error)
}
