package store

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"github.com/cockroachdb/pebble"
)

// PebbleBackend is a Pebble-based Backend
type PebbleBackend struct {
	db     *pebble.DB
	mu     sync.RWMutex
	closed bool
	prefix []byte
	upper  []byte
}

// PebbleConfig configures the Pebble backend
type PebbleConfig struct {
	Path   string
	Prefix string // Optional prefix for keys (useful when sharing a DB)
	Opts   *pebble.Options
}

// NewPebbleBackend opens or creates the database at config.Path
func NewPebbleBackend(config PebbleConfig) (*PebbleBackend, error) {
	opts := config.Opts
	if opts == nil {
		opts = &pebble.Options{
			ErrorIfExists: false,
		}
	}

	db, err := pebble.Open(config.Path, opts)
	if err != nil {
		return nil, err
	}

	prefix := []byte(config.Prefix)
	if len(prefix) == 0 {
		prefix = []byte("props:")
	}

	return &PebbleBackend{
		db:     db,
		prefix: prefix,
		upper:  keyUpperBound(prefix),
	}, nil
}

// keyUpperBound returns the smallest key greater than every key with prefix.
func keyUpperBound(prefix []byte) []byte {
	end := bytes.Clone(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

// makeKey creates a key with the prefix
func (p *PebbleBackend) makeKey(key string) []byte {
	fullKey := make([]byte, len(p.prefix)+len(key))
	copy(fullKey, p.prefix)
	copy(fullKey[len(p.prefix):], key)
	return fullKey
}

// check must be called with mu held for the whole operation, so Close
// cannot release the database underneath it.
func (p *PebbleBackend) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if p.closed {
		return ErrStoreClosed
	}
	return nil
}

// Put stores or updates a value
func (p *PebbleBackend) Put(ctx context.Context, key string, value []byte) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if err := p.check(ctx); err != nil {
		return err
	}
	return p.db.Set(p.makeKey(key), value, pebble.Sync)
}

// Get retrieves a value by key
func (p *PebbleBackend) Get(ctx context.Context, key string) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if err := p.check(ctx); err != nil {
		return nil, err
	}

	data, closer, err := p.db.Get(p.makeKey(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer closer.Close()

	// data is only valid until closer is closed
	return bytes.Clone(data), nil
}

// Delete removes a value
func (p *PebbleBackend) Delete(ctx context.Context, key string) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if err := p.check(ctx); err != nil {
		return err
	}
	return p.db.Delete(p.makeKey(key), pebble.Sync)
}

// Has checks if a key exists
func (p *PebbleBackend) Has(ctx context.Context, key string) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if err := p.check(ctx); err != nil {
		return false, err
	}

	_, closer, err := p.db.Get(p.makeKey(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	closer.Close()
	return true, nil
}

// scan calls fn with every key under the prefix, prefix stripped.
func (p *PebbleBackend) scan(fn func(key []byte)) error {
	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: p.prefix,
		UpperBound: p.upper,
	})
	if err != nil {
		return err
	}

	for iter.First(); iter.Valid(); iter.Next() {
		fn(iter.Key()[len(p.prefix):])
	}

	if err := iter.Error(); err != nil {
		iter.Close()
		return err
	}
	return iter.Close()
}

// Keys returns all keys in byte order
func (p *PebbleBackend) Keys(ctx context.Context) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if err := p.check(ctx); err != nil {
		return nil, err
	}

	var keys []string
	if err := p.scan(func(key []byte) {
		keys = append(keys, string(key))
	}); err != nil {
		return nil, err
	}
	return keys, nil
}

// Close closes the backend
func (p *PebbleBackend) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrStoreClosed
	}

	p.closed = true
	return p.db.Close()
}

// Len returns the total number of keys
func (p *PebbleBackend) Len(ctx context.Context) (int64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if err := p.check(ctx); err != nil {
		return 0, err
	}

	var count int64
	if err := p.scan(func([]byte) { count++ }); err != nil {
		return 0, err
	}
	return count, nil
}
