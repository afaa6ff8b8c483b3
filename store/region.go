package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/axmq/props/encoding"
	"github.com/axmq/props/pkg/logger"
)

// Record is the persisted form of a property set. Region holds the exact
// bytes Pack produced so a load goes through the same validation as a
// packet read from the wire.
type Record struct {
	PacketType encoding.PacketType `cbor:"1,keyasint"`
	Region     []byte              `cbor:"2,keyasint"`
	SavedAt    time.Time           `cbor:"3,keyasint"`
}

var recordEncMode = func() cbor.EncMode {
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	em, err := opts.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// RegionStoreConfig configures a RegionStore
type RegionStoreConfig struct {
	Backend Backend       // Required
	Logger  logger.Logger // Optional: defaults to logger.Nop()
}

// RegionStore persists property sets, such as Will or retained message
// properties, keyed by an application chosen string.
type RegionStore struct {
	backend Backend
	log     logger.Logger
	now     func() time.Time
}

// NewRegionStore creates a RegionStore on top of config.Backend
func NewRegionStore(config RegionStoreConfig) *RegionStore {
	log := config.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &RegionStore{
		backend: config.Backend,
		log:     log,
		now:     time.Now,
	}
}

// Save packs props and stores it under key
func (s *RegionStore) Save(ctx context.Context, key string, props *encoding.Properties) error {
	if props == nil {
		return errors.New("store: nil properties")
	}

	region, err := props.Pack()
	if err != nil {
		return fmt.Errorf("pack properties for %q: %w", key, err)
	}

	data, err := recordEncMode.Marshal(Record{
		PacketType: props.PacketType(),
		Region:     region,
		SavedAt:    s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal record for %q: %w", key, err)
	}

	if err := s.backend.Put(ctx, key, data); err != nil {
		return err
	}

	s.log.Debug("properties saved",
		"key", key,
		"packet_type", props.PacketType().String(),
		"bytes", len(region))
	return nil
}

// LoadRecord returns the stored record under key without decoding its region
func (s *RegionStore) LoadRecord(ctx context.Context, key string) (Record, error) {
	data, err := s.backend.Get(ctx, key)
	if err != nil {
		return Record{}, err
	}

	var rec Record
	if err := cbor.Unmarshal(data, &rec); err != nil {
		s.log.Warn("corrupt properties record", "key", key, "error", err)
		return Record{}, fmt.Errorf("%w: %s: %w", ErrCorruptRecord, key, err)
	}
	return rec, nil
}

// Load decodes the property set stored under key
func (s *RegionStore) Load(ctx context.Context, key string) (*encoding.Properties, error) {
	rec, err := s.LoadRecord(ctx, key)
	if err != nil {
		return nil, err
	}

	props, n, err := encoding.Unpack(rec.PacketType, rec.Region)
	if err == nil && n != len(rec.Region) {
		err = fmt.Errorf("%d trailing bytes after properties", len(rec.Region)-n)
	}
	if err != nil {
		s.log.Warn("corrupt properties region",
			"key", key,
			"packet_type", rec.PacketType.String(),
			"error", err)
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptRecord, key, err)
	}

	s.log.Debug("properties loaded", "key", key, "count", props.Len())
	return props, nil
}

// Delete removes the property set stored under key
func (s *RegionStore) Delete(ctx context.Context, key string) error {
	if err := s.backend.Delete(ctx, key); err != nil {
		return err
	}
	s.log.Debug("properties deleted", "key", key)
	return nil
}

// Exists checks if a property set is stored under key
func (s *RegionStore) Exists(ctx context.Context, key string) (bool, error) {
	return s.backend.Has(ctx, key)
}

// Keys returns all stored keys
func (s *RegionStore) Keys(ctx context.Context) ([]string, error) {
	return s.backend.Keys(ctx)
}

// Count returns the number of stored property sets
func (s *RegionStore) Count(ctx context.Context) (int64, error) {
	return s.backend.Len(ctx)
}

// Close closes the backend
func (s *RegionStore) Close() error {
	return s.backend.Close()
}
