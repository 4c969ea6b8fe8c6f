// Package cache stores rendered artifacts so that unchanged documents are
// not drawn twice.
//
// Three backends share the [Cache] interface: [NullCache] disables caching,
// [FileCache] keeps entries as JSON files for the CLI, and [RedisCache]
// shares entries between server instances. Keys come from a [Keyer], which
// hashes the document together with every render option that changes the
// output.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// DefaultTTL is how long rendered artifacts are kept.
const DefaultTTL = 7 * 24 * time.Hour

// NullCache is the Cache behind --no-cache: every lookup misses and every
// write is dropped.
type NullCache struct{}

// NewNullCache returns a NullCache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NullCache) Delete(context.Context, string) error { return nil }

func (NullCache) Close() error { return nil }
