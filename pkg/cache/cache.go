// Package cache memoizes settled layouts, rendered artifacts and remote
// datasets.
//
// A headless settle is deterministic for a given dataset, view options and
// configuration, so its snapshot can be stored under a key derived from all
// three and reused by later `layout` and `render` runs. Interactive views
// never read from the cache.
//
// # Backends
//
//   - [FileCache]: snappy-compressed entries under the XDG cache directory
//   - [RedisCache]: a shared Redis instance, for CI runners that share results
//   - [NullCache]: stores nothing; used by --no-cache
//
// [Observed] wraps any backend and reports hits, misses and writes to the
// observability cache hooks.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
	TTLSource   = time.Hour
)

// Cache stores opaque byte values by key.
type Cache interface {
	// Get returns the value for key. A miss is reported by ok == false with a
	// nil error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
