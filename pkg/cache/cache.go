// Package cache provides byte-oriented caches for platform reference data.
//
// Platform clients cache slow-changing lookup tables (CurseForge game
// versions, Modrinth loader tags, project ids resolved from slugs) so that
// repeated publishes do not refetch them. Backends:
//
//   - [FileCache]: one JSON file per entry, for CLI usage
//   - [RedisCache]: shared across CI runners
//   - [MemoryCache]: process-lifetime, used by tests and one-shot runs
//   - [NullCache]: caching disabled
//
// Use [Scoped] to give each platform its own key space.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque values under string keys.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A miss is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
