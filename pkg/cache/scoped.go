package cache

import (
	"context"
	"time"
)

// ScopedCache prefixes every key of an inner cache.
// Platform clients use it to keep their entries apart:
//
//	cf := cache.Scoped(c, "curseforge:")
//	mr := cache.Scoped(c, "modrinth:")
//	cf.Set(ctx, "versions", data, ttl) // stored as "curseforge:versions"
type ScopedCache struct {
	inner  Cache
	prefix string
}

// Scoped returns a view of inner whose keys are prefixed with prefix.
// A nil inner is replaced by a [NullCache]. Scoped views can be nested;
// prefixes accumulate.
func Scoped(inner Cache, prefix string) Cache {
	if inner == nil {
		inner = NewNullCache()
	}
	if s, ok := inner.(*ScopedCache); ok {
		return &ScopedCache{inner: s.inner, prefix: s.prefix + prefix}
	}
	return &ScopedCache{inner: inner, prefix: prefix}
}

// Get retrieves a prefixed key from the inner cache.
func (c *ScopedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return c.inner.Get(ctx, c.prefix+key)
}

// Set stores a prefixed key in the inner cache.
func (c *ScopedCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, c.prefix+key, data, ttl)
}

// Delete removes a prefixed key from the inner cache.
func (c *ScopedCache) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, c.prefix+key)
}

// Close does nothing; the inner cache is owned by the caller.
func (c *ScopedCache) Close() error {
	return nil
}

var _ Cache = (*ScopedCache)(nil)
