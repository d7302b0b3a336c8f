// Package cache implements the bounded detection cache: LRU-ordered entries
// keyed by canonical root path, with at most one computation in flight per
// key so concurrent callers for the same root share a single cold scan.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// Cache is a thread-safe, bounded cache of computed values. On overflow it
// evicts the least-recently-accessed quarter of entries rather than one at a
// time, so a burst of fresh roots does not thrash the hot set. Entries are
// invalidated only by Clear; the cache never watches for staleness.
type Cache[V any] struct {
	entries *lru.Cache[string, V]
	group   singleflight.Group
	size    int
}

// New creates a Cache holding at most size entries. Panics only if size < 1,
// which is a programming error.
func New[V any](size int) *Cache[V] {
	entries, err := lru.New[string, V](size)
	if err != nil {
		panic(err)
	}
	return &Cache[V]{entries: entries, size: size}
}

// Get returns the cached value for key, marking it recently used.
func (c *Cache[V]) Get(key string) (V, bool) {
	return c.entries.Get(key)
}

// GetOrCompute returns the cached value for key, or computes it. Concurrent
// callers for the same key share one compute call; all of them receive the
// same value or the same error. Errors are not cached.
func (c *Cache[V]) GetOrCompute(key string, compute func() (V, error)) (V, error) {
	if v, ok := c.entries.Get(key); ok {
		return v, nil
	}
	v, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check under the flight: a concurrent caller may have stored
		// the value between our miss and this callback.
		if v, ok := c.entries.Get(key); ok {
			return v, nil
		}
		v, err := compute()
		if err != nil {
			return v, err
		}
		c.add(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

// add stores a value, first evicting ~25% of entries if the cache is full.
func (c *Cache[V]) add(key string, value V) {
	if c.entries.Len() >= c.size {
		evict := c.size / 4
		if evict < 1 {
			evict = 1
		}
		// Keys are ordered oldest to newest.
		for _, k := range c.entries.Keys()[:evict] {
			c.entries.Remove(k)
		}
	}
	c.entries.Add(key, value)
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	return c.entries.Len()
}

// Clear removes all entries. This is the only invalidation mechanism.
func (c *Cache[V]) Clear() {
	c.entries.Purge()
}
