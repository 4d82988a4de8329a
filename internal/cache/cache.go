// Package cache is a typed wrapper over an in-process TTL cache.
package cache

import (
	"log/slog"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	DefaultExpiration      = 5 * time.Minute
	DefaultCleanupInterval = 10 * time.Minute
)

// Cache maps int keys to values of type V
type Cache[V any] struct {
	name  string
	cache *gocache.Cache
}

// New creates a cache. name only appears in log lines.
func New[V any](name string, defaultExpiration, cleanupInterval time.Duration) *Cache[V] {
	return &Cache[V]{
		name:  name,
		cache: gocache.New(defaultExpiration, cleanupInterval),
	}
}

func key(id int) string {
	return strconv.Itoa(id)
}

// Get returns the cached value for id
func (c *Cache[V]) Get(id int) (V, bool) {
	var zero V

	value, found := c.cache.Get(key(id))
	if !found {
		return zero, false
	}

	v, ok := value.(V)
	if !ok {
		slog.Error("wrong type in cache", "cache", c.name, "key", id)
		return zero, false
	}
	return v, true
}

// Set stores a value with the default expiration
func (c *Cache[V]) Set(id int, value V) {
	c.cache.SetDefault(key(id), value)
}

// Delete removes the given ids
func (c *Cache[V]) Delete(ids ...int) {
	for _, id := range ids {
		c.cache.Delete(key(id))
	}
}

// Flush removes everything
func (c *Cache[V]) Flush() {
	c.cache.Flush()
}

// Len reports the number of cached entries, expired ones included
func (c *Cache[V]) Len() int {
	return c.cache.ItemCount()
}
