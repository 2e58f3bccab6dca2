package cache

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache defines the interface for short-lived values such as operator notices
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	Delete(key string)
	// Pop returns the value and removes it, so it is observed at most once
	Pop(key string) (any, bool)
	Clear()
}

// TTLCache implements Cache interface with time-to-live support
type TTLCache struct {
	data  *gocache.Cache
	popMu sync.Mutex
}

// New creates a new TTL cache with default cleanup interval
func New(defaultTTL time.Duration) *TTLCache {
	cleanupInterval := defaultTTL * 2
	return &TTLCache{
		data: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a value from the cache
func (c *TTLCache) Get(key string) (any, bool) {
	return c.data.Get(key)
}

// Set stores a value in the cache with the specified TTL
func (c *TTLCache) Set(key string, value any, ttl time.Duration) {
	c.data.Set(key, value, ttl)
}

// Delete removes a value from the cache
func (c *TTLCache) Delete(key string) {
	c.data.Delete(key)
}

// Pop retrieves a value and removes it from the cache
func (c *TTLCache) Pop(key string) (any, bool) {
	c.popMu.Lock()
	defer c.popMu.Unlock()

	value, ok := c.data.Get(key)
	if ok {
		c.data.Delete(key)
	}
	return value, ok
}

// Clear removes all values from the cache
func (c *TTLCache) Clear() {
	c.data.Flush()
}
