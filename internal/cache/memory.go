package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ppiankov/slant/internal/model"
)

// MemoryCache implements in-process TTL caching. Nothing is written to disk.
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a new memory cache
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a copy of the cached evidence
func (c *MemoryCache) Get(key string) ([]model.Evidence, bool) {
	val, found := c.cache.Get(key)
	if !found {
		return nil, false
	}
	evidence, ok := val.([]model.Evidence)
	if !ok {
		return nil, false
	}
	return append([]model.Evidence(nil), evidence...), true
}

// Set stores a copy of value. A zero ttl uses the cache default.
func (c *MemoryCache) Set(key string, value []model.Evidence, ttl time.Duration) {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	c.cache.Set(key, append([]model.Evidence(nil), value...), ttl)
}
