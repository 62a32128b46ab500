package search

import (
	"context"
	"time"

	"github.com/ppiankov/slant/internal/cache"
	"github.com/ppiankov/slant/internal/model"
)

// Cached decorates a provider with a result cache. Only non-empty results
// are stored so an empty answer is always retried.
type Cached struct {
	Provider
	cache cache.Cache
	ttl   time.Duration
}

// NewCached wraps p. A nil cache or non-positive ttl returns p unchanged.
func NewCached(p Provider, c cache.Cache, ttl time.Duration) Provider {
	if c == nil || ttl <= 0 {
		return p
	}
	return &Cached{Provider: p, cache: c, ttl: ttl}
}

// Lookup returns cached evidence for query without calling the provider
func (c *Cached) Lookup(query string) ([]model.Evidence, bool) {
	return c.cache.Get(cache.Key(c.Name(), query))
}

// Search serves from cache when possible and stores non-empty results
func (c *Cached) Search(ctx context.Context, query string) ([]model.Evidence, error) {
	if ev, ok := c.Lookup(query); ok {
		return ev, nil
	}

	ev, err := c.Provider.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(ev) > 0 {
		c.cache.Set(cache.Key(c.Name(), query), ev, c.ttl)
	}
	return ev, nil
}
