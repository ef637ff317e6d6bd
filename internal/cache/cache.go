// Package cache provides a TTL cache for simulation results, keyed by
// request checksum. Pass enabled=false to get a no-op cache.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/draftroom/keeper-data/internal/simulate"
)

// DefaultTTL suits interactive use: a user tweaking keeper selections
// re-runs the same few requests within minutes.
const DefaultTTL = 5 * time.Minute

// Cache is a thread-safe TTL cache of simulation results. It satisfies
// simulate.ResultCache.
type Cache struct {
	c       *gocache.Cache
	ttl     time.Duration
	enabled bool
}

// New creates a cache with the given TTL.
func New(enabled bool, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		c:       gocache.New(ttl, 2*ttl),
		ttl:     ttl,
		enabled: enabled,
	}
}

// Get retrieves a cached result by checksum.
func (c *Cache) Get(key string) (*simulate.Result, bool) {
	if !c.enabled {
		return nil, false
	}
	if v, found := c.c.Get(key); found {
		return v.(*simulate.Result), true
	}
	return nil, false
}

// Set stores a result under its checksum.
func (c *Cache) Set(key string, r *simulate.Result) {
	if !c.enabled {
		return
	}
	c.c.Set(key, r, c.ttl)
}

// Flush drops every entry.
func (c *Cache) Flush() {
	c.c.Flush()
}
