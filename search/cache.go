package search

import (
	"fmt"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/andeanfly/flightdesk/domain"
)

// DefaultCacheTTL bounds how long a result set may be served from the
// client-side cache before the backend is asked again.
const DefaultCacheTTL = 5 * time.Minute

// Cache is a small client-side cache of search results keyed by search
// parameters, so flipping between recent searches does not refetch.
type Cache struct {
	cache *ttlcache.Cache[string, []domain.Flight]
}

// NewCache creates a cache with the given TTL; zero means DefaultCacheTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	cache := ttlcache.New(
		ttlcache.WithTTL[string, []domain.Flight](ttl),
		ttlcache.WithDisableTouchOnHit[string, []domain.Flight](),
	)
	go cache.Start()
	return &Cache{cache: cache}
}

// Get returns the cached results for the parameters, if still fresh.
func (c *Cache) Get(p Params) ([]domain.Flight, bool) {
	item := c.cache.Get(cacheKey(p))
	if item == nil {
		return nil, false
	}
	return item.Value(), true
}

// Set caches the results for the parameters.
func (c *Cache) Set(p Params, results []domain.Flight) {
	c.cache.Set(cacheKey(p), results, ttlcache.DefaultTTL)
}

// Clear drops every cached result set. The cache-clear admin action calls
// this after telling the backend to do the same.
func (c *Cache) Clear() {
	c.cache.DeleteAll()
}

// Stop ends the background expiry loop.
func (c *Cache) Stop() {
	c.cache.Stop()
}

func cacheKey(p Params) string {
	return fmt.Sprintf("%s|%s|%s|%s|%d", p.Origin, p.Destination, p.DepartureDate, p.ReturnDate, p.Passengers)
}
