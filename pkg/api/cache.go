package api

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// queryCacheSize bounds the number of cached query responses.
const queryCacheSize = 256

// queryCache memoizes encoded GET responses keyed by request URI, so
// distinct query parameters cache independently. Every successful
// ingest purges it; entries also expire after the configured TTL.
type queryCache struct {
	cache *lru.LRU[string, []byte]
}

// newQueryCache creates an LRU cache with TTL support.
func newQueryCache(size int, ttl time.Duration) *queryCache {
	return &queryCache{
		cache: lru.NewLRU[string, []byte](size, nil, ttl),
	}
}

// get retrieves a cached response body.
func (c *queryCache) get(key string) ([]byte, bool) {
	return c.cache.Get(key)
}

// set stores a response body.
func (c *queryCache) set(key string, body []byte) {
	c.cache.Add(key, body)
}

// purge removes every cached response. Since we can't pattern-match
// keys in the LRU cache, ingest invalidation clears everything.
func (c *queryCache) purge() {
	c.cache.Purge()
}

// len reports the number of live entries.
func (c *queryCache) len() int {
	return c.cache.Len()
}
