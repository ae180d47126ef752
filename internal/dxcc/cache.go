package dxcc

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Resolver resolves callsigns to DXCC entities.
type Resolver interface {
	Resolve(call string, includeDeleted bool) (Match, bool)
}

type cacheKey struct {
	call           string
	includeDeleted bool
}

type cachedMatch struct {
	match Match
	ok    bool
}

// CachedResolver wraps a Resolver with an LRU cache. Misses are cached too:
// the index behind it never changes.
type CachedResolver struct {
	inner Resolver
	cache *lru.Cache[cacheKey, cachedMatch]
}

// NewCachedResolver creates a cache decorator holding up to maxEntries calls.
func NewCachedResolver(inner Resolver, maxEntries int) (*CachedResolver, error) {
	c, err := lru.New[cacheKey, cachedMatch](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("create dxcc cache: %w", err)
	}
	return &CachedResolver{inner: inner, cache: c}, nil
}

func (c *CachedResolver) Resolve(call string, includeDeleted bool) (Match, bool) {
	key := cacheKey{call: normalizeCall(call), includeDeleted: includeDeleted}
	if v, ok := c.cache.Get(key); ok {
		return v.match, v.ok
	}
	m, ok := c.inner.Resolve(key.call, includeDeleted)
	c.cache.Add(key, cachedMatch{match: m, ok: ok})
	return m, ok
}

// Len reports the number of cached calls.
func (c *CachedResolver) Len() int {
	return c.cache.Len()
}
