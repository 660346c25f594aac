package search

import (
	"sync"
	"time"

	"github.com/darshan-ceo/beacon-search/internal/models"
)

type cacheKey struct {
	query  string
	scope  string
	limit  int
	cursor string
}

type cacheEntry struct {
	response *models.SearchResponse
	storedAt time.Time
}

// responseCache holds assembled search responses keyed by the exact request
// tuple. Cached responses are treated as immutable; callers must not modify
// them. Never consulted for empty queries (the service short-circuits first).
type responseCache struct {
	mu      sync.Mutex
	entries map[cacheKey]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

func newResponseCache(ttl time.Duration, now func() time.Time) *responseCache {
	return &responseCache{
		entries: make(map[cacheKey]cacheEntry),
		ttl:     ttl,
		now:     now,
	}
}

func (c *responseCache) get(key cacheKey) (*models.SearchResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.response, true
}

func (c *responseCache) put(key cacheKey, response *models.SearchResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{response: response, storedAt: c.now()}
}

func (c *responseCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]cacheEntry)
}
