package infrastructure

import (
	"sync"
	"time"
)

// tokenCache keeps provider bearer tokens per venue point id for a bounded
// lifetime. It is a latency optimization only: a miss, an expired entry or
// a lost race all fall through to a network fetch, last write wins.
type tokenCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[int]tokenCacheEntry
}

type tokenCacheEntry struct {
	token    string
	cachedAt time.Time
}

func newTokenCache(ttl time.Duration) *tokenCache {
	return &tokenCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[int]tokenCacheEntry),
	}
}

func (c *tokenCache) get(pointID int) (string, bool) {
	c.mu.RLock()
	entry, ok := c.entries[pointID]
	c.mu.RUnlock()
	if !ok || c.now().Sub(entry.cachedAt) >= c.ttl {
		return "", false
	}
	return entry.token, true
}

func (c *tokenCache) set(pointID int, token string) {
	if token == "" {
		return
	}
	c.mu.Lock()
	c.entries[pointID] = tokenCacheEntry{token: token, cachedAt: c.now()}
	c.mu.Unlock()
}

func (c *tokenCache) invalidate(pointID int) {
	c.mu.Lock()
	delete(c.entries, pointID)
	c.mu.Unlock()
}
