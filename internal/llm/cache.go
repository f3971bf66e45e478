package llm

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

const defaultCacheTTL = 10 * time.Minute

type cacheEntry struct {
	text      string
	expiresAt time.Time
}

// responseCache keeps recent model responses keyed by request body, so
// identical questions within the TTL don't hit the upstream API.
type responseCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

func newResponseCache(ttl time.Duration) *responseCache {
	return &responseCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

func cacheKey(body string) string {
	sum := sha256.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])
}

func (c *responseCache) get(body string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.entries[cacheKey(body)]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return "", false
	}
	return entry.text, true
}

func (c *responseCache) put(body, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// opportunistic sweep of expired entries
	now := time.Now()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}

	c.entries[cacheKey(body)] = cacheEntry{
		text:      text,
		expiresAt: now.Add(c.ttl),
	}
}
