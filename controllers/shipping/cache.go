package shippingControllers

import (
	"sync"
	"time"
)

// RateCache caches rate-API responses. Injectable so tests (and a future
// multi-instance deployment) can swap the in-memory implementation out.
type RateCache interface {
	Get(key string) ([]Rate, bool)
	Set(key string, rates []Rate, ttl time.Duration)
}

type cacheEntry struct {
	rates     []Rate
	expiresAt time.Time
}

type memoryRateCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// NewMemoryRateCache returns a process-local TTL cache.
func NewMemoryRateCache() RateCache {
	return &memoryRateCache{entries: make(map[string]cacheEntry)}
}

func (c *memoryRateCache) Get(key string) ([]Rate, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return entry.rates, true
}

func (c *memoryRateCache) Set(key string, rates []Rate, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{rates: rates, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}
