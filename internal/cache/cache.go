// Package cache provides a small TTL cache used to avoid re-fetching and
// re-parsing API description documents within a session.
package cache

import (
	"sync"
	"time"
)

// entry wraps a cached value with expiry and insertion order tracking.
type entry struct {
	value     any
	expiry    time.Time
	insertIdx int64
}

// Cache is a TTL cache with a bounded entry count.
// Thread-safe with sync.RWMutex.
type Cache struct {
	mu         sync.RWMutex
	items      map[string]entry
	ttl        time.Duration
	maxEntries int
	nextIdx    int64
}

// New creates a new Cache with the given TTL and max entry count.
func New(ttl time.Duration, maxEntries int) *Cache {
	return &Cache{
		items:      make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

// Get returns a cached value if found and not expired.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if time.Now().After(e.expiry) {
		// Expired: remove lazily
		c.mu.Lock()
		if e2, ok2 := c.items[key]; ok2 && time.Now().After(e2.expiry) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

// Set stores a value in the cache. Evicts the oldest entry if at capacity.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{
		value:     value,
		expiry:    time.Now().Add(c.ttl),
		insertIdx: c.nextIdx,
	}
	c.nextIdx++

	// If key already exists, update in place (no capacity change)
	if _, exists := c.items[key]; exists {
		c.items[key] = e
		return
	}

	// Evict oldest if at capacity
	if len(c.items) >= c.maxEntries {
		c.evictOldest()
	}

	c.items[key] = e
}

// Invalidate removes one entry.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// evictOldest removes the entry with the lowest insertIdx. Must be called with mu held.
func (c *Cache) evictOldest() {
	var oldestKey string
	var oldestIdx int64 = -1

	for key, e := range c.items {
		if oldestIdx == -1 || e.insertIdx < oldestIdx {
			oldestIdx = e.insertIdx
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}
