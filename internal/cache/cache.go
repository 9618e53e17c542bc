// Package cache provides the request memoization layer: an in-memory TTL
// cache with tag-based invalidation. The acquisition pipeline never depends
// on the cache being present; a nil *Cache disables memoization entirely.
package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"vitidata/internal/models"
)

// entry is one cached result with its expiry and tag set.
type entry struct {
	value     models.AcquisitionResult
	expiresAt time.Time
	tags      []string
}

// Cache is a thread-safe TTL cache keyed by request identity.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	prefix  string

	hits   uint64
	misses uint64
}

// New creates a cache with the given default TTL and key prefix.
func New(ttlSeconds int, prefix string) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		ttl:     time.Duration(ttlSeconds) * time.Second,
		prefix:  prefix,
	}
}

// Key builds the deterministic cache key for a request shape. Identical
// (category, subcategory, year) triples always produce identical keys.
func (c *Cache) Key(category, subcategory string, year int) string {
	prefix := "vitidata"
	if c != nil && c.prefix != "" {
		prefix = c.prefix
	}

	return fmt.Sprintf("%s:%s:%s:%d", prefix, category, subcategory, year)
}

// Get returns the cached result for key, if present and not expired.
func (c *Cache) Get(key string) (models.AcquisitionResult, bool) {
	if c == nil {
		return models.AcquisitionResult{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++

		return models.AcquisitionResult{}, false
	}

	if time.Now().After(e.expiresAt) {
		delete(c.entries, key)
		c.misses++

		return models.AcquisitionResult{}, false
	}

	c.hits++

	return e.value, true
}

// Set stores a result under key with the given tags. ttl == 0 uses the
// cache's default TTL.
func (c *Cache) Set(key string, value models.AcquisitionResult, ttl time.Duration, tags ...string) {
	if c == nil {
		return
	}

	if ttl == 0 {
		ttl = c.ttl
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
		tags:      tags,
	}
}

// InvalidateTag removes every entry carrying the given tag and returns the
// number of entries removed.
func (c *Cache) InvalidateTag(tag string) int {
	if c == nil {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0

	for key, e := range c.entries {
		for _, t := range e.tags {
			if t == tag {
				delete(c.entries, key)
				removed++

				break
			}
		}
	}

	return removed
}

// InvalidatePrefix removes every entry whose key starts with prefix and
// returns the number of entries removed.
func (c *Cache) InvalidatePrefix(prefix string) int {
	if c == nil {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0

	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
			removed++
		}
	}

	return removed
}

// Stats reports cache effectiveness counters.
type Stats struct {
	Entries int    `json:"entries"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
}

// GetStats returns a snapshot of the cache counters.
func (c *Cache) GetStats() Stats {
	if c == nil {
		return Stats{}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return Stats{
		Entries: len(c.entries),
		Hits:    c.hits,
		Misses:  c.misses,
	}
}
