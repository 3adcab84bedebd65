// Package cache provides a process-wide in-memory TTL cache for the
// analytics reporting endpoints. It is a latency/cost optimization only: a
// miss always falls through to the live call, so any bug here degrades to
// "slower", never to "wrong data".
package cache

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// sweepInterval is how often expired entries are proactively evicted to
// bound memory; lookups also expire lazily.
const sweepInterval = 5 * time.Minute

// Key builds a deterministic cache key from the logical request. Parameters
// are sorted so that argument order never causes a miss or a false hit.
func Key(endpoint string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + params[k]
	}
	return fmt.Sprintf("analytics:%s:%s", endpoint, strings.Join(pairs, "&"))
}

type entry struct {
	data     interface{}
	storedAt time.Time
	ttl      time.Duration
}

// Cache is a TTL-keyed in-memory cache safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	clock   func() time.Time
}

// New creates a Cache using the wall clock.
func New() *Cache {
	return NewWithClock(time.Now)
}

// NewWithClock creates a Cache with an injectable clock so tests can advance
// time instead of sleeping.
func NewWithClock(clock func() time.Time) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		clock:   clock,
	}
}

// Get returns the cached value for key, or false if absent or expired.
// Expired entries are removed on lookup.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.clock().Sub(e.storedAt) > e.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.data, true
}

// Set stores a value under key for the given TTL. Values must not be
// mutated after Set; they are returned by reference.
func (c *Cache) Set(key string, data interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{data: data, storedAt: c.clock(), ttl: ttl}
}

// Clear removes every entry. Exposed for test isolation.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// ClearPattern removes every entry whose key contains the substring.
func (c *Cache) ClearPattern(pattern string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.Contains(k, pattern) {
			delete(c.entries, k)
		}
	}
}

// Sweep removes all expired entries.
func (c *Cache) Sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	for k, e := range c.entries {
		if now.Sub(e.storedAt) > e.ttl {
			delete(c.entries, k)
		}
	}
}

// StartSweeper runs periodic sweeps until ctx is canceled.
func (c *Cache) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Sweep()
			}
		}
	}()
}

// Stats describes the cache contents at a point in time.
type Stats struct {
	TotalEntries   int `json:"totalEntries"`
	ValidEntries   int `json:"validEntries"`
	ExpiredEntries int `json:"expiredEntries"`
}

// Stats counts valid and expired (not yet swept) entries.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	s := Stats{TotalEntries: len(c.entries)}
	for _, e := range c.entries {
		if now.Sub(e.storedAt) > e.ttl {
			s.ExpiredEntries++
		} else {
			s.ValidEntries++
		}
	}
	return s
}
