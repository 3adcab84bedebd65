package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests advance time deterministically instead of sleeping.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestCache() (*Cache, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	return NewWithClock(clock.Now), clock
}

func TestGetSetWithinTTL(t *testing.T) {
	c, clock := newTestCache()

	c.Set("k", "v", time.Second)
	clock.Advance(900 * time.Millisecond)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestExpiry(t *testing.T) {
	c, clock := newTestCache()

	c.Set("k", "v", time.Second)
	clock.Advance(1100 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)

	// The expired entry was removed on lookup.
	assert.Equal(t, 0, c.Stats().TotalEntries)
}

func TestKeyDeterminism(t *testing.T) {
	a := Key("overview", map[string]string{"startDate": "2026-01-01", "endDate": "2026-01-31"})
	b := Key("overview", map[string]string{"endDate": "2026-01-31", "startDate": "2026-01-01"})
	assert.Equal(t, a, b)
	assert.Equal(t, "analytics:overview:endDate=2026-01-31&startDate=2026-01-01", a)
}

func TestKeyDistinguishesEndpoints(t *testing.T) {
	params := map[string]string{"startDate": "2026-01-01", "endDate": "2026-01-31"}
	assert.NotEqual(t, Key("overview", params), Key("traffic", params))
}

func TestSweep(t *testing.T) {
	c, clock := newTestCache()

	c.Set("old", 1, time.Second)
	clock.Advance(2 * time.Second)
	c.Set("fresh", 2, time.Minute)

	c.Sweep()

	stats := c.Stats()
	assert.Equal(t, 1, stats.TotalEntries)
	_, ok := c.Get("fresh")
	assert.True(t, ok)
}

func TestClearPattern(t *testing.T) {
	c, _ := newTestCache()

	c.Set("analytics:overview:a=1", 1, time.Minute)
	c.Set("analytics:traffic:a=1", 2, time.Minute)

	c.ClearPattern("overview")

	_, ok := c.Get("analytics:overview:a=1")
	assert.False(t, ok)
	_, ok = c.Get("analytics:traffic:a=1")
	assert.True(t, ok)
}

func TestClear(t *testing.T) {
	c, _ := newTestCache()

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)
	c.Clear()

	assert.Equal(t, 0, c.Stats().TotalEntries)
}

func TestStatsCountsExpired(t *testing.T) {
	c, clock := newTestCache()

	c.Set("old", 1, time.Second)
	clock.Advance(2 * time.Second)
	c.Set("fresh", 2, time.Minute)

	stats := c.Stats()
	assert.Equal(t, 2, stats.TotalEntries)
	assert.Equal(t, 1, stats.ValidEntries)
	assert.Equal(t, 1, stats.ExpiredEntries)
}
