package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, cfg Config) *Cache {
	t.Helper()
	c := New(cfg)
	t.Cleanup(c.Close)
	return c
}

func TestSetAndGet(t *testing.T) {
	c := newTestCache(t, Config{})

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("k", "v")
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestGet_ExpiredEntryIsAMiss(t *testing.T) {
	c := newTestCache(t, Config{TTL: 20 * time.Millisecond})

	c.Set("k", "v")
	_, ok := c.Get("k")
	require.True(t, ok)

	time.Sleep(50 * time.Millisecond)

	_, ok = c.Get("k")
	assert.False(t, ok, "entry should have lapsed its TTL")
	assert.Zero(t, c.Len(), "lazy expiry should also remove the entry")
}

func TestCapacityEvictsLeastRecentlyAccessed(t *testing.T) {
	c := newTestCache(t, Config{Capacity: 2})

	c.Set("a", "1")
	c.Set("b", "2")

	// Touch "a" so "b" becomes the eviction candidate.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("c", "3")

	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("b")
	assert.False(t, ok, "least-recently-accessed entry should have been evicted")
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestInvalidate_RemovesMatchingKeysOnly(t *testing.T) {
	c := newTestCache(t, Config{})

	c.Set(Key("tfvars", "/ws/env/prod.tfvars", "region"), `"us-east-1"`)
	c.Set(Key("tfvars", "/ws/env/dev.tfvars", "region"), `"us-west-2"`)
	c.Set(Key("locals", "/ws/main.tf", "prefix"), `"app"`)

	removed := c.Invalidate("/ws/env/prod.tfvars")
	assert.Equal(t, 1, removed)

	_, ok := c.Get(Key("tfvars", "/ws/env/prod.tfvars", "region"))
	assert.False(t, ok)
	_, ok = c.Get(Key("tfvars", "/ws/env/dev.tfvars", "region"))
	assert.True(t, ok)
	_, ok = c.Get(Key("locals", "/ws/main.tf", "prefix"))
	assert.True(t, ok)
}

func TestInvalidate_EmptyFragmentIsANoop(t *testing.T) {
	c := newTestCache(t, Config{})
	c.Set("k", "v")

	assert.Zero(t, c.Invalidate(""))
	_, ok := c.Get("k")
	assert.True(t, ok)
}

func TestClear(t *testing.T) {
	c := newTestCache(t, Config{})
	c.Set("a", "1")
	c.Set("b", "2")

	c.Clear()
	assert.Zero(t, c.Len())
}

func TestKey_DistinctPartsNeverCollide(t *testing.T) {
	// Without a separator these two would concatenate identically.
	assert.NotEqual(t, Key("op", "ab", "c"), Key("op", "a", "bc"))
	assert.NotEqual(t, Key("op", "a"), Key("opa"))
	assert.Equal(t, Key("op", "a", "b"), Key("op", "a", "b"))
}

func TestSweep_RemovesExpiredEntries(t *testing.T) {
	c := newTestCache(t, Config{TTL: 10 * time.Millisecond, SweepInterval: time.Hour})

	c.Set("k", "v")
	time.Sleep(30 * time.Millisecond)

	// Drive the sweep directly instead of waiting for the ticker.
	c.sweep()
	assert.Zero(t, c.Len())
}

// TestConcurrentAccess verifies the cache can be used by many goroutines at
// once without lost writes on distinct keys.
func TestConcurrentAccess(t *testing.T) {
	c := newTestCache(t, Config{})
	numGoroutines := 100
	var wg sync.WaitGroup

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(i int) {
			defer wg.Done()
			key := Key("op", fmt.Sprintf("k%d", i))
			c.Set(key, fmt.Sprintf("v%d", i))
		}(i)
	}
	wg.Wait()

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(i int) {
			defer wg.Done()
			v, ok := c.Get(Key("op", fmt.Sprintf("k%d", i)))
			assert.True(t, ok)
			assert.Equal(t, fmt.Sprintf("v%d", i), v)
		}(i)
	}
	wg.Wait()
}
