// Package cache provides the bounded result cache shared by all resolution
// paths. Entries expire after a fixed TTL and the least-recently-accessed
// entry is evicted once capacity is reached; the two mechanisms are
// independent. Values are immutable strings, so concurrent read-then-write
// races on the same key are harmless (last write wins, worst case one
// redundant re-scan).
package cache

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// DefaultTTL is how long an entry stays valid after creation.
	DefaultTTL = 60 * time.Second
	// DefaultCapacity bounds the number of live entries.
	DefaultCapacity = 1000
	// DefaultSweepInterval is how often expired entries are proactively
	// removed. Expiry is also evaluated lazily on every read.
	DefaultSweepInterval = 5 * time.Minute
)

// keySeparator joins key parts. NUL cannot appear in reference names or
// paths, so distinct part lists can never produce the same key.
const keySeparator = "\x00"

// Key builds a deterministic cache key from an operation kind and every
// parameter that influences the operation's result.
func Key(op string, parts ...string) string {
	if len(parts) == 0 {
		return op
	}
	return op + keySeparator + strings.Join(parts, keySeparator)
}

// entry is one cached value with its bookkeeping.
type entry struct {
	value     string
	createdAt time.Time

	accessCount int64
	lastAccess  int64 // unix nanos
}

// Config controls cache sizing and expiry. Zero values take the defaults.
type Config struct {
	TTL           time.Duration
	Capacity      int
	SweepInterval time.Duration
}

// Cache is a TTL-and-capacity bounded key/value store with invalidation by
// key fragment. Safe for concurrent use.
type Cache struct {
	lru *lru.Cache[string, *entry]
	ttl time.Duration

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a Cache and starts its background sweep goroutine. Callers own
// the cache lifecycle and must Close it when done.
func New(cfg Config) *Cache {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}

	// lru.New only fails for a non-positive size, which is ruled out above.
	backing, err := lru.New[string, *entry](cfg.Capacity)
	if err != nil {
		panic(err)
	}

	c := &Cache{
		lru:  backing,
		ttl:  cfg.TTL,
		done: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.sweepLoop(cfg.SweepInterval)

	return c
}

// Get returns the cached value for key if present and unexpired.
func (c *Cache) Get(key string) (string, bool) {
	e, ok := c.lru.Get(key)
	if !ok {
		return "", false
	}
	if time.Since(e.createdAt) > c.ttl {
		c.lru.Remove(key)
		return "", false
	}
	atomic.AddInt64(&e.accessCount, 1)
	atomic.StoreInt64(&e.lastAccess, time.Now().UnixNano())
	return e.value, true
}

// Set stores value under key, evicting the least-recently-accessed entry if
// the cache is at capacity.
func (c *Cache) Set(key, value string) {
	now := time.Now()
	c.lru.Add(key, &entry{
		value:      value,
		createdAt:  now,
		lastAccess: now.UnixNano(),
	})
}

// Invalidate removes every entry whose key contains fragment. Passing a file
// path drops everything derived from that file.
func (c *Cache) Invalidate(fragment string) int {
	if fragment == "" {
		return 0
	}
	removed := 0
	for _, k := range c.lru.Keys() {
		if strings.Contains(k, fragment) {
			if c.lru.Remove(k) {
				removed++
			}
		}
	}
	return removed
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.lru.Purge()
}

// Len returns the current number of entries, expired or not.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// Close stops the sweep goroutine. The cache remains usable afterwards;
// expiry then happens only lazily on read.
func (c *Cache) Close() {
	c.stopOnce.Do(func() {
		close(c.done)
	})
	c.wg.Wait()
}

func (c *Cache) sweepLoop(interval time.Duration) {
	defer c.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

// sweep removes expired entries without refreshing their recency.
func (c *Cache) sweep() {
	for _, k := range c.lru.Keys() {
		if e, ok := c.lru.Peek(k); ok && time.Since(e.createdAt) > c.ttl {
			c.lru.Remove(k)
		}
	}
}
