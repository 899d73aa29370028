package fsaccess

import "sync/atomic"

// Counting decorates an Accessor with read counters. Tests use it to verify
// that cache invalidation really triggers fresh file reads.
type Counting struct {
	inner Accessor

	reads int64
	lists int64
	stats int64
}

// NewCounting wraps an existing accessor with counters.
func NewCounting(inner Accessor) *Counting {
	return &Counting{inner: inner}
}

func (c *Counting) Exists(path string) bool {
	atomic.AddInt64(&c.stats, 1)
	return c.inner.Exists(path)
}

func (c *Counting) IsDirectory(path string) bool {
	atomic.AddInt64(&c.stats, 1)
	return c.inner.IsDirectory(path)
}

func (c *Counting) ListEntries(path string) ([]string, error) {
	atomic.AddInt64(&c.lists, 1)
	return c.inner.ListEntries(path)
}

func (c *Counting) ReadText(path string) (string, error) {
	atomic.AddInt64(&c.reads, 1)
	return c.inner.ReadText(path)
}

// Reads returns the number of ReadText calls observed so far.
func (c *Counting) Reads() int64 {
	return atomic.LoadInt64(&c.reads)
}

// Lists returns the number of ListEntries calls observed so far.
func (c *Counting) Lists() int64 {
	return atomic.LoadInt64(&c.lists)
}
