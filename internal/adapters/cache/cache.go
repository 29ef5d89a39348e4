// Package cache memoizes computed reports by content address.
package cache

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/okian/roas/internal/domain/types"
	"github.com/okian/roas/pkg/metrics"
)

// ReportCache stores reports keyed by the hash of their full input.
type ReportCache interface {
	// Get returns the cached report for key, if any.
	Get(ctx context.Context, key uint64) (types.Report, bool)

	// Put stores rep under key, evicting the oldest entry when full.
	Put(ctx context.Context, key uint64, rep types.Report)

	// Purge drops every entry.
	Purge(ctx context.Context)

	Size() int64
}

// node is one entry of the insertion-ordered list.
type node struct {
	key        uint64
	report     types.Report
	prev, next *node
}

func (n *node) reset() {
	n.key = 0
	n.report = types.Report{}
	n.prev = nil
	n.next = nil
}

// inMemoryCache keeps entries in a map plus a doubly linked list ordered by
// insertion; head is newest, tail is oldest.
type inMemoryCache struct {
	mu       sync.Mutex
	entries  map[uint64]*node
	head     *node
	tail     *node
	maxSize  int
	size     atomic.Int64
	nodePool sync.Pool
}

// NewInMemoryCache creates a report cache.
func NewInMemoryCache(opts ...Option) ReportCache {
	c := &inMemoryCache{
		maxSize: 256,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.entries = make(map[uint64]*node)
	c.nodePool = sync.Pool{
		New: func() any {
			return &node{}
		},
	}
	return c
}

// Get implements ReportCache.Get.
func (c *inMemoryCache) Get(ctx context.Context, key uint64) (types.Report, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.entries[key]
	if !ok {
		metrics.RecordCacheMiss()
		return types.Report{}, false
	}
	metrics.RecordCacheHit()
	return n.report, true
}

// Put implements ReportCache.Put. Storing an existing key replaces the
// report without changing its position.
func (c *inMemoryCache) Put(ctx context.Context, key uint64, rep types.Report) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.entries[key]; ok {
		n.report = rep
		return
	}
	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	n := c.nodePool.Get().(*node)
	n.key = key
	n.report = rep
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
	c.entries[key] = n
	c.size.Add(1)
	metrics.UpdateCacheEntries(len(c.entries))
}

// Purge implements ReportCache.Purge.
func (c *inMemoryCache) Purge(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for n := c.head; n != nil; {
		next := n.next
		n.reset()
		c.nodePool.Put(n)
		n = next
	}
	c.entries = make(map[uint64]*node)
	c.head, c.tail = nil, nil
	c.size.Store(0)
	metrics.UpdateCacheEntries(0)
}

// evictOldest removes the tail entry. Must be called with c.mu held.
func (c *inMemoryCache) evictOldest() {
	n := c.tail
	if n == nil {
		return
	}
	c.tail = n.prev
	if c.tail != nil {
		c.tail.next = nil
	} else {
		c.head = nil
	}
	delete(c.entries, n.key)
	n.reset()
	c.nodePool.Put(n)
	c.size.Add(-1)
	metrics.RecordCacheEviction()
}

// Size returns the current number of cached reports.
func (c *inMemoryCache) Size() int64 {
	return c.size.Load()
}
