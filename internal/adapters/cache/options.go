package cache

// Option applies a configuration option to the report cache.
type Option func(*inMemoryCache)

// WithMaxSize sets the maximum number of reports to keep in memory.
// If maxSize > 0: bounded mode, the oldest entry is evicted first.
// If maxSize <= 0: unbounded mode (no eviction, no size limit).
func WithMaxSize(maxSize int) Option {
	return func(c *inMemoryCache) {
		c.maxSize = maxSize
	}
}
