package sampledata

import "time"

// Config holds generation parameters.
type Config struct {
	Influencers int       // Number of influencers
	Days        int       // Length of the tracking window
	Events      int       // Tracking rows per influencer
	Start       time.Time // First tracking day
	Seed        uint64    // Seed of the deterministic source
}

// Option applies a configuration option to the Config.
type Option func(*Config)

// WithInfluencers sets the number of influencers.
func WithInfluencers(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.Influencers = n
		}
	}
}

// WithDays sets the tracking window length.
func WithDays(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.Days = n
		}
	}
}

// WithEvents sets the tracking rows per influencer.
func WithEvents(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.Events = n
		}
	}
}

// WithStart sets the first tracking day.
func WithStart(t time.Time) Option {
	return func(c *Config) {
		if !t.IsZero() {
			c.Start = t
		}
	}
}

// WithSeed sets the seed; equal seeds give equal datasets.
func WithSeed(seed uint64) Option {
	return func(c *Config) {
		c.Seed = seed
	}
}

// NewConfig returns the defaults with opts applied.
func NewConfig(opts ...Option) Config {
	c := Config{
		Influencers: 40,
		Days:        90,
		Events:      25,
		Start:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Seed:        1,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
