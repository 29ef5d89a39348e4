// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) initializer to build a Config with defaults.
// - Validate enforces the ranges the report engine accepts.
package config

import (
	"context"
	"fmt"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataDir holds influencers.csv, posts.csv, tracking_data.csv and payouts.csv.
	DataDir string `koanf:"data_dir"`

	// OrganicRatio is the assumed share of revenue that would happen
	// without influencer activity.
	OrganicRatio float64 `koanf:"organic_ratio"`

	// TopN sizes the top influencers table.
	TopN int `koanf:"top_n"`

	// CacheSize bounds the report cache; zero or negative is unbounded.
	CacheSize int `koanf:"cache_size"`

	// StrictPayouts rejects payout tables with more than one row per influencer.
	StrictPayouts bool `koanf:"strict_payouts"`

	// DateLayouts overrides the accepted date layouts. Empty keeps the
	// built-in list.
	DateLayouts []string `koanf:"date_layouts"`
}

// New creates a Config with defaults. Context is accepted first to
// satisfy the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:     "info",
		LogFormat:    "text",
		Addr:         ":9080",
		DataDir:      "data",
		OrganicRatio: 0.15,
		TopN:         10,
		CacheSize:    256,
	}
}

// Validate reports the first invalid field as a *FieldError.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return &FieldError{Key: "addr", Reason: "must not be empty"}
	case c.DataDir == "":
		return &FieldError{Key: "data_dir", Reason: "must not be empty"}
	case c.OrganicRatio < 0 || c.OrganicRatio >= 1:
		return &FieldError{Key: "organic_ratio", Reason: fmt.Sprintf("must be in [0,1), got %v", c.OrganicRatio)}
	case c.TopN <= 0:
		return &FieldError{Key: "top_n", Reason: fmt.Sprintf("must be positive, got %d", c.TopN)}
	case c.LogFormat != "text" && c.LogFormat != "json":
		return &FieldError{Key: "log_format", Reason: fmt.Sprintf("must be text or json, got %q", c.LogFormat)}
	}
	return nil
}
