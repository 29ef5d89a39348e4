package report

import "github.com/shopspring/decimal"

// Defaults for the metrics engine.
const (
	DefaultOrganicRatio = 0.15
	DefaultTopN         = 10
	detailROASPlaces    = 2
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithOrganicRatio sets the share of revenue assumed to happen without
// influencer activity. Values outside [0, 1) are ignored.
func WithOrganicRatio(ratio float64) Option {
	return func(e *Engine) {
		if ratio >= 0 && ratio < 1 {
			e.organicRatio = decimal.NewFromFloat(ratio)
		}
	}
}

// WithTopN sets how many influencers the top performers table keeps.
func WithTopN(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.topN = n
		}
	}
}
