// Package pipeline wires the joiner, validator, filter and metrics engine
// into one pure function of (sources, selection, configuration).
//
// The pipeline holds configuration only. Two calls with equal arguments
// return equal results, which is what makes caching by content digest safe.
package pipeline

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/okian/roas/internal/domain/filter"
	"github.com/okian/roas/internal/domain/join"
	"github.com/okian/roas/internal/domain/model"
	"github.com/okian/roas/internal/domain/report"
	"github.com/okian/roas/internal/domain/schema"
	"github.com/okian/roas/internal/domain/table"
	"github.com/okian/roas/internal/domain/types"
)

// Sources are the four raw tables. Posts is optional and passes through.
type Sources struct {
	Influencers *table.Table
	Posts       *table.Table
	Tracking    *table.Table
	Payouts     *table.Table
}

// Check fails when a required table is absent.
func (s Sources) Check() error {
	for _, src := range []struct {
		name string
		t    *table.Table
	}{
		{model.TableInfluencers, s.Influencers},
		{model.TableTracking, s.Tracking},
		{model.TablePayouts, s.Payouts},
	} {
		if src.t == nil {
			return &SourceUnavailableError{Source: src.name}
		}
	}
	return nil
}

// Digest hashes the content of all four tables.
func (s Sources) Digest() uint64 {
	h := xxhash.New()
	s.Influencers.WriteDigest(h)
	s.Posts.WriteDigest(h)
	s.Tracking.WriteDigest(h)
	s.Payouts.WriteDigest(h)
	return h.Sum64()
}

// Prepared is the validated, typed combined record set of one source
// snapshot. It is read-only once built.
type Prepared struct {
	Records []model.CombinedRecord
	Posts   *table.Table
	Options filter.Options
	Digest  uint64
}

// Pipeline runs the stages with a fixed configuration.
type Pipeline struct {
	engine        *report.Engine
	strictPayouts bool
	dateLayouts   []string
}

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithEngine sets the metrics engine.
func WithEngine(e *report.Engine) Option {
	return func(p *Pipeline) {
		if e != nil {
			p.engine = e
		}
	}
}

// WithStrictPayouts rejects payout tables with more than one row per
// influencer instead of taking the first payout.
func WithStrictPayouts(strict bool) Option {
	return func(p *Pipeline) {
		p.strictPayouts = strict
	}
}

// WithDateLayouts sets the accepted string date layouts.
func WithDateLayouts(layouts ...string) Option {
	return func(p *Pipeline) {
		if len(layouts) > 0 {
			p.dateLayouts = layouts
		}
	}
}

// New creates a pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		engine:      report.NewEngine(),
		dateLayouts: join.DefaultDateLayouts(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Engine returns the metrics engine in use.
func (p *Pipeline) Engine() *report.Engine { return p.engine }

// Prepare joins, validates and decodes the sources. Any failure aborts the
// run; no partial result is returned.
func (p *Pipeline) Prepare(src Sources) (*Prepared, error) {
	if err := src.Check(); err != nil {
		return nil, err
	}
	if p.strictPayouts {
		if err := schema.ValidatePayoutUniqueness(src.Payouts); err != nil {
			return nil, fmt.Errorf("validate payouts: %w", err)
		}
	}

	combined, err := join.Join(src.Influencers, src.Tracking, src.Payouts, join.WithDateLayouts(p.dateLayouts...))
	if err != nil {
		return nil, fmt.Errorf("join: %w", err)
	}
	if err := schema.Validate(combined, schema.RequiredColumns()); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	records, err := model.Decode(combined)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	return &Prepared{
		Records: records,
		Posts:   src.Posts,
		Options: filter.OptionsOf(records),
		Digest:  src.Digest(),
	}, nil
}

// Report filters a prepared set and computes every metric.
func (p *Pipeline) Report(prep *Prepared, sel filter.Selection) types.Report {
	subset := filter.Apply(prep.Records, sel)
	summary, tables := p.engine.Compute(subset)
	return types.Report{
		CombinedRows: len(prep.Records),
		FilteredRows: len(subset),
		Summary:      summary,
		Tables:       tables,
	}
}

// Run executes every stage for one selection.
func (p *Pipeline) Run(src Sources, sel filter.Selection) (types.Report, error) {
	prep, err := p.Prepare(src)
	if err != nil {
		return types.Report{}, err
	}
	return p.Report(prep, sel), nil
}
