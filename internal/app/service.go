// Package service provides the application service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/roas/internal/adapters/cache"
	"github.com/okian/roas/internal/adapters/repository"
	"github.com/okian/roas/internal/domain/filter"
	"github.com/okian/roas/internal/domain/join"
	"github.com/okian/roas/internal/domain/model"
	"github.com/okian/roas/internal/domain/pipeline"
	"github.com/okian/roas/internal/domain/report"
	"github.com/okian/roas/internal/domain/schema"
	"github.com/okian/roas/internal/domain/types"
	"github.com/okian/roas/pkg/logger"
	"github.com/okian/roas/pkg/metrics"
)

// Service owns the loaded source snapshot, the report cache and the
// pipeline configuration.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	pipeline *pipeline.Pipeline
	cache    cache.ReportCache

	// Configuration
	dataDir       string
	organicRatio  float64
	topN          int
	cacheSize     int
	strictPayouts bool
	dateLayouts   []string

	// State
	started  bool
	prepared *pipeline.Prepared
	loadedAt time.Time
	runs     int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the source store. It takes precedence over WithDataDir.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithDataDir sets the directory the default CSV store reads from.
func WithDataDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.dataDir = dir
		}
	}
}

// WithOrganicRatio sets the assumed share of revenue that is organic.
func WithOrganicRatio(ratio float64) Option {
	return func(s *Service) {
		if ratio >= 0 && ratio < 1 {
			s.organicRatio = ratio
		}
	}
}

// WithTopN sets the size of the top influencers table.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithCacheSize sets the number of reports kept in memory.
// Zero or negative means unbounded.
func WithCacheSize(size int) Option {
	return func(s *Service) {
		s.cacheSize = size
	}
}

// WithStrictPayouts rejects payout tables with duplicate influencers.
func WithStrictPayouts(strict bool) Option {
	return func(s *Service) {
		s.strictPayouts = strict
	}
}

// WithDateLayouts sets the accepted string date layouts.
func WithDateLayouts(layouts ...string) Option {
	return func(s *Service) {
		if len(layouts) > 0 {
			s.dateLayouts = layouts
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dataDir:      "data",
		organicRatio: report.DefaultOrganicRatio,
		topN:         report.DefaultTopN,
		cacheSize:    256,
		dateLayouts:  join.DefaultDateLayouts(),
		logger:       nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds the pipeline and loads the sources. A load failure is
// returned; the service stays started so a later Reload can recover.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.logger.Info(ctx, "starting report service...")

	if s.store == nil {
		s.store = repository.NewCSVStore(s.dataDir, repository.WithLogger(s.logger.Named("repository")))
	}
	s.pipeline = pipeline.New(
		pipeline.WithEngine(report.NewEngine(
			report.WithOrganicRatio(s.organicRatio),
			report.WithTopN(s.topN),
		)),
		pipeline.WithStrictPayouts(s.strictPayouts),
		pipeline.WithDateLayouts(s.dateLayouts...),
	)
	s.cache = cache.NewInMemoryCache(cache.WithMaxSize(s.cacheSize))
	s.started = true
	log := s.logger.With(
		logger.Float64("organicRatio", s.organicRatio),
		logger.Int("topN", s.topN),
		logger.Int("cacheSize", s.cacheSize),
		logger.Any("strictPayouts", s.strictPayouts),
	)
	s.mu.Unlock()

	log.Info(ctx, "report service started")

	return s.Reload(ctx)
}

// Stop releases cached reports.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping report service...")
	s.cache.Purge(context.Background())
	s.prepared = nil
	s.started = false
	s.logger.Info(context.Background(), "report service stopped")
}

// Reload reads the sources again and swaps the prepared snapshot. On
// failure the previous snapshot stays in place.
func (s *Service) Reload(ctx context.Context) error {
	s.mu.RLock()
	started, store, p, c, log := s.started, s.store, s.pipeline, s.cache, s.logger
	s.mu.RUnlock()
	if !started {
		return ErrNotStarted
	}

	start := time.Now()
	src, err := store.Load(ctx)
	if err == nil {
		var prep *pipeline.Prepared
		prep, err = p.Prepare(src)
		if err == nil {
			s.mu.Lock()
			s.prepared = prep
			s.loadedAt = time.Now()
			s.mu.Unlock()
			c.Purge(ctx)

			log.Info(ctx, "sources prepared",
				logger.Int("combinedRows", len(prep.Records)),
				logger.Duration("duration", time.Since(start)),
			)
			return nil
		}
	}

	outcome := Outcome(err)
	metrics.RecordPipelineRun(outcome, float64(time.Since(start).Milliseconds()))
	log.Warn(ctx, "failed to prepare sources",
		logger.String("outcome", outcome),
		logger.Error(err),
	)
	return err
}

// Report computes, or returns from cache, the report for sel.
func (s *Service) Report(ctx context.Context, sel filter.Selection) (types.Report, error) {
	s.mu.RLock()
	prep, p, c, log := s.prepared, s.pipeline, s.cache, s.logger
	s.mu.RUnlock()
	if prep == nil {
		return types.Report{}, ErrNotLoaded
	}

	engine := p.Engine()
	key := cache.Key(prep.Digest, sel, engine.OrganicRatio(), engine.TopN())
	if rep, ok := c.Get(ctx, key); ok {
		return rep, nil
	}

	start := time.Now()
	rep := p.Report(prep, sel)
	rep.RunID = uuid.NewString()
	elapsed := time.Since(start)

	metrics.RecordPipelineRun(metrics.OutcomeOK, float64(elapsed.Milliseconds()))
	metrics.UpdateRowCounts(rep.CombinedRows, rep.FilteredRows)
	s.mu.Lock()
	s.runs++
	s.mu.Unlock()

	log.Info(ctx, "report computed",
		logger.String("run_id", rep.RunID),
		logger.Int("combinedRows", rep.CombinedRows),
		logger.Int("filteredRows", rep.FilteredRows),
		logger.Duration("duration", elapsed),
	)

	c.Put(ctx, key, rep)
	return rep, nil
}

// Options returns the filter choices of the loaded snapshot.
func (s *Service) Options(ctx context.Context) (filter.Options, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.prepared == nil {
		return filter.Options{}, ErrNotLoaded
	}
	return s.prepared.Options, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":       s.started,
		"dataDir":       s.dataDir,
		"organicRatio":  s.organicRatio,
		"topN":          s.topN,
		"cacheSize":     s.cacheSize,
		"strictPayouts": s.strictPayouts,
		"runs":          s.runs,
	}

	if s.started {
		stats["cachedReports"] = s.cache.Size()
	}
	if s.prepared != nil {
		stats["combinedRows"] = len(s.prepared.Records)
		stats["loadedAt"] = s.loadedAt.UTC().Format(time.RFC3339)
	}

	return stats
}

// Outcome maps a pipeline error to its metrics label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, schema.ErrMissingColumn):
		return metrics.OutcomeMissingColumn
	case errors.Is(err, join.ErrMalformedDate):
		return metrics.OutcomeMalformedDate
	case errors.Is(err, model.ErrMalformedValue):
		return metrics.OutcomeMalformedValue
	case errors.Is(err, pipeline.ErrSourceUnavailable):
		return metrics.OutcomeSourceUnavailable
	case errors.Is(err, schema.ErrDuplicatePayout):
		return metrics.OutcomeDuplicatePayout
	default:
		return metrics.OutcomeError
	}
}
