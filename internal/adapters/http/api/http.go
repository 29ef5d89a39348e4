// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/roas/internal/adapters/http/swagger"
	"github.com/okian/roas/internal/domain/filter"
	"github.com/okian/roas/internal/domain/join"
	"github.com/okian/roas/internal/domain/model"
	"github.com/okian/roas/internal/domain/pipeline"
	"github.com/okian/roas/internal/domain/schema"
	"github.com/okian/roas/internal/domain/types"
	"github.com/okian/roas/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Report computes the report for a selection.
	Report(ctx context.Context, sel filter.Selection) (types.Report, error)

	// Options returns the selectable filter values.
	Options(ctx context.Context) (filter.Options, error)

	// Reload reads the source tables again.
	Reload(ctx context.Context) error
}

// Server wires HTTP routes for the report API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	reportHandler *ReportHandler
	reloadHandler *ReloadHandler
	logger        logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		reportHandler: NewReportHandler(deps),
		reloadHandler: NewReloadHandler(deps),
		logger:        logger.Get().Named("http"),
	}
}

// Routes returns the router with every endpoint attached.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware(s.logger))

	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/metrics", MetricsMiddleware(s.healthHandler.HandleMetrics, "metrics"))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	r.Get("/options", MetricsMiddleware(s.reportHandler.HandleGetOptions, "options"))
	r.Post("/reload", MetricsMiddleware(s.reloadHandler.HandleReload, "reload"))
	r.Route("/report", func(r chi.Router) {
		r.Get("/", MetricsMiddleware(s.reportHandler.HandleGetReport, "report"))
		r.Get("/summary.csv", MetricsMiddleware(s.reportHandler.HandleGetSummaryCSV, "report_summary_csv"))
		r.Get("/tables/{file}", MetricsMiddleware(s.reportHandler.HandleGetTableCSV, "report_table_csv"))
	})
	swagger.Register(r)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", ErrNotFound)
	})
	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeUpstreamError translates pipeline errors to HTTP statuses.
func writeUpstreamError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, pipeline.ErrSourceUnavailable):
		writeError(w, http.StatusServiceUnavailable, "source_unavailable", Wrap(op, err))
	case errors.Is(err, schema.ErrMissingColumn),
		errors.Is(err, schema.ErrDuplicatePayout),
		errors.Is(err, join.ErrMalformedDate),
		errors.Is(err, model.ErrMalformedValue):
		writeError(w, http.StatusUnprocessableEntity, "invalid_source", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
