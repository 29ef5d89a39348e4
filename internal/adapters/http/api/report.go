package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/okian/roas/internal/adapters/export"
	"github.com/okian/roas/internal/domain/filter"
	"github.com/okian/roas/internal/domain/types"
)

// ReportDependencies defines the interface for report operations.
type ReportDependencies interface {
	Report(ctx context.Context, sel filter.Selection) (types.Report, error)
	Options(ctx context.Context) (filter.Options, error)
}

// ReportHandler handles report, export and filter option requests.
type ReportHandler struct {
	deps ReportDependencies
}

// NewReportHandler creates a new report handler.
func NewReportHandler(deps ReportDependencies) *ReportHandler {
	return &ReportHandler{deps: deps}
}

// downloadNames maps table names to their download file names.
var downloadNames = map[string]string{
	types.TableDetail: "influencer_summary.csv",
}

// HandleGetReport handles GET /report requests.
func (h *ReportHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_report"
	rep, ok := h.report(w, r, op)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// HandleGetOptions handles GET /options requests.
func (h *ReportHandler) HandleGetOptions(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_options"
	opts, err := h.deps.Options(r.Context())
	if err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

// HandleGetTableCSV handles GET /report/tables/{name}.csv requests.
func (h *ReportHandler) HandleGetTableCSV(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_table_csv"
	name, found := strings.CutSuffix(chi.URLParam(r, "file"), ".csv")
	if !found || name == "" {
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrNotFound))
		return
	}
	rep, ok := h.report(w, r, op)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.ReportTableCSV(&buf, rep, name); err != nil {
		if errors.Is(err, export.ErrUnknownTable) {
			writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	file := downloadNames[name]
	if file == "" {
		file = name + ".csv"
	}
	writeCSV(w, file, buf.Bytes())
}

// HandleGetSummaryCSV handles GET /report/summary.csv requests.
func (h *ReportHandler) HandleGetSummaryCSV(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_summary_csv"
	rep, ok := h.report(w, r, op)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.SummaryCSV(&buf, rep.Summary); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeCSV(w, "summary.csv", buf.Bytes())
}

// report parses the selection and computes the report, writing the error
// response itself when that fails.
func (h *ReportHandler) report(w http.ResponseWriter, r *http.Request, op string) (types.Report, bool) {
	q := r.URL.Query()
	var opts filter.Options
	if wantsDefault(q) {
		var err error
		if opts, err = h.deps.Options(r.Context()); err != nil {
			writeUpstreamError(w, op, err)
			return types.Report{}, false
		}
	}
	sel, err := parseSelection(q, opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return types.Report{}, false
	}
	rep, err := h.deps.Report(r.Context(), sel)
	if err != nil {
		writeUpstreamError(w, op, err)
		return types.Report{}, false
	}
	return rep, true
}

func writeCSV(w http.ResponseWriter, file string, body []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
