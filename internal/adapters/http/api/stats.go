package api

import (
	"maps"
	"net/http"
	"time"
)

// StatsProvider reports runtime statistics of the report service.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves the provider's statistics with the server time added.
type StatsHandler struct {
	provider StatsProvider
	now      func() time.Time
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(provider StatsProvider) *StatsHandler {
	return &StatsHandler{provider: provider, now: time.Now}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, _ *http.Request) {
	if h.provider == nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", nil)
		return
	}
	out := maps.Clone(h.provider.GetStats())
	if out == nil {
		out = map[string]interface{}{}
	}
	out["serverTime"] = h.now().UTC().Format(time.RFC3339)
	writeJSON(w, http.StatusOK, out)
}
