package handlers

import (
	"context"
	"net/http"

	"github.com/vetconnect/backend/internal/domain/entities"
)

// ZeroResultReporter lists recent searches that found nothing
type ZeroResultReporter interface {
	GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error)
}

// AnalyticsHandler exposes search analytics
type AnalyticsHandler struct {
	reporter ZeroResultReporter
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(reporter ZeroResultReporter) *AnalyticsHandler {
	return &AnalyticsHandler{reporter: reporter}
}

// GetZeroResultQueries handles GET /api/analytics/zero-result-queries
func (h *AnalyticsHandler) GetZeroResultQueries(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	events, err := h.reporter.GetZeroResultQueries(r.Context(), limit)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"queries": events,
		"count":   len(events),
	})
}
