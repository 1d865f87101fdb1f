package handlers

import (
	"context"
	"net/http"
	"time"
)

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// HealthHandler reports service health
type HealthHandler struct {
	dataSource string
	checks     map[string]HealthCheck
	timeout    time.Duration
}

// NewHealthHandler creates a health handler. checks are probed on every request.
func NewHealthHandler(dataSource string, checks map[string]HealthCheck, timeout time.Duration) *HealthHandler {
	return &HealthHandler{dataSource: dataSource, checks: checks, timeout: timeout}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	status := http.StatusOK
	deps := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			deps[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}
	respondWithJSON(w, status, map[string]interface{}{
		"status":       state,
		"data_source":  h.dataSource,
		"dependencies": deps,
	})
}
