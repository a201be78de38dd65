package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"
)

// HealthCheck pings one dependency
type HealthCheck func(ctx context.Context) error

// HealthHandler reports liveness plus dependency status
type HealthHandler struct {
	service string
	checks  map[string]HealthCheck
	timeout time.Duration
}

// NewHealthHandler creates a health handler over named checks
func NewHealthHandler(service string, checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{
		service: service,
		checks:  checks,
		timeout: 2 * time.Second,
	}
}

// GetHealth returns 200 when every check passes, 503 otherwise
// GET /health
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := "ok"
	code := http.StatusOK
	results := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			results[name] = err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	respondJSON(w, code, map[string]interface{}{
		"status":  status,
		"service": h.service,
		"checks":  results,
	})
}
