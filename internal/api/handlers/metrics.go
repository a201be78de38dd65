package handlers

import (
	"context"
	"net/http"

	"github.com/wonny/tradedash/internal/metrics"
	"github.com/wonny/tradedash/pkg/logger"
)

// MetricsService computes dashboard statistics
type MetricsService interface {
	Metrics(ctx context.Context, from, to metrics.Date) (*metrics.MetricsResponse, error)
	Watermarks(ctx context.Context, to metrics.Date) (*metrics.WatermarkHeatmap, error)
}

// MetricsHandler serves performance statistics
// ⭐ SSOT: 성과 지표 API 핸들러는 이 구조체에서만
type MetricsHandler struct {
	service MetricsService
	logger  *logger.Logger
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(service MetricsService, log *logger.Logger) *MetricsHandler {
	return &MetricsHandler{
		service: service,
		logger:  log,
	}
}

// GetMetrics returns drawdown, Sharpe, expectancy, recovery and profit factor
// GET /metrics?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseWindow(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.Metrics(r.Context(), from, to)
	if err != nil {
		if isClientError(err) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.WithError(err).WithFields(map[string]interface{}{
			"from": from.String(),
			"to":   to.String(),
		}).Error("Failed to compute metrics")
		respondError(w, http.StatusInternalServerError, "Failed to compute metrics")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"metrics": resp,
	})
}

// GetWatermarks returns the weekly watermark heatmap over the year ending at `to`.
// `from` is accepted for symmetry with the other endpoints but does not narrow the lookback.
// GET /watermarks?to=YYYY-MM-DD
func (h *MetricsHandler) GetWatermarks(w http.ResponseWriter, r *http.Request) {
	to, err := parseDateParam(r, "to")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	heatmap, err := h.service.Watermarks(r.Context(), to)
	if err != nil {
		h.logger.WithError(err).WithField("to", to.String()).Error("Failed to build watermark heatmap")
		respondError(w, http.StatusInternalServerError, "Failed to build watermark heatmap")
		return
	}

	respondJSON(w, http.StatusOK, heatmap)
}
