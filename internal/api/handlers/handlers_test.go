package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tradedash/internal/metrics"
	"github.com/wonny/tradedash/internal/strategy"
	"github.com/wonny/tradedash/pkg/logger"
)

type fakeMetricsService struct {
	resp    *metrics.MetricsResponse
	heatmap *metrics.WatermarkHeatmap
	err     error
	gotFrom metrics.Date
	gotTo   metrics.Date
}

func (f *fakeMetricsService) Metrics(_ context.Context, from, to metrics.Date) (*metrics.MetricsResponse, error) {
	f.gotFrom, f.gotTo = from, to
	return f.resp, f.err
}

func (f *fakeMetricsService) Watermarks(_ context.Context, to metrics.Date) (*metrics.WatermarkHeatmap, error) {
	f.gotTo = to
	return f.heatmap, f.err
}

type fakeStore struct {
	symbols    []strategy.Symbol
	rows       []strategy.Strategy
	perf       []strategy.Performance
	err        error
	gotSymbol  string
	gotActive  bool
	gotWindowF metrics.Date
}

func (f *fakeStore) ListSymbols(context.Context) ([]strategy.Symbol, error) {
	return f.symbols, f.err
}

func (f *fakeStore) ListBySymbol(_ context.Context, symbol string, from, _ metrics.Date) ([]strategy.Strategy, error) {
	f.gotSymbol, f.gotWindowF = symbol, from
	return f.rows, f.err
}

func (f *fakeStore) ListUniverse(_ context.Context, from, _ metrics.Date) ([]strategy.Strategy, error) {
	f.gotWindowF = from
	return f.rows, f.err
}

func (f *fakeStore) ListPerformance(_ context.Context, _, _ metrics.Date, active bool) ([]strategy.Performance, error) {
	f.gotActive = active
	return f.perf, f.err
}

func do(t *testing.T, h http.HandlerFunc, target string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

func TestGetMetrics(t *testing.T) {
	from, to := metrics.NewDate(2024, 1, 1), metrics.NewDate(2024, 1, 31)
	svc := &fakeMetricsService{resp: &metrics.MetricsResponse{
		From: from,
		To:   to,
		Drawdown: metrics.DrawdownResult{
			MaxDDAbs: decimal.NewFromInt(120),
		},
	}}
	h := NewMetricsHandler(svc, logger.NewNop())

	rec, body := do(t, h.GetMetrics, "/metrics?from=2024-01-01&to=2024-01-31")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, from, svc.gotFrom)

	m, ok := body["metrics"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "2024-01-01", m["from"])
	assert.Contains(t, m, "drawdown")
	assert.Contains(t, m, "profit_factor")
}

func TestGetMetrics_BadRequests(t *testing.T) {
	h := NewMetricsHandler(&fakeMetricsService{}, logger.NewNop())

	for _, target := range []string{
		"/metrics",
		"/metrics?from=2024-01-01",
		"/metrics?from=2024-13-01&to=2024-12-31",
		"/metrics?from=2024-02-01&to=2024-01-01",
	} {
		rec, body := do(t, h.GetMetrics, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.NotEmpty(t, body["error"], target)
	}
}

func TestGetMetrics_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"contract violation", fmt.Errorf("wrap: %w", metrics.ErrTradeOutsideWindow), http.StatusBadRequest},
		{"not closed", metrics.ErrTradeNotClosed, http.StatusBadRequest},
		{"storage", errors.New("connection reset"), http.StatusInternalServerError},
		{"invalid window", fmt.Errorf("failed to load closed trades: %w", strategy.ErrInvalidInput), http.StatusBadRequest},
		{
			"corrupt row",
			fmt.Errorf("failed to load closed trades: strategy x: %w: risk column: bad json", strategy.ErrCorruptRow),
			http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewMetricsHandler(&fakeMetricsService{err: tt.err}, logger.NewNop())
			rec, body := do(t, h.GetMetrics, "/metrics?from=2024-01-01&to=2024-01-02")
			assert.Equal(t, tt.want, rec.Code)
			assert.NotEmpty(t, body["error"])
			if tt.want == http.StatusInternalServerError {
				// Server faults never echo internal detail
				assert.Equal(t, "Failed to compute metrics", body["error"])
			}
		})
	}
}

func TestGetWatermarks(t *testing.T) {
	heatmap := metrics.BuildWatermarkHeatmap([]metrics.WatermarkPoint{{
		ExitTime:  time.Date(2024, 1, 3, 15, 0, 0, 0, time.UTC),
		PnL:       decimal.NewFromInt(5),
		Watermark: decimal.RequireFromString("0.3"),
	}}, metrics.NewDate(2024, 12, 31), metrics.DefaultConfig())
	svc := &fakeMetricsService{heatmap: &heatmap}
	h := NewMetricsHandler(svc, logger.NewNop())

	rec, body := do(t, h.GetWatermarks, "/watermarks?from=2024-01-01&to=2024-12-31")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, metrics.NewDate(2024, 12, 31), svc.gotTo)
	assert.Equal(t, 20.0, body["min_watermark"])
	assert.Equal(t, 40.0, body["max_watermark"])

	cells, ok := body["watermarks"].([]interface{})
	require.True(t, ok)
	require.Len(t, cells, 1)
	assert.Equal(t, map[string]interface{}{"x": "W01-01/01", "y": "30", "value": 1.0}, cells[0])

	rec, _ = do(t, h.GetWatermarks, "/watermarks?from=2024-01-01")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSymbols(t *testing.T) {
	h := NewStrategyHandler(&fakeStore{symbols: []strategy.Symbol{{Name: "/ES"}, {Name: "SPY"}}}, logger.NewNop())

	rec, body := do(t, h.GetSymbols, "/symbols")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]interface{}{
		"response": []interface{}{
			map[string]interface{}{"name": "/ES"},
			map[string]interface{}{"name": "SPY"},
		},
	}, body["symbols"])
}

func TestGetSymbols_EmptyIsArray(t *testing.T) {
	h := NewStrategyHandler(&fakeStore{}, logger.NewNop())

	_, body := do(t, h.GetSymbols, "/symbols")
	assert.Equal(t, map[string]interface{}{"response": []interface{}{}}, body["symbols"])
}

func TestGetStrategies(t *testing.T) {
	store := &fakeStore{rows: []strategy.Strategy{{Symbol: "/ESZ4", Status: metrics.StatusClosed}}}
	h := NewStrategyHandler(store, logger.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/strategy/%2FES?from=2024-01-01&to=2024-01-31", nil)
	req = mux.SetURLVars(req, map[string]string{"symbol": "%2FES"})
	rec := httptest.NewRecorder()
	h.GetStrategies(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/ES", store.gotSymbol)

	var body struct {
		Strategies struct {
			Response []map[string]interface{} `json:"response"`
		} `json:"strategies"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Strategies.Response, 1)
	assert.Equal(t, "Closed", body.Strategies.Response[0]["status"])
}

func TestGetUniverse_StorageError(t *testing.T) {
	h := NewStrategyHandler(&fakeStore{err: errors.New("db down")}, logger.NewNop())

	rec, body := do(t, h.GetUniverse, "/universe?from=2024-01-01&to=2024-01-31")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to retrieve universe", body["error"])
}

func TestGetUniverse_CorruptRowIsServerError(t *testing.T) {
	err := fmt.Errorf("failed to list universe: strategy x: %w: metadata column: bad json", strategy.ErrCorruptRow)
	h := NewStrategyHandler(&fakeStore{err: err}, logger.NewNop())

	rec, body := do(t, h.GetUniverse, "/universe?from=2024-01-01&to=2024-01-31")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to retrieve universe", body["error"])
}

func TestGetPerformance(t *testing.T) {
	store := &fakeStore{perf: []strategy.Performance{{Strategy: "SPY", PnL: decimal.NewFromInt(42)}}}
	h := NewStrategyHandler(store, logger.NewNop())

	rec, body := do(t, h.GetPerformance, "/performance?from=2024-01-01&to=2024-01-31&is_active=true")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, store.gotActive)

	perf := body["performance"].(map[string]interface{})["response"].([]interface{})
	require.Len(t, perf, 1)
	assert.Equal(t, "42", perf[0].(map[string]interface{})["pnl"])

	_, _ = do(t, h.GetPerformance, "/performance?from=2024-01-01&to=2024-01-31")
	assert.False(t, store.gotActive, "is_active defaults to closed positions")

	rec, _ = do(t, h.GetPerformance, "/performance?from=2024-01-01&to=2024-01-31&is_active=maybe")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetHealth(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("unreachable") }

	rec, body := do(t, NewHealthHandler("tradedash", map[string]HealthCheck{"database": ok}).GetHealth, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "tradedash", body["service"])

	rec, body = do(t, NewHealthHandler("tradedash", map[string]HealthCheck{"database": ok, "redis": down}).GetHealth, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, map[string]interface{}{"database": "ok", "redis": "unreachable"}, body["checks"])
}
