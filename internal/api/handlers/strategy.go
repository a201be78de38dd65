package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/tradedash/internal/metrics"
	"github.com/wonny/tradedash/internal/strategy"
	"github.com/wonny/tradedash/pkg/logger"
)

// StrategyStore lists stored positions
type StrategyStore interface {
	ListSymbols(ctx context.Context) ([]strategy.Symbol, error)
	ListBySymbol(ctx context.Context, symbol string, from, to metrics.Date) ([]strategy.Strategy, error)
	ListUniverse(ctx context.Context, from, to metrics.Date) ([]strategy.Strategy, error)
	ListPerformance(ctx context.Context, from, to metrics.Date, active bool) ([]strategy.Performance, error)
}

// StrategyHandler serves the raw position listings
type StrategyHandler struct {
	store  StrategyStore
	logger *logger.Logger
}

// NewStrategyHandler creates a new strategy handler
func NewStrategyHandler(store StrategyStore, log *logger.Logger) *StrategyHandler {
	return &StrategyHandler{
		store:  store,
		logger: log,
	}
}

// GetSymbols returns the distinct (aliased) symbols
// GET /symbols
func (h *StrategyHandler) GetSymbols(w http.ResponseWriter, r *http.Request) {
	symbols, err := h.store.ListSymbols(r.Context())
	if err != nil {
		h.storageError(w, err, "Failed to retrieve symbols")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"symbols": listing{Response: nonNil(symbols)},
	})
}

// GetStrategies returns positions for one symbol or futures root
// GET /strategy/{symbol}?from&to
func (h *StrategyHandler) GetStrategies(w http.ResponseWriter, r *http.Request) {
	symbol, err := url.PathUnescape(mux.Vars(r)["symbol"])
	if err != nil || symbol == "" {
		respondError(w, http.StatusBadRequest, "Invalid symbol")
		return
	}

	from, to, err := parseWindow(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.store.ListBySymbol(r.Context(), symbol, from, to)
	if err != nil {
		h.storageError(w, err, "Failed to retrieve strategies")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"strategies": listing{Response: nonNil(rows)},
	})
}

// GetUniverse returns every position within the window
// GET /universe?from&to
func (h *StrategyHandler) GetUniverse(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseWindow(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.store.ListUniverse(r.Context(), from, to)
	if err != nil {
		h.storageError(w, err, "Failed to retrieve universe")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"strategies": listing{Response: nonNil(rows)},
	})
}

// GetPerformance returns the per-trade PnL projection
// GET /performance?from&to&is_active=true|false
func (h *StrategyHandler) GetPerformance(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseWindow(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	active := false
	if raw := r.URL.Query().Get("is_active"); raw != "" {
		active, err = strconv.ParseBool(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid 'is_active' (expected true or false)")
			return
		}
	}

	rows, err := h.store.ListPerformance(r.Context(), from, to, active)
	if err != nil {
		h.storageError(w, err, "Failed to retrieve performance")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"performance": listing{Response: nonNil(rows)},
	})
}

func (h *StrategyHandler) storageError(w http.ResponseWriter, err error, message string) {
	if isClientError(err) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.logger.WithError(err).Error(message)
	respondError(w, http.StatusInternalServerError, message)
}

// nonNil keeps empty listings encoded as [] rather than null
func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
