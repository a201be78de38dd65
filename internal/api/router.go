package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/tradedash/internal/api/handlers"
	"github.com/wonny/tradedash/pkg/config"
	"github.com/wonny/tradedash/pkg/logger"
)

// Handlers bundles the endpoint handlers the router mounts
type Handlers struct {
	Health   *handlers.HealthHandler
	Metrics  *handlers.MetricsHandler
	Strategy *handlers.StrategyHandler
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(cfg *config.Config, h Handlers, log *logger.Logger) http.Handler {
	r := mux.NewRouter()
	// Futures symbols arrive percent-encoded ("/strategy/%2FES")
	r.UseEncodedPath()

	get := []string{http.MethodGet, http.MethodOptions}

	r.HandleFunc("/health", h.Health.GetHealth).Methods(get...)

	r.HandleFunc("/metrics", h.Metrics.GetMetrics).Methods(get...)
	r.HandleFunc("/watermarks", h.Metrics.GetWatermarks).Methods(get...)

	r.HandleFunc("/symbols", h.Strategy.GetSymbols).Methods(get...)
	r.HandleFunc("/strategy/{symbol}", h.Strategy.GetStrategies).Methods(get...)
	r.HandleFunc("/universe", h.Strategy.GetUniverse).Methods(get...)
	r.HandleFunc("/performance", h.Strategy.GetPerformance).Methods(get...)

	// Dashboard assets
	if cfg.FrontendDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.FrontendDir))).Methods(http.MethodGet, http.MethodHead)
	}

	// Apply middleware (outermost first)
	r.Use(recoveryMiddleware(log))
	r.Use(loggingMiddleware(log))
	r.Use(corsMiddleware(cfg.AllowedOrigin))
	r.Use(rateLimitMiddleware(newLimiter(cfg.RateLimit)))

	return r
}
