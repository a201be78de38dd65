package analytics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wonny/tradedash/internal/metrics"
	"github.com/wonny/tradedash/pkg/logger"
	"github.com/wonny/tradedash/pkg/redis"
	"github.com/wonny/tradedash/pkg/tracing"
)

// TradeSource supplies the engine's inputs
type TradeSource interface {
	// ClosedTrades returns closed trades whose exit date lies in [from, to]
	ClosedTrades(ctx context.Context, from, to metrics.Date) ([]metrics.TradeRecord, error)

	// WatermarkPoints returns the heatmap projection for the lookback ending at to
	WatermarkPoints(ctx context.Context, to metrics.Date, lookbackDays int) ([]metrics.WatermarkPoint, error)
}

// Cache stores computed responses
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

var _ Cache = (*redis.Cache)(nil)

// Service computes dashboard statistics from stored trades
// ⭐ SSOT: 성과 지표 계산 진입점은 여기서만
type Service struct {
	source     TradeSource
	engine     *metrics.Engine
	cache      Cache
	ttl        time.Duration
	configHash string
	logger     *logger.Logger
	tracer     *tracing.Tracer
}

// Options tune caching
type Options struct {
	// CacheTTL of zero disables caching
	CacheTTL time.Duration

	// ConfigHash namespaces cache keys by engine assumptions
	ConfigHash string
}

// NewService creates a new analytics service
func NewService(source TradeSource, engine *metrics.Engine, cache Cache, opts Options, log *logger.Logger, tracer *tracing.Tracer) *Service {
	if tracer == nil {
		tracer = tracing.Disabled()
	}
	return &Service{
		source:     source,
		engine:     engine,
		cache:      cache,
		ttl:        opts.CacheTTL,
		configHash: opts.ConfigHash,
		logger:     log,
		tracer:     tracer,
	}
}

// Engine returns the underlying metrics engine
func (s *Service) Engine() *metrics.Engine {
	return s.engine
}

// Metrics returns the statistics for [from, to], serving from cache when possible
func (s *Service) Metrics(ctx context.Context, from, to metrics.Date) (*metrics.MetricsResponse, error) {
	return s.metrics(ctx, from, to, true)
}

// Refresh recomputes the statistics for [from, to] and overwrites the cached copy
func (s *Service) Refresh(ctx context.Context, from, to metrics.Date) (*metrics.MetricsResponse, error) {
	return s.metrics(ctx, from, to, false)
}

func (s *Service) metrics(ctx context.Context, from, to metrics.Date, useCache bool) (*metrics.MetricsResponse, error) {
	ctx, span := s.tracer.Start(ctx, "analytics.metrics",
		attribute.String("from", from.String()),
		attribute.String("to", to.String()),
	)
	defer span.End()

	if from.After(to) {
		return nil, fmt.Errorf("%w: %s > %s", metrics.ErrInvalidWindow, from, to)
	}

	key := redis.MetricsKey(from.String(), to.String(), s.configHash)
	if useCache {
		var cached metrics.MetricsResponse
		if s.cacheGet(ctx, key, &cached) {
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return &cached, nil
		}
	}

	loadCtx, loadSpan := s.tracer.Start(ctx, "analytics.load_closed_trades")
	trades, err := s.source.ClosedTrades(loadCtx, from, to)
	loadSpan.End()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load trades")
		return nil, fmt.Errorf("failed to load closed trades: %w", err)
	}

	resp, err := s.engine.ComputeMetrics(trades, from, to)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "compute metrics")
		return nil, err
	}

	s.cacheSet(ctx, key, resp)

	s.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"from":        from.String(),
		"to":          to.String(),
		"trades":      len(trades),
		"max_dd_abs":  resp.Drawdown.MaxDDAbs.String(),
		"net_profit":  resp.Recovery.NetProfit.String(),
		"has_sharpe":  resp.Sharpe.Sharpe != nil,
		"sample_days": resp.Sharpe.SampleDays,
	}).Info("Metrics computed")

	return resp, nil
}

// Watermarks returns the watermark heatmap for the lookback ending at to
func (s *Service) Watermarks(ctx context.Context, to metrics.Date) (*metrics.WatermarkHeatmap, error) {
	ctx, span := s.tracer.Start(ctx, "analytics.watermarks", attribute.String("to", to.String()))
	defer span.End()

	key := redis.WatermarksKey(to.String(), s.configHash)
	var cached metrics.WatermarkHeatmap
	if s.cacheGet(ctx, key, &cached) {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		return &cached, nil
	}

	lookback := s.engine.Config().LookbackDays
	points, err := s.source.WatermarkPoints(ctx, to, lookback)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load watermark points")
		return nil, fmt.Errorf("failed to load watermark points: %w", err)
	}

	heatmap := s.engine.ComputeWatermarkHeatmap(points, to)
	s.cacheSet(ctx, key, heatmap)

	s.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"to":     to.String(),
		"points": len(points),
		"cells":  len(heatmap.Counts),
	}).Debug("Watermark heatmap computed")

	return &heatmap, nil
}

// cacheGet reports a hit. Cache failures degrade to a miss.
func (s *Service) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil || s.ttl <= 0 {
		return false
	}
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Cache read failed")
		return false
	}
	return found
}

func (s *Service) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("Cache write failed")
	}
}
