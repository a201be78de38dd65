package commands

import (
	"context"
	"fmt"

	"github.com/wonny/tradedash/internal/analytics"
	"github.com/wonny/tradedash/internal/engineconfig"
	"github.com/wonny/tradedash/internal/metrics"
	"github.com/wonny/tradedash/internal/strategy"
	"github.com/wonny/tradedash/pkg/config"
	"github.com/wonny/tradedash/pkg/database"
	"github.com/wonny/tradedash/pkg/logger"
	"github.com/wonny/tradedash/pkg/redis"
	"github.com/wonny/tradedash/pkg/tracing"
)

// cachePrefix namespaces every Redis key this binary writes
const cachePrefix = "tradedash"

// app holds the wired dependencies shared by the commands
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	tracer  *tracing.Tracer
	db      *database.DB
	redis   *redis.Client
	engine  *engineconfig.File
	hash    string
	repo    *strategy.Repository
	service *analytics.Service
}

// loadConfig reads the environment and applies the global flags
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if engineConfig != "" {
		cfg.EngineConfigPath = engineConfig
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// newApp wires config, storage, cache and the analytics service.
// Callers must call close.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log := logger.New(cfg)

	engineFile, err := engineconfig.Load(cfg.EngineConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load engine config: %w", err)
	}
	hash, err := engineconfig.Hash(engineFile)
	if err != nil {
		return nil, fmt.Errorf("hash engine config: %w", err)
	}
	engine, err := metrics.NewEngine(engineFile.Engine)
	if err != nil {
		return nil, fmt.Errorf("create metrics engine: %w", err)
	}

	tracer, err := tracing.New(ctx, cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	a := &app{
		cfg:    cfg,
		log:    log,
		tracer: tracer,
		engine: engineFile,
		hash:   hash,
	}

	a.db, err = database.New(ctx, cfg)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	a.redis, err = redis.New(ctx, cfg)
	if err != nil {
		// Cache is optional; the dashboard keeps serving uncached
		log.WithError(err).Warn("Redis unavailable, caching disabled")
		a.redis = redis.Disabled()
	}

	a.repo = strategy.NewRepository(a.db.Pool)
	a.service = analytics.NewService(
		a.repo,
		engine,
		redis.NewCache(a.redis, cachePrefix),
		analytics.Options{CacheTTL: cfg.MetricsCacheTTL, ConfigHash: hash},
		log,
		tracer,
	)

	log.WithFields(map[string]interface{}{
		"engine_config": engineFile.Meta.Name,
		"config_hash":   hash[:12],
		"redis":         a.redis.Enabled(),
		"tracing":       tracer.Enabled(),
	}).Info("Dashboard initialized")

	return a, nil
}

// close releases every resource newApp acquired
func (a *app) close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.WithError(err).Warn("Failed to close redis")
		}
	}
	if a.db != nil {
		a.db.Close()
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(context.Background()); err != nil {
			a.log.WithError(err).Warn("Failed to flush traces")
		}
	}
}
