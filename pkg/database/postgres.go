package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wonny/tradedash/pkg/config"
)

// DB wraps the pgxpool.Pool
// ⭐ SSOT: DB 연결은 이 패키지에서만 생성
type DB struct {
	Pool *pgxpool.Pool
}

// New creates a new database connection pool and verifies it with a ping
func New(ctx context.Context, cfg *config.Config) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	applyPoolSizing(poolConfig, cfg.Database)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

func applyPoolSizing(pc *pgxpool.Config, dc config.DatabaseConfig) {
	if dc.MaxConns > 0 {
		pc.MaxConns = int32(dc.MaxConns)
	}
	if dc.MinConns > 0 && dc.MinConns <= dc.MaxConns {
		pc.MinConns = int32(dc.MinConns)
	}
	if dc.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = dc.MaxConnLifetime
	}
	if dc.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = dc.MaxConnIdleTime
	}
}

// Close closes the database connection pool
func (db *DB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// Ping checks if the database is accessible
func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// HealthStatus is reported by the health endpoint
type HealthStatus struct {
	Healthy        bool      `json:"healthy"`
	Timestamp      time.Time `json:"timestamp"`
	ResponseTimeMs int64     `json:"response_time_ms"`
	Error          string    `json:"error,omitempty"`
	Stats          PoolStats `json:"stats"`
}

// PoolStats represents connection pool statistics
type PoolStats struct {
	AcquiredConns int32 `json:"acquired_conns"`
	IdleConns     int32 `json:"idle_conns"`
	MaxConns      int32 `json:"max_conns"`
	TotalConns    int32 `json:"total_conns"`
}

// HealthCheck pings the pool and snapshots its counters
func (db *DB) HealthCheck(ctx context.Context) *HealthStatus {
	status := &HealthStatus{Timestamp: time.Now().UTC()}

	start := time.Now()
	if err := db.Pool.Ping(ctx); err != nil {
		status.Error = err.Error()
		return status
	}
	status.ResponseTimeMs = time.Since(start).Milliseconds()
	status.Stats = db.Stats()
	status.Healthy = true
	return status
}

// Stats returns the current pool statistics
func (db *DB) Stats() PoolStats {
	stats := db.Pool.Stat()
	return PoolStats{
		AcquiredConns: stats.AcquiredConns(),
		IdleConns:     stats.IdleConns(),
		MaxConns:      stats.MaxConns(),
		TotalConns:    stats.TotalConns(),
	}
}
