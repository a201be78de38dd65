package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the dashboard backend
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port          string
	Env           string // development, staging, production
	AllowedOrigin string
	FrontendDir   string

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Tracing
	Tracing TracingConfig

	// HTTP rate limiting
	RateLimit RateLimitConfig

	// Metrics engine
	EngineConfigPath string
	MetricsCacheTTL  time.Duration
	WarmupSchedule   string
	WarmupEnabled    bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// TracingConfig holds OpenTelemetry configuration
type TracingConfig struct {
	Enabled     bool
	ServiceName string
}

// RateLimitConfig bounds request throughput per server
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port:          getEnv("PORT", "8000"),
		Env:           getEnv("ENV", "development"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:8000"),
		FrontendDir:   getEnv("FRONTEND_DIR", "frontend"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 5),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// Tracing
		Tracing: TracingConfig{
			Enabled:     getEnvAsBool("TRACING_ENABLED", false),
			ServiceName: getEnv("TRACING_SERVICE_NAME", "tradedash"),
		},

		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvAsFloat("RATE_LIMIT_RPS", 20),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 40),
		},

		// Metrics engine
		EngineConfigPath: getEnv("ENGINE_CONFIG", ""),
		MetricsCacheTTL:  getEnvAsDuration("METRICS_CACHE_TTL", "10m"),
		WarmupSchedule:   getEnv("WARMUP_SCHEDULE", "0 */15 * * * *"),
		WarmupEnabled:    getEnvAsBool("WARMUP_ENABLED", true),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be > 0")
	}

	if c.MetricsCacheTTL < 0 {
		return fmt.Errorf("METRICS_CACHE_TTL must not be negative")
	}

	if c.WarmupEnabled && c.WarmupSchedule == "" {
		return fmt.Errorf("WARMUP_SCHEDULE is required when WARMUP_ENABLED")
	}

	return nil
}

// RedisAddr returns host:port of the Redis server
func (c *Config) RedisAddr() string {
	return c.Redis.Host + ":" + c.Redis.Port
}

// loadEnvFile tries to load .env from the working directory or next to the binary
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
