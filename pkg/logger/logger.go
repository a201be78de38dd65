package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/wonny/tradedash/pkg/config"
	"github.com/wonny/tradedash/pkg/tracing"
)

// Logger is a structured logger wrapper around zerolog
// ⭐ SSOT: 모든 로깅은 이 패키지를 통해서만 수행
type Logger struct {
	zlog zerolog.Logger
}

// New creates a Logger writing to stdout
func New(cfg *config.Config) *Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter creates a Logger writing to w
// ⭐ SSOT: zerolog 인스턴스는 여기서만 생성
func NewWithWriter(cfg *config.Config, w io.Writer) *Logger {
	output := w
	if cfg.LogFormat == "console" || cfg.LogFormat == "pretty" {
		output = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}

	service := cfg.Tracing.ServiceName
	if service == "" {
		service = "tradedash"
	}

	zlog := zerolog.New(output).
		Level(parseLogLevel(cfg.LogLevel)).
		With().
		Timestamp().
		Str("env", cfg.Env).
		Str("service", service).
		Logger()

	return &Logger{zlog: zlog}
}

// NewNop returns a Logger that discards everything
func NewNop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// parseLogLevel converts string log level to zerolog.Level
func parseLogLevel(levelStr string) zerolog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string) {
	l.zlog.Debug().Msg(msg)
}

// Info logs an info message
func (l *Logger) Info(msg string) {
	l.zlog.Info().Msg(msg)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string) {
	l.zlog.Warn().Msg(msg)
}

// Error logs an error message
func (l *Logger) Error(msg string) {
	l.zlog.Error().Msg(msg)
}

// Fatal logs a fatal message and exits
func (l *Logger) Fatal(msg string) {
	l.zlog.Fatal().Msg(msg)
}

// Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.zlog.Error().Msgf(format, args...)
}

// WithField returns a new logger with an additional field
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{zlog: l.zlog.With().Interface(key, value).Logger()}
}

// WithFields returns a new logger with multiple fields
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	ctx := l.zlog.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{zlog: ctx.Logger()}
}

// WithError returns a new logger with an error field
func (l *Logger) WithError(err error) *Logger {
	return &Logger{zlog: l.zlog.With().Err(err).Logger()}
}

// WithContext tags the logger with the trace and span of the active span in ctx.
// Without a recording span it returns l unchanged.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	traceID, spanID, ok := tracing.TraceFields(ctx)
	if !ok {
		return l
	}
	return &Logger{zlog: l.zlog.With().
		Str("trace_id", traceID).
		Str("span_id", spanID).
		Logger()}
}
