package tracing

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/wonny/tradedash/pkg/config"
)

const instrumentationName = "github.com/wonny/tradedash"

// Tracer owns the span pipeline. When tracing is disabled every span is a no-op.
// ⭐ SSOT: TracerProvider는 여기서만 생성
type Tracer struct {
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
	enabled  bool
}

// New builds a Tracer exporting to stdout
func New(ctx context.Context, cfg config.TracingConfig) (*Tracer, error) {
	return NewWithWriter(ctx, cfg, os.Stdout)
}

// NewWithWriter builds a Tracer exporting finished spans as JSON to w
func NewWithWriter(ctx context.Context, cfg config.TracingConfig, w io.Writer) (*Tracer, error) {
	if !cfg.Enabled {
		return Disabled(), nil
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("create stdout exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", cfg.ServiceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("build trace resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	return &Tracer{
		tracer:   provider.Tracer(instrumentationName),
		provider: provider,
		enabled:  true,
	}, nil
}

// Disabled returns a Tracer whose spans are never recorded
func Disabled() *Tracer {
	return &Tracer{tracer: noop.NewTracerProvider().Tracer(instrumentationName)}
}

// Start opens a span named name carrying attrs
func (t *Tracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// Enabled reports whether spans are exported
func (t *Tracer) Enabled() bool {
	return t.enabled
}

// Shutdown flushes pending spans
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}

// TraceFields returns the trace and span IDs of the span in ctx, for log correlation
func TraceFields(ctx context.Context) (traceID, spanID string, ok bool) {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return "", "", false
	}
	return sc.TraceID().String(), sc.SpanID().String(), true
}
