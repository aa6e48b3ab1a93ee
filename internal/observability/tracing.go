// Package observability wires OTLP trace export for the request tracing
// middleware.
//
// Spans are exported to a local collector over OTLP HTTP. The collector
// owns authentication, buffering and forwarding to whatever backend sits
// behind it, so the application never carries backend credentials.
package observability

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// DefaultEndpoint is the conventional OTLP HTTP listen address of a
// local collector.
const DefaultEndpoint = "localhost:4318"

// Config selects the collector and the identity every span carries.
type Config struct {
	// Enabled gates the whole pipeline; when false Setup installs nothing.
	Enabled bool
	// Endpoint is the collector's OTLP HTTP address (host:port).
	Endpoint string
	// ServiceName tags spans in the tracing backend.
	ServiceName string
	// Environment becomes the deployment.environment resource attribute.
	Environment string
}

// Setup installs the global tracer provider and returns a shutdown
// function that flushes pending spans. When tracing is disabled the
// global provider is left alone and the shutdown is a no-op.
func Setup(ctx context.Context, cfg Config, logger *slog.Logger) (func(context.Context) error, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	// The SDK's default resource detector reads these env vars, which
	// saves threading a resource through. Setup runs exactly once during
	// startup, before any goroutines, so os.Setenv is safe here.
	if cfg.ServiceName != "" {
		_ = os.Setenv("OTEL_SERVICE_NAME", cfg.ServiceName)
	}
	if cfg.Environment != "" {
		_ = os.Setenv("OTEL_RESOURCE_ATTRIBUTES", "deployment.environment="+cfg.Environment)
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(), // local collector, no TLS
	)
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewBatchSpanProcessor(exporter)),
	)
	otel.SetTracerProvider(tp)

	logger.Debug("tracing enabled",
		"endpoint", endpoint,
		"service", cfg.ServiceName,
		"environment", cfg.Environment)

	return tp.Shutdown, nil
}
