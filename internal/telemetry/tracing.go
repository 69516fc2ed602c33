package telemetry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/easyshop/easyshop-api/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const serviceVersion = "1.0.0"

// ShutdownFunc flushes pending spans and releases the exporter.
type ShutdownFunc func(ctx context.Context) error

// InitTracer installs the global tracer provider and propagator. When tracing
// is disabled the global no-op provider is left in place.
func InitTracer(ctx context.Context, cfg config.OtelConfig) (ShutdownFunc, error) {

	if !cfg.Enabled {
		slog.Info("Tracing disabled")
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(cfg.ExporterEndpoint))
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", serviceVersion),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SamplerRatio))),
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	slog.Info("Tracing enabled",
		slog.String("endpoint", cfg.ExporterEndpoint),
		slog.Float64("sampler_ratio", cfg.SamplerRatio),
	)

	return tp.Shutdown, nil
}
