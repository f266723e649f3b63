// Package observability wires the ambient concerns every module shares:
// structured logging, prometheus metrics, and otel tracing.
package observability

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Config holds the observability settings pulled from the app config.
type Config struct {
	ServiceName    string
	Environment    string
	MetricsAddress string
	SampleRate     float64
}

// Observability bundles the logger, tracer, and metrics registry handed to
// every module.
type Observability struct {
	Logger   *slog.Logger
	Tracer   trace.Tracer
	Registry *prometheus.Registry

	tracerProvider *sdktrace.TracerProvider
}

// Init builds the observability stack. Tracing uses a local sampling provider;
// span export is attached by the deployment environment, not by this process.
func Init(ctx context.Context, cfg Config) (*Observability, error) {
	if cfg.ServiceName == "" {
		return nil, fmt.Errorf("observability: service name is required")
	}

	level := slog.LevelInfo
	if cfg.Environment == "development" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("service", cfg.ServiceName), slog.String("env", cfg.Environment))

	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 0.1
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRate))),
	)
	otel.SetTracerProvider(tp)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Observability{
		Logger:         logger,
		Tracer:         tp.Tracer(cfg.ServiceName),
		Registry:       registry,
		tracerProvider: tp,
	}, nil
}

// Shutdown flushes the tracer provider.
func (o *Observability) Shutdown(ctx context.Context) error {
	if o.tracerProvider == nil {
		return nil
	}
	return o.tracerProvider.Shutdown(ctx)
}
