package instrumentation

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Provider owns the configured OpenTelemetry SDK pipelines. Construct it with
// NewProvider and release it with Shutdown.
type Provider struct {
	config Config

	meterProvider  *sdkmetric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	promRegistry   *prometheus.Registry

	metrics *Metrics
}

// NewProvider wires up metric and trace pipelines according to cfg and
// installs them as the global OpenTelemetry providers. It returns nil when
// instrumentation is disabled; all consumers of Provider and Metrics are
// nil-safe.
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	res := resource.NewSchemaless(
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
	)

	p := &Provider{config: cfg}

	reader, err := p.newMetricReader(ctx, cfg)
	if err != nil {
		return nil, err
	}
	p.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(p.meterProvider)

	exporter, err := newTraceExporter(ctx, cfg)
	if err != nil {
		_ = p.meterProvider.Shutdown(ctx)
		return nil, err
	}
	if exporter != nil {
		p.tracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.TraceSamplingRate))),
		)
		otel.SetTracerProvider(p.tracerProvider)
	}

	p.metrics, err = NewMetrics(p.Meter(), cfg.DetailedLabels)
	if err != nil {
		_ = p.Shutdown(ctx)
		return nil, err
	}

	return p, nil
}

// newMetricReader builds the metric reader for the configured exporter.
func (p *Provider) newMetricReader(ctx context.Context, cfg Config) (sdkmetric.Reader, error) {
	switch cfg.MetricsExporter {
	case "prometheus":
		p.promRegistry = prometheus.NewRegistry()
		exporter, err := otelprom.New(otelprom.WithRegisterer(p.promRegistry))
		if err != nil {
			return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
		}
		return exporter, nil
	case "otlp":
		opts := []otlpmetrichttp.Option{}
		if cfg.OTLPEndpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpointURL(cfg.OTLPEndpoint))
		}
		if cfg.OTLPInsecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		exporter, err := otlpmetrichttp.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create otlp metric exporter: %w", err)
		}
		return sdkmetric.NewPeriodicReader(exporter), nil
	case "stdout":
		exporter, err := stdoutmetric.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout metric exporter: %w", err)
		}
		return sdkmetric.NewPeriodicReader(exporter), nil
	default:
		return nil, fmt.Errorf("unknown metrics exporter %q", cfg.MetricsExporter)
	}
}

// newTraceExporter builds the span exporter for the configured backend, or
// nil when tracing is off.
func newTraceExporter(ctx context.Context, cfg Config) (sdktrace.SpanExporter, error) {
	switch cfg.TracingExporter {
	case "none", "":
		return nil, nil
	case "otlp":
		opts := []otlptracehttp.Option{}
		if cfg.OTLPEndpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpointURL(cfg.OTLPEndpoint))
		}
		if cfg.OTLPInsecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		exporter, err := otlptracehttp.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create otlp trace exporter: %w", err)
		}
		return exporter, nil
	case "stdout":
		exporter, err := stdouttrace.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout trace exporter: %w", err)
		}
		return exporter, nil
	default:
		return nil, fmt.Errorf("unknown tracing exporter %q", cfg.TracingExporter)
	}
}

// Meter returns the provider's meter for this package's instruments.
func (p *Provider) Meter() metric.Meter {
	return p.meterProvider.Meter(TracerName)
}

// Tracer returns the provider's tracer. Nil-safe: without a provider the
// global (by default no-op) tracer is returned.
func (p *Provider) Tracer() trace.Tracer {
	if p == nil || p.tracerProvider == nil {
		return otel.Tracer(TracerName)
	}
	return p.tracerProvider.Tracer(TracerName)
}

// Metrics returns the recording instruments, nil when instrumentation is
// disabled.
func (p *Provider) Metrics() *Metrics {
	if p == nil {
		return nil
	}
	return p.metrics
}

// MetricsHandler returns an HTTP handler serving the Prometheus registry, or
// nil when the prometheus exporter is not in use.
func (p *Provider) MetricsHandler() http.Handler {
	if p == nil || p.promRegistry == nil {
		return nil
	}
	return promhttp.HandlerFor(p.promRegistry, promhttp.HandlerOpts{})
}

// Shutdown flushes and stops all pipelines.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	var errs []error
	if p.tracerProvider != nil {
		if err := p.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutting down tracer provider: %w", err))
		}
	}
	if p.meterProvider != nil {
		if err := p.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutting down meter provider: %w", err))
		}
	}
	return errors.Join(errs...)
}
