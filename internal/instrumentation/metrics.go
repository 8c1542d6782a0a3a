package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrStatus     = "status"
	attrGroup      = "group"
	attrVersion    = "version"
	attrResolution = "resolution"
	coreGroupLabel = "core"
)

// Status values recorded on metrics.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics provides methods for recording observability metrics. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	// Discovery metrics
	discoveryTotal         metric.Int64Counter
	discoveryDuration      metric.Float64Histogram
	discoveryCatalogSize   metric.Int64Histogram
	discoveryFetchTotal    metric.Int64Counter
	discoveryFetchDuration metric.Float64Histogram

	// Resolution metrics
	resolutionsTotal metric.Int64Counter

	// detailedLabels controls whether high-cardinality labels (API group,
	// version) are included in per-fetch metrics.
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all instruments initialized.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	m.discoveryTotal, err = meter.Int64Counter(
		"discovery_requests_total",
		metric.WithDescription("Total number of API resource discovery operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create discovery_requests_total counter: %w", err)
	}

	m.discoveryDuration, err = meter.Float64Histogram(
		"discovery_duration_seconds",
		metric.WithDescription("API resource discovery duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create discovery_duration_seconds histogram: %w", err)
	}

	m.discoveryCatalogSize, err = meter.Int64Histogram(
		"discovery_catalog_size",
		metric.WithDescription("Number of resource types in the merged discovery catalog"),
		metric.WithUnit("{resource}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create discovery_catalog_size histogram: %w", err)
	}

	m.discoveryFetchTotal, err = meter.Int64Counter(
		"discovery_group_version_requests_total",
		metric.WithDescription("Total number of per-group-version discovery fetches"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create discovery_group_version_requests_total counter: %w", err)
	}

	m.discoveryFetchDuration, err = meter.Float64Histogram(
		"discovery_group_version_duration_seconds",
		metric.WithDescription("Per-group-version discovery fetch duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 2.5, 5.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create discovery_group_version_duration_seconds histogram: %w", err)
	}

	m.resolutionsTotal, err = meter.Int64Counter(
		"resolutions_total",
		metric.WithDescription("Total number of context and namespace resolutions"),
		metric.WithUnit("{resolution}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resolutions_total counter: %w", err)
	}

	return m, nil
}

// RecordDiscovery records one complete discovery operation.
func (m *Metrics) RecordDiscovery(ctx context.Context, duration time.Duration, catalogSize int, status string) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(attrStatus, status))
	m.discoveryTotal.Add(ctx, 1, attrs)
	m.discoveryDuration.Record(ctx, duration.Seconds(), attrs)
	if status == StatusSuccess {
		m.discoveryCatalogSize.Record(ctx, int64(catalogSize))
	}
}

// RecordDiscoveryFetch records one per-group-version discovery fetch.
func (m *Metrics) RecordDiscoveryFetch(ctx context.Context, group, version string, duration time.Duration, status string) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String(attrStatus, status)}
	if m.detailedLabels {
		if group == "" {
			group = coreGroupLabel
		}
		attrs = append(attrs,
			attribute.String(attrGroup, group),
			attribute.String(attrVersion, version),
		)
	}
	set := metric.WithAttributes(attrs...)
	m.discoveryFetchTotal.Add(ctx, 1, set)
	m.discoveryFetchDuration.Record(ctx, duration.Seconds(), set)
}

// RecordResolution records one context or namespace resolution. The kind is
// "context" or "namespace".
func (m *Metrics) RecordResolution(ctx context.Context, kind, status string) {
	if m == nil {
		return
	}
	m.resolutionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrResolution, kind),
		attribute.String(attrStatus, status),
	))
}
