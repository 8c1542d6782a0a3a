package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the default tracer name for the kubetarget package.
const TracerName = "github.com/kubetarget/kubetarget"

// Span attribute keys for resolution and discovery operations.
const (
	// SpanAttrContext is the resolved Kubernetes context name.
	SpanAttrContext = "k8s.context"

	// SpanAttrNamespace is the resolved Kubernetes namespace.
	SpanAttrNamespace = "k8s.namespace"

	// SpanAttrGroupVersion is the API group-version being fetched.
	SpanAttrGroupVersion = "k8s.group_version"

	// SpanAttrGroupCount is the number of API groups reported by root discovery.
	SpanAttrGroupCount = "discovery.group_count"

	// SpanAttrResourceCount is the size of the merged catalog.
	SpanAttrResourceCount = "discovery.resource_count"

	// SpanAttrOperation is the operation name.
	SpanAttrOperation = "kubetarget.operation"
)

// StartDiscoverySpan starts a client span for a discovery operation using the
// package tracer.
func StartDiscoverySpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient))
}

// RecordSpanError records err on the span and marks the span status as error.
func RecordSpanError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// DiscoveryResultAttrs returns the span attributes describing a completed
// discovery operation.
func DiscoveryResultAttrs(groupCount, resourceCount int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(SpanAttrGroupCount, groupCount),
		attribute.Int(SpanAttrResourceCount, resourceCount),
	}
}

// SpanAttributeBuilder helps construct span attributes with consistent naming.
type SpanAttributeBuilder struct {
	attrs []attribute.KeyValue
}

// NewSpanAttributeBuilder creates a new SpanAttributeBuilder.
func NewSpanAttributeBuilder() *SpanAttributeBuilder {
	return &SpanAttributeBuilder{
		attrs: make([]attribute.KeyValue, 0, 6),
	}
}

// WithOperation adds the operation name attribute.
func (b *SpanAttributeBuilder) WithOperation(op string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.String(SpanAttrOperation, op))
	return b
}

// WithContext adds the Kubernetes context attribute.
func (b *SpanAttributeBuilder) WithContext(name string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.String(SpanAttrContext, name))
	return b
}

// WithNamespace adds the namespace attribute.
func (b *SpanAttributeBuilder) WithNamespace(ns string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.String(SpanAttrNamespace, ns))
	return b
}

// WithGroupVersion adds the group-version attribute.
func (b *SpanAttributeBuilder) WithGroupVersion(gv string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.String(SpanAttrGroupVersion, gv))
	return b
}

// Build returns the accumulated attributes.
func (b *SpanAttributeBuilder) Build() []attribute.KeyValue {
	return b.attrs
}
