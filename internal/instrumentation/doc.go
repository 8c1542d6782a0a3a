// Package instrumentation provides OpenTelemetry metrics and tracing for
// kubetarget.
//
// Instrumentation is disabled by default for zero overhead and is switched on
// via environment variables (see Config). Metrics can be exported through
// Prometheus, OTLP, or stdout; traces through OTLP or stdout. All recording
// methods are nil-safe so call sites never need to guard on whether
// instrumentation is enabled.
package instrumentation
