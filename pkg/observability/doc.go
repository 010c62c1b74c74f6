// Package observability provides logging, metrics, tracing, health checks and
// graceful shutdown for the plugin host.
//
// # Logging
//
// NewLogger builds a logrus logger with the configured level and format.
// WithTraceContext adds trace/span IDs from the active span.
//
// # Metrics
//
// Metrics holds the Prometheus collectors for plugin discovery and
// lifecycle. Every recording method is safe on a nil *Metrics.
//
//	reg := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(reg)
//	http.Handle("/metrics", observability.MetricsHandler(reg))
//
// # Tracing
//
// InitOTel installs OTLP/gRPC tracer and meter providers when enabled; the
// registry creates spans from the global tracer provider.
//
// # Health
//
// HealthChecker reports readiness from one or more plugin sets.
//
// # Shutdown
//
// ShutdownManager waits for a signal and runs registered functions in
// reverse order.
package observability
