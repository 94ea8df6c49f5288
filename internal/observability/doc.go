// Package observability provides production-grade observability infrastructure
// including structured logging, Prometheus metrics, correlation IDs, and
// OpenTelemetry tracing.
//
// This package centralizes observability concerns to enable:
//   - Span tracing across ingestion pipeline stages
//   - Structured logging with correlation-ID propagation
//   - Prometheus metrics for monitoring
//
// Subpackages:
//   - logging: structured logging utilities with slog
//   - metrics: Prometheus metrics registry and recorders
//   - correlation: per-run correlation ID propagation
//   - tracing: OpenTelemetry span helpers
//
// Example usage:
//
//	import (
//	    "modo/internal/observability/logging"
//	    "modo/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("application started")
//
//	    metrics.RecordArticlesFetched("example-source", 1, 10)
//	}
package observability
