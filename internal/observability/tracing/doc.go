// Package tracing provides OpenTelemetry span helpers for the ingestion
// pipeline.
//
// Spans are rooted at one ingestion run ("ingest.Run") with one child span
// per source ("ingest.processSource"), so a single Jaeger/Zipkin trace
// shows which source a run spent its time on. The stages inside a source
// (fetch, extract, embed, persist) get no spans of their own.
//
// Example usage:
//
//	ctx, span := tracing.StartSpan(ctx, "ingest.processSource")
//	defer span.End()
package tracing
