// Package correlation carries a single correlation ID through a context so
// every log line emitted during one ingestion run or one CLI invocation can
// be tied back together, the same role request IDs played in the teacher's
// HTTP middleware chain.
package correlation

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

// IDKey is the context key the correlation ID is stored under.
const IDKey contextKey = "correlation_id"

// New generates a fresh correlation ID.
func New() string {
	return uuid.New().String()
}

// FromContext retrieves the correlation ID from the context, or "" if none
// was set.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(IDKey).(string); ok {
		return id
	}
	return ""
}

// WithID attaches a correlation ID to the context.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, IDKey, id)
}
