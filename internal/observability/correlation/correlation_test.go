package correlation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"modo/internal/observability/correlation"
)

func TestFromContext_ReturnsEmptyWhenUnset(t *testing.T) {
	assert.Equal(t, "", correlation.FromContext(context.Background()))
}

func TestWithID_RoundTrips(t *testing.T) {
	ctx := correlation.WithID(context.Background(), "abc-123")
	assert.Equal(t, "abc-123", correlation.FromContext(ctx))
}

func TestNew_ProducesDistinctIDs(t *testing.T) {
	assert.NotEqual(t, correlation.New(), correlation.New())
}
