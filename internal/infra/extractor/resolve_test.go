package extractor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleNewsResolver_NonGoogleHostPassesThrough(t *testing.T) {
	r := newGoogleNewsResolver()
	resolved, err := r.resolve(context.Background(), "https://example.com/article")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/article", resolved)
}

func TestGoogleNewsResolver_InvalidURLPassesThrough(t *testing.T) {
	r := newGoogleNewsResolver()
	resolved, err := r.resolve(context.Background(), "://not-a-url")
	require.NoError(t, err)
	assert.Equal(t, "://not-a-url", resolved)
}
