package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.PerHostRate = 1000
	cfg.PerHostBurst = 1000
	cfg.GlobalRate = 1000
	cfg.GlobalBurst = 1000
	cfg.Timeout = 2 * time.Second
	cfg.DenyPrivateIPs = false
	return cfg
}

func TestFetcher_FetchReturnsBodyAndFinalURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>hello</body></html>"))
	}))
	defer server.Close()

	f := New(testConfig())
	result, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, string(result.HTML), "hello")
	assert.Equal(t, server.URL, result.FinalURL)
}

func TestFetcher_RejectsInvalidURL(t *testing.T) {
	f := New(testConfig())
	_, err := f.Fetch(context.Background(), "not-a-url")
	assert.Error(t, err)
}

func TestFetcher_RejectsNonHTTPScheme(t *testing.T) {
	f := New(testConfig())
	_, err := f.Fetch(context.Background(), "ftp://example.com/file")
	assert.Error(t, err)
}

func TestFetcher_EnforcesMaxBodySize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 2048)))
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.MaxBodySize = 1024
	f := New(cfg)
	_, err := f.Fetch(context.Background(), server.URL)
	assert.Error(t, err)
}

func TestFetcher_NonOKStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := New(testConfig())
	_, err := f.Fetch(context.Background(), server.URL)
	assert.Error(t, err)
}
