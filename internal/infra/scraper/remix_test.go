package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const remixContextHTML = `<html><body>
<script>
window.__remixContext = {
  "routes": {
    "routes/issues": {
      "loaderData": {
        "issues": [
          {"web_title": "Quarterly outlook", "slug": "/issues/q3-outlook", "override_scheduled_at": "2023-07-01"},
          {"web_title": "", "slug": "/issues/no-title"},
          {"web_title": "Missing slug", "slug": ""}
        ]
      }
    },
    "root": {}
  }
};
</script>
</body></html>`

func TestRemixAdapter_ParsesEmbeddedRemixContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(remixContextHTML))
	}))
	defer server.Close()

	a := NewRemixAdapter(testFetcher(), server.URL, RemixConfig{URLPrefix: server.URL})
	items, err := a.Scrape(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Quarterly outlook", items[0].Title)
	assert.Equal(t, server.URL+"/issues/q3-outlook", items[0].URL)
	require.NotNil(t, items[0].PublishedAt)
}

func TestRemixAdapter_AutoDetectsContextKeyWhenUnset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(remixContextHTML))
	}))
	defer server.Close()

	a := NewRemixAdapter(testFetcher(), server.URL, RemixConfig{})
	items, err := a.Scrape(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestRemixAdapter_MissingContextIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>nothing here</body></html>"))
	}))
	defer server.Close()

	a := NewRemixAdapter(testFetcher(), server.URL, RemixConfig{})
	_, err := a.Scrape(context.Background())
	assert.Error(t, err)
}
