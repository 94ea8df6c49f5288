// Package promptfmt holds the tiny text-formatting helpers shared by the
// retriever and answerer packages: rendering a citation's source host and
// formatting an optional timestamp for a prompt.
package promptfmt

import (
	"net/url"
	"time"
)

// Host returns the host component of a URL, or the raw string unchanged
// if it doesn't parse as a URL with a host.
func Host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}

// Date renders a published-at timestamp for a prompt context block, or
// "unknown" if the article never had one.
func Date(t *time.Time) string {
	if t == nil {
		return "unknown"
	}
	return t.Format("2006-01-02")
}
