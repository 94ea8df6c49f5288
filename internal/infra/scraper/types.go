// Package scraper implements the Site Scraper (C3): a registry of
// per-source adapters for sites with no usable RSS/Atom feed, each
// returning scraped entries in the same shape the ingest pipeline expects
// from feedparser.
package scraper

import (
	"context"
	"time"
)

// Item is one scraped entry.
type Item struct {
	Title       string
	URL         string
	Summary     string
	PublishedAt *time.Time
	ImageURL    string
}

// Adapter scrapes one configured site end-to-end; it owns its own target
// URL(s) and selectors rather than taking them as call parameters, since a
// Source's Locator is only the registry lookup key, not a URL, once
// Kind == web_scraper.
type Adapter interface {
	Scrape(ctx context.Context) ([]Item, error)
}
