package scraper

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"modo/internal/infra/fetcher"
)

// SelectorConfig drives GenericAdapter's extraction from a listing page.
type SelectorConfig struct {
	ItemSelector  string
	TitleSelector string
	URLSelector   string
	URLPrefix     string
	DateSelector  string
	DateFormat    string
}

// GenericAdapter scrapes one listing page using configured CSS selectors,
// for sites whose article list is static server-rendered HTML (Webflow,
// simple CMS templates) without a feed.
type GenericAdapter struct {
	fetcher *fetcher.Fetcher
	url     string
	cfg     SelectorConfig
}

func NewGenericAdapter(f *fetcher.Fetcher, url string, cfg SelectorConfig) *GenericAdapter {
	return &GenericAdapter{fetcher: f, url: url, cfg: cfg}
}

func (g *GenericAdapter) Scrape(ctx context.Context) ([]Item, error) {
	result, err := g.fetcher.Fetch(ctx, g.url)
	if err != nil {
		return nil, fmt.Errorf("fetch listing page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(result.HTML))
	if err != nil {
		return nil, fmt.Errorf("parse listing page: %w", err)
	}

	var items []Item
	doc.Find(g.cfg.ItemSelector).Each(func(i int, sel *goquery.Selection) {
		title := strings.TrimSpace(sel.Find(g.cfg.TitleSelector).Text())
		if title == "" {
			slog.Debug("scraper: skipping item with empty title", slog.Int("index", i), slog.String("url", g.url))
			return
		}

		href, exists := sel.Find(g.cfg.URLSelector).Attr("href")
		if !exists || strings.TrimSpace(href) == "" {
			slog.Debug("scraper: skipping item with empty url", slog.Int("index", i), slog.String("title", title))
			return
		}

		publishedAt := parseDate(strings.TrimSpace(sel.Find(g.cfg.DateSelector).Text()), g.cfg.DateFormat)

		items = append(items, Item{
			Title:       title,
			URL:         makeAbsoluteURL(strings.TrimSpace(href), g.cfg.URLPrefix),
			PublishedAt: publishedAt,
		})
	})

	if len(items) == 0 {
		return nil, fmt.Errorf("no items matched selector %q at %s", g.cfg.ItemSelector, g.url)
	}

	return items, nil
}

// parseDate tries format first, then a handful of common layouts, and
// returns nil (not now) when nothing matches so callers can decide
// whether to keep the item with an unknown publish date.
func parseDate(s, format string) *time.Time {
	if s == "" {
		return nil
	}
	layouts := []string{"2006-01-02", time.RFC3339, "Jan 2, 2006", "January 2, 2006", "2 Jan 2006"}
	if format != "" {
		layouts = append([]string{format}, layouts...)
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// makeAbsoluteURL joins a relative href with prefix if href isn't already
// absolute.
func makeAbsoluteURL(href, prefix string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if prefix == "" {
		return href
	}
	return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(href, "/")
}
