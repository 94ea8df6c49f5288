package scraper

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"context"

	"modo/internal/infra/fetcher"
)

// NextJSConfig configures NextJSAdapter's walk into the page's embedded
// __NEXT_DATA__ JSON.
type NextJSConfig struct {
	// DataKey is the props.pageProps key holding the item list; defaults
	// to "initialSeedData".
	DataKey   string
	URLPrefix string
}

// NextJSAdapter scrapes Next.js server-rendered pages by reading the
// __NEXT_DATA__ script tag Next.js embeds for hydration, rather than
// parsing rendered HTML, since many Next.js sites render article lists
// client-side with little usable markup.
type NextJSAdapter struct {
	fetcher *fetcher.Fetcher
	url     string
	cfg     NextJSConfig
}

func NewNextJSAdapter(f *fetcher.Fetcher, url string, cfg NextJSConfig) *NextJSAdapter {
	if cfg.DataKey == "" {
		cfg.DataKey = "initialSeedData"
	}
	return &NextJSAdapter{fetcher: f, url: url, cfg: cfg}
}

func (a *NextJSAdapter) Scrape(ctx context.Context) ([]Item, error) {
	result, err := a.fetcher.Fetch(ctx, a.url)
	if err != nil {
		return nil, fmt.Errorf("fetch nextjs page: %w", err)
	}

	data, err := extractNextData(result.HTML)
	if err != nil {
		return nil, fmt.Errorf("extract __NEXT_DATA__: %w", err)
	}

	items, err := a.parseItems(data)
	if err != nil {
		return nil, fmt.Errorf("parse nextjs items: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no items found under pageProps.%s", a.cfg.DataKey)
	}

	return items, nil
}

func extractNextData(html []byte) (map[string]interface{}, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var jsonText string
	doc.Find("script#__NEXT_DATA__").Each(func(_ int, s *goquery.Selection) {
		jsonText = s.Text()
	})
	if jsonText == "" {
		return nil, errors.New("__NEXT_DATA__ script tag not found")
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(jsonText), &data); err != nil {
		return nil, fmt.Errorf("unmarshal __NEXT_DATA__: %w", err)
	}
	return data, nil
}

func (a *NextJSAdapter) parseItems(data map[string]interface{}) ([]Item, error) {
	props, ok := data["props"].(map[string]interface{})
	if !ok {
		return nil, errors.New("props not found in __NEXT_DATA__")
	}
	pageProps, ok := props["pageProps"].(map[string]interface{})
	if !ok {
		return nil, errors.New("pageProps not found in __NEXT_DATA__")
	}
	seedData, ok := pageProps[a.cfg.DataKey].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%s not found in pageProps", a.cfg.DataKey)
	}
	rawItems, ok := seedData["items"].([]interface{})
	if !ok {
		return nil, errors.New("items array not found")
	}

	var items []Item
	for _, raw := range rawItems {
		obj, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		title, _ := obj["title"].(string)
		slug, _ := obj["slug"].(string)
		if title == "" || slug == "" {
			continue
		}

		publishedStr, _ := obj["publishedOn"].(string)
		summary, _ := obj["summary"].(string)

		items = append(items, Item{
			Title:       title,
			URL:         makeAbsoluteURL(slug, a.cfg.URLPrefix),
			Summary:     summary,
			PublishedAt: parseDate(publishedStr, ""),
		})
	}
	return items, nil
}
