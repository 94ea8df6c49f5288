package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"modo/internal/infra/fetcher"
)

// remixContextPattern extracts the JSON literal assigned to
// window.__remixContext; (?s) lets . span newlines since the blob is
// usually pretty-printed across many lines.
var remixContextPattern = regexp.MustCompile(`(?s)window\.__remixContext\s*=\s*(\{.*?\});`)

// RemixConfig configures RemixAdapter's walk into the page's embedded
// __remixContext JSON.
type RemixConfig struct {
	// ContextKey is the routes[key] entry holding loaderData.issues. If
	// empty, a route with a loaderData field is used; when several routes
	// have one, which of them is picked is not defined.
	ContextKey string
	URLPrefix  string
}

// RemixAdapter scrapes Remix server-rendered pages by reading the
// window.__remixContext JSON blob Remix embeds for client hydration.
type RemixAdapter struct {
	fetcher *fetcher.Fetcher
	url     string
	cfg     RemixConfig
}

func NewRemixAdapter(f *fetcher.Fetcher, url string, cfg RemixConfig) *RemixAdapter {
	return &RemixAdapter{fetcher: f, url: url, cfg: cfg}
}

func (a *RemixAdapter) Scrape(ctx context.Context) ([]Item, error) {
	result, err := a.fetcher.Fetch(ctx, a.url)
	if err != nil {
		return nil, fmt.Errorf("fetch remix page: %w", err)
	}

	data, err := extractRemixContext(result.HTML)
	if err != nil {
		return nil, fmt.Errorf("extract __remixContext: %w", err)
	}

	items, err := a.parseIssues(data)
	if err != nil {
		return nil, fmt.Errorf("parse remix issues: %w", err)
	}
	if len(items) == 0 {
		return nil, errors.New("no issues found in remix context")
	}

	return items, nil
}

func extractRemixContext(html []byte) (map[string]interface{}, error) {
	matches := remixContextPattern.FindSubmatch(html)
	if len(matches) < 2 {
		return nil, errors.New("window.__remixContext not found")
	}

	var data map[string]interface{}
	if err := json.Unmarshal(matches[1], &data); err != nil {
		return nil, fmt.Errorf("unmarshal __remixContext: %w", err)
	}
	return data, nil
}

func (a *RemixAdapter) parseIssues(data map[string]interface{}) ([]Item, error) {
	routes, ok := data["routes"].(map[string]interface{})
	if !ok {
		return nil, errors.New("routes not found in remix context")
	}

	contextKey := a.cfg.ContextKey
	if contextKey == "" {
		for key, routeData := range routes {
			if routeMap, ok := routeData.(map[string]interface{}); ok {
				if _, hasLoader := routeMap["loaderData"]; hasLoader {
					contextKey = key
					break
				}
			}
		}
		if contextKey == "" {
			return nil, errors.New("no route with loaderData found")
		}
	}

	routeData, ok := routes[contextKey].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("route %s not found", contextKey)
	}
	loaderData, ok := routeData["loaderData"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("loaderData not found in route %s", contextKey)
	}
	rawIssues, ok := loaderData["issues"].([]interface{})
	if !ok {
		return nil, errors.New("issues array not found in loaderData")
	}

	var items []Item
	for _, raw := range rawIssues {
		obj, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		title, _ := obj["web_title"].(string)
		slug, _ := obj["slug"].(string)
		if title == "" || slug == "" {
			continue
		}
		publishedStr, _ := obj["override_scheduled_at"].(string)

		items = append(items, Item{
			Title:       title,
			URL:         makeAbsoluteURL(slug, a.cfg.URLPrefix),
			PublishedAt: parseDate(publishedStr, ""),
		})
	}
	return items, nil
}
