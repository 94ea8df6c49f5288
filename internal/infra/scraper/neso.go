package scraper

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"modo/internal/infra/fetcher"
)

// NESOAdapter scrapes the National Energy System Operator news listing,
// whose Drupal-rendered article cards carry no og:image on the listing
// page itself: each article's image must be fetched from the article
// page individually, one extra request per item.
type NESOAdapter struct {
	fetcher  *fetcher.Fetcher
	baseURL  string
	listPath string
}

func NewNESOAdapter(f *fetcher.Fetcher, baseURL string) *NESOAdapter {
	return &NESOAdapter{
		fetcher:  f,
		baseURL:  strings.TrimRight(baseURL, "/"),
		listPath: "/news-and-events",
	}
}

func (n *NESOAdapter) Scrape(ctx context.Context) ([]Item, error) {
	listURL := n.baseURL + n.listPath
	result, err := n.fetcher.Fetch(ctx, listURL)
	if err != nil {
		return nil, fmt.Errorf("fetch neso news listing: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(result.HTML))
	if err != nil {
		return nil, fmt.Errorf("parse neso news listing: %w", err)
	}

	items := n.parseListing(doc)
	if len(items) == 0 {
		return nil, fmt.Errorf("no articles found on neso news listing")
	}

	for i := range items {
		imageURL, err := n.fetchArticleImage(ctx, items[i].URL)
		if err != nil {
			slog.Warn("neso: failed to fetch article image", slog.String("url", items[i].URL), slog.String("error", err.Error()))
			continue
		}
		items[i].ImageURL = imageURL
	}

	return items, nil
}

func (n *NESOAdapter) parseListing(doc *goquery.Document) []Item {
	var items []Item
	seen := make(map[string]struct{})

	doc.Find("article.node--type-article").Each(func(_ int, card *goquery.Selection) {
		link := card.Find("a.article-link")
		href, exists := link.Attr("href")
		if !exists || !strings.HasPrefix(href, "/news/") {
			return
		}

		fullURL := n.baseURL + href
		if _, dup := seen[fullURL]; dup {
			return
		}
		seen[fullURL] = struct{}{}

		title := strings.TrimSpace(link.Find("h3.article-title").Text())
		if title == "" {
			title = strings.TrimSpace(link.Text())
		}
		if len(title) <= 5 {
			return
		}

		summary := strings.TrimSpace(link.Find("div.article-description").Text())

		items = append(items, Item{
			Title:   title,
			URL:     fullURL,
			Summary: summary,
		})
	})

	return items
}

// fetchArticleImage fetches one article page and extracts its image from
// the field-field-image wrapper.
func (n *NESOAdapter) fetchArticleImage(ctx context.Context, articleURL string) (string, error) {
	result, err := n.fetcher.Fetch(ctx, articleURL)
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(result.HTML))
	if err != nil {
		return "", err
	}

	src, exists := doc.Find("div.field-field-image img").First().Attr("src")
	if !exists || src == "" {
		return "", nil
	}
	if strings.HasPrefix(src, "/") {
		return n.baseURL + src, nil
	}
	return src, nil
}
