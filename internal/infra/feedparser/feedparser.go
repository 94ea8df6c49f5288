// Package feedparser implements the Feed Parser (C2): gofeed-based RSS/Atom
// decoding into Item values ready for article upsert, including per-item
// content hashing and tolerant handling of malformed entries.
package feedparser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"

	"modo/internal/domain/entity"
	"modo/internal/resilience/circuitbreaker"
	"modo/internal/resilience/retry"
)

// ErrNoParseableEntries is returned when a feed parses successfully as
// XML but yields zero usable entries, so callers can distinguish "empty
// feed" from "network/circuit-breaker failure".
var ErrNoParseableEntries = errors.New("feedparser: no parseable entries in feed")

// Item is one feed entry, ready to become (or update) an entity.Article.
type Item struct {
	Title       string
	URL         string
	Summary     string
	PublishedAt *time.Time
	ContentHash string
}

// Parser parses RSS/Atom feeds over HTTP with circuit-breaker and retry
// protection.
type Parser struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	userAgent      string
}

func New(client *http.Client) *Parser {
	if client == nil {
		client = http.DefaultClient
	}
	return &Parser{
		client:         client,
		circuitBreaker: circuitbreaker.New(circuitbreaker.FeedFetchConfig()),
		retryConfig:    retry.FeedFetchConfig(),
		userAgent:      "CatchUpFeedBot/1.0",
	}
}

// Parse fetches and decodes feedURL, skipping individual malformed entries
// (missing title or link) with a warning log rather than failing the
// whole feed. Returns ErrNoParseableEntries if every entry was malformed
// or the feed was genuinely empty.
func (p *Parser) Parse(ctx context.Context, feedURL string) ([]Item, error) {
	var items []Item

	retryErr := retry.WithBackoff(ctx, p.retryConfig, func() error {
		cbResult, err := p.circuitBreaker.Execute(func() (interface{}, error) {
			return p.doParse(ctx, feedURL)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("feed parse circuit breaker open, request rejected",
					slog.String("url", feedURL))
				return fmt.Errorf("feed fetch unavailable: circuit breaker open")
			}
			return err
		}
		items = cbResult.([]Item)
		return nil
	})
	if retryErr != nil {
		return nil, entity.NewParseError(retryErr)
	}

	if len(items) == 0 {
		return nil, entity.NewParseError(ErrNoParseableEntries)
	}

	return items, nil
}

func (p *Parser) doParse(ctx context.Context, feedURL string) ([]Item, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = p.userAgent
	fp.Client = p.client

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}

	items := make([]Item, 0, len(feed.Items))
	for _, raw := range feed.Items {
		if raw.Title == "" || raw.Link == "" {
			slog.Warn("skipping malformed feed entry",
				slog.String("feed_url", feedURL),
				slog.String("title", raw.Title),
				slog.String("link", raw.Link))
			continue
		}

		summary := raw.Content
		if summary == "" {
			summary = raw.Description
		}

		var publishedAt *time.Time
		if raw.PublishedParsed != nil {
			publishedAt = raw.PublishedParsed
		} else if raw.UpdatedParsed != nil {
			publishedAt = raw.UpdatedParsed
		}

		items = append(items, Item{
			Title:       raw.Title,
			URL:         raw.Link,
			Summary:     summary,
			PublishedAt: publishedAt,
			ContentHash: entity.ContentHash(raw.Title, raw.Link, summary),
		})
	}

	return items, nil
}
