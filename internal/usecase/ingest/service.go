// Package ingest implements the Orchestrator (C12): the per-run pipeline
// that walks every enabled Source, fetches or scrapes its entries,
// upserts them as articles, extracts body/language/image, tags country
// and topic, chunks the body, embeds the chunks, and persists everything
// inside one IngestionRun audit record.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"modo/internal/domain/entity"
	"modo/internal/infra/chunk"
	"modo/internal/infra/extractor"
	"modo/internal/infra/feedparser"
	"modo/internal/infra/scraper"
	"modo/internal/infra/tagging/country"
	"modo/internal/observability/metrics"
	"modo/internal/observability/tracing"
	"modo/internal/repository"
)

// maxArticleConcurrency bounds per-source article fan-out; sources are
// still processed one at a time so one slow source cannot starve another.
const maxArticleConcurrency = 8

// FeedParser fetches and decodes one RSS/Atom feed.
type FeedParser interface {
	Parse(ctx context.Context, feedURL string) ([]feedparser.Item, error)
}

// ScraperRegistry resolves a Source's locator to its scraping adapter.
type ScraperRegistry interface {
	Get(locator string) (scraper.Adapter, error)
}

// ArticleExtractor turns a URL into body text, language, and image.
type ArticleExtractor interface {
	ExtractArticle(ctx context.Context, urlStr string) (extractor.Result, error)
}

// CountryTagger assigns country codes and regions from title/body text.
type CountryTagger interface {
	Tag(title, body string) country.Result
}

// TopicTagger assigns topic tags from title/body text.
type TopicTagger interface {
	Tag(title, body string) []string
}

// Embedder turns chunk texts into vectors, in batches of at most
// llm.MaxEmbedBatch.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Service runs ingestion across every enabled Source.
type Service struct {
	Sources   repository.SourceRepository
	Articles  repository.ArticleRepository
	Chunks    repository.ChunkRepository
	Runs      repository.RunRepository
	Feeds     FeedParser
	Scrapers  ScraperRegistry
	Extractor ArticleExtractor
	Countries CountryTagger
	Topics    TopicTagger
	Embedder  Embedder

	ChunkParams chunk.Params
	EmbedBatch  int

	// ArticleConcurrency bounds per-source article fan-out. Defaults to
	// maxArticleConcurrency when zero.
	ArticleConcurrency int
}

// entry is the common shape a feed item or scraped item is normalized to
// before upsert, regardless of which Fetcher/Scraper produced it.
type entry struct {
	Title       string
	URL         string
	Summary     string
	PublishedAt *time.Time
}

// Run executes one full ingestion pass over every enabled Source and
// returns the completed IngestionRun.
func (s *Service) Run(ctx context.Context) (*entity.IngestionRun, error) {
	ctx, span := tracing.StartSpan(ctx, "ingest.Run")
	defer span.End()

	run := &entity.IngestionRun{StartedAt: time.Now(), Status: entity.RunStatusRunning}
	if err := s.Runs.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("ingest: create run: %w", err)
	}

	sources, err := s.Sources.ListEnabled(ctx)
	if err != nil {
		s.finish(ctx, run, entity.RunStatusFailed)
		return run, fmt.Errorf("ingest: list enabled sources: %w", err)
	}

	var mu sync.Mutex
	for _, src := range sources {
		s.processSource(ctx, src, &run.Stats, &mu)
		mu.Lock()
		run.Stats.SourcesProcessed++
		mu.Unlock()
	}

	s.finish(ctx, run, entity.RunStatusCompleted)
	return run, nil
}

func (s *Service) finish(ctx context.Context, run *entity.IngestionRun, status entity.RunStatus) {
	now := time.Now()
	run.FinishedAt = &now
	run.Status = status
	if err := s.Runs.Update(context.WithoutCancel(ctx), run); err != nil {
		slog.Error("ingest: failed to persist run completion", slog.Int64("run_id", run.ID), slog.Any("error", err))
	}
}

// processSource fetches one Source's entries and fans out article
// processing up to maxArticleConcurrency at a time. Errors for individual
// entries are recorded on stats and never abort the run.
func (s *Service) processSource(ctx context.Context, src *entity.Source, stats *entity.IngestionRunStats, mu *sync.Mutex) {
	ctx, span := tracing.StartSpan(ctx, "ingest.processSource")
	defer span.End()

	crawlStart := time.Now()
	entries, err := s.fetchEntries(ctx, src)
	if err != nil {
		metrics.RecordFeedCrawlError(src.ID, "FetchError")
		slog.Warn("ingest: fetch failed", slog.String("source", src.Name), slog.Any("error", err))
		mu.Lock()
		stats.RecordError(entity.ErrorSample{SourceName: src.Name, Kind: "FetchError", Message: err.Error()})
		mu.Unlock()
		return
	}
	metrics.RecordFeedCrawl(src.ID, time.Since(crawlStart), int64(len(entries)))
	metrics.RecordArticlesFetched(src.Name, src.ID, len(entries))
	if src.Kind == entity.SourceKindPaywalled {
		return
	}

	concurrency := s.ArticleConcurrency
	if concurrency <= 0 {
		concurrency = maxArticleConcurrency
	}
	sem := make(chan struct{}, concurrency)
	eg, egCtx := errgroup.WithContext(ctx)

	for _, e := range entries {
		item := e
		eg.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()
			s.processEntry(egCtx, src, item, stats, mu)
			return nil
		})
	}
	_ = eg.Wait()
}

func (s *Service) fetchEntries(ctx context.Context, src *entity.Source) ([]entry, error) {
	switch src.Kind {
	case entity.SourceKindRSS:
		items, err := s.Feeds.Parse(ctx, src.Locator)
		if err != nil {
			return nil, err
		}
		entries := make([]entry, len(items))
		for i, it := range items {
			entries[i] = entry{Title: it.Title, URL: it.URL, Summary: it.Summary, PublishedAt: it.PublishedAt}
		}
		return entries, nil

	case entity.SourceKindScraper:
		adapter, err := s.Scrapers.Get(src.Locator)
		if err != nil {
			return nil, err
		}
		items, err := adapter.Scrape(ctx)
		if err != nil {
			return nil, err
		}
		entries := make([]entry, len(items))
		for i, it := range items {
			entries[i] = entry{Title: it.Title, URL: it.URL, Summary: it.Summary, PublishedAt: it.PublishedAt}
		}
		return entries, nil

	case entity.SourceKindPaywalled:
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown source kind %q", src.Kind)
	}
}

// processEntry upserts one entry and, if it is new or changed, runs
// extract -> tag -> chunk -> embed -> persist.
func (s *Service) processEntry(ctx context.Context, src *entity.Source, e entry, stats *entity.IngestionRunStats, mu *sync.Mutex) {
	article := &entity.Article{
		SourceID:    src.ID,
		Title:       e.Title,
		URL:         e.URL,
		PublishedAt: e.PublishedAt,
		FetchedAt:   time.Now(),
		RawSummary:  e.Summary,
		ContentHash: entity.ContentHash(e.Title, e.URL, e.Summary),
	}

	status, persisted, err := s.Articles.UpsertByURL(ctx, article)
	mu.Lock()
	stats.ArticlesFetched++
	mu.Unlock()
	if err != nil {
		mu.Lock()
		stats.RecordError(entity.ErrorSample{SourceName: src.Name, ArticleURL: e.URL, Kind: "StoreError", Message: err.Error()})
		mu.Unlock()
		return
	}

	switch status {
	case repository.UpsertUnchanged:
		return
	case repository.UpsertInserted:
		mu.Lock()
		stats.ArticlesNew++
		mu.Unlock()
	case repository.UpsertUpdated:
		mu.Lock()
		stats.ArticlesUpdated++
		mu.Unlock()
	}

	s.enrich(ctx, src, persisted, stats, mu)
}

// enrich runs the extract/tag/chunk/embed stages for one upserted article
// and persists the results. Each stage's failure is recorded and degrades
// gracefully rather than aborting the article.
func (s *Service) enrich(ctx context.Context, src *entity.Source, article *entity.Article, stats *entity.IngestionRunStats, mu *sync.Mutex) {
	extractStart := time.Now()
	result, err := s.Extractor.ExtractArticle(ctx, article.URL)
	if err != nil {
		metrics.RecordContentFetchFailed(time.Since(extractStart))
		mu.Lock()
		stats.RecordError(entity.ErrorSample{SourceName: src.Name, ArticleURL: article.URL, Kind: "ExtractError", Message: err.Error()})
		mu.Unlock()
	} else {
		metrics.RecordContentFetchSuccess(time.Since(extractStart), len(result.Text))
		article.ContentText = result.Text
		if result.Language != nil {
			article.Language = *result.Language
		}
		if result.ImageURL != "" {
			article.Metadata.ImageURL = result.ImageURL
		}
		if result.Text != "" {
			mu.Lock()
			stats.ArticlesExtracted++
			mu.Unlock()
		}
	}

	body := article.ContentText
	if body == "" {
		body = article.RawSummary
	}

	if src.CountryOverride != "" {
		article.CountryCodes = []string{src.CountryOverride}
	} else {
		tagged := s.Countries.Tag(article.Title, body)
		article.CountryCodes = tagged.Codes
		article.Metadata.Regions = tagged.Regions
	}
	article.TopicTags = s.Topics.Tag(article.Title, body)
	mu.Lock()
	stats.ArticlesTagged++
	mu.Unlock()

	if err := s.Articles.Update(ctx, article); err != nil {
		mu.Lock()
		stats.RecordError(entity.ErrorSample{SourceName: src.Name, ArticleURL: article.URL, Kind: "StoreError", Message: err.Error()})
		mu.Unlock()
		return
	}

	if body == "" {
		return
	}

	chunks := s.buildChunks(ctx, article, body, stats, mu)
	if len(chunks) == 0 {
		return
	}

	if err := s.Chunks.ReplaceForArticle(ctx, article.ID, chunks); err != nil {
		mu.Lock()
		stats.RecordError(entity.ErrorSample{SourceName: src.Name, ArticleURL: article.URL, Kind: "StoreError", Message: err.Error()})
		mu.Unlock()
	}
}

func (s *Service) buildChunks(ctx context.Context, article *entity.Article, body string, stats *entity.IngestionRunStats, mu *sync.Mutex) []*entity.ArticleChunk {
	pieces := chunk.Split(body, s.ChunkParams)
	if len(pieces) == 0 {
		return nil
	}

	chunks := make([]*entity.ArticleChunk, len(pieces))
	texts := make([]string, len(pieces))
	for i, p := range pieces {
		chunks[i] = &entity.ArticleChunk{
			ArticleID:    article.ID,
			ChunkIndex:   p.ChunkIndex,
			Text:         p.Text,
			CountryCodes: article.CountryCodes,
			TopicTags:    article.TopicTags,
			PublishedAt:  article.PublishedAt,
		}
		texts[i] = p.Text
	}
	mu.Lock()
	stats.ChunksCreated += len(chunks)
	mu.Unlock()

	batchSize := s.EmbedBatch
	if batchSize <= 0 {
		batchSize = 100
	}
	embedded := 0
	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}
		embedStart := time.Now()
		vectors, err := s.Embedder.Embed(ctx, texts[start:end])
		metrics.RecordEmbedDuration(time.Since(embedStart))
		if err != nil {
			metrics.RecordArticleEmbedded(false)
			mu.Lock()
			stats.RecordError(entity.ErrorSample{ArticleURL: article.URL, Kind: "EmbedError", Message: err.Error()})
			mu.Unlock()
			continue
		}
		metrics.RecordArticleEmbedded(true)
		for i, v := range vectors {
			chunks[start+i].Embedding = v
			embedded++
		}
	}
	mu.Lock()
	stats.ChunksEmbedded += embedded
	mu.Unlock()

	return chunks
}
