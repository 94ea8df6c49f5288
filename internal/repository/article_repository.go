package repository

import (
	"context"
	"time"

	"modo/internal/domain/entity"
)

// UpsertStatus reports what UpsertByURL actually did, so callers (C12) can
// decide whether re-extraction/re-chunking is necessary.
type UpsertStatus string

const (
	UpsertInserted  UpsertStatus = "inserted"
	UpsertUpdated   UpsertStatus = "updated"
	UpsertUnchanged UpsertStatus = "unchanged"
)

// ArticleSearchFilters is the shared filter shape for article-level
// queries (search_articles, top_stories, fallback-ladder queries).
type ArticleSearchFilters struct {
	Countries    []string
	Topics       []string
	TitlePhrases []string // case-insensitive substring match, OR'd, phrase hits rank above keyword hits
	DateFrom     *time.Time
	DateTo       *time.Time
}

// ArticleRepository is the Store's article-facing surface (§4.9).
type ArticleRepository interface {
	// UpsertByURL inserts a new article, updates an existing one whose
	// content hash changed, or reports Unchanged. Returns the persisted
	// row (with ID populated) in all three cases.
	UpsertByURL(ctx context.Context, article *entity.Article) (UpsertStatus, *entity.Article, error)

	Get(ctx context.Context, id int64) (*entity.Article, error)
	GetByURL(ctx context.Context, url string) (*entity.Article, error)

	// Update persists mutated fields (content, language, image, tags)
	// after extraction/tagging; it does not change the content hash path.
	Update(ctx context.Context, article *entity.Article) error

	// SearchByFilters implements the three "structured article search"
	// variants of §4.9 in one call: country membership, title-phrase
	// match, and topic-tag intersection, composed via ArticleSearchFilters.
	// Ordered by published_at desc.
	SearchByFilters(ctx context.Context, filters ArticleSearchFilters, limit, offset int) ([]*entity.Article, error)
	CountByFilters(ctx context.Context, filters ArticleSearchFilters) (int64, error)

	// RecentByCountry is the country-scoped fallback-ladder query: the N
	// most recent articles in a country, still respecting topic filters.
	RecentByCountry(ctx context.Context, countries []string, topics []string, limit int) ([]*entity.Article, error)

	// ListCountries powers list_countries: distinct country codes seen in
	// the last `days` days with article counts.
	ListCountries(ctx context.Context, days int) ([]CountryCount, error)
}

// CountryCount is one row of list_countries.
type CountryCount struct {
	Code  string
	Count int
}
