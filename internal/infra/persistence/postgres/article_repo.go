// Package postgres implements the C9 Store: pgx-backed repositories for
// every entity the pipeline persists, plus pgvector-driven similarity
// search on article_chunks.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"modo/internal/domain/entity"
	"modo/internal/repository"
)

type ArticleRepo struct{ db *sql.DB }

func NewArticleRepo(db *sql.DB) repository.ArticleRepository {
	return &ArticleRepo{db: db}
}

const articleColumns = `
id, source_id, title, url, published_at, fetched_at, raw_summary,
content_text, language, content_hash, country_codes, topic_tags, metadata, created_at`

func scanArticle(scanner interface {
	Scan(dest ...interface{}) error
}) (*entity.Article, error) {
	var a entity.Article
	var metadataJSON []byte
	var publishedAt sql.NullTime

	if err := scanner.Scan(
		&a.ID, &a.SourceID, &a.Title, &a.URL, &publishedAt, &a.FetchedAt,
		&a.RawSummary, &a.ContentText, &a.Language, &a.ContentHash,
		(*stringArray)(&a.CountryCodes), (*stringArray)(&a.TopicTags),
		&metadataJSON, &a.CreatedAt,
	); err != nil {
		return nil, err
	}

	if publishedAt.Valid {
		a.PublishedAt = &publishedAt.Time
	}

	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &a.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	return &a, nil
}

// UpsertByURL relies on a conditional ON CONFLICT: the UPDATE only fires
// when the incoming content_hash differs, and RETURNING then yields zero
// rows for an unchanged article — the signal used to report
// UpsertUnchanged. Every outcome then re-reads the stored row: by URL
// when unchanged, by id when inserted or updated.
func (repo *ArticleRepo) UpsertByURL(ctx context.Context, article *entity.Article) (repository.UpsertStatus, *entity.Article, error) {
	metadataJSON, err := json.Marshal(article.Metadata)
	if err != nil {
		return "", nil, fmt.Errorf("UpsertByURL: marshal metadata: %w", err)
	}

	const query = `
INSERT INTO articles
    (source_id, title, url, published_at, fetched_at, raw_summary,
     content_text, language, content_hash, country_codes, topic_tags, metadata, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12, now())
ON CONFLICT (url) DO UPDATE SET
    source_id     = EXCLUDED.source_id,
    title         = EXCLUDED.title,
    published_at  = EXCLUDED.published_at,
    fetched_at    = EXCLUDED.fetched_at,
    raw_summary   = EXCLUDED.raw_summary,
    content_text  = EXCLUDED.content_text,
    language      = EXCLUDED.language,
    content_hash  = EXCLUDED.content_hash,
    country_codes = EXCLUDED.country_codes,
    topic_tags    = EXCLUDED.topic_tags,
    metadata      = EXCLUDED.metadata
WHERE articles.content_hash IS DISTINCT FROM EXCLUDED.content_hash
RETURNING id, created_at, (xmax = 0) AS inserted`

	var id int64
	var createdAt time.Time
	var inserted bool

	row := repo.db.QueryRowContext(ctx, query,
		article.SourceID, article.Title, article.URL, article.PublishedAt, article.FetchedAt,
		article.RawSummary, article.ContentText, article.Language, article.ContentHash,
		stringArray(article.CountryCodes), stringArray(article.TopicTags), metadataJSON,
	)
	if err := row.Scan(&id, &createdAt, &inserted); err != nil {
		if err == sql.ErrNoRows {
			existing, getErr := repo.GetByURL(ctx, article.URL)
			if getErr != nil {
				return "", nil, fmt.Errorf("UpsertByURL: fetch unchanged row: %w", getErr)
			}
			return repository.UpsertUnchanged, existing, nil
		}
		return "", nil, fmt.Errorf("UpsertByURL: %w", err)
	}

	status := repository.UpsertUpdated
	if inserted {
		status = repository.UpsertInserted
	}

	persisted, err := repo.Get(ctx, id)
	if err != nil {
		return "", nil, fmt.Errorf("UpsertByURL: reload: %w", err)
	}
	return status, persisted, nil
}

func (repo *ArticleRepo) Get(ctx context.Context, id int64) (*entity.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`
	article, err := scanArticle(repo.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return article, nil
}

func (repo *ArticleRepo) GetByURL(ctx context.Context, url string) (*entity.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE url = $1`
	article, err := scanArticle(repo.db.QueryRowContext(ctx, query, url))
	if err == sql.ErrNoRows {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetByURL: %w", err)
	}
	return article, nil
}

func (repo *ArticleRepo) Update(ctx context.Context, article *entity.Article) error {
	metadataJSON, err := json.Marshal(article.Metadata)
	if err != nil {
		return fmt.Errorf("Update: marshal metadata: %w", err)
	}

	const query = `
UPDATE articles SET
    content_text  = $1,
    language      = $2,
    country_codes = $3,
    topic_tags    = $4,
    metadata      = $5
WHERE id = $6`

	res, err := repo.db.ExecContext(ctx, query,
		article.ContentText, article.Language,
		stringArray(article.CountryCodes), stringArray(article.TopicTags),
		metadataJSON, article.ID,
	)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// buildFilterClauses translates ArticleSearchFilters into a WHERE clause
// fragment plus its positional args, starting the placeholder numbering
// at startIndex so callers can append LIMIT/OFFSET afterward.
func buildFilterClauses(filters repository.ArticleSearchFilters, startIndex int) (string, []interface{}) {
	var clauses []string
	var args []interface{}
	idx := startIndex

	if len(filters.Countries) > 0 {
		clauses = append(clauses, fmt.Sprintf("country_codes && $%d", idx))
		args = append(args, stringArray(filters.Countries))
		idx++
	}
	if len(filters.Topics) > 0 {
		clauses = append(clauses, fmt.Sprintf("topic_tags && $%d", idx))
		args = append(args, stringArray(filters.Topics))
		idx++
	}
	if len(filters.TitlePhrases) > 0 {
		var phraseClauses []string
		for _, phrase := range filters.TitlePhrases {
			phraseClauses = append(phraseClauses, fmt.Sprintf("title ILIKE $%d", idx))
			args = append(args, "%"+phrase+"%")
			idx++
		}
		clauses = append(clauses, "("+strings.Join(phraseClauses, " OR ")+")")
	}
	if filters.DateFrom != nil {
		clauses = append(clauses, fmt.Sprintf("published_at >= $%d", idx))
		args = append(args, *filters.DateFrom)
		idx++
	}
	if filters.DateTo != nil {
		clauses = append(clauses, fmt.Sprintf("published_at <= $%d", idx))
		args = append(args, *filters.DateTo)
		idx++
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (repo *ArticleRepo) SearchByFilters(ctx context.Context, filters repository.ArticleSearchFilters, limit, offset int) ([]*entity.Article, error) {
	where, args := buildFilterClauses(filters, 1)
	query := `SELECT ` + articleColumns + ` FROM articles` + where +
		fmt.Sprintf(" ORDER BY published_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("SearchByFilters: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var articles []*entity.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("SearchByFilters: scan: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func (repo *ArticleRepo) CountByFilters(ctx context.Context, filters repository.ArticleSearchFilters) (int64, error) {
	where, args := buildFilterClauses(filters, 1)
	query := `SELECT COUNT(*) FROM articles` + where

	var count int64
	if err := repo.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountByFilters: %w", err)
	}
	return count, nil
}

func (repo *ArticleRepo) RecentByCountry(ctx context.Context, countries []string, topics []string, limit int) ([]*entity.Article, error) {
	filters := repository.ArticleSearchFilters{Countries: countries, Topics: topics}
	return repo.SearchByFilters(ctx, filters, limit, 0)
}

func (repo *ArticleRepo) ListCountries(ctx context.Context, days int) ([]repository.CountryCount, error) {
	const query = `
SELECT code, COUNT(*) AS article_count
FROM articles, unnest(country_codes) AS code
WHERE published_at >= now() - ($1 || ' days')::interval
GROUP BY code
ORDER BY article_count DESC`

	rows, err := repo.db.QueryContext(ctx, query, days)
	if err != nil {
		return nil, fmt.Errorf("ListCountries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []repository.CountryCount
	for rows.Next() {
		var cc repository.CountryCount
		if err := rows.Scan(&cc.Code, &cc.Count); err != nil {
			return nil, fmt.Errorf("ListCountries: scan: %w", err)
		}
		result = append(result, cc)
	}
	return result, rows.Err()
}
