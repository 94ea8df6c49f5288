package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"

	"modo/internal/domain/entity"
	"modo/internal/repository"
)

type ChunkRepo struct{ db *sql.DB }

func NewChunkRepo(db *sql.DB) repository.ChunkRepository {
	return &ChunkRepo{db: db}
}

// ReplaceForArticle runs inside one transaction so a re-chunked article
// never has a window where readers see a partial chunk set.
func (repo *ChunkRepo) ReplaceForArticle(ctx context.Context, articleID int64, chunks []*entity.ArticleChunk) error {
	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ReplaceForArticle: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM article_chunks WHERE article_id = $1`, articleID); err != nil {
		return fmt.Errorf("ReplaceForArticle: delete: %w", err)
	}

	const insert = `
INSERT INTO article_chunks
    (article_id, chunk_index, text, embedding, country_codes, topic_tags, published_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now())`

	for _, c := range chunks {
		var embedding interface{}
		if c.Embedding != nil {
			v := pgvector.NewVector(c.Embedding)
			embedding = &v
		}

		if _, err := tx.ExecContext(ctx, insert,
			articleID, c.ChunkIndex, c.Text, embedding,
			stringArray(c.CountryCodes), stringArray(c.TopicTags), c.PublishedAt,
		); err != nil {
			return fmt.Errorf("ReplaceForArticle: insert chunk %d: %w", c.ChunkIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ReplaceForArticle: commit: %w", err)
	}
	return nil
}

// SearchSimilar ranks by cosine distance (pgvector's <=> operator) and
// reports similarity as 1 - distance so callers see a -1..1 "higher is
// better" score instead of a 0..2 distance.
func (repo *ChunkRepo) SearchSimilar(ctx context.Context, queryVector []float32, filters repository.VectorSearchFilters, k int) ([]repository.SimilarChunk, error) {
	var clauses []string
	args := []interface{}{pgvector.NewVector(queryVector)}
	idx := 2

	clauses = append(clauses, "c.embedding IS NOT NULL")
	if len(filters.Countries) > 0 {
		clauses = append(clauses, fmt.Sprintf("c.country_codes && $%d", idx))
		args = append(args, stringArray(filters.Countries))
		idx++
	}
	if len(filters.Topics) > 0 {
		clauses = append(clauses, fmt.Sprintf("c.topic_tags && $%d", idx))
		args = append(args, stringArray(filters.Topics))
		idx++
	}
	if filters.DateFrom != nil {
		clauses = append(clauses, fmt.Sprintf("c.published_at >= $%d", idx))
		args = append(args, *filters.DateFrom)
		idx++
	}
	if filters.DateTo != nil {
		clauses = append(clauses, fmt.Sprintf("c.published_at <= $%d", idx))
		args = append(args, *filters.DateTo)
		idx++
	}

	query := `
SELECT c.id, c.article_id, c.chunk_index, c.text, c.country_codes, c.topic_tags,
       c.published_at, c.created_at, 1 - (c.embedding <=> $1) AS similarity,
       a.title, a.url, a.published_at
FROM article_chunks c
JOIN articles a ON a.id = c.article_id
WHERE ` + strings.Join(clauses, " AND ") + fmt.Sprintf(`
ORDER BY c.embedding <=> $1
LIMIT $%d`, idx)
	args = append(args, k)

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("SearchSimilar: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []repository.SimilarChunk
	for rows.Next() {
		var chunk entity.ArticleChunk
		var brief repository.ArticleBrief
		var similarity float64
		var chunkPublishedAt, articlePublishedAt sql.NullTime

		if err := rows.Scan(
			&chunk.ID, &chunk.ArticleID, &chunk.ChunkIndex, &chunk.Text,
			(*stringArray)(&chunk.CountryCodes), (*stringArray)(&chunk.TopicTags),
			&chunkPublishedAt, &chunk.CreatedAt, &similarity,
			&brief.Title, &brief.URL, &articlePublishedAt,
		); err != nil {
			return nil, fmt.Errorf("SearchSimilar: scan: %w", err)
		}
		if chunkPublishedAt.Valid {
			chunk.PublishedAt = &chunkPublishedAt.Time
		}
		if articlePublishedAt.Valid {
			brief.PublishedAt = &articlePublishedAt.Time
		}

		results = append(results, repository.SimilarChunk{
			Chunk:       &chunk,
			ArticleID:   chunk.ArticleID,
			Similarity:  similarity,
			ArticleMeta: brief,
		})
	}
	return results, rows.Err()
}
