package repository

import (
	"context"
	"time"

	"modo/internal/domain/entity"
)

// VectorSearchFilters narrows vector search to chunks whose denormalized
// fields satisfy every non-empty constraint (§4.9 "Vector search").
type VectorSearchFilters struct {
	Countries []string // set-intersection on chunk.country_codes
	Topics    []string // set-intersection on chunk.topic_tags
	DateFrom  *time.Time
	DateTo    *time.Time
}

// SimilarChunk is one vector-search hit: the chunk plus its similarity
// (1 - cosine_distance) and enough article context to build a citation.
type SimilarChunk struct {
	Chunk       *entity.ArticleChunk
	ArticleID   int64
	Similarity  float64
	ArticleMeta ArticleBrief
}

// ArticleBrief carries just the fields a citation needs, joined by value
// so the retriever never has to issue a second round-trip per chunk.
type ArticleBrief struct {
	Title       string
	URL         string
	PublishedAt *time.Time
}

// ChunkRepository is the Store's retrieval-unit surface.
type ChunkRepository interface {
	// ReplaceForArticle atomically deletes all existing chunks for an
	// article and inserts the given ones, within one transaction.
	ReplaceForArticle(ctx context.Context, articleID int64, chunks []*entity.ArticleChunk) error

	// SearchSimilar returns the k chunks with smallest cosine distance
	// whose embedding is not null and that satisfy filters, along with
	// similarity = 1 - cosine_distance.
	SearchSimilar(ctx context.Context, queryVector []float32, filters VectorSearchFilters, k int) ([]SimilarChunk, error)
}
