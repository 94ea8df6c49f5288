package entity

import "time"

// EmbeddingDim is the fixed vector dimension D for chunk embeddings. If
// this changes, every stored vector must be re-generated — the schema
// carries no per-row dimension.
const EmbeddingDim = 1536

// ArticleChunk is the unit of semantic retrieval: a bounded text segment
// produced from an article's extracted body, carrying its own embedding
// plus a denormalized copy of the parent article's filter fields.
type ArticleChunk struct {
	ID         int64
	ArticleID  int64
	ChunkIndex int
	Text       string
	Embedding  []float32 // nil if embedding failed or was never attempted

	// Denormalized from the parent Article at write time (the filter
	// pushdown mechanism that keeps vector search a single-table scan).
	CountryCodes []string
	TopicTags    []string
	PublishedAt  *time.Time

	CreatedAt time.Time
}

// Validate checks the embedding-dimension invariant for non-null vectors.
func (c *ArticleChunk) Validate() error {
	if c.Text == "" {
		return &ValidationError{Field: "text", Message: "text is required"}
	}
	if c.Embedding != nil && len(c.Embedding) != EmbeddingDim {
		return &ValidationError{Field: "embedding", Message: "embedding dimension mismatch"}
	}
	if c.ChunkIndex < 0 {
		return &ValidationError{Field: "chunk_index", Message: "chunk_index must be non-negative"}
	}
	return nil
}
