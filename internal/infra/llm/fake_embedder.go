package llm

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"math/rand"
)

// FakeEmbedder is a deterministic, dependency-free Embedder for tests. The
// same text always produces the same vector, and distinct texts produce
// (with overwhelming probability) distinct vectors, so cosine-similarity
// assertions in tests are reproducible without network calls.
type FakeEmbedder struct {
	dimensions int
}

// NewFakeEmbedder builds a FakeEmbedder producing vectors of the given
// dimension. dim defaults to 1536 (entity.EmbeddingDim) when <= 0.
func NewFakeEmbedder(dim int) *FakeEmbedder {
	if dim <= 0 {
		dim = 1536
	}
	return &FakeEmbedder{dimensions: dim}
}

func (f *FakeEmbedder) Dimensions() int { return f.dimensions }

func (f *FakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = f.vectorFor(text)
	}
	return vectors, nil
}

// vectorFor seeds a PRNG from the SHA-256 digest of text so the same input
// always yields the same vector, then normalizes to unit length.
func (f *FakeEmbedder) vectorFor(text string) []float32 {
	sum := sha256.Sum256([]byte(text))
	seed := int64(binary.BigEndian.Uint64(sum[:8]))
	rng := rand.New(rand.NewSource(seed))

	vec := make([]float32, f.dimensions)
	var sumSquares float64
	for i := range vec {
		v := rng.NormFloat64()
		vec[i] = float32(v)
		sumSquares += v * v
	}

	norm := float32(math.Sqrt(sumSquares))
	if norm == 0 {
		norm = 1
	}
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}
