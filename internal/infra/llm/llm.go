// Package llm provides the capability interfaces the pipeline depends on
// for turning text into vectors and prompts into answers, plus the
// concrete OpenAI/Claude-backed implementations and a deterministic fake
// used by tests. Each capability is deliberately narrow: an Embedder only
// embeds, a ChatModel only generates, so the retriever and answerer never
// depend on a specific vendor SDK.
package llm

import "context"

// MaxEmbedBatch is the largest number of texts any Embedder implementation
// will send to a provider in a single request; callers with more texts
// must chunk themselves (internal/usecase/ingest does this per article
// batch).
const MaxEmbedBatch = 100

// Message is one turn in a chat-style prompt.
type Message struct {
	Role    string // "system", "user", or "assistant"
	Content string
}

// GenerateOptions controls a single ChatModel.Generate call.
type GenerateOptions struct {
	Temperature float64
	MaxTokens   int
}

// Embedder turns text into fixed-dimension vectors.
type Embedder interface {
	// Embed returns one vector per input text, in the same order. Callers
	// are responsible for batching above any provider-side limit.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions reports the vector length this embedder produces.
	Dimensions() int
}

// ChatModel generates free-text completions from a message history.
type ChatModel interface {
	Generate(ctx context.Context, messages []Message, opts GenerateOptions) (string, error)
}
