package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"modo/internal/resilience/circuitbreaker"
	"modo/internal/resilience/retry"
)

// OpenAIEmbedder implements Embedder using OpenAI's embeddings API.
type OpenAIEmbedder struct {
	client         *openai.Client
	model          openai.EmbeddingModel
	dimensions     int
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewOpenAIEmbedder builds an OpenAIEmbedder for text-embedding-3-small,
// which produces 1536-dimension vectors matching entity.EmbeddingDim.
func NewOpenAIEmbedder(apiKey string) *OpenAIEmbedder {
	return &OpenAIEmbedder{
		client:         openai.NewClient(apiKey),
		model:          openai.SmallEmbedding3,
		dimensions:     1536,
		circuitBreaker: circuitbreaker.New(circuitbreaker.OpenAIAPIConfig()),
		retryConfig:    retry.AIAPIConfig(),
	}
}

func (e *OpenAIEmbedder) Dimensions() int { return e.dimensions }

// Embed requests embeddings for texts in a single call. len(texts) must
// not exceed MaxEmbedBatch; batching across larger inputs is the caller's
// responsibility.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if len(texts) > MaxEmbedBatch {
		return nil, fmt.Errorf("llm: embed batch of %d exceeds max %d", len(texts), MaxEmbedBatch)
	}

	var vectors [][]float32

	retryErr := retry.WithBackoff(ctx, e.retryConfig, func() error {
		cbResult, err := e.circuitBreaker.Execute(func() (interface{}, error) {
			return e.doEmbed(ctx, texts)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("openai embeddings circuit breaker open, request rejected",
					slog.String("service", "openai-embeddings"))
				return fmt.Errorf("openai embeddings unavailable: circuit breaker open")
			}
			return err
		}
		vectors = cbResult.([][]float32)
		return nil
	})
	if retryErr != nil {
		return nil, fmt.Errorf("openai embed failed after retries: %w", retryErr)
	}

	return vectors, nil
}

func (e *OpenAIEmbedder) doEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings api error: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai embeddings returned %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(resp.Data))
	for _, d := range resp.Data {
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}
