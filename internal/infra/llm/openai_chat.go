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

// OpenAIChatModel implements ChatModel using OpenAI's chat completions API.
type OpenAIChatModel struct {
	client         *openai.Client
	model          string
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

func NewOpenAIChatModel(apiKey, model string) *OpenAIChatModel {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIChatModel{
		client:         openai.NewClient(apiKey),
		model:          model,
		circuitBreaker: circuitbreaker.New(circuitbreaker.OpenAIAPIConfig()),
		retryConfig:    retry.AIAPIConfig(),
	}
}

func (m *OpenAIChatModel) Generate(ctx context.Context, messages []Message, opts GenerateOptions) (string, error) {
	var result string

	retryErr := retry.WithBackoff(ctx, m.retryConfig, func() error {
		cbResult, err := m.circuitBreaker.Execute(func() (interface{}, error) {
			return m.doGenerate(ctx, messages, opts)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("openai chat circuit breaker open, request rejected",
					slog.String("service", "openai-chat"))
				return fmt.Errorf("openai chat unavailable: circuit breaker open")
			}
			return err
		}
		result = cbResult.(string)
		return nil
	})
	if retryErr != nil {
		return "", fmt.Errorf("openai generate failed after retries: %w", retryErr)
	}

	return result, nil
}

func (m *OpenAIChatModel) doGenerate(ctx context.Context, messages []Message, opts GenerateOptions) (string, error) {
	chatMessages := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		chatMessages[i] = openai.ChatCompletionMessage{Role: msg.Role, Content: msg.Content}
	}

	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       m.model,
		Messages:    chatMessages,
		Temperature: float32(opts.Temperature),
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai chat api returned empty response")
	}

	return resp.Choices[0].Message.Content, nil
}
