package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sony/gobreaker"

	"modo/internal/resilience/circuitbreaker"
	"modo/internal/resilience/retry"
)

// ClaudeChatModel implements ChatModel using Anthropic's Messages API.
type ClaudeChatModel struct {
	client         anthropic.Client
	model          anthropic.Model
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

func NewClaudeChatModel(apiKey, model string) *ClaudeChatModel {
	m := anthropic.Model(model)
	if model == "" {
		m = anthropic.ModelClaudeSonnet4_5_20250929
	}
	return &ClaudeChatModel{
		client:         anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:          m,
		circuitBreaker: circuitbreaker.New(circuitbreaker.ClaudeAPIConfig()),
		retryConfig:    retry.AIAPIConfig(),
	}
}

func (m *ClaudeChatModel) Generate(ctx context.Context, messages []Message, opts GenerateOptions) (string, error) {
	var result string

	retryErr := retry.WithBackoff(ctx, m.retryConfig, func() error {
		cbResult, err := m.circuitBreaker.Execute(func() (interface{}, error) {
			return m.doGenerate(ctx, messages, opts)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("claude chat circuit breaker open, request rejected",
					slog.String("service", "claude-chat"))
				return fmt.Errorf("claude chat unavailable: circuit breaker open")
			}
			return err
		}
		result = cbResult.(string)
		return nil
	})
	if retryErr != nil {
		return "", fmt.Errorf("claude generate failed after retries: %w", retryErr)
	}

	return result, nil
}

// doGenerate splits messages into a top-level system prompt (Claude takes
// system text out-of-band) and a user/assistant turn sequence.
func (m *ClaudeChatModel) doGenerate(ctx context.Context, messages []Message, opts GenerateOptions) (string, error) {
	var system string
	var turns []anthropic.MessageParam

	for _, msg := range messages {
		switch msg.Role {
		case "system":
			if system != "" {
				system += "\n"
			}
			system += msg.Content
		case "assistant":
			turns = append(turns, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			turns = append(turns, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	maxTokens := int64(opts.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	params := anthropic.MessageNewParams{
		Model:     m.model,
		MaxTokens: maxTokens,
		Messages:  turns,
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	message, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("claude api error: %w", err)
	}
	if len(message.Content) == 0 {
		return "", fmt.Errorf("claude api returned empty response")
	}

	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		return "", fmt.Errorf("claude api returned unexpected response type")
	}

	return textBlock.Text, nil
}
