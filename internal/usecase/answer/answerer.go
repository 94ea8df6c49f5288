// Package answer implements the Answerer (C11): it turns a Retriever
// result into a natural-language response, choosing among three prompt
// shapes depending on how the retrieval went, and extracts the citation
// list the grounded path's chunks imply.
package answer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"modo/internal/domain/entity"
	"modo/internal/infra/llm"
	"modo/internal/infra/promptfmt"
	"modo/internal/usecase/retrieve"
)

const (
	groundedTemperature = 0.2
	generalTemperature  = 0.3
)

// Citation is one source surfaced by a grounded or article-fallback
// answer, deduplicated to one entry per article.
type Citation struct {
	ArticleID   int64
	Title       string
	URL         string
	PublishedAt *time.Time
	Source      string
	ChunkID     int64
	Similarity  float64
}

// Response is what the Answerer hands back to the query surface.
type Response struct {
	Answer         string
	Citations      []Citation
	Confidence     retrieve.Confidence
	FiltersApplied retrieve.Filters
}

// ChatModel generates the final answer text from a message history.
type ChatModel interface {
	Generate(ctx context.Context, messages []llm.Message, opts llm.GenerateOptions) (string, error)
}

// Retriever is the subset of retrieve.Retriever the Answerer depends on.
type Retriever interface {
	Retrieve(ctx context.Context, question string, caller retrieve.Filters, k int) (*retrieve.Result, error)
}

// Answerer wires a Retriever to a ChatModel and picks the right prompt
// shape for whatever the Retriever came back with.
type Answerer struct {
	Retriever Retriever
	Chat      ChatModel
}

// Ask retrieves grounding evidence for question and generates an answer,
// choosing the grounded, article-fallback, or general-knowledge path
// based on the Retriever's confidence and fallback rung.
func (a *Answerer) Ask(ctx context.Context, question string, filters retrieve.Filters, k int) (*Response, error) {
	result, err := a.Retriever.Retrieve(ctx, question, filters, k)
	if err != nil {
		return nil, err
	}

	switch result.Fallback {
	case retrieve.FallbackGeneralKnowledge:
		return a.generalKnowledgeResponse(ctx, question, result)
	case retrieve.FallbackCountryArticles, retrieve.FallbackKeywordArticles:
		return a.articleFallbackResponse(ctx, question, result)
	default:
		return a.groundedResponse(ctx, question, result)
	}
}

func (a *Answerer) groundedResponse(ctx context.Context, question string, result *retrieve.Result) (*Response, error) {
	system := groundedSystemPrompt(result.Hits)
	text, err := a.generate(ctx, system, question, groundedTemperature)
	if err != nil {
		return nil, err
	}
	return &Response{
		Answer:         text,
		Citations:      extractCitations(result.Hits),
		Confidence:     result.Confidence,
		FiltersApplied: result.Filters,
	}, nil
}

func (a *Answerer) articleFallbackResponse(ctx context.Context, question string, result *retrieve.Result) (*Response, error) {
	system := articleFallbackSystemPrompt(result.Fallback, result.Hits)
	text, err := a.generate(ctx, system, question, groundedTemperature)
	if err != nil {
		return nil, err
	}
	return &Response{
		Answer:         text,
		Citations:      extractCitations(result.Hits),
		Confidence:     result.Confidence,
		FiltersApplied: result.Filters,
	}, nil
}

func (a *Answerer) generalKnowledgeResponse(ctx context.Context, question string, result *retrieve.Result) (*Response, error) {
	text, err := a.generate(ctx, generalKnowledgeSystemPrompt, question, generalTemperature)
	if err != nil {
		return nil, err
	}
	return &Response{
		Answer:         text,
		Confidence:     retrieve.ConfidenceLow,
		FiltersApplied: result.Filters,
	}, nil
}

func (a *Answerer) generate(ctx context.Context, system, question string, temperature float64) (string, error) {
	messages := []llm.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: question},
	}
	text, err := a.Chat.Generate(ctx, messages, llm.GenerateOptions{Temperature: temperature})
	if err != nil {
		return "", entity.NewAnswerError(err)
	}
	return text, nil
}

const groundedPreamble = "You are a news research assistant. Answer the question using only the " +
	"numbered context below, citing sources with bracket numbers like [1]. If the " +
	"context is insufficient to answer, say so plainly instead of guessing."

func groundedSystemPrompt(hits []retrieve.Hit) string {
	var b strings.Builder
	b.WriteString(groundedPreamble)
	b.WriteString("\n\n")
	writeContextBlocks(&b, hits)
	return b.String()
}

func articleFallbackSystemPrompt(mode retrieve.FallbackMode, hits []retrieve.Hit) string {
	matchNote := "These articles contain keywords from your question."
	if mode == retrieve.FallbackCountryArticles {
		matchNote = "These articles match your requested location."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a news research assistant. No passages matched your question "+
		"closely enough, so you were given recent whole articles instead. %s "+
		"Summarize what they cover and answer as best you can, noting that this is a "+
		"broader match than a precise retrieval.\n\n", matchNote)
	writeContextBlocks(&b, hits)
	return b.String()
}

const generalKnowledgeSystemPrompt = "You are a news research assistant. No relevant articles were " +
	"found in the database for this question. Answer from general knowledge only, and " +
	"explicitly state in your answer that the response is based on general knowledge, " +
	"not the article database."

func writeContextBlocks(b *strings.Builder, hits []retrieve.Hit) {
	for i, h := range hits {
		fmt.Fprintf(b, "[%d] %s\n(Source: %s, Published: %s)\n\n", i+1, h.Text, h.Title, promptfmt.Date(h.PublishedAt))
	}
}

// extractCitations dedupes hits to one citation per article, keeping the
// first (highest-ranked) hit's chunk and similarity.
func extractCitations(hits []retrieve.Hit) []Citation {
	seen := make(map[int64]bool, len(hits))
	citations := make([]Citation, 0, len(hits))
	for _, h := range hits {
		if seen[h.ArticleID] {
			continue
		}
		seen[h.ArticleID] = true
		citations = append(citations, Citation{
			ArticleID:   h.ArticleID,
			Title:       h.Title,
			URL:         h.URL,
			PublishedAt: h.PublishedAt,
			Source:      promptfmt.Host(h.URL),
			ChunkID:     h.ChunkID,
			Similarity:  h.Similarity,
		})
	}
	return citations
}
