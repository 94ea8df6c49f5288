// Package brief implements the Brief Answerer sibling of C11: an
// analyst-style markdown summary over a country's recent articles,
// cached through BriefRepository rather than retrieved per question.
package brief

import (
	"context"
	"fmt"
	"strings"
	"time"

	"modo/internal/domain/entity"
	"modo/internal/infra/llm"
	"modo/internal/infra/promptfmt"
	"modo/internal/repository"
)

// DefaultArticleLimit is the default number of articles (N) a brief is
// built from.
const DefaultArticleLimit = 15

// DisplayArticleLimit is how many articles a caller renders alongside the
// generated text.
const DisplayArticleLimit = 5

// DisplayArticle is one article surfaced for display next to a brief,
// independent of whether it fed the brief's generation.
type DisplayArticle struct {
	Title       string
	URL         string
	PublishedAt *time.Time
	Source      string
}

// ArticleRepository is the subset of repository.ArticleRepository the
// Generator depends on.
type ArticleRepository interface {
	SearchByFilters(ctx context.Context, filters repository.ArticleSearchFilters, limit, offset int) ([]*entity.Article, error)
}

// Repository is the subset of repository.BriefRepository the Generator
// depends on.
type Repository interface {
	Get(ctx context.Context, countryCode string, daysRange int) (*entity.Brief, error)
	Upsert(ctx context.Context, brief *entity.Brief) error
}

// ChatModel generates the brief's prose.
type ChatModel interface {
	Generate(ctx context.Context, messages []llm.Message, opts llm.GenerateOptions) (string, error)
}

// Generator produces and caches country briefs.
type Generator struct {
	Articles ArticleRepository
	Briefs   Repository
	Chat     ChatModel
}

// Generate returns the cached brief for countryCode/daysRange if one
// exists, otherwise builds a fresh one from the last daysRange days of
// articles and caches it. The display articles are always recomputed
// fresh so the attached metadata stays current even on a cache hit.
func (g *Generator) Generate(ctx context.Context, countryCode string, daysRange int) (*entity.Brief, []DisplayArticle, error) {
	dateFrom := time.Now().AddDate(0, 0, -daysRange)
	articles, err := g.Articles.SearchByFilters(ctx, repository.ArticleSearchFilters{
		Countries: []string{countryCode},
		DateFrom:  &dateFrom,
	}, DefaultArticleLimit, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("brief: search articles: %w", err)
	}
	display := displayArticles(articles)

	if cached, err := g.Briefs.Get(ctx, countryCode, daysRange); err == nil && cached != nil {
		return cached, display, nil
	}

	if len(articles) == 0 {
		return nil, nil, fmt.Errorf("brief: %w: no articles for %s in the last %d days", entity.ErrNotFound, countryCode, daysRange)
	}

	content, err := g.generateContent(ctx, countryCode, daysRange, articles)
	if err != nil {
		return nil, nil, err
	}

	b := &entity.Brief{
		CountryCode:  countryCode,
		Content:      content,
		ArticleCount: len(articles),
		DaysRange:    daysRange,
		GeneratedAt:  time.Now(),
	}
	if err := g.Briefs.Upsert(ctx, b); err != nil {
		return nil, nil, fmt.Errorf("brief: persist: %w", err)
	}
	return b, display, nil
}

const briefSystemPromptTemplate = "You are a news analyst producing a concise daily brief for %s covering " +
	"the last %d days. Write in a neutral, analyst style using markdown: a short summary " +
	"paragraph followed by bulleted highlights grouped by theme. Base the brief only on " +
	"the articles listed below; do not invent facts."

func (g *Generator) generateContent(ctx context.Context, countryCode string, daysRange int, articles []*entity.Article) (string, error) {
	var user strings.Builder
	for i, a := range articles {
		fmt.Fprintf(&user, "[%d] %s\n%s\n(Published: %s)\n\n", i+1, a.Title, a.Preview(400), promptfmt.Date(a.PublishedAt))
	}

	messages := []llm.Message{
		{Role: "system", Content: fmt.Sprintf(briefSystemPromptTemplate, countryCode, daysRange)},
		{Role: "user", Content: user.String()},
	}
	text, err := g.Chat.Generate(ctx, messages, llm.GenerateOptions{Temperature: 0.3})
	if err != nil {
		return "", entity.NewAnswerError(err)
	}
	return text, nil
}

func displayArticles(articles []*entity.Article) []DisplayArticle {
	n := DisplayArticleLimit
	if len(articles) < n {
		n = len(articles)
	}
	out := make([]DisplayArticle, n)
	for i := 0; i < n; i++ {
		out[i] = DisplayArticle{
			Title:       articles[i].Title,
			URL:         articles[i].URL,
			PublishedAt: articles[i].PublishedAt,
			Source:      promptfmt.Host(articles[i].URL),
		}
	}
	return out
}
