// Package topstories implements top_stories (spec.md §6): a country's
// recent articles ranked by recency, source trustworthiness, and
// priority-keyword hits.
package topstories

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"modo/internal/domain/entity"
	"modo/internal/infra/promptfmt"
	"modo/internal/repository"
	"modo/internal/taxonomy"
)

// DefaultLimit is the result count absent an explicit limit.
const DefaultLimit = 10

// candidatePoolFactor bounds how many of a country's recent articles are
// fetched and scored before truncating to limit, so a high-volume country
// still gets a representative pool without scanning every match.
const candidatePoolFactor = 10

const (
	maxRecencyScore = 40.0
	maxKeywordScore = 30.0

	titleKeywordWeight = 2.0
	bodyKeywordWeight  = 1.0
)

// sourceTiers is the descending tier order tierScore checks a host
// suffix against; higher tiers win on the first match.
var sourceTiers = []int{30, 20, 10}

// RankedArticle is one top_stories result with its score breakdown.
type RankedArticle struct {
	Article      *entity.Article
	RecencyScore float64
	TierScore    float64
	KeywordScore float64
	Score        float64
}

// ArticleRepository is the subset of repository.ArticleRepository the
// Ranker depends on.
type ArticleRepository interface {
	SearchByFilters(ctx context.Context, filters repository.ArticleSearchFilters, limit, offset int) ([]*entity.Article, error)
}

// Ranker computes top_stories over a country's recent articles.
type Ranker struct {
	Articles ArticleRepository
	Tiers    *taxonomy.SourceTierData
}

// TopStories ranks the given country's articles published in the last
// days days and returns the top limit, highest score first, ties broken
// by article ID ascending for determinism.
func (r *Ranker) TopStories(ctx context.Context, country string, days, limit int) ([]RankedArticle, error) {
	if days <= 0 {
		days = 1
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	since := time.Now().AddDate(0, 0, -days)
	candidates, err := r.Articles.SearchByFilters(ctx, repository.ArticleSearchFilters{
		Countries: []string{country},
		DateFrom:  &since,
	}, limit*candidatePoolFactor, 0)
	if err != nil {
		return nil, fmt.Errorf("top_stories: %w", err)
	}

	ranked := make([]RankedArticle, 0, len(candidates))
	for _, article := range candidates {
		ranked = append(ranked, r.score(article, since))
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Article.ID < ranked[j].Article.ID
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

func (r *Ranker) score(article *entity.Article, since time.Time) RankedArticle {
	recency := recencyScore(article.PublishedAt, since)
	tier := tierScore(article.URL, r.Tiers)
	keyword := keywordScore(article.Title, article.ContentText, r.Tiers)

	return RankedArticle{
		Article:      article,
		RecencyScore: recency,
		TierScore:    tier,
		KeywordScore: keyword,
		Score:        recency + tier + keyword,
	}
}

// recencyScore scores linearly from maxRecencyScore at "just published"
// down to 0 at the window's start (since); articles with no published_at
// score 0.
func recencyScore(publishedAt *time.Time, since time.Time) float64 {
	if publishedAt == nil {
		return 0
	}
	window := time.Since(since)
	if window <= 0 {
		return maxRecencyScore
	}
	age := time.Since(*publishedAt)
	if age <= 0 {
		return maxRecencyScore
	}
	frac := 1 - age.Seconds()/window.Seconds()
	if frac < 0 {
		return 0
	}
	return frac * maxRecencyScore
}

// tierScore awards 30/20/10 for a host matching the corresponding tier's
// suffix list, highest tier wins, 0 for an unrecognized or unparsable URL.
func tierScore(rawURL string, tiers *taxonomy.SourceTierData) float64 {
	if tiers == nil {
		return 0
	}
	host := strings.TrimPrefix(strings.ToLower(promptfmt.Host(rawURL)), "www.")
	for _, tier := range sourceTiers {
		for _, suffix := range tiers.Tiers[tier] {
			if strings.HasSuffix(host, suffix) {
				return float64(tier)
			}
		}
	}
	return 0
}

// keywordScore counts priority-keyword hits in the title (x2) and body
// (x1), capped at maxKeywordScore.
func keywordScore(title, body string, tiers *taxonomy.SourceTierData) float64 {
	if tiers == nil {
		return 0
	}
	titleLower := strings.ToLower(title)
	bodyLower := strings.ToLower(body)

	var score float64
	for _, kw := range tiers.PriorityKeywords {
		if strings.Contains(titleLower, kw) {
			score += titleKeywordWeight
		}
		if strings.Contains(bodyLower, kw) {
			score += bodyKeywordWeight
		}
	}
	if score > maxKeywordScore {
		score = maxKeywordScore
	}
	return score
}
