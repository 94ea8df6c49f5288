// Package retrieve implements the Retriever (C10): it turns a natural
// language question plus optional caller filters into a bounded, confidence
// graded set of grounded hits, falling back to article-level search and
// finally to a general-knowledge signal when vector search comes up thin.
package retrieve

import (
	"context"
	"fmt"
	"strings"
	"time"

	"modo/internal/domain/entity"
	"modo/internal/infra/tagging/country"
	"modo/internal/infra/tagging/ngram"
	"modo/internal/repository"
)

// DefaultK is the number of chunks requested from vector search absent an
// explicit k.
const DefaultK = 8

const (
	minSimilarity      = 0.5
	highMaxThreshold   = 0.80
	highMeanThreshold  = 0.70
	mediumMaxThreshold = 0.65

	// fallbackArticleLimit bounds both tiers of the fallback ladder: the
	// N most recent country articles, or the top N phrase/keyword hits.
	fallbackArticleLimit = 10
)

// Confidence grades how well the primary vector search answered the
// question.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// FallbackMode records which rung of the fallback ladder produced a
// result, if any. Empty means the primary vector search was used as-is.
type FallbackMode string

const (
	FallbackNone             FallbackMode = ""
	FallbackCountryArticles  FallbackMode = "country_articles"
	FallbackKeywordArticles  FallbackMode = "keyword_articles"
	FallbackGeneralKnowledge FallbackMode = "general_knowledge"
)

// Filters is the fused set of country/topic/date constraints a retrieval
// runs under, after merging caller-supplied filters with anything
// detected in the question text.
type Filters struct {
	Countries []string
	Topics    []string
	DateFrom  *time.Time
	DateTo    *time.Time
}

// Hit is one piece of grounding evidence: either a real vector-search
// chunk, or a synthetic stand-in built from an article preview when the
// fallback ladder had to reach for whole articles. ChunkID is 0 and
// Similarity is 0 for synthetic hits.
type Hit struct {
	ChunkID     int64
	ArticleID   int64
	Text        string
	Title       string
	URL         string
	PublishedAt *time.Time
	Similarity  float64
}

// Result is everything the Answerer needs to decide how to respond.
type Result struct {
	Hits       []Hit
	Confidence Confidence
	Filters    Filters
	Fallback   FallbackMode
}

// CountryTagger assigns country codes from text; the Retriever runs it
// over the raw question to detect an implied country filter.
type CountryTagger interface {
	Tag(title, body string) country.Result
}

// TopicTagger assigns topic tags from text; the Retriever runs it over
// the raw question to detect implied topic filters.
type TopicTagger interface {
	Tag(title, body string) []string
}

// Embedder turns the question into a query vector.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Retriever wires the taggers, embedder, and store surfaces needed to
// answer a question with grounded evidence.
type Retriever struct {
	Embedder      Embedder
	Chunks        repository.ChunkRepository
	Articles      repository.ArticleRepository
	CountryTagger CountryTagger
	TopicTagger   TopicTagger
}

// Retrieve embeds the question, fuses filters, runs vector search, and
// walks the fallback ladder if confidence comes back low.
func (r *Retriever) Retrieve(ctx context.Context, question string, caller Filters, k int) (*Result, error) {
	if k <= 0 {
		k = DefaultK
	}

	questionCountries := r.CountryTagger.Tag(question, "").Codes
	questionTopics := r.TopicTagger.Tag(question, "")
	fused := fuseFilters(caller, questionCountries, questionTopics)

	vectors, err := r.Embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, entity.NewAnswerError(fmt.Errorf("retrieve: embed question: %w", err))
	}

	similar, err := r.Chunks.SearchSimilar(ctx, vectors[0], repository.VectorSearchFilters{
		Countries: fused.Countries,
		Topics:    fused.Topics,
		DateFrom:  fused.DateFrom,
		DateTo:    fused.DateTo,
	}, k)
	if err != nil {
		return nil, fmt.Errorf("retrieve: vector search: %w", err)
	}

	hits := make([]Hit, 0, len(similar))
	for _, s := range similar {
		if s.Similarity < minSimilarity {
			continue
		}
		hits = append(hits, Hit{
			ChunkID:     s.Chunk.ID,
			ArticleID:   s.ArticleID,
			Text:        s.Chunk.Text,
			Title:       s.ArticleMeta.Title,
			URL:         s.ArticleMeta.URL,
			PublishedAt: s.ArticleMeta.PublishedAt,
			Similarity:  s.Similarity,
		})
	}

	result := &Result{Hits: hits, Confidence: assessConfidence(hits), Filters: fused}
	if result.Confidence != ConfidenceLow {
		return result, nil
	}
	return r.fallback(ctx, question, result)
}

// fuseFilters applies §4.10's filter-fusion rule: a country detected in
// the question always wins over a caller-supplied one (the call context
// is a hint; the question is an imperative), while topics are unioned.
func fuseFilters(caller Filters, questionCountries, questionTopics []string) Filters {
	fused := Filters{DateFrom: caller.DateFrom, DateTo: caller.DateTo}
	if len(questionCountries) > 0 {
		fused.Countries = questionCountries
	} else {
		fused.Countries = caller.Countries
	}
	fused.Topics = unionStrings(caller.Topics, questionTopics)
	return fused
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, list := range [][]string{a, b} {
		for _, s := range list {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

func assessConfidence(hits []Hit) Confidence {
	if len(hits) == 0 {
		return ConfidenceLow
	}
	var max, sum float64
	for _, h := range hits {
		if h.Similarity > max {
			max = h.Similarity
		}
		sum += h.Similarity
	}
	mean := sum / float64(len(hits))

	switch {
	case max >= highMaxThreshold && mean >= highMeanThreshold:
		return ConfidenceHigh
	case max >= mediumMaxThreshold:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// fallback walks the two article-level rungs before giving up to
// general knowledge. A successful rung is graded medium confidence,
// matching the fixed grade the fallback responses carry.
func (r *Retriever) fallback(ctx context.Context, question string, result *Result) (*Result, error) {
	if len(result.Filters.Countries) > 0 {
		articles, err := r.Articles.RecentByCountry(ctx, result.Filters.Countries, result.Filters.Topics, fallbackArticleLimit)
		if err != nil {
			return nil, fmt.Errorf("retrieve: recent by country: %w", err)
		}
		if len(articles) > 0 {
			result.Hits = syntheticHits(articles)
			result.Confidence = ConfidenceMedium
			result.Fallback = FallbackCountryArticles
			return result, nil
		}
	}

	phrases, keywords := questionPhrases(question)

	if len(phrases) > 0 {
		articles, err := r.searchTitlePhrases(ctx, result.Filters, phrases)
		if err != nil {
			return nil, err
		}
		if len(articles) > 0 {
			result.Hits = syntheticHits(articles)
			result.Confidence = ConfidenceMedium
			result.Fallback = FallbackKeywordArticles
			return result, nil
		}
	}

	if len(keywords) > 0 {
		articles, err := r.searchTitlePhrases(ctx, result.Filters, keywords)
		if err != nil {
			return nil, err
		}
		if len(articles) > 0 {
			result.Hits = syntheticHits(articles)
			result.Confidence = ConfidenceMedium
			result.Fallback = FallbackKeywordArticles
			return result, nil
		}
	}

	result.Fallback = FallbackGeneralKnowledge
	return result, nil
}

func (r *Retriever) searchTitlePhrases(ctx context.Context, filters Filters, phrases []string) ([]*entity.Article, error) {
	articles, err := r.Articles.SearchByFilters(ctx, repository.ArticleSearchFilters{
		Countries:    filters.Countries,
		Topics:       filters.Topics,
		TitlePhrases: phrases,
		DateFrom:     filters.DateFrom,
		DateTo:       filters.DateTo,
	}, fallbackArticleLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("retrieve: title search: %w", err)
	}
	return articles, nil
}

func syntheticHits(articles []*entity.Article) []Hit {
	hits := make([]Hit, len(articles))
	for i, a := range articles {
		hits[i] = Hit{
			ArticleID:   a.ID,
			Text:        a.Preview(500),
			Title:       a.Title,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
		}
	}
	return hits
}

// stopwords are dropped before phrase/keyword generation; question words
// like "what" and "tell" carry no search signal of their own.
var stopwords = map[string]bool{
	"what": true, "which": true, "who": true, "when": true, "where": true,
	"why": true, "how": true, "the": true, "a": true, "an": true,
	"is": true, "are": true, "was": true, "were": true, "did": true,
	"does": true, "do": true, "has": true, "have": true, "had": true,
	"will": true, "would": true, "could": true, "should": true,
	"and": true, "or": true, "in": true, "on": true, "at": true,
	"to": true, "of": true, "for": true, "with": true, "about": true,
	"tell": true, "me": true, "please": true, "that": true, "this": true,
}

// questionPhrases implements the title-phrase rung's tokenization rule:
// lowercase, strip stopwords and tokens of length <= 3, then generate the
// all-tokens phrase and every adjacent pair, ranked above single keywords.
func questionPhrases(question string) (phrases, keywords []string) {
	var tokens []string
	for _, w := range ngram.Words(question) {
		if len(w) > 3 && !stopwords[w] {
			tokens = append(tokens, w)
		}
	}
	if len(tokens) == 0 {
		return nil, nil
	}

	keywords = tokens
	if len(tokens) > 1 {
		phrases = append(phrases, strings.Join(tokens, " "))
		for i := 0; i < len(tokens)-1; i++ {
			phrases = append(phrases, tokens[i]+" "+tokens[i+1])
		}
	}
	return phrases, keywords
}
