// Package entity defines the core domain entities and validation logic:
// Source, Article, ArticleChunk, IngestionRun, and Brief, along with their
// invariants and domain-specific errors.
package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"modo/internal/utils/text"
)

// MaxTagsPerArticle bounds country_codes and topic_tags (K=3).
const MaxTagsPerArticle = 3

// ArticleMetadata is the closed set of optional attributes an article may
// carry beyond its core fields. Every producer (extractor, tagger) and
// consumer (retriever, brief) of a field here is known to the core, so
// this stays a struct rather than an open map.
type ArticleMetadata struct {
	ImageURL string   `json:"image_url,omitempty"`
	Regions  []string `json:"regions,omitempty"`
}

// Article is one canonical story from a Source.
type Article struct {
	ID          int64
	SourceID    int64
	Title       string
	URL         string
	PublishedAt *time.Time
	FetchedAt   time.Time
	RawSummary  string
	ContentText string
	Language    string // ISO-639-1, empty if undetected
	ContentHash string

	CountryCodes []string
	TopicTags    []string
	Metadata     ArticleMetadata

	CreatedAt time.Time
}

// ContentHash computes the stable change-detection digest for an article:
// SHA-256(title|url|summary).
func ContentHash(title, url, summary string) string {
	h := sha256.Sum256([]byte(title + "|" + url + "|" + summary))
	return hex.EncodeToString(h[:])
}

// Validate checks field-level invariants. It does not enforce
// content_text-implies-language-attempted (that's a pipeline-ordering
// invariant, not a static one) but does cap tag cardinality.
func (a *Article) Validate() error {
	if a.Title == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if err := ValidateURL(a.URL); err != nil {
		return err
	}
	if len(a.CountryCodes) > MaxTagsPerArticle {
		return &ValidationError{Field: "country_codes", Message: "at most 3 country codes allowed"}
	}
	if len(a.TopicTags) > MaxTagsPerArticle {
		return &ValidationError{Field: "topic_tags", Message: "at most 3 topic tags allowed"}
	}
	return nil
}

// Preview returns a short snippet suitable for search_articles/top_stories
// result lists, preferring the extracted body over the feed summary.
func (a *Article) Preview(maxRunes int) string {
	src := a.ContentText
	if src == "" {
		src = a.RawSummary
	}
	return text.TruncateRunes(src, maxRunes)
}
