package entity

import (
	"errors"
	"fmt"
	"time"
)

// SourceKind distinguishes how a Source is ingested.
type SourceKind string

const (
	SourceKindRSS       SourceKind = "rss"
	SourceKindScraper   SourceKind = "web_scraper"
	SourceKindPaywalled SourceKind = "paywalled"
)

func (k SourceKind) valid() bool {
	switch k {
	case SourceKindRSS, SourceKindScraper, SourceKindPaywalled:
		return true
	default:
		return false
	}
}

// Source is an ingestion origin: a feed, a scraped site, or a paywalled
// locator that is tracked but never auto-extracted.
type Source struct {
	ID        int64
	Name      string
	Kind      SourceKind
	Locator   string // feed/page URL for rss and paywalled; registry key for web_scraper
	Enabled   bool
	CreatedAt time.Time

	// CountryOverride pins every article from this source to a fixed
	// country code, bypassing the country tagger (a known-national source).
	CountryOverride string
}

// Validate checks field-level invariants. Locator resolution (e.g. that a
// web_scraper locator names a registered adapter) is the registry's job,
// not the entity's.
func (s *Source) Validate() error {
	if s.Name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if !s.Kind.valid() {
		return fmt.Errorf("invalid kind: %s (must be rss, web_scraper, or paywalled)", s.Kind)
	}
	if s.Locator == "" {
		return &ValidationError{Field: "locator", Message: "locator is required"}
	}
	if s.Kind != SourceKindScraper {
		if err := ValidateURL(s.Locator); err != nil {
			return fmt.Errorf("locator: %w", err)
		}
	}
	return nil
}

// ErrUnknownScraper is returned by a scraper registry when a Source's
// locator does not name a registered adapter.
var ErrUnknownScraper = errors.New("unknown scraper locator")
