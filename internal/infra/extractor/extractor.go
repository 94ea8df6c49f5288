// Package extractor implements C4: turning raw fetched HTML into article
// text, a detected language, and an image URL. It composes
// internal/infra/fetcher for the network leg and adds a second, redirect
// -following resolution pass for Google News links, whose true article
// URL only appears after a chain of 3xx responses the fetcher's main
// client deliberately refuses to follow.
package extractor

import (
	"context"
	"fmt"

	"modo/internal/domain/entity"
	"modo/internal/infra/fetcher"
)

// Result is the output of extracting a single article.
type Result struct {
	Text     string
	Language *string
	ImageURL string
}

// Extractor fetches a URL, resolves Google News redirects, and extracts
// article text/language/image from the resulting HTML.
type Extractor struct {
	fetcher  *fetcher.Fetcher
	resolver *googleNewsResolver
}

func New(f *fetcher.Fetcher) *Extractor {
	return &Extractor{
		fetcher:  f,
		resolver: newGoogleNewsResolver(),
	}
}

// ExtractArticle composes resolve -> fetch -> extract. Fetch failures
// surface as entity.ExtractError; extraction that yields no text returns
// a zero-value Result without error, since a page that fails to parse is
// not necessarily a broken fetch.
func (e *Extractor) ExtractArticle(ctx context.Context, urlStr string) (Result, error) {
	resolvedURL, err := e.resolver.resolve(ctx, urlStr)
	if err != nil {
		resolvedURL = urlStr
	}

	fetched, err := e.fetcher.Fetch(ctx, resolvedURL)
	if err != nil {
		return Result{}, entity.NewExtractError(fmt.Errorf("fetch %s: %w", resolvedURL, err))
	}

	text, ok := extractText(fetched.HTML)
	if !ok {
		return Result{}, nil
	}

	var language *string
	if lang, ok := detectLanguage(text); ok {
		language = &lang
	}

	imageURL := selectImage(fetched.HTML, fetched.FinalURL)

	return Result{Text: text, Language: language, ImageURL: imageURL}, nil
}
