package extractor

import (
	"bytes"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// minContentLength is the acceptance floor for either extraction
// strategy; shorter results are treated as noise (a nav menu, a paywall
// stub) rather than article text.
const minContentLength = 100

// minParagraphLength filters out caption-sized paragraph fragments in
// the goquery fallback.
const minParagraphLength = 20

// extractText returns the article's main text, trying readability's
// content-scoring heuristic first and falling back to joining <p> tags
// when readability can't find a dominant content block.
func extractText(html []byte) (string, bool) {
	if text, ok := extractWithReadability(html); ok {
		return text, true
	}
	return extractWithParagraphJoin(html)
}

func extractWithReadability(html []byte) (string, bool) {
	article, err := readability.FromReader(io.NopCloser(bytes.NewReader(html)), &url.URL{})
	if err != nil {
		return "", false
	}

	text := strings.TrimSpace(article.TextContent)
	if len(text) < minContentLength {
		return "", false
	}
	return text, true
}

func extractWithParagraphJoin(html []byte) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return "", false
	}

	doc.Find("script, style, nav, footer, header, aside").Remove()

	var paragraphs []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if len(text) > minParagraphLength {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) == 0 {
		return "", false
	}

	content := strings.Join(paragraphs, "\n\n")
	if len(content) < minContentLength {
		return "", false
	}
	return content, true
}
