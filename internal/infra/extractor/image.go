package extractor

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// excludedImageTerms filters decorative/tracking images out of the
// in-body <img> fallback; matched case-insensitively against src.
var excludedImageTerms = []string{"logo", "icon", "avatar", "ad"}

// selectImage picks the article's representative image in priority
// order: og:image, twitter:image, article:image, then the first in-body
// <img> whose src doesn't look decorative. Relative URLs are resolved
// against pageURL; a URL that cannot be made absolute is skipped.
func selectImage(html []byte, pageURL string) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return ""
	}

	base, _ := url.Parse(pageURL)

	for _, property := range []string{"og:image", "twitter:image", "article:image"} {
		if content, ok := metaContent(doc, property); ok {
			if abs := resolveImageURL(base, content); abs != "" {
				return abs
			}
		}
	}

	var found string
	doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, exists := s.Attr("src")
		if !exists || src == "" {
			src, exists = s.Attr("data-src")
		}
		if !exists || src == "" {
			return true
		}
		if isDecorativeImage(src) {
			return true
		}
		abs := resolveImageURL(base, src)
		if abs == "" {
			return true
		}
		found = abs
		return false
	})

	return found
}

func metaContent(doc *goquery.Document, property string) (string, bool) {
	var content string
	var found bool
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name, _ := s.Attr("property")
		if name == "" {
			name, _ = s.Attr("name")
		}
		if name != property {
			return true
		}
		content, found = s.Attr("content")
		return false
	})
	return content, found && content != ""
}

func isDecorativeImage(src string) bool {
	lower := strings.ToLower(src)
	for _, term := range excludedImageTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

func resolveImageURL(base *url.URL, raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if parsed.IsAbs() {
		return parsed.String()
	}
	if base == nil || !base.IsAbs() {
		return ""
	}
	return base.ResolveReference(parsed).String()
}
