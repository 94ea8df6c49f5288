package extractor

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// minLanguageSampleLength is the floor below which detection is
// considered unreliable and skipped entirely.
const minLanguageSampleLength = 20

// languageSampleSize bounds how much of the extracted text is scanned,
// matching detect_language's first-1000-characters sample.
const languageSampleSize = 1000

// No language-detection library (e.g. langdetect) exists anywhere in the
// example corpus, so detection here is a small frequency-based heuristic
// rather than a statistical model: non-Latin text is classified by
// Unicode script, Latin-script text by stopword overlap against a short
// per-language word list. It is deliberately narrow: callers treat a
// miss as "unknown" (null), never as an error.
var scriptRanges = []struct {
	lang string
	in   func(r rune) bool
}{
	{"ko", func(r rune) bool { return unicode.Is(unicode.Hangul, r) }},
	{"ja", func(r rune) bool { return unicode.In(r, unicode.Hiragana, unicode.Katakana) }},
	{"zh", func(r rune) bool { return unicode.Is(unicode.Han, r) }},
	{"ru", func(r rune) bool { return unicode.Is(unicode.Cyrillic, r) }},
	{"ar", func(r rune) bool { return unicode.Is(unicode.Arabic, r) }},
	{"th", func(r rune) bool { return unicode.Is(unicode.Thai, r) }},
	{"hi", func(r rune) bool { return unicode.Is(unicode.Devanagari, r) }},
}

// stopwords are a handful of very common, near-unambiguous function
// words per language; a handful is enough to separate Latin-script
// languages without pulling in a model.
var stopwords = map[string][]string{
	"en": {"the", "and", "of", "to", "in", "is", "that", "for", "on", "with"},
	"es": {"el", "la", "de", "que", "y", "en", "los", "del", "las", "por"},
	"fr": {"le", "la", "de", "et", "les", "des", "est", "que", "pour", "une"},
	"de": {"der", "die", "das", "und", "ist", "den", "von", "mit", "auf", "nicht"},
	"pt": {"o", "a", "de", "que", "e", "do", "da", "em", "para", "com"},
	"it": {"il", "la", "di", "che", "e", "per", "un", "una", "del", "con"},
}

// detectLanguage returns an ISO-639-1 code and true on a confident
// match, or ("", false) when the sample is too short or inconclusive.
func detectLanguage(text string) (string, bool) {
	if utf8.RuneCountInString(text) < minLanguageSampleLength {
		return "", false
	}

	sample := text
	if runes := []rune(sample); len(runes) > languageSampleSize {
		sample = string(runes[:languageSampleSize])
	}

	for _, sr := range scriptRanges {
		for _, r := range sample {
			if sr.in(r) {
				return sr.lang, true
			}
		}
	}

	return detectByStopwords(sample)
}

func detectByStopwords(sample string) (string, bool) {
	words := strings.Fields(strings.ToLower(sample))
	if len(words) == 0 {
		return "", false
	}

	counts := make(map[string]int, len(stopwords))
	for _, w := range words {
		w = strings.Trim(w, ".,;:!?\"'()")
		for lang, list := range stopwords {
			for _, sw := range list {
				if w == sw {
					counts[lang]++
				}
			}
		}
	}

	// Ties go to the alphabetically first code, so the result does not
	// depend on map iteration order.
	langs := make([]string, 0, len(counts))
	for lang := range counts {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	bestLang, bestCount := "", 0
	for _, lang := range langs {
		if count := counts[lang]; count > bestCount {
			bestLang, bestCount = lang, count
		}
	}
	if bestCount == 0 {
		return "", false
	}
	return bestLang, true
}
