// Package ngram tokenizes text into word n-grams for keyword-based
// classification. It is shared by the country and topic taggers, which
// score each token against their own keyword dictionaries.
//
// There is no NLP tokenizer anywhere in the module's dependency stack, and
// this is the one case where regexp-based word splitting is genuinely
// sufficient: the taggers only need case-folded phrase matching against a
// closed keyword list, not part-of-speech or sentence structure.
package ngram

import (
	"regexp"
	"strings"
)

// MaxN is the longest phrase length the taggers match against, e.g.
// "south korea" (n=2) or "united arab emirates" (n=3).
const MaxN = 5

var wordPattern = regexp.MustCompile(`[a-zA-Z0-9.']+`)

// Words splits text into lowercased word tokens, stripping punctuation
// except '.' and '\'', which are kept wherever they appear in a word
// because keyword data relies on them (e.g. "u.s.", "georgia's").
func Words(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

// Tokens returns every contiguous n-gram of words for n in [1, MaxN],
// joined with single spaces, shortest n-grams first.
func Tokens(words []string) []string {
	var tokens []string
	for n := 1; n <= MaxN; n++ {
		if n > len(words) {
			break
		}
		for i := 0; i+n <= len(words); i++ {
			tokens = append(tokens, join(words[i:i+n]))
		}
	}
	return tokens
}

func join(words []string) string {
	return strings.Join(words, " ")
}
