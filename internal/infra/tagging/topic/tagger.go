// Package topic assigns closed-vocabulary topic identifiers to article
// text via positive/negative keyword scoring, mirroring the country
// tagger's n-gram technique with a per-topic demotion pass.
package topic

import (
	"sort"
	"strings"

	"modo/internal/infra/tagging/ngram"
	"modo/internal/taxonomy"
)

// TopK is the maximum number of topics a single article receives.
const TopK = 3

// Tagger scores text against the topic taxonomy's positive/negative
// keyword lists.
type Tagger struct {
	positiveIndex map[string][]string // keyword -> topics it boosts
	negativeIndex map[string][]string // keyword -> topics it demotes
	names         []string
}

// New builds a Tagger from loaded taxonomy data.
func New(data *taxonomy.Topics) *Tagger {
	t := &Tagger{
		positiveIndex: make(map[string][]string),
		negativeIndex: make(map[string][]string),
		names:         data.Names,
	}
	for _, name := range data.Names {
		def := data.Definitions[name]
		for _, kw := range def.Positive {
			t.positiveIndex[kw] = append(t.positiveIndex[kw], name)
		}
		for _, kw := range def.Negative {
			t.negativeIndex[kw] = append(t.negativeIndex[kw], name)
		}
	}
	return t
}

// Tag scores title+body text and returns up to TopK topics with strictly
// positive score, ordered by score desc then stably by name.
func (t *Tagger) Tag(title, body string) []string {
	titleWords := ngram.Words(title)
	allWords := ngram.Words(title + " " + body)

	titleTokens := make(map[string]bool)
	for _, tok := range ngram.Tokens(titleWords) {
		titleTokens[tok] = true
	}

	scores := make(map[string]float64)

	for _, tok := range ngram.Tokens(allWords) {
		n := float64(len(strings.Fields(tok)))
		inTitle := titleTokens[tok]

		posWeight := 1.0
		if inTitle {
			posWeight *= 3
		}
		posWeight *= n
		for _, name := range t.positiveIndex[tok] {
			scores[name] += posWeight
		}

		negWeight := 1.0
		if inTitle {
			negWeight = 2.0
		}
		for _, name := range t.negativeIndex[tok] {
			scores[name] -= negWeight
		}
	}

	names := make([]string, 0, len(scores))
	for name, score := range scores {
		if score > 0 {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		if scores[names[i]] != scores[names[j]] {
			return scores[names[i]] > scores[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > TopK {
		names = names[:TopK]
	}
	return names
}
