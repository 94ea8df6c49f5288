// Package country assigns ISO-3166-1 alpha-2 country codes to article text
// via keyword n-gram scoring, the same technique used by the original
// Python nlp service, ported onto the shared ngram tokenizer.
package country

import (
	"sort"
	"strings"

	"modo/internal/infra/tagging/ngram"
	"modo/internal/taxonomy"
)

// TopK is the maximum number of country codes a single article receives.
const TopK = 3

// Result is the outcome of tagging one article: country codes plus any
// non-country regions detected in the same pass.
type Result struct {
	Codes   []string
	Regions []string
}

// Tagger scores text against the country/region/disambiguation taxonomy.
type Tagger struct {
	keywordIndex map[string][]string // keyword -> country codes sharing it
	regionIndex  map[string][]string // keyword -> region codes
	disambig     []taxonomy.DisambiguationRule
}

// New builds a Tagger from loaded taxonomy data.
func New(data *taxonomy.Countries) *Tagger {
	t := &Tagger{
		keywordIndex: make(map[string][]string),
		regionIndex:  make(map[string][]string),
		disambig:     data.Disambiguation,
	}
	for _, code := range data.Codes {
		for _, kw := range data.Keywords[code] {
			t.keywordIndex[kw] = append(t.keywordIndex[kw], code)
		}
	}
	for region, keywords := range data.Regions {
		for _, kw := range keywords {
			t.regionIndex[kw] = append(t.regionIndex[kw], region)
		}
	}
	return t
}

// Tag scores title+body text and returns up to TopK country codes ordered
// by score desc, then stably by code, plus any regions detected.
func (t *Tagger) Tag(title, body string) Result {
	titleWords := ngram.Words(title)
	bodyWords := ngram.Words(title + " " + body)

	titleTokens := make(map[string]bool)
	for _, tok := range ngram.Tokens(titleWords) {
		titleTokens[tok] = true
	}

	scores := make(map[string]float64)
	regionSet := make(map[string]bool)

	for _, tok := range ngram.Tokens(bodyWords) {
		weight := 1.0
		if titleTokens[tok] {
			weight *= 3
		}
		weight *= float64(len(strings.Fields(tok)))

		for _, code := range t.keywordIndex[tok] {
			scores[code] += weight
		}
		for _, region := range t.regionIndex[tok] {
			regionSet[region] = true
		}
	}

	fullText := strings.ToLower(title + " " + body)
	for _, rule := range t.disambig {
		for _, evidence := range rule.EvidenceTerms {
			if strings.Contains(fullText, evidence) {
				scores[rule.TriggerCountry] = 0
				break
			}
		}
	}

	codes := make([]string, 0, len(scores))
	for code, score := range scores {
		if score > 0 {
			codes = append(codes, code)
		}
	}
	sort.Slice(codes, func(i, j int) bool {
		if scores[codes[i]] != scores[codes[j]] {
			return scores[codes[i]] > scores[codes[j]]
		}
		return codes[i] < codes[j]
	})
	if len(codes) > TopK {
		codes = codes[:TopK]
	}

	regions := make([]string, 0, len(regionSet))
	for region := range regionSet {
		regions = append(regions, region)
	}
	sort.Strings(regions)

	return Result{Codes: codes, Regions: regions}
}
