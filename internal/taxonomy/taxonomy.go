// Package taxonomy loads the reference data the tagging and ranking
// pipeline scores against: country and region keyword dictionaries, the
// topic keyword taxonomy, and the source-tier/priority-keyword table
// top_stories ranks by. The data ships as YAML under data/ and is
// compiled into the binary with go:embed so callers never touch the
// filesystem at runtime.
package taxonomy

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed data/countries.yaml
var countriesYAML []byte

//go:embed data/topics.yaml
var topicsYAML []byte

//go:embed data/source_tiers.yaml
var sourceTiersYAML []byte

// DisambiguationRule zeroes a country's score when any evidence term is
// present in the source text, resolving name collisions such as the
// country Georgia versus the US state.
type DisambiguationRule struct {
	TriggerCountry string   `yaml:"trigger_country"`
	EvidenceTerms  []string `yaml:"evidence_terms"`
}

type countriesFile struct {
	Countries      map[string][]string   `yaml:"countries"`
	Regions        map[string][]string   `yaml:"regions"`
	Disambiguation []DisambiguationRule  `yaml:"disambiguation"`
}

// TopicDefinition is a topic's positive and negative keyword lists.
type TopicDefinition struct {
	Positive []string `yaml:"positive"`
	Negative []string `yaml:"negative"`
}

type topicsFile struct {
	Topics map[string]TopicDefinition `yaml:"topics"`
}

// SourceTierData is the host-suffix tier table and priority-keyword list
// top_stories ranking scores against: tier maps to 10/20/30 by source
// trustworthiness, priority keywords bonus a title/body hit.
type SourceTierData struct {
	Tiers            map[int][]string `yaml:"tiers"`
	PriorityKeywords []string         `yaml:"priority_keywords"`
}

// Countries holds the parsed country, region, and disambiguation reference
// data used by the country tagger.
type Countries struct {
	// Keywords maps ISO-3166-1 alpha-2 country codes to their keyword list.
	Keywords map[string][]string
	// Regions maps a region code (e.g. "EU") to its keyword list.
	Regions map[string][]string
	// Disambiguation holds the ordered set of deterministic override rules.
	Disambiguation []DisambiguationRule
	// Codes is Keywords' key set, sorted, for stable iteration order.
	Codes []string
}

// Topics holds the parsed topic taxonomy used by the topic tagger.
type Topics struct {
	Definitions map[string]TopicDefinition
	// Names is Definitions' key set, sorted, for stable iteration order.
	Names []string
}

// LoadCountries parses the embedded country reference data.
func LoadCountries() (*Countries, error) {
	var parsed countriesFile
	if err := yaml.Unmarshal(countriesYAML, &parsed); err != nil {
		return nil, fmt.Errorf("taxonomy: parse countries.yaml: %w", err)
	}

	codes := make([]string, 0, len(parsed.Countries))
	for code := range parsed.Countries {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	return &Countries{
		Keywords:       parsed.Countries,
		Regions:        parsed.Regions,
		Disambiguation: parsed.Disambiguation,
		Codes:          codes,
	}, nil
}

// LoadTopics parses the embedded topic taxonomy.
func LoadTopics() (*Topics, error) {
	var parsed topicsFile
	if err := yaml.Unmarshal(topicsYAML, &parsed); err != nil {
		return nil, fmt.Errorf("taxonomy: parse topics.yaml: %w", err)
	}

	names := make([]string, 0, len(parsed.Topics))
	for name := range parsed.Topics {
		names = append(names, name)
	}
	sort.Strings(names)

	return &Topics{Definitions: parsed.Topics, Names: names}, nil
}

// LoadSourceTiers parses the embedded source-tier/priority-keyword table
// used by top_stories ranking.
func LoadSourceTiers() (*SourceTierData, error) {
	var data SourceTierData
	if err := yaml.Unmarshal(sourceTiersYAML, &data); err != nil {
		return nil, fmt.Errorf("taxonomy: parse source_tiers.yaml: %w", err)
	}
	return &data, nil
}
