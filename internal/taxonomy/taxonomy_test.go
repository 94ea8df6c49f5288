package taxonomy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modo/internal/taxonomy"
)

func TestLoadCountries(t *testing.T) {
	countries, err := taxonomy.LoadCountries()
	require.NoError(t, err)

	assert.Contains(t, countries.Keywords, "US")
	assert.Contains(t, countries.Keywords["US"], "united states")

	assert.Contains(t, countries.Regions, "EU")
	assert.Contains(t, countries.Regions["EU"], "european union")

	require.NotEmpty(t, countries.Disambiguation)
	var found bool
	for _, rule := range countries.Disambiguation {
		if rule.TriggerCountry == "GE" {
			found = true
			assert.Contains(t, rule.EvidenceTerms, "atlanta")
		}
	}
	assert.True(t, found, "expected a GE disambiguation rule")

	assert.True(t, isSorted(countries.Codes))
}

func TestLoadTopics(t *testing.T) {
	topics, err := taxonomy.LoadTopics()
	require.NoError(t, err)

	require.Contains(t, topics.Definitions, "renewables_wind")
	wind := topics.Definitions["renewables_wind"]
	assert.Contains(t, wind.Positive, "offshore wind")
	assert.Contains(t, wind.Negative, "solar")

	require.Contains(t, topics.Definitions, "policy_regulation")
	policy := topics.Definitions["policy_regulation"]
	assert.Contains(t, policy.Positive, "carbon tax")

	for _, id := range []string{
		"renewables_wind", "renewables_solar", "storage_batteries", "hydrogen",
		"ev_transport", "oil_gas_transition", "carbon_markets_ccus",
		"critical_minerals_supply_chain", "power_grid", "corporate_finance",
		"policy_regulation",
	} {
		assert.Contains(t, topics.Definitions, id)
	}

	assert.True(t, isSorted(topics.Names))
}

func TestLoadSourceTiers(t *testing.T) {
	tiers, err := taxonomy.LoadSourceTiers()
	require.NoError(t, err)

	assert.Contains(t, tiers.Tiers[30], "reuters.com")
	assert.Contains(t, tiers.Tiers[20], "iea.org")
	assert.NotEmpty(t, tiers.PriorityKeywords)
}

func isSorted(ss []string) bool {
	for i := 1; i < len(ss); i++ {
		if ss[i-1] > ss[i] {
			return false
		}
	}
	return true
}
