package lca

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendGeneralAlwaysLast(t *testing.T) {
	cases := map[string][]MaterialImpact{
		"empty":  nil,
		"small":  {{MaterialType: "Glass", TotalImpact: 5}},
		"mixed":  {{MaterialType: "Steel", TotalImpact: 500, EnergyImpact: 2000, TransportImpact: 50}},
		"ties":   {{MaterialType: "A", TotalImpact: 200}, {MaterialType: "B", TotalImpact: 200}},
		"energy": {{MaterialType: "Aluminum", TotalImpact: 50, EnergyImpact: 1500}},
	}
	for name, materials := range cases {
		t.Run(name, func(t *testing.T) {
			recs := Recommend(materials, Aggregate(materials).Categories)
			require.NotEmpty(t, recs)
			last := recs[len(recs)-1]
			assert.Equal(t, RecommendationGeneral, last.Type)
			assert.Equal(t, PriorityLow, last.Priority)
			for _, r := range recs[:len(recs)-1] {
				assert.NotEqual(t, RecommendationGeneral, r.Type)
			}
		})
	}
}

func TestRecommendHighImpactTieBreaksByInputOrder(t *testing.T) {
	recs := Recommend([]MaterialImpact{
		{MaterialType: "First", TotalImpact: 200},
		{MaterialType: "Second", TotalImpact: 200},
	}, nil)

	require.Equal(t, RecommendationHighImpact, recs[0].Type)
	assert.Equal(t, PriorityHigh, recs[0].Priority)
	assert.Contains(t, recs[0].Title, "First")
}

func TestRecommendThresholdsAreStrict(t *testing.T) {
	materials := []MaterialImpact{
		{MaterialType: "Edge", Category: "Metals", TotalImpact: 100, EnergyImpact: 1000, TransportImpact: 10},
	}
	categories := []CategoryAggregate{{Category: "Metals", CO2: 50}}

	recs := Recommend(materials, categories)
	require.Len(t, recs, 1)
	assert.Equal(t, RecommendationGeneral, recs[0].Type)
}

func TestRecommendAllRulesInOrder(t *testing.T) {
	materials := []MaterialImpact{
		{MaterialType: "Steel", Category: "Metals", TotalImpact: 150, EnergyImpact: 800, TransportImpact: 11},
		{MaterialType: "Glass", Category: "Glass", TotalImpact: 90, EnergyImpact: 300, TransportImpact: 12},
	}
	categories := []CategoryAggregate{
		{Category: "Metals", CO2: 40},
		{Category: "Glass", CO2: 60, Percentage: 60},
	}

	recs := Recommend(materials, categories)
	require.Len(t, recs, 5)
	assert.Equal(t, RecommendationHighImpact, recs[0].Type)
	assert.Equal(t, RecommendationCategoryOptimization, recs[1].Type)
	assert.Contains(t, recs[1].Title, "Glass")
	assert.Equal(t, RecommendationEnergyEfficiency, recs[2].Type)
	assert.Equal(t, RecommendationTransport, recs[3].Type)
	assert.Contains(t, recs[3].Description, "2 material(s)")
	assert.Equal(t, RecommendationGeneral, recs[4].Type)
}

func TestRecommendationConfidence(t *testing.T) {
	assert.Equal(t, 0.8, RecommendationConfidence(0, 0))
	assert.Equal(t, 0.86, RecommendationConfidence(3, 0))
	assert.Equal(t, 0.95, RecommendationConfidence(20, 0))
	assert.Equal(t, 0.76, RecommendationConfidence(3, 2))
	assert.Equal(t, 0.5, RecommendationConfidence(0, 50))
}
