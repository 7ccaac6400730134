package lca

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCalculator() *Calculator {
	return NewCalculator(NewFactorTable(DefaultFactors()), 4)
}

func TestCalculateSingleKnownMaterial(t *testing.T) {
	result := newTestCalculator().Calculate([]MaterialInput{
		{MaterialType: "Steel", Quantity: 100},
	})

	require.Len(t, result.MaterialBreakdown, 1)
	m := result.MaterialBreakdown[0]
	assert.InDelta(t, 185.0, m.CO2Impact, 1e-9)
	assert.InDelta(t, 2400.0, m.EnergyImpact, 1e-9)
	assert.Equal(t, "Metals", m.Category)
	assert.Equal(t, DefaultUnit, m.Unit)
	assert.False(t, m.Estimated)

	assert.Equal(t, 185.0, result.TotalCO2Kg)
	assert.Equal(t, 2400.0, result.TotalEnergyMJ)
	assert.Equal(t, 100.0, result.TotalMaterialsKg)
	assert.Empty(t, result.Warnings)

	require.Len(t, result.CategoryBreakdown, 1)
	assert.Equal(t, "Metals", result.CategoryBreakdown[0].Category)
	assert.Equal(t, 100.0, result.CategoryBreakdown[0].Percentage)

	assert.Equal(t, 85, result.Scores.Overall)
	assert.Equal(t, 82, result.Scores.CO2)
	assert.Equal(t, 76, result.Scores.Energy)
	assert.Equal(t, 98, result.Scores.Materials)
	assert.Equal(t, GradeA, result.Scores.Grade)

	types := make([]string, 0, len(result.Recommendations))
	for _, r := range result.Recommendations {
		types = append(types, r.Type)
	}
	assert.Equal(t, []string{
		RecommendationHighImpact,
		RecommendationCategoryOptimization,
		RecommendationEnergyEfficiency,
		RecommendationGeneral,
	}, types)
}

func TestCalculateUnknownMaterial(t *testing.T) {
	result := newTestCalculator().Calculate([]MaterialInput{
		{MaterialType: "Unobtainium", Quantity: 10},
	})

	require.Len(t, result.MaterialBreakdown, 1)
	m := result.MaterialBreakdown[0]
	assert.Equal(t, UnknownCategory, m.Category)
	assert.InDelta(t, 10.0, m.CO2Impact, 1e-9)
	assert.True(t, m.Estimated)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "Unknown material: Unobtainium. Using estimated factors.", result.Warnings[0])
	assert.Equal(t, 1, result.CountEstimated())
}

func TestCalculateZeroQuantities(t *testing.T) {
	result := newTestCalculator().Calculate([]MaterialInput{
		{MaterialType: "Steel", Quantity: 0},
		{MaterialType: "Glass"},
	})

	assert.Equal(t, 0.0, result.TotalCO2Kg)
	assert.Equal(t, 100, result.Scores.Overall)
	assert.Equal(t, GradeAPlus, result.Scores.Grade)
	for _, c := range result.CategoryBreakdown {
		assert.Equal(t, 0.0, c.Percentage)
	}
}

func TestCalculateNegativeTotalGuardsPercentage(t *testing.T) {
	result := newTestCalculator().Calculate([]MaterialInput{
		{MaterialType: "Wood", Quantity: 50},
	})

	assert.Less(t, result.TotalCO2Kg, 0.0)
	require.Len(t, result.CategoryBreakdown, 1)
	assert.Equal(t, 0.0, result.CategoryBreakdown[0].Percentage)
	// only the lower bound is clamped
	assert.Equal(t, 108, result.Scores.CO2)
}

func TestCalculateTransportFoldedIntoCO2(t *testing.T) {
	result := newTestCalculator().Calculate([]MaterialInput{
		{MaterialType: "Steel", Quantity: 10, TransportDistance: 100},
	})

	m := result.MaterialBreakdown[0]
	assert.InDelta(t, 20.0, m.TransportImpact, 1e-9)
	assert.InDelta(t, 18.5+2.0, result.TotalCO2Kg, 1e-9)
	assert.InDelta(t, m.CO2Impact+m.EnergyImpact+m.TransportImpact, m.TotalImpact, 1e-9)

	last := result.Recommendations[len(result.Recommendations)-2]
	assert.Equal(t, RecommendationTransport, last.Type)
	assert.Contains(t, last.Description, "1 material(s)")
}

func TestCalculatePreservesOrderAndIsDeterministic(t *testing.T) {
	inputs := make([]MaterialInput, 0, 64)
	names := []string{"Steel", "Glass", "Wood", "Unobtainium", "PET bottle", "Cotton"}
	for i := 0; i < 64; i++ {
		inputs = append(inputs, MaterialInput{
			MaterialType:      names[i%len(names)],
			Quantity:          Number(i + 1),
			EnergyConsumption: Number(i % 3),
			TransportDistance: Number(i * 10),
		})
	}

	calc := newTestCalculator()
	first := calc.Calculate(inputs)
	second := calc.Calculate(inputs)

	require.Len(t, first.MaterialBreakdown, len(inputs))
	for i, m := range first.MaterialBreakdown {
		assert.Equal(t, inputs[i].MaterialType, m.MaterialType, fmt.Sprintf("index %d", i))
		assert.Equal(t, inputs[i].Quantity.Float64(), m.Quantity)
	}
	assert.Equal(t, first, second)

	// first-appearance order of categories
	require.GreaterOrEqual(t, len(first.CategoryBreakdown), 4)
	assert.Equal(t, "Metals", first.CategoryBreakdown[0].Category)
	assert.Equal(t, "Glass", first.CategoryBreakdown[1].Category)
	assert.Equal(t, "Construction", first.CategoryBreakdown[2].Category)
	assert.Equal(t, UnknownCategory, first.CategoryBreakdown[3].Category)
}

func TestCalculateEmptyInput(t *testing.T) {
	result := newTestCalculator().Calculate(nil)
	assert.Empty(t, result.MaterialBreakdown)
	assert.Empty(t, result.CategoryBreakdown)
	assert.NotNil(t, result.Warnings)
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, RecommendationGeneral, result.Recommendations[0].Type)
}

func TestAggregateSkipsErroredRecords(t *testing.T) {
	totals := Aggregate([]MaterialImpact{
		{MaterialType: "Steel", Category: "Metals", Quantity: 10, CO2Impact: 18.5, EnergyImpact: 240},
		{MaterialType: "Broken", Category: UnknownCategory, Quantity: 5, Error: true},
	})
	assert.InDelta(t, 18.5, totals.CO2, 1e-9)
	assert.InDelta(t, 10.0, totals.Materials, 1e-9)
	require.Len(t, totals.Categories, 1)
	assert.Equal(t, 1, totals.Categories[0].Count)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, Round2(1.234))
	assert.Equal(t, 1.24, Round2(1.235))
	assert.Equal(t, -1.24, Round2(-1.235))
	assert.Equal(t, 0.0, Round2(0))
}

func TestEnrichRecoversFromPanics(t *testing.T) {
	e := &Enricher{parallelism: 2}

	out := e.Enrich([]MaterialInput{{MaterialType: "Steel", Quantity: 3}})
	require.Len(t, out, 1)
	assert.True(t, out[0].Error)
	assert.Equal(t, UnknownCategory, out[0].Category)
	assert.Equal(t, 3.0, out[0].Quantity)
	assert.Contains(t, out[0].Warning, "Failed to process material Steel")
}
