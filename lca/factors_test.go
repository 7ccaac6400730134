package lca

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactorTableLookup(t *testing.T) {
	table := NewFactorTable(DefaultFactors())

	tests := []struct {
		name         string
		materialType string
		wantType     string
		wantCategory string
		wantKind     MatchKind
	}{
		{"exact", "Steel", "Steel", "Metals", MatchExact},
		{"exact case insensitive", "  sTeEl ", "Steel", "Metals", MatchExact},
		{"input contains table entry", "Recycled Aluminum Sheet", "Aluminum", "Metals", MatchSubstring},
		{"table entry contains input", "ood", "Wood", "Construction", MatchSubstring},
		{"lexicographic tie break", "paper cardboard", "Cardboard", "Paper", MatchSubstring},
		{"unknown", "Unobtainium", UnknownCategory, UnknownCategory, MatchDefault},
		{"empty", "", UnknownCategory, UnknownCategory, MatchDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, kind := table.Lookup(tt.materialType)
			assert.Equal(t, tt.wantKind, kind)
			assert.Equal(t, tt.wantType, f.MaterialType)
			assert.Equal(t, tt.wantCategory, f.Category)
		})
	}
}

func TestFactorTableDefault(t *testing.T) {
	f, kind := NewFactorTable(nil).Lookup("Steel")
	assert.Equal(t, MatchDefault, kind)
	assert.Equal(t, 1.0, f.CO2Factor)
	assert.Equal(t, 10.0, f.EnergyFactor)
	assert.Equal(t, 0.05, f.TransportFactor)
	assert.Equal(t, DefaultFactor(), f)
}

func TestFactorTableDuplicateTypes(t *testing.T) {
	table := NewFactorTable([]EmissionFactor{
		{MaterialType: "Steel", Category: "Zinc-coated", CO2Factor: 9},
		{MaterialType: "steel", Category: "Metals", CO2Factor: 1.85},
	})
	require.Equal(t, 1, table.Len())

	f, kind := table.Lookup("STEEL")
	assert.Equal(t, MatchExact, kind)
	assert.Equal(t, "Metals", f.Category)
}

func TestFactorTableFactorsSorted(t *testing.T) {
	table := NewFactorTable(DefaultFactors())
	factors := table.Factors()
	require.Len(t, factors, len(DefaultFactors()))
	assert.Equal(t, "Aluminum", factors[0].MaterialType)
	assert.Equal(t, "Wood", factors[len(factors)-1].MaterialType)

	// mutating the copy must not leak into the table
	factors[0].CO2Factor = 999
	f, _ := table.Lookup("aluminum")
	assert.Equal(t, 8.24, f.CO2Factor)
}

func TestNumberUnmarshal(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{`{"quantity": 12.5}`, 12.5},
		{`{"quantity": "7"}`, 7},
		{`{"quantity": " 3.25 "}`, 3.25},
		{`{"quantity": null}`, 0},
		{`{"quantity": "abc"}`, 0},
		{`{"quantity": true}`, 0},
		{`{"quantity": {"nested": 1}}`, 0},
		{`{"quantity": "NaN"}`, 0},
		{`{}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var in MaterialInput
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &in))
			assert.Equal(t, tt.want, in.Quantity.Float64())
		})
	}
}
