package lca

import (
	"sort"
	"strings"
)

// SeedSource labels the factors shipped with the service
const SeedSource = "ecolca seed v1"

// MatchKind tells how a material was resolved against the factor table.
type MatchKind int

const (
	MatchExact MatchKind = iota
	MatchSubstring
	MatchDefault
)

func (k MatchKind) String() string {
	switch k {
	case MatchExact:
		return "exact"
	case MatchSubstring:
		return "substring"
	default:
		return "default"
	}
}

var defaultFactor = EmissionFactor{
	MaterialType:    UnknownCategory,
	Category:        UnknownCategory,
	CO2Factor:       1.0,
	EnergyFactor:    10.0,
	TransportFactor: 0.05,
	Unit:            DefaultUnit,
	Source:          "estimated",
}

// DefaultFactor returns the factor set applied to unrecognised materials.
func DefaultFactor() EmissionFactor {
	return defaultFactor
}

// DefaultFactors returns the seed emission factor table.
func DefaultFactors() []EmissionFactor {
	seed := func(materialType, category string, co2, energy, transport float64) EmissionFactor {
		return EmissionFactor{
			MaterialType:    materialType,
			Category:        category,
			CO2Factor:       co2,
			EnergyFactor:    energy,
			TransportFactor: transport,
			Unit:            DefaultUnit,
			Source:          SeedSource,
		}
	}

	return []EmissionFactor{
		seed("Aluminum", "Metals", 8.24, 154.0, 0.02),
		seed("Brick", "Construction", 0.24, 3.0, 0.03),
		seed("Cardboard", "Paper", 0.94, 18.0, 0.02),
		seed("Cement", "Construction", 0.93, 4.6, 0.03),
		seed("Concrete", "Construction", 0.13, 1.0, 0.03),
		seed("Copper", "Metals", 3.81, 42.0, 0.02),
		seed("Cotton", "Textiles", 5.9, 55.0, 0.015),
		seed("Glass", "Glass", 0.85, 15.0, 0.025),
		seed("HDPE", "Plastics", 1.93, 76.7, 0.015),
		seed("Paper", "Paper", 1.09, 20.0, 0.02),
		seed("PET", "Plastics", 2.15, 76.0, 0.015),
		seed("Plastic", "Plastics", 2.53, 76.0, 0.015),
		seed("Polyester", "Textiles", 5.55, 125.0, 0.015),
		seed("PVC", "Plastics", 3.1, 77.2, 0.015),
		seed("Steel", "Metals", 1.85, 24.0, 0.02),
		seed("Wood", "Construction", -1.6, 2.5, 0.02),
	}
}

// FactorTable is an immutable, case-insensitive index over emission factors. It is built once and
// shared read-only between requests.
type FactorTable struct {
	byType map[string]EmissionFactor
	keys   []string
}

// NewFactorTable indexes the given factors. When the same material type appears under several
// categories the alphabetically first category wins.
func NewFactorTable(factors []EmissionFactor) *FactorTable {
	sorted := make([]EmissionFactor, len(factors))
	copy(sorted, factors)
	sort.SliceStable(sorted, func(i, j int) bool {
		ki, kj := normalizeKey(sorted[i].MaterialType), normalizeKey(sorted[j].MaterialType)
		if ki != kj {
			return ki < kj
		}
		return sorted[i].Category < sorted[j].Category
	})

	t := &FactorTable{byType: make(map[string]EmissionFactor, len(sorted))}
	for _, f := range sorted {
		key := normalizeKey(f.MaterialType)
		if key == "" {
			continue
		}
		if _, exists := t.byType[key]; exists {
			continue
		}
		t.byType[key] = f
		t.keys = append(t.keys, key)
	}
	return t
}

// Lookup resolves a material type: exact match, then substring match in either direction
// (lexicographically first table entry wins), then the default factor.
func (t *FactorTable) Lookup(materialType string) (EmissionFactor, MatchKind) {
	key := normalizeKey(materialType)
	if key == "" {
		return defaultFactor, MatchDefault
	}
	if f, ok := t.byType[key]; ok {
		return f, MatchExact
	}
	for _, k := range t.keys {
		if strings.Contains(k, key) || strings.Contains(key, k) {
			return t.byType[k], MatchSubstring
		}
	}
	return defaultFactor, MatchDefault
}

// Factors returns a copy of the indexed factors ordered by material type.
func (t *FactorTable) Factors() []EmissionFactor {
	out := make([]EmissionFactor, 0, len(t.keys))
	for _, k := range t.keys {
		out = append(out, t.byType[k])
	}
	return out
}

// Len returns the number of indexed material types
func (t *FactorTable) Len() int {
	return len(t.keys)
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
