// Package lca implements the life cycle assessment pipeline: emission factor lookup, per-material
// impact enrichment, aggregation, scoring, recommendations and the rule-based imputation used when
// the AI processor cannot be reached.
package lca

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

const (
	// DefaultUnit is applied to materials submitted without a unit
	DefaultUnit = "kg"

	// UnknownCategory is assigned when neither the factor table nor keyword rules recognise a material
	UnknownCategory = "Unknown"
)

// Number is a lenient float64. Missing, null, non-numeric or non-finite JSON values decode to 0
// instead of failing the whole request.
type Number float64

// UnmarshalJSON accepts JSON numbers and numeric strings; everything else becomes 0.
func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			*n = 0
			return nil
		}
		*n = ParseNumber(str)
		return nil
	}
	*n = ParseNumber(s)
	return nil
}

// Float64 returns the value as a plain float64
func (n Number) Float64() float64 {
	return float64(n)
}

// ParseNumber converts free text into a Number, returning 0 when the text is not a finite number.
func ParseNumber(s string) Number {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return Number(f)
}

// MaterialInput is one material row submitted by a user.
type MaterialInput struct {
	MaterialType      string `json:"material_type"`
	Quantity          Number `json:"quantity"`
	Unit              string `json:"unit,omitempty"`
	EnergyConsumption Number `json:"energy_consumption"`
	TransportDistance Number `json:"transport_distance"`
}

// EmissionFactor is one row of the emission factor table. Impacts are per unit of quantity;
// TransportFactor is per km per unit of quantity.
type EmissionFactor struct {
	MaterialType    string  `json:"material_type"`
	Category        string  `json:"category"`
	CO2Factor       float64 `json:"co2_factor"`
	EnergyFactor    float64 `json:"energy_factor"`
	TransportFactor float64 `json:"transport_factor"`
	Unit            string  `json:"unit"`
	Source          string  `json:"source"`
}

// MaterialImpact is the enriched form of a MaterialInput.
type MaterialImpact struct {
	MaterialType      string  `json:"material_type"`
	Category          string  `json:"category"`
	Quantity          float64 `json:"quantity"`
	Unit              string  `json:"unit"`
	EnergyConsumption float64 `json:"energy_consumption"`
	TransportDistance float64 `json:"transport_distance"`
	CO2Impact         float64 `json:"co2_impact"`
	EnergyImpact      float64 `json:"energy_impact"`
	TransportImpact   float64 `json:"transport_impact"`
	TotalImpact       float64 `json:"total_impact"`
	FactorSource      string  `json:"factor_source,omitempty"`

	// Advisory flags
	Estimated bool   `json:"estimated,omitempty"`
	Error     bool   `json:"error,omitempty"`
	Warning   string `json:"warning,omitempty"`
}

// CategoryAggregate is the rollup of all materials sharing a category.
type CategoryAggregate struct {
	Category   string  `json:"category"`
	CO2        float64 `json:"co2"`
	Energy     float64 `json:"energy"`
	Materials  float64 `json:"materials"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Scores holds the 0-100 display scores and the letter grade.
type Scores struct {
	Overall   int    `json:"overall"`
	CO2       int    `json:"co2"`
	Energy    int    `json:"energy"`
	Materials int    `json:"materials"`
	Grade     string `json:"grade"`
}

// Recommendation priorities
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Recommendation is a generated, never persisted, suggestion.
type Recommendation struct {
	Type        string `json:"type"`
	Priority    string `json:"priority"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Action      string `json:"action"`
}

// AssessmentResult is the output of a calculation.
type AssessmentResult struct {
	TotalCO2Kg        float64             `json:"total_co2_kg"`
	TotalEnergyMJ     float64             `json:"total_energy_mj"`
	TotalMaterialsKg  float64             `json:"total_materials_kg"`
	Scores            Scores              `json:"scores"`
	MaterialBreakdown []MaterialImpact    `json:"material_breakdown"`
	CategoryBreakdown []CategoryAggregate `json:"category_breakdown"`
	Recommendations   []Recommendation    `json:"recommendations"`
	Warnings          []string            `json:"warnings"`
}
