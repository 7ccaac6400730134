package lca

import (
	"fmt"
	"strings"
	"unicode"
)

// Imputation defaults
const (
	DefaultImputedQuantity          = 1.0
	DefaultImputedEnergy            = 10.0
	DefaultImputedTransportDistance = 100.0
	OutlierQuantityThreshold        = 10000.0
	OutlierReasonHighQuantity       = "Unusually high quantity detected"
)

// Categorization confidence levels
const (
	ConfidenceExact    = 0.95
	ConfidenceContains = 0.85
	ConfidenceUnknown  = 0.1
)

type energyEstimate struct {
	keyword string
	value   float64
}

// ordered; the first keyword contained in the material name wins
var energyEstimates = []energyEstimate{
	{"steel", 24.0},
	{"aluminum", 154.0},
	{"plastic", 76.0},
	{"glass", 15.0},
	{"concrete", 1.0},
	{"wood", 2.5},
	{"paper", 20.0},
}

type categoryRule struct {
	category string
	keywords []string
}

// ordered by precedence
var categoryRules = []categoryRule{
	{"Metals", []string{"steel", "aluminum", "aluminium", "copper", "iron", "zinc", "brass", "bronze", "metal"}},
	{"Plastics", []string{"plastic", "polymer", "pet", "hdpe", "ldpe", "pvc", "pp", "ps", "polyethylene", "polypropylene", "polystyrene"}},
	{"Construction", []string{"concrete", "cement", "brick", "stone", "mortar"}},
	{"Glass", []string{"glass", "silicate"}},
	{"Construction", []string{"wood", "timber", "lumber", "plywood"}},
	{"Paper", []string{"paper", "cardboard", "pulp"}},
	{"Textiles", []string{"cotton", "polyester", "wool", "silk", "fabric", "textile", "nylon"}},
}

// ProcessedMaterial is a material after imputation, categorization and outlier screening.
type ProcessedMaterial struct {
	MaterialInput

	Category         string  `json:"category"`
	AIImputed        bool    `json:"ai_imputed"`
	AICategorized    bool    `json:"ai_categorized"`
	ImputationNotes  string  `json:"imputation_notes,omitempty"`
	OutlierFlag      bool    `json:"outlier_flag"`
	OutlierReason    string  `json:"outlier_reason,omitempty"`
	ConfidenceScore  float64 `json:"confidence_score"`
	DataQualityScore float64 `json:"data_quality_score"`
	Estimated        bool    `json:"estimated,omitempty"`
	Warning          string  `json:"warning,omitempty"`
}

// ProcessingInfo summarises a processing run.
type ProcessingInfo struct {
	TotalRecords       int `json:"total_records"`
	ImputedRecords     int `json:"imputed_records"`
	CategorizedRecords int `json:"categorized_records"`
	OutlierRecords     int `json:"outlier_records"`
}

// CategorizedMaterial is the output of categorization alone.
type CategorizedMaterial struct {
	MaterialInput

	Category        string  `json:"category"`
	ConfidenceScore float64 `json:"confidence_score"`
	AICategorized   bool    `json:"ai_categorized"`
}

// Categorize assigns a category from keyword rules along with a confidence score.
func Categorize(materialType string) (string, float64) {
	name := strings.ToLower(strings.TrimSpace(materialType))
	if name == "" {
		return UnknownCategory, ConfidenceUnknown
	}
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if name == kw {
				return rule.category, ConfidenceExact
			}
			if containsKeyword(name, kw) {
				return rule.category, ConfidenceContains
			}
		}
	}
	return UnknownCategory, ConfidenceUnknown
}

// EstimateEnergyConsumption returns the keyword-based energy estimate for a material
func EstimateEnergyConsumption(materialType string) float64 {
	name := strings.ToLower(materialType)
	for _, e := range energyEstimates {
		if strings.Contains(name, e.keyword) {
			return e.value
		}
	}
	return DefaultImputedEnergy
}

// ProcessMaterial imputes missing values, categorizes and screens one material.
func ProcessMaterial(in MaterialInput) ProcessedMaterial {
	out := ProcessedMaterial{MaterialInput: in}
	out.Unit = unitOrDefault(in.Unit)

	var notes []string
	if out.Quantity <= 0 {
		out.Quantity = DefaultImputedQuantity
		out.AIImputed = true
		notes = append(notes, fmt.Sprintf("Quantity imputed as %g", DefaultImputedQuantity))
	}
	if out.EnergyConsumption == 0 {
		out.EnergyConsumption = Number(EstimateEnergyConsumption(in.MaterialType))
		out.AIImputed = true
		notes = append(notes, fmt.Sprintf("Energy consumption estimated as %g MJ", out.EnergyConsumption.Float64()))
	}
	if out.TransportDistance == 0 {
		out.TransportDistance = DefaultImputedTransportDistance
		out.AIImputed = true
		notes = append(notes, fmt.Sprintf("Transport distance imputed as %g km", DefaultImputedTransportDistance))
	}
	out.ImputationNotes = strings.Join(notes, "; ")

	out.Category, out.ConfidenceScore = Categorize(in.MaterialType)
	out.AICategorized = out.Category == UnknownCategory

	if out.Quantity.Float64() > OutlierQuantityThreshold {
		out.OutlierFlag = true
		out.OutlierReason = OutlierReasonHighQuantity
	}

	out.DataQualityScore = dataQualityScore(out)
	return out
}

// ProcessMaterials runs ProcessMaterial over every input and counts what happened.
func ProcessMaterials(inputs []MaterialInput) ([]ProcessedMaterial, ProcessingInfo) {
	out := make([]ProcessedMaterial, 0, len(inputs))
	info := ProcessingInfo{TotalRecords: len(inputs)}
	for _, in := range inputs {
		p := ProcessMaterial(in)
		if p.AIImputed {
			info.ImputedRecords++
		}
		if p.AICategorized {
			info.CategorizedRecords++
		}
		if p.OutlierFlag {
			info.OutlierRecords++
		}
		out = append(out, p)
	}
	return out, info
}

// CategorizeMaterials categorizes inputs without imputing anything.
func CategorizeMaterials(inputs []MaterialInput) []CategorizedMaterial {
	out := make([]CategorizedMaterial, 0, len(inputs))
	for _, in := range inputs {
		category, confidence := Categorize(in.MaterialType)
		out = append(out, CategorizedMaterial{
			MaterialInput:   in,
			Category:        category,
			ConfidenceScore: confidence,
			AICategorized:   category == UnknownCategory,
		})
	}
	return out
}

// AnnotateEstimates marks processed materials the factor table cannot resolve.
func (t *FactorTable) AnnotateEstimates(items []ProcessedMaterial) {
	for i := range items {
		if _, kind := t.Lookup(items[i].MaterialType); kind == MatchDefault {
			items[i].Estimated = true
			items[i].Warning = fmt.Sprintf("No emission factor found for %s; estimated values will be used", items[i].MaterialType)
		}
	}
}

func dataQualityScore(p ProcessedMaterial) float64 {
	score := 1.0
	if p.AIImputed {
		score -= 0.2
	}
	if p.OutlierFlag {
		score -= 0.1
	}
	if p.ConfidenceScore < 0.8 {
		score -= 0.1
	}
	if score < 0 {
		score = 0
	}
	return Round2(score)
}

// containsKeyword matches keywords of three letters or fewer only at the start of a word,
// so "pet" hits "PETG" but not "carpet".
func containsKeyword(name, kw string) bool {
	if len(kw) > 3 {
		return strings.Contains(name, kw)
	}
	words := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		if strings.HasPrefix(w, kw) {
			return true
		}
	}
	return false
}
