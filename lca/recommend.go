package lca

import (
	"fmt"
	"math"
	"sort"
)

// Recommendation types
const (
	RecommendationHighImpact           = "high_impact"
	RecommendationCategoryOptimization = "category_optimization"
	RecommendationEnergyEfficiency     = "energy_efficiency"
	RecommendationTransport            = "transport_optimization"
	RecommendationGeneral              = "general"
)

// Rule thresholds
const (
	highImpactThreshold      = 100.0
	categoryCO2Threshold     = 50.0
	energyImpactThreshold    = 1000.0
	transportImpactThreshold = 10.0
)

// RecommendationConfidence scores rule-based recommendations: more assessed materials raise it,
// warnings about estimated data lower it.
func RecommendationConfidence(materials, warnings int) float64 {
	c := 0.8 + math.Min(0.15, 0.02*float64(materials)) - math.Min(0.3, 0.05*float64(warnings))
	return Round2(c)
}

// Recommend evaluates every rule in order; all matching rules fire and the general recommendation
// is always appended last.
func Recommend(materials []MaterialImpact, categories []CategoryAggregate) []Recommendation {
	recs := make([]Recommendation, 0, 5)

	if top, ok := highestImpactMaterial(materials); ok && top.TotalImpact > highImpactThreshold {
		recs = append(recs, Recommendation{
			Type:        RecommendationHighImpact,
			Priority:    PriorityHigh,
			Title:       fmt.Sprintf("Reduce %s impact", top.MaterialType),
			Description: fmt.Sprintf("%s has the highest environmental impact in this assessment (%.2f).", top.MaterialType, top.TotalImpact),
			Action:      fmt.Sprintf("Consider recycled or lower-carbon alternatives to %s, or reduce the quantity used.", top.MaterialType),
		})
	}

	if cat, ok := largestCO2Category(categories); ok && cat.CO2 > categoryCO2Threshold {
		recs = append(recs, Recommendation{
			Type:        RecommendationCategoryOptimization,
			Priority:    PriorityMedium,
			Title:       fmt.Sprintf("Optimize %s materials", cat.Category),
			Description: fmt.Sprintf("%s materials contribute %.2f kg CO2 (%.2f%% of the total).", cat.Category, cat.CO2, cat.Percentage),
			Action:      fmt.Sprintf("Review suppliers and specifications for %s materials to cut embodied carbon.", cat.Category),
		})
	}

	var energy float64
	for _, m := range materials {
		energy += m.EnergyImpact
	}
	if energy > energyImpactThreshold {
		recs = append(recs, Recommendation{
			Type:        RecommendationEnergyEfficiency,
			Priority:    PriorityMedium,
			Title:       "Improve energy efficiency",
			Description: fmt.Sprintf("Total energy impact is %.2f MJ.", energy),
			Action:      "Switch to renewable energy sources and energy-efficient processing.",
		})
	}

	transportHeavy := 0
	for _, m := range materials {
		if m.TransportImpact > transportImpactThreshold {
			transportHeavy++
		}
	}
	if transportHeavy > 0 {
		recs = append(recs, Recommendation{
			Type:        RecommendationTransport,
			Priority:    PriorityLow,
			Title:       "Optimize transportation",
			Description: fmt.Sprintf("%d material(s) have significant transport impact.", transportHeavy),
			Action:      "Source materials locally or consolidate shipments to reduce transport distance.",
		})
	}

	recs = append(recs, Recommendation{
		Type:        RecommendationGeneral,
		Priority:    PriorityLow,
		Title:       "Implement circular economy principles",
		Description: "Designing for reuse and recycling reduces impact across all categories.",
		Action:      "Design for disassembly, use recycled content and set up material recovery programs.",
	})

	return recs
}

// highestImpactMaterial returns the material with the largest total impact; input order breaks ties.
func highestImpactMaterial(materials []MaterialImpact) (MaterialImpact, bool) {
	if len(materials) == 0 {
		return MaterialImpact{}, false
	}
	sorted := make([]MaterialImpact, len(materials))
	copy(sorted, materials)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalImpact > sorted[j].TotalImpact
	})
	return sorted[0], true
}

func largestCO2Category(categories []CategoryAggregate) (CategoryAggregate, bool) {
	if len(categories) == 0 {
		return CategoryAggregate{}, false
	}
	best := categories[0]
	for _, c := range categories[1:] {
		if c.CO2 > best.CO2 {
			best = c
		}
	}
	return best, true
}
