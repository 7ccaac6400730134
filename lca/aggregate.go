package lca

import (
	"math"

	"github.com/shopspring/decimal"
)

// TransportCO2Weight is the share of transport impact folded into total CO2
const TransportCO2Weight = 0.1

// Totals is the aggregated view over a set of material impacts.
type Totals struct {
	CO2        float64
	Energy     float64
	Materials  float64
	Categories []CategoryAggregate
}

// Aggregate sums impacts and builds category rollups in order of first appearance. Records tagged
// with Error are left out since their impacts are unknown.
func Aggregate(impacts []MaterialImpact) Totals {
	var totals Totals
	index := make(map[string]int)

	for _, m := range impacts {
		if m.Error {
			continue
		}
		co2 := m.CO2Impact + TransportCO2Weight*m.TransportImpact
		totals.CO2 += co2
		totals.Energy += m.EnergyImpact
		totals.Materials += m.Quantity

		category := m.Category
		if category == "" {
			category = UnknownCategory
		}
		i, ok := index[category]
		if !ok {
			i = len(totals.Categories)
			index[category] = i
			totals.Categories = append(totals.Categories, CategoryAggregate{Category: category})
		}
		agg := &totals.Categories[i]
		agg.CO2 += co2
		agg.Energy += m.EnergyImpact
		agg.Materials += m.Quantity
		agg.Count++
	}

	for i := range totals.Categories {
		agg := &totals.Categories[i]
		if totals.CO2 > 0 {
			agg.Percentage = Round2(agg.CO2 / totals.CO2 * 100)
		} else {
			agg.Percentage = 0
		}
	}

	if totals.Categories == nil {
		totals.Categories = []CategoryAggregate{}
	}
	return totals
}

// Round2 rounds half away from zero to two decimals. Non-finite values become 0.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
