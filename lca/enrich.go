package lca

import (
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DefaultParallelism bounds concurrent enrichment when no explicit limit is configured
const DefaultParallelism = 8

// Enricher turns material inputs into material impacts using a shared factor table.
type Enricher struct {
	table       *FactorTable
	parallelism int
}

// NewEnricher creates an enricher. parallelism <= 0 falls back to DefaultParallelism.
func NewEnricher(table *FactorTable, parallelism int) *Enricher {
	if parallelism <= 0 {
		parallelism = DefaultParallelism
	}
	if table == nil {
		table = NewFactorTable(DefaultFactors())
	}
	return &Enricher{table: table, parallelism: parallelism}
}

// Enrich returns one MaterialImpact per input, in input order.
func (e *Enricher) Enrich(inputs []MaterialInput) []MaterialImpact {
	out := make([]MaterialImpact, len(inputs))
	if len(inputs) == 0 {
		return out
	}

	var g errgroup.Group
	g.SetLimit(e.parallelism)
	for i := range inputs {
		g.Go(func() error {
			out[i] = e.enrichOne(inputs[i])
			return nil
		})
	}
	_ = g.Wait()

	return out
}

func (e *Enricher) enrichOne(in MaterialInput) (impact MaterialImpact) {
	defer func() {
		if r := recover(); r != nil {
			impact = MaterialImpact{
				MaterialType: in.MaterialType,
				Category:     UnknownCategory,
				Quantity:     in.Quantity.Float64(),
				Unit:         unitOrDefault(in.Unit),
				Error:        true,
				Warning:      fmt.Sprintf("Failed to process material %s: %v", in.MaterialType, r),
			}
		}
	}()

	factor, kind := e.table.Lookup(in.MaterialType)
	return ComputeImpact(in, factor, kind)
}

// ComputeImpact applies a factor to one material.
func ComputeImpact(in MaterialInput, factor EmissionFactor, kind MatchKind) MaterialImpact {
	quantity := in.Quantity.Float64()
	energyConsumption := in.EnergyConsumption.Float64()
	distance := in.TransportDistance.Float64()

	co2 := quantity * factor.CO2Factor
	energy := quantity*factor.EnergyFactor + energyConsumption
	transport := distance * factor.TransportFactor * quantity

	impact := MaterialImpact{
		MaterialType:      in.MaterialType,
		Category:          factor.Category,
		Quantity:          quantity,
		Unit:              unitOrDefault(in.Unit),
		EnergyConsumption: energyConsumption,
		TransportDistance: distance,
		CO2Impact:         co2,
		EnergyImpact:      energy,
		TransportImpact:   transport,
		TotalImpact:       co2 + energy + transport,
		FactorSource:      factor.Source,
	}
	if kind == MatchDefault {
		impact.Estimated = true
		impact.Warning = UnknownMaterialWarning(in.MaterialType)
	}
	return impact
}

// UnknownMaterialWarning is the warning text for a material without a known factor
func UnknownMaterialWarning(materialType string) string {
	return fmt.Sprintf("Unknown material: %s. Using estimated factors.", materialType)
}

func unitOrDefault(unit string) string {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return DefaultUnit
	}
	return unit
}
