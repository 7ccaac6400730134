package lca

// Calculator runs the full assessment pipeline: enrichment, aggregation, scoring and
// recommendations.
type Calculator struct {
	table    *FactorTable
	enricher *Enricher
}

// NewCalculator builds a calculator over an immutable factor table
func NewCalculator(table *FactorTable, parallelism int) *Calculator {
	if table == nil {
		table = NewFactorTable(DefaultFactors())
	}
	return &Calculator{
		table:    table,
		enricher: NewEnricher(table, parallelism),
	}
}

// Table exposes the factor table the calculator resolves against
func (c *Calculator) Table() *FactorTable {
	return c.table
}

// Calculate is deterministic for a given factor table and input.
func (c *Calculator) Calculate(inputs []MaterialInput) *AssessmentResult {
	impacts := c.enricher.Enrich(inputs)

	warnings := make([]string, 0)
	for _, m := range impacts {
		switch {
		case m.Error:
			warnings = append(warnings, m.Warning)
		case m.Estimated:
			warnings = append(warnings, UnknownMaterialWarning(m.MaterialType))
		}
	}

	totals := Aggregate(impacts)
	scores := ComputeScores(totals.CO2, totals.Energy, totals.Materials)

	categories := make([]CategoryAggregate, len(totals.Categories))
	for i, agg := range totals.Categories {
		categories[i] = CategoryAggregate{
			Category:   agg.Category,
			CO2:        Round2(agg.CO2),
			Energy:     Round2(agg.Energy),
			Materials:  Round2(agg.Materials),
			Count:      agg.Count,
			Percentage: agg.Percentage,
		}
	}

	return &AssessmentResult{
		TotalCO2Kg:        Round2(totals.CO2),
		TotalEnergyMJ:     Round2(totals.Energy),
		TotalMaterialsKg:  Round2(totals.Materials),
		Scores:            scores,
		MaterialBreakdown: impacts,
		CategoryBreakdown: categories,
		Recommendations:   Recommend(impacts, totals.Categories),
		Warnings:          warnings,
	}
}

// CountEstimated returns how many materials fell back to default factors
func (r *AssessmentResult) CountEstimated() int {
	n := 0
	for _, m := range r.MaterialBreakdown {
		if m.Estimated {
			n++
		}
	}
	return n
}
