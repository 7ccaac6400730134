package businessflow

import (
	"context"
	"fmt"

	"github.com/amirphl/ecolca/lca"
	"github.com/amirphl/ecolca/models"
	"github.com/amirphl/ecolca/repository"
	"github.com/amirphl/ecolca/utils"
	"go.uber.org/zap"
)

// LoadFactorTable builds the in-memory factor table from the emission_factors table.
// When seed is set the built-in defaults are inserted first (existing rows are kept).
// An empty table falls back to the built-in defaults so lookups never run against nothing.
func LoadFactorTable(ctx context.Context, repo repository.EmissionFactorRepository, seed bool, logger *zap.Logger) (*lca.FactorTable, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if seed {
		now := utils.UTCNow()
		defaults := lca.DefaultFactors()
		rows := make([]*models.EmissionFactor, 0, len(defaults))
		for _, f := range defaults {
			rows = append(rows, models.EmissionFactorFromDomain(f, now))
		}
		inserted, err := repo.SeedMissing(ctx, rows)
		if err != nil {
			return nil, fmt.Errorf("failed to seed emission factors: %w", err)
		}
		if inserted > 0 {
			logger.Info("Seeded emission factors", zap.Int64("inserted", inserted))
		}
	}

	rows, err := repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load emission factors: %w", err)
	}
	if len(rows) == 0 {
		logger.Warn("Emission factor table is empty, using built-in defaults")
		return lca.NewFactorTable(lca.DefaultFactors()), nil
	}

	factors := make([]lca.EmissionFactor, 0, len(rows))
	for _, row := range rows {
		factors = append(factors, row.ToDomain())
	}
	return lca.NewFactorTable(factors), nil
}
