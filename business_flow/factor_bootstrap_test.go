package businessflow_test

import (
	"context"
	"testing"

	businessflow "github.com/amirphl/ecolca/business_flow"
	"github.com/amirphl/ecolca/lca"
	"github.com/amirphl/ecolca/models"
	"github.com/amirphl/ecolca/repository"
	testingutil "github.com/amirphl/ecolca/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadFactorTable(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewEmissionFactorRepository(testDB.DB)
		ctx := context.Background()

		t.Run("EmptyWithoutSeedUsesDefaults", func(t *testing.T) {
			table, err := businessflow.LoadFactorTable(ctx, repo, false, zap.NewNop())
			require.NoError(t, err)
			assert.Equal(t, len(lca.DefaultFactors()), table.Len())

			var count int64
			require.NoError(t, testDB.DB.Model(&models.EmissionFactor{}).Count(&count).Error)
			assert.Zero(t, count)
		})

		t.Run("SeedKeepsEditedRows", func(t *testing.T) {
			_, err := businessflow.LoadFactorTable(ctx, repo, true, zap.NewNop())
			require.NoError(t, err)

			require.NoError(t, testDB.DB.Model(&models.EmissionFactor{}).
				Where("material_type = ?", "Steel").
				Update("co2_factor", 2.5).Error)

			table, err := businessflow.LoadFactorTable(ctx, repo, true, zap.NewNop())
			require.NoError(t, err)
			assert.Equal(t, len(lca.DefaultFactors()), table.Len())

			steel, kind := table.Lookup("steel")
			assert.Equal(t, lca.MatchExact, kind)
			assert.Equal(t, 2.5, steel.CO2Factor)
		})
		return nil
	})
	require.NoError(t, err)
}
