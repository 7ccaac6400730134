package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amirphl/ecolca/lca"
	"github.com/amirphl/ecolca/models"
	"github.com/amirphl/ecolca/repository"
	testingutil "github.com/amirphl/ecolca/testing"
	"github.com/amirphl/ecolca/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssessmentRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewAssessmentRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		older, err := fixtures.CreateTestAssessment("older", base)
		require.NoError(t, err)
		newer, err := fixtures.CreateTestAssessment("newer", base.Add(time.Hour))
		require.NoError(t, err)

		t.Run("ByID", func(t *testing.T) {
			a, err := repo.ByID(ctx, older.ID)
			require.NoError(t, err)
			require.NotNil(t, a)
			assert.Equal(t, "older", a.Name)
		})

		t.Run("ByIDNotFound", func(t *testing.T) {
			a, err := repo.ByID(ctx, 9999)
			assert.NoError(t, err)
			assert.Nil(t, a)
		})

		t.Run("ListRecent", func(t *testing.T) {
			rows, err := repo.ListRecent(ctx, 0, 0)
			require.NoError(t, err)
			require.Len(t, rows, 2)
			assert.Equal(t, newer.ID, rows[0].ID)
			assert.Equal(t, older.ID, rows[1].ID)
		})

		t.Run("ByFilter", func(t *testing.T) {
			name := "newer"
			rows, err := repo.ByFilter(ctx, models.AssessmentFilter{Name: &name}, "", 0, 0)
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, newer.ID, rows[0].ID)

			exists, err := repo.Exists(ctx, models.AssessmentFilter{Name: utils.ToPtr("missing")})
			require.NoError(t, err)
			assert.False(t, exists)
		})

		t.Run("DeleteByID", func(t *testing.T) {
			affected, err := repo.DeleteByID(ctx, older.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), affected)

			affected, err = repo.DeleteByID(ctx, older.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(0), affected)

			count, err := repo.Count(ctx, models.AssessmentFilter{})
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestAssessmentMaterialRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewAssessmentMaterialRepository(testDB.DB)
		fixtures := testingutil.NewTestFixtures(testDB)
		ctx := testingutil.CreateTestContext()

		a, err := fixtures.CreateTestAssessment("with materials", utils.UTCNow(), "Steel", "Glass", "Wood")
		require.NoError(t, err)
		other, err := fixtures.CreateTestAssessment("other", utils.UTCNow(), "Paper")
		require.NoError(t, err)

		rows, err := repo.ListByAssessmentID(ctx, a.ID)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"Steel", "Glass", "Wood"}, []string{rows[0].MaterialType, rows[1].MaterialType, rows[2].MaterialType})

		affected, err := repo.DeleteByAssessmentID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), affected)

		rows, err = repo.ListByAssessmentID(ctx, a.ID)
		require.NoError(t, err)
		assert.Empty(t, rows)

		rows, err = repo.ListByAssessmentID(ctx, other.ID)
		require.NoError(t, err)
		assert.Len(t, rows, 1)

		return nil
	})
	require.NoError(t, err)
}

func TestEmissionFactorRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewEmissionFactorRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()

		now := utils.UTCNow()
		rows := make([]*models.EmissionFactor, 0)
		for _, f := range lca.DefaultFactors() {
			rows = append(rows, models.EmissionFactorFromDomain(f, now))
		}

		inserted, err := repo.SeedMissing(ctx, rows)
		require.NoError(t, err)
		assert.Equal(t, int64(len(rows)), inserted)

		// seeding twice is a no-op
		again := []*models.EmissionFactor{models.EmissionFactorFromDomain(lca.DefaultFactors()[0], now)}
		inserted, err = repo.SeedMissing(ctx, again)
		require.NoError(t, err)
		assert.Equal(t, int64(0), inserted)

		all, err := repo.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, len(rows))
		assert.Equal(t, "Aluminum", all[0].MaterialType)
		assert.Equal(t, lca.DefaultFactors()[0], all[0].ToDomain())

		steel, err := repo.ByFilter(ctx, models.EmissionFactorFilter{MaterialType: utils.ToPtr("STEEL")}, "", 0, 0)
		require.NoError(t, err)
		require.Len(t, steel, 1)
		assert.Equal(t, 1.85, steel[0].CO2Factor)

		return nil
	})
	require.NoError(t, err)
}

func TestWithTransactionRollsBack(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		repo := repository.NewAssessmentRepository(testDB.DB)
		ctx := testingutil.CreateTestContext()
		boom := errors.New("boom")

		err := repository.WithTransaction(ctx, testDB.DB, func(txCtx context.Context) error {
			if err := repo.Save(txCtx, &models.Assessment{Name: "rolled back", Grade: lca.GradeF, CreatedAt: utils.UTCNow()}); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		count, err := repo.Count(ctx, models.AssessmentFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)

		return nil
	})
	require.NoError(t, err)
}
