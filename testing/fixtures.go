package testing

import (
	"fmt"
	"time"

	"github.com/amirphl/ecolca/lca"
	"github.com/amirphl/ecolca/models"
	"github.com/amirphl/ecolca/utils"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// SeedEmissionFactors stores the default factor table
func (tf *TestFixtures) SeedEmissionFactors() error {
	now := utils.UTCNow()
	for _, f := range lca.DefaultFactors() {
		if err := tf.DB.DB.Create(models.EmissionFactorFromDomain(f, now)).Error; err != nil {
			return fmt.Errorf("failed to insert emission factor %s: %w", f.MaterialType, err)
		}
	}
	return nil
}

// CreateTestAssessment stores an assessment with one material row per material type.
// createdAt lets callers control list ordering.
func (tf *TestFixtures) CreateTestAssessment(name string, createdAt time.Time, materialTypes ...string) (*models.Assessment, error) {
	assessment := &models.Assessment{
		Name:           name,
		Description:    "fixture " + name,
		TotalCO2:       185,
		TotalEnergy:    2400,
		TotalMaterials: 100,
		OverallScore:   85,
		Grade:          lca.GradeA,
		CreatedAt:      createdAt,
	}
	if err := tf.DB.DB.Create(assessment).Error; err != nil {
		return nil, fmt.Errorf("failed to create test assessment: %w", err)
	}

	for _, mt := range materialTypes {
		row := &models.AssessmentMaterial{
			AssessmentID: assessment.ID,
			MaterialType: mt,
			Category:     "Metals",
			Quantity:     100,
			Unit:         lca.DefaultUnit,
			CO2Impact:    185,
			EnergyImpact: 2400,
			TotalImpact:  2585,
			CreatedAt:    createdAt,
		}
		if err := tf.DB.DB.Create(row).Error; err != nil {
			return nil, fmt.Errorf("failed to create test assessment material: %w", err)
		}
	}

	return assessment, nil
}
