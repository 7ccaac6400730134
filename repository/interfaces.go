// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/amirphl/ecolca/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// AssessmentRepository defines operations for assessments
type AssessmentRepository interface {
	Repository[models.Assessment, models.AssessmentFilter]
	ListRecent(ctx context.Context, limit, offset int) ([]*models.Assessment, error)
	DeleteByID(ctx context.Context, id uint) (int64, error)
}

// AssessmentMaterialRepository defines operations for assessment material rows
type AssessmentMaterialRepository interface {
	Repository[models.AssessmentMaterial, models.AssessmentMaterialFilter]
	ListByAssessmentID(ctx context.Context, assessmentID uint) ([]*models.AssessmentMaterial, error)
	DeleteByAssessmentID(ctx context.Context, assessmentID uint) (int64, error)
}

// EmissionFactorRepository defines operations for emission factors
type EmissionFactorRepository interface {
	Repository[models.EmissionFactor, models.EmissionFactorFilter]
	ListAll(ctx context.Context) ([]*models.EmissionFactor, error)
	SeedMissing(ctx context.Context, factors []*models.EmissionFactor) (int64, error)
}
