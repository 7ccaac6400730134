package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/ecolca/models"
	"gorm.io/gorm"
)

// AssessmentMaterialRepositoryImpl implements AssessmentMaterialRepository
type AssessmentMaterialRepositoryImpl struct {
	*BaseRepository[models.AssessmentMaterial, models.AssessmentMaterialFilter]
}

func NewAssessmentMaterialRepository(db *gorm.DB) AssessmentMaterialRepository {
	return &AssessmentMaterialRepositoryImpl{
		BaseRepository: NewBaseRepository[models.AssessmentMaterial, models.AssessmentMaterialFilter](db),
	}
}

func (r *AssessmentMaterialRepositoryImpl) applyFilter(db *gorm.DB, f models.AssessmentMaterialFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.AssessmentID != nil {
		db = db.Where("assessment_id = ?", *f.AssessmentID)
	}
	if f.Category != nil {
		db = db.Where("category = ?", *f.Category)
	}
	return db
}

func (r *AssessmentMaterialRepositoryImpl) ByFilter(ctx context.Context, filter models.AssessmentMaterialFilter, orderBy string, limit, offset int) ([]*models.AssessmentMaterial, error) {
	db := r.getDB(ctx)
	query := paginate(r.applyFilter(db.Model(&models.AssessmentMaterial{}), filter), orderBy, limit, offset)
	var rows []*models.AssessmentMaterial
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list assessment materials: %w", err)
	}
	return rows, nil
}

func (r *AssessmentMaterialRepositoryImpl) Count(ctx context.Context, filter models.AssessmentMaterialFilter) (int64, error) {
	db := r.getDB(ctx)
	var count int64
	if err := r.applyFilter(db.Model(&models.AssessmentMaterial{}), filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count assessment materials: %w", err)
	}
	return count, nil
}

func (r *AssessmentMaterialRepositoryImpl) Exists(ctx context.Context, filter models.AssessmentMaterialFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

// ListByAssessmentID returns rows in insertion order, which is the calculation input order
func (r *AssessmentMaterialRepositoryImpl) ListByAssessmentID(ctx context.Context, assessmentID uint) ([]*models.AssessmentMaterial, error) {
	return r.ByFilter(ctx, models.AssessmentMaterialFilter{AssessmentID: &assessmentID}, "id ASC", 0, 0)
}

func (r *AssessmentMaterialRepositoryImpl) DeleteByAssessmentID(ctx context.Context, assessmentID uint) (int64, error) {
	return r.deleteWhere(ctx, "assessment_id = ?", assessmentID)
}
