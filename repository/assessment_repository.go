package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/ecolca/models"
	"gorm.io/gorm"
)

// AssessmentRepositoryImpl implements AssessmentRepository
type AssessmentRepositoryImpl struct {
	*BaseRepository[models.Assessment, models.AssessmentFilter]
}

func NewAssessmentRepository(db *gorm.DB) AssessmentRepository {
	return &AssessmentRepositoryImpl{BaseRepository: NewBaseRepository[models.Assessment, models.AssessmentFilter](db)}
}

func (r *AssessmentRepositoryImpl) applyFilter(db *gorm.DB, f models.AssessmentFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.Name != nil {
		db = db.Where("name = ?", *f.Name)
	}
	if f.Grade != nil {
		db = db.Where("grade = ?", *f.Grade)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *AssessmentRepositoryImpl) ByFilter(ctx context.Context, filter models.AssessmentFilter, orderBy string, limit, offset int) ([]*models.Assessment, error) {
	db := r.getDB(ctx)
	query := paginate(r.applyFilter(db.Model(&models.Assessment{}), filter), orderBy, limit, offset)
	var rows []*models.Assessment
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	return rows, nil
}

func (r *AssessmentRepositoryImpl) Count(ctx context.Context, filter models.AssessmentFilter) (int64, error) {
	db := r.getDB(ctx)
	var count int64
	if err := r.applyFilter(db.Model(&models.Assessment{}), filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count assessments: %w", err)
	}
	return count, nil
}

func (r *AssessmentRepositoryImpl) Exists(ctx context.Context, filter models.AssessmentFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

// ListRecent returns assessments newest first
func (r *AssessmentRepositoryImpl) ListRecent(ctx context.Context, limit, offset int) ([]*models.Assessment, error) {
	return r.ByFilter(ctx, models.AssessmentFilter{}, "created_at DESC, id DESC", limit, offset)
}

// DeleteByID removes the assessment row only; material rows must be removed first by the caller
func (r *AssessmentRepositoryImpl) DeleteByID(ctx context.Context, id uint) (int64, error) {
	return r.deleteWhere(ctx, "id = ?", id)
}
