package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/ecolca/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EmissionFactorRepositoryImpl implements EmissionFactorRepository
type EmissionFactorRepositoryImpl struct {
	*BaseRepository[models.EmissionFactor, models.EmissionFactorFilter]
}

func NewEmissionFactorRepository(db *gorm.DB) EmissionFactorRepository {
	return &EmissionFactorRepositoryImpl{
		BaseRepository: NewBaseRepository[models.EmissionFactor, models.EmissionFactorFilter](db),
	}
}

func (r *EmissionFactorRepositoryImpl) applyFilter(db *gorm.DB, f models.EmissionFactorFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.MaterialType != nil {
		db = db.Where("LOWER(material_type) = LOWER(?)", *f.MaterialType)
	}
	if f.Category != nil {
		db = db.Where("category = ?", *f.Category)
	}
	return db
}

func (r *EmissionFactorRepositoryImpl) ByFilter(ctx context.Context, filter models.EmissionFactorFilter, orderBy string, limit, offset int) ([]*models.EmissionFactor, error) {
	db := r.getDB(ctx)
	query := paginate(r.applyFilter(db.Model(&models.EmissionFactor{}), filter), orderBy, limit, offset)
	var rows []*models.EmissionFactor
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list emission factors: %w", err)
	}
	return rows, nil
}

func (r *EmissionFactorRepositoryImpl) Count(ctx context.Context, filter models.EmissionFactorFilter) (int64, error) {
	db := r.getDB(ctx)
	var count int64
	if err := r.applyFilter(db.Model(&models.EmissionFactor{}), filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count emission factors: %w", err)
	}
	return count, nil
}

func (r *EmissionFactorRepositoryImpl) Exists(ctx context.Context, filter models.EmissionFactorFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

// ListAll returns every factor ordered by material type
func (r *EmissionFactorRepositoryImpl) ListAll(ctx context.Context) ([]*models.EmissionFactor, error) {
	return r.ByFilter(ctx, models.EmissionFactorFilter{}, "material_type ASC, category ASC", 0, 0)
}

// SeedMissing inserts factors whose (material_type, category) pair is not stored yet.
// Existing rows are left untouched. Returns the number of inserted rows.
func (r *EmissionFactorRepositoryImpl) SeedMissing(ctx context.Context, factors []*models.EmissionFactor) (inserted int64, err error) {
	if len(factors) == 0 {
		return 0, nil
	}

	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return 0, err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "material_type"}, {Name: "category"}},
		DoNothing: true,
	}).Create(&factors)
	if res.Error != nil {
		err = fmt.Errorf("failed to seed emission factors: %w", res.Error)
		return 0, err
	}

	return res.RowsAffected, nil
}
