package models

import "time"

// Assessment is a named, persisted LCA calculation. Its material rows live in assessment_materials
// and are removed by the application before the assessment itself.
type Assessment struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	Name           string  `gorm:"size:255;not null;index:idx_assessments_name" json:"name"`
	Description    string  `gorm:"type:text" json:"description"`
	TotalCO2       float64 `gorm:"column:total_co2;not null;default:0" json:"total_co2"`
	TotalEnergy    float64 `gorm:"not null;default:0" json:"total_energy"`
	TotalMaterials float64 `gorm:"not null;default:0" json:"total_materials"`
	OverallScore   int     `gorm:"not null;default:0" json:"overall_score"`
	Grade          string  `gorm:"size:4;not null" json:"grade"`

	CreatedAt time.Time `gorm:"not null;index:idx_assessments_created_at" json:"created_at"`
}

// TableName returns the table name for Assessment
func (Assessment) TableName() string { return "assessments" }

// AssessmentFilter provides filter fields for repository queries
type AssessmentFilter struct {
	ID            *uint
	Name          *string
	Grade         *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
