package models

import "time"

// AssessmentMaterial is one enriched material row of a persisted assessment
type AssessmentMaterial struct {
	ID                uint    `gorm:"primaryKey" json:"id"`
	AssessmentID      uint    `gorm:"not null;index:idx_assessment_materials_assessment_id" json:"assessment_id"`
	MaterialType      string  `gorm:"size:255;not null" json:"material_type"`
	Category          string  `gorm:"size:100;not null;index:idx_assessment_materials_category" json:"category"`
	Quantity          float64 `gorm:"not null;default:0" json:"quantity"`
	Unit              string  `gorm:"size:20;not null;default:'kg'" json:"unit"`
	EnergyConsumption float64 `gorm:"not null;default:0" json:"energy_consumption"`
	TransportDistance float64 `gorm:"not null;default:0" json:"transport_distance"`
	CO2Impact         float64 `gorm:"column:co2_impact;not null;default:0" json:"co2_impact"`
	EnergyImpact      float64 `gorm:"not null;default:0" json:"energy_impact"`
	TransportImpact   float64 `gorm:"not null;default:0" json:"transport_impact"`
	TotalImpact       float64 `gorm:"not null;default:0" json:"total_impact"`
	Estimated         bool    `gorm:"not null;default:false" json:"estimated"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// TableName returns the table name for AssessmentMaterial
func (AssessmentMaterial) TableName() string { return "assessment_materials" }

// AssessmentMaterialFilter provides filter fields for repository queries
type AssessmentMaterialFilter struct {
	ID           *uint
	AssessmentID *uint
	Category     *string
}
