package models

import (
	"time"

	"github.com/amirphl/ecolca/lca"
)

// EmissionFactor is a persisted row of the emission factor table.
// (material_type, category) is unique.
type EmissionFactor struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	MaterialType    string  `gorm:"size:100;not null;uniqueIndex:uk_emission_factors_type_category" json:"material_type"`
	Category        string  `gorm:"size:100;not null;uniqueIndex:uk_emission_factors_type_category" json:"category"`
	CO2Factor       float64 `gorm:"column:co2_factor;not null" json:"co2_factor"`
	EnergyFactor    float64 `gorm:"not null" json:"energy_factor"`
	TransportFactor float64 `gorm:"not null" json:"transport_factor"`
	Unit            string  `gorm:"size:20;not null;default:'kg'" json:"unit"`
	Source          string  `gorm:"size:255" json:"source"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// TableName returns the table name for EmissionFactor
func (EmissionFactor) TableName() string { return "emission_factors" }

// ToDomain converts the row into the calculation type
func (e EmissionFactor) ToDomain() lca.EmissionFactor {
	return lca.EmissionFactor{
		MaterialType:    e.MaterialType,
		Category:        e.Category,
		CO2Factor:       e.CO2Factor,
		EnergyFactor:    e.EnergyFactor,
		TransportFactor: e.TransportFactor,
		Unit:            e.Unit,
		Source:          e.Source,
	}
}

// EmissionFactorFromDomain builds a row from the calculation type
func EmissionFactorFromDomain(f lca.EmissionFactor, now time.Time) *EmissionFactor {
	return &EmissionFactor{
		MaterialType:    f.MaterialType,
		Category:        f.Category,
		CO2Factor:       f.CO2Factor,
		EnergyFactor:    f.EnergyFactor,
		TransportFactor: f.TransportFactor,
		Unit:            f.Unit,
		Source:          f.Source,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// EmissionFactorFilter provides filter fields for repository queries
type EmissionFactorFilter struct {
	ID           *uint
	MaterialType *string
	Category     *string
}
