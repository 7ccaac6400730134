package dto

import "github.com/amirphl/ecolca/lca"

// ManualMaterialRequest is one manually entered material
type ManualMaterialRequest struct {
	MaterialType      string   `json:"material_type" validate:"required,max=255"`
	Quantity          *float64 `json:"quantity" validate:"required,gt=0"`
	Unit              string   `json:"unit,omitempty" validate:"omitempty,max=20"`
	EnergyConsumption *float64 `json:"energy_consumption,omitempty" validate:"omitempty,gte=0"`
	TransportDistance *float64 `json:"transport_distance,omitempty" validate:"omitempty,gte=0"`
}

// ManualEntryRequest is the body of POST /api/data/manual
type ManualEntryRequest struct {
	Materials    []ManualMaterialRequest `json:"materials" validate:"required,min=1,dive"`
	AIProcessing *bool                   `json:"ai_processing,omitempty"`
}

// ProcessedDataResponse is returned by the upload and manual entry endpoints
type ProcessedDataResponse struct {
	Materials          []lca.MaterialInput     `json:"materials"`
	ProcessedMaterials []lca.ProcessedMaterial `json:"processed_materials,omitempty"`
	ProcessingInfo     *lca.ProcessingInfo     `json:"processing_info,omitempty"`
	AIProcessed        bool                    `json:"ai_processed"`
	Fallback           bool                    `json:"fallback"`
	TotalRecords       int                     `json:"total_records"`
	SkippedRows        int                     `json:"skipped_rows"`
	Filename           string                  `json:"filename,omitempty"`
}
