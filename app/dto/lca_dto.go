package dto

import "github.com/amirphl/ecolca/lca"

// CalculateRequest is the body of POST /api/lca/calculate
type CalculateRequest struct {
	Materials      []lca.MaterialInput `json:"materials"`
	AssessmentName string              `json:"assessment_name,omitempty" validate:"omitempty,max=255"`
	Description    string              `json:"description,omitempty"`
}

// CalculateResponse is the assessment result plus the id it was stored under, if any
type CalculateResponse struct {
	lca.AssessmentResult
	AssessmentID *uint `json:"assessment_id"`
}

// ListAssessmentsRequest carries optional paging for the assessment list.
// A zero limit returns every row.
type ListAssessmentsRequest struct {
	Limit  int `query:"limit" validate:"omitempty,min=1,max=500"`
	Offset int `query:"offset" validate:"omitempty,min=0"`
}

// AssessmentSummary is one row of the assessment list
type AssessmentSummary struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	TotalCO2       float64 `json:"total_co2"`
	TotalEnergy    float64 `json:"total_energy"`
	TotalMaterials float64 `json:"total_materials"`
	OverallScore   int     `json:"overall_score"`
	Grade          string  `json:"grade"`
	CreatedAt      string  `json:"created_at"`
}

// AssessmentMaterialItem is a persisted material row of an assessment
type AssessmentMaterialItem struct {
	ID                uint    `json:"id"`
	MaterialType      string  `json:"material_type"`
	Category          string  `json:"category"`
	Quantity          float64 `json:"quantity"`
	Unit              string  `json:"unit"`
	EnergyConsumption float64 `json:"energy_consumption"`
	TransportDistance float64 `json:"transport_distance"`
	CO2Impact         float64 `json:"co2_impact"`
	EnergyImpact      float64 `json:"energy_impact"`
	TransportImpact   float64 `json:"transport_impact"`
	TotalImpact       float64 `json:"total_impact"`
	Estimated         bool    `json:"estimated"`
}

// AssessmentDetailResponse is returned by GET /api/lca/assessments/:id
type AssessmentDetailResponse struct {
	AssessmentSummary
	Materials []AssessmentMaterialItem `json:"materials"`
}

// DeleteAssessmentResponse is returned by DELETE /api/lca/assessments/:id
type DeleteAssessmentResponse struct {
	ID      uint `json:"id"`
	Deleted bool `json:"deleted"`
}

// ListEmissionFactorsResponse is returned by GET /api/lca/emission-factors
type ListEmissionFactorsResponse struct {
	Factors []lca.EmissionFactor `json:"factors"`
	Total   int                  `json:"total"`
}
