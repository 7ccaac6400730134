package dto

import "github.com/amirphl/ecolca/lca"

// ProcessRequest is the body of POST /api/ai/process
type ProcessRequest struct {
	Materials []lca.MaterialInput `json:"materials"`
	Options   map[string]any      `json:"options,omitempty"`
}

// ProcessResponse carries imputed and categorized materials
type ProcessResponse struct {
	ProcessedMaterials []lca.ProcessedMaterial `json:"processed_materials"`
	ProcessingInfo     lca.ProcessingInfo      `json:"processing_info"`
	ConfidenceScore    float64                 `json:"confidence_score"`
	Fallback           bool                    `json:"fallback"`
}

// LCASummary is the totals part of a previously computed assessment
type LCASummary struct {
	TotalCO2Kg       float64     `json:"total_co2_kg"`
	TotalEnergyMJ    float64     `json:"total_energy_mj"`
	TotalMaterialsKg float64     `json:"total_materials_kg"`
	Scores           *lca.Scores `json:"scores,omitempty"`
}

// LCAResults is a previously computed assessment sent back for recommendations
type LCAResults struct {
	Summary           LCASummary              `json:"summary"`
	MaterialBreakdown []lca.MaterialImpact    `json:"material_breakdown"`
	CategoryBreakdown []lca.CategoryAggregate `json:"category_breakdown"`
	Warnings          []string                `json:"warnings,omitempty"`
}

// RecommendationsRequest is the body of POST /api/ai/recommendations
type RecommendationsRequest struct {
	LCAResults *LCAResults    `json:"lca_results"`
	Context    map[string]any `json:"context,omitempty"`
}

// RecommendationItem is one recommendation, either generated locally or by the AI processor
type RecommendationItem struct {
	Type               string   `json:"type"`
	Priority           string   `json:"priority"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Action             string   `json:"action,omitempty"`
	Actions            []string `json:"actions,omitempty"`
	ImpactScore        float64  `json:"impact_score,omitempty"`
	EstimatedReduction string   `json:"estimated_reduction,omitempty"`
}

// RecommendationsResponse is returned by POST /api/ai/recommendations
type RecommendationsResponse struct {
	Recommendations []RecommendationItem `json:"recommendations"`
	ConfidenceScore float64              `json:"confidence_score"`
	GeneratedAt     string               `json:"generated_at"`
	Fallback        bool                 `json:"fallback"`
}

// CategorizeRequest is the body of POST /api/ai/categorize
type CategorizeRequest struct {
	Materials []lca.MaterialInput `json:"materials"`
}

// CategorizeResponse is returned by POST /api/ai/categorize
type CategorizeResponse struct {
	CategorizedMaterials []lca.CategorizedMaterial `json:"categorized_materials"`
	TotalProcessed       int                       `json:"total_processed"`
	Fallback             bool                      `json:"fallback"`
}

// AI service states reported by the health endpoint
const (
	AIServiceAvailable   = "available"
	AIServiceUnavailable = "unavailable"
	AIServiceDisabled    = "disabled"
)

// AIServiceDetails describes the last probe of the AI processor
type AIServiceDetails struct {
	URL     string `json:"url,omitempty"`
	Status  string `json:"status,omitempty"`
	Service string `json:"service,omitempty"`
	Version string `json:"version,omitempty"`
	Error   string `json:"error,omitempty"`
}

// AIHealthResponse is returned by GET /api/ai/health
type AIHealthResponse struct {
	AIService    string           `json:"ai_service"`
	FallbackMode bool             `json:"fallback_mode"`
	CheckedAt    string           `json:"checked_at"`
	Cached       bool             `json:"cached"`
	Details      AIServiceDetails `json:"details"`
}

// HealthResponse is returned by GET /api/health
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}
