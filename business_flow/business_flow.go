// Package businessflow contains the use cases of the LCA service: calculation, intake and AI assisted processing.
package businessflow

import (
	"time"

	"github.com/amirphl/ecolca/app/dto"
	"github.com/amirphl/ecolca/models"
)

// ClientMetadata holds client information attached to log lines of a request
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToAssessmentSummaryDTO converts an assessment model to its list representation
func ToAssessmentSummaryDTO(a models.Assessment) dto.AssessmentSummary {
	return dto.AssessmentSummary{
		ID:             a.ID,
		Name:           a.Name,
		Description:    a.Description,
		TotalCO2:       a.TotalCO2,
		TotalEnergy:    a.TotalEnergy,
		TotalMaterials: a.TotalMaterials,
		OverallScore:   a.OverallScore,
		Grade:          a.Grade,
		CreatedAt:      a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func ToAssessmentMaterialDTO(m models.AssessmentMaterial) dto.AssessmentMaterialItem {
	return dto.AssessmentMaterialItem{
		ID:                m.ID,
		MaterialType:      m.MaterialType,
		Category:          m.Category,
		Quantity:          m.Quantity,
		Unit:              m.Unit,
		EnergyConsumption: m.EnergyConsumption,
		TransportDistance: m.TransportDistance,
		CO2Impact:         m.CO2Impact,
		EnergyImpact:      m.EnergyImpact,
		TransportImpact:   m.TransportImpact,
		TotalImpact:       m.TotalImpact,
		Estimated:         m.Estimated,
	}
}
