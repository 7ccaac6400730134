package businessflow

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AI request outcomes
const (
	aiOutcomeExternal = "external"
	aiOutcomeFallback = "fallback"
	aiOutcomeDisabled = "disabled"
)

var (
	// Calculations partitioned by whether the assessment was stored
	lcaCalculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lca_calculations_total",
			Help: "Total number of LCA calculations performed",
		},
		[]string{"persisted"},
	)

	// Materials that fell back to the default emission factor
	lcaUnknownMaterialsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lca_unknown_materials_total",
			Help: "Total number of materials calculated with estimated factors",
		},
	)

	// AI-backed operations partitioned by who served them
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Total number of AI operations by outcome",
		},
		[]string{"operation", "outcome"},
	)
)

func observeCalculation(persisted bool, estimated int) {
	lcaCalculationsTotal.WithLabelValues(strconv.FormatBool(persisted)).Inc()
	if estimated > 0 {
		lcaUnknownMaterialsTotal.Add(float64(estimated))
	}
}

func observeAIRequest(operation, outcome string) {
	aiRequestsTotal.WithLabelValues(operation, outcome).Inc()
}
