package businessflow

import (
	"context"
	"encoding/json"
	"errors"
	"math"

	"github.com/amirphl/ecolca/app/dto"
	"github.com/amirphl/ecolca/app/services"
	"github.com/amirphl/ecolca/config"
	"github.com/amirphl/ecolca/lca"
	"github.com/amirphl/ecolca/utils"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Confidence reported when results come from the local rules instead of the AI processor
const (
	FallbackConfidence = 0.6

	// MaxFallbackRecommendationConfidence keeps rule-based recommendations below the AI processor's default
	MaxFallbackRecommendationConfidence = 0.85

	// externalDefaultConfidence is used when the AI processor omits a confidence
	externalDefaultConfidence = 0.9
)

// AIFlow wraps the external AI processor with rule based fallbacks
type AIFlow interface {
	Process(ctx context.Context, req *dto.ProcessRequest) (*dto.ProcessResponse, error)
	Recommendations(ctx context.Context, req *dto.RecommendationsRequest) (*dto.RecommendationsResponse, error)
	Categorize(ctx context.Context, req *dto.CategorizeRequest) (*dto.CategorizeResponse, error)
	Health(ctx context.Context) (*dto.AIHealthResponse, error)
}

// AIFlowImpl implements AIFlow
type AIFlowImpl struct {
	client      services.AIProcessorClient
	table       *lca.FactorTable
	cfg         config.AIConfig
	rc          *redis.Client
	cachePrefix string
	logger      *zap.Logger
}

// NewAIFlow creates a new AI flow instance. rc may be nil, which disables health caching.
func NewAIFlow(
	client services.AIProcessorClient,
	table *lca.FactorTable,
	cfg config.AIConfig,
	rc *redis.Client,
	cachePrefix string,
	logger *zap.Logger,
) AIFlow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AIFlowImpl{
		client:      client,
		table:       table,
		cfg:         cfg,
		rc:          rc,
		cachePrefix: cachePrefix,
		logger:      logger,
	}
}

func (f *AIFlowImpl) externalEnabled() bool {
	return f.cfg.Enabled && f.client != nil
}

func (f *AIFlowImpl) fallbackOutcome() string {
	if f.externalEnabled() {
		return aiOutcomeFallback
	}
	return aiOutcomeDisabled
}

// Process imputes missing values, categorizes and flags outliers
func (f *AIFlowImpl) Process(ctx context.Context, req *dto.ProcessRequest) (*dto.ProcessResponse, error) {
	if req == nil || len(req.Materials) == 0 {
		return nil, NewBusinessError("MATERIALS_REQUIRED", "No materials provided", ErrMaterialsRequired)
	}

	if res, ok := f.tryExternalProcess(ctx, req); ok {
		observeAIRequest("process", aiOutcomeExternal)
		return res, nil
	}

	observeAIRequest("process", f.fallbackOutcome())
	processed, info := lca.ProcessMaterials(req.Materials)
	f.table.AnnotateEstimates(processed)
	return &dto.ProcessResponse{
		ProcessedMaterials: processed,
		ProcessingInfo:     info,
		ConfidenceScore:    FallbackConfidence,
		Fallback:           true,
	}, nil
}

func (f *AIFlowImpl) tryExternalProcess(ctx context.Context, req *dto.ProcessRequest) (*dto.ProcessResponse, bool) {
	if !f.externalEnabled() {
		return nil, false
	}

	res, err := f.client.Process(ctx, req.Materials, req.Options)
	if err != nil {
		f.logger.Warn("AI processing unavailable, using fallback", zap.Error(err))
		return nil, false
	}
	if res == nil || len(res.ProcessedMaterials) != len(req.Materials) {
		f.logger.Warn("AI processing returned an unexpected number of materials, using fallback",
			zap.Int("sent", len(req.Materials)))
		return nil, false
	}

	processed := res.ProcessedMaterials
	f.table.AnnotateEstimates(processed)

	confidence := externalDefaultConfidence
	if len(processed) > 0 {
		var sum float64
		for _, p := range processed {
			sum += p.ConfidenceScore
		}
		confidence = sum / float64(len(processed))
	}

	info := res.ProcessingInfo
	if info.TotalRecords == 0 {
		info.TotalRecords = len(processed)
	}
	return &dto.ProcessResponse{
		ProcessedMaterials: processed,
		ProcessingInfo:     info,
		ConfidenceScore:    lca.Round2(confidence),
		Fallback:           false,
	}, true
}

// Recommendations produces improvement suggestions for an already computed assessment
func (f *AIFlowImpl) Recommendations(ctx context.Context, req *dto.RecommendationsRequest) (*dto.RecommendationsResponse, error) {
	if req == nil || req.LCAResults == nil {
		return nil, NewBusinessError("LCA_RESULTS_REQUIRED", "LCA results are required", ErrLCAResultsRequired)
	}

	if res, ok := f.tryExternalRecommendations(ctx, req); ok {
		observeAIRequest("recommendations", aiOutcomeExternal)
		return res, nil
	}

	observeAIRequest("recommendations", f.fallbackOutcome())
	materials := req.LCAResults.MaterialBreakdown
	categories := req.LCAResults.CategoryBreakdown
	if len(categories) == 0 && len(materials) > 0 {
		categories = lca.Aggregate(materials).Categories
	}

	recs := lca.Recommend(materials, categories)
	items := make([]dto.RecommendationItem, 0, len(recs))
	for _, r := range recs {
		items = append(items, dto.RecommendationItem{
			Type:        r.Type,
			Priority:    r.Priority,
			Title:       r.Title,
			Description: r.Description,
			Action:      r.Action,
		})
	}
	confidence := math.Min(
		lca.RecommendationConfidence(len(materials), len(req.LCAResults.Warnings)),
		MaxFallbackRecommendationConfidence,
	)
	return &dto.RecommendationsResponse{
		Recommendations: items,
		ConfidenceScore: confidence,
		GeneratedAt:     utils.UTCNowRFC3339(),
		Fallback:        true,
	}, nil
}

func (f *AIFlowImpl) tryExternalRecommendations(ctx context.Context, req *dto.RecommendationsRequest) (*dto.RecommendationsResponse, bool) {
	if !f.externalEnabled() {
		return nil, false
	}

	res, err := f.client.Recommendations(ctx, services.AIRecommendationRequest{
		LCAResults: req.LCAResults,
		Context:    req.Context,
	})
	if err != nil {
		f.logger.Warn("AI recommendations unavailable, using fallback", zap.Error(err))
		return nil, false
	}
	if res == nil || len(res.Recommendations) == 0 {
		f.logger.Warn("AI recommendations response was empty, using fallback")
		return nil, false
	}

	items := make([]dto.RecommendationItem, 0, len(res.Recommendations))
	for _, r := range res.Recommendations {
		items = append(items, dto.RecommendationItem{
			Type:               r.Type,
			Priority:           r.Priority,
			Title:              r.Title,
			Description:        r.Description,
			Action:             r.Action,
			Actions:            r.Actions,
			ImpactScore:        r.ImpactScore,
			EstimatedReduction: r.EstimatedReduction,
		})
	}

	confidence := res.ConfidenceScore
	if confidence <= 0 {
		confidence = externalDefaultConfidence
	}
	generatedAt := res.GeneratedAt
	if generatedAt == "" {
		generatedAt = utils.UTCNowRFC3339()
	}
	return &dto.RecommendationsResponse{
		Recommendations: items,
		ConfidenceScore: confidence,
		GeneratedAt:     generatedAt,
		Fallback:        false,
	}, true
}

// Categorize assigns a category to every material
func (f *AIFlowImpl) Categorize(ctx context.Context, req *dto.CategorizeRequest) (*dto.CategorizeResponse, error) {
	if req == nil || len(req.Materials) == 0 {
		return nil, NewBusinessError("MATERIALS_REQUIRED", "No materials provided", ErrMaterialsRequired)
	}

	if res, ok := f.tryExternalCategorize(ctx, req); ok {
		observeAIRequest("categorize", aiOutcomeExternal)
		return res, nil
	}

	observeAIRequest("categorize", f.fallbackOutcome())
	categorized := lca.CategorizeMaterials(req.Materials)
	return &dto.CategorizeResponse{
		CategorizedMaterials: categorized,
		TotalProcessed:       len(categorized),
		Fallback:             true,
	}, nil
}

func (f *AIFlowImpl) tryExternalCategorize(ctx context.Context, req *dto.CategorizeRequest) (*dto.CategorizeResponse, bool) {
	if !f.externalEnabled() {
		return nil, false
	}

	res, err := f.client.Categorize(ctx, req.Materials)
	if err != nil {
		f.logger.Warn("AI categorization unavailable, using fallback", zap.Error(err))
		return nil, false
	}
	if res == nil || len(res.CategorizedMaterials) != len(req.Materials) {
		f.logger.Warn("AI categorization returned an unexpected number of materials, using fallback",
			zap.Int("sent", len(req.Materials)))
		return nil, false
	}

	return &dto.CategorizeResponse{
		CategorizedMaterials: res.CategorizedMaterials,
		TotalProcessed:       len(res.CategorizedMaterials),
		Fallback:             false,
	}, true
}

// Health reports whether the AI processor is reachable. Probe results are cached in redis.
func (f *AIFlowImpl) Health(ctx context.Context) (*dto.AIHealthResponse, error) {
	if !f.externalEnabled() {
		return &dto.AIHealthResponse{
			AIService:    dto.AIServiceDisabled,
			FallbackMode: true,
			CheckedAt:    utils.UTCNowRFC3339(),
		}, nil
	}

	if cached, ok := f.cachedHealth(ctx); ok {
		return cached, nil
	}

	out := &dto.AIHealthResponse{
		CheckedAt: utils.UTCNowRFC3339(),
		Details:   dto.AIServiceDetails{URL: f.cfg.BaseURL},
	}
	res, err := f.client.Health(ctx)
	switch {
	case err != nil:
		out.AIService = dto.AIServiceUnavailable
		out.FallbackMode = true
		out.Details.Error = err.Error()
	case res == nil || (res.Status != "" && res.Status != "healthy"):
		out.AIService = dto.AIServiceUnavailable
		out.FallbackMode = true
		if res != nil {
			out.Details.Status = res.Status
		}
	default:
		out.AIService = dto.AIServiceAvailable
		out.Details.Status = res.Status
		out.Details.Service = res.Service
		out.Details.Version = res.Version
	}

	f.storeHealth(ctx, out)
	return out, nil
}

func (f *AIFlowImpl) healthCacheKey() string {
	return f.cachePrefix + utils.AIHealthCacheKey
}

func (f *AIFlowImpl) cachedHealth(ctx context.Context) (*dto.AIHealthResponse, bool) {
	if f.rc == nil || f.cfg.HealthCacheTTL <= 0 {
		return nil, false
	}

	bs, err := f.rc.Get(ctx, f.healthCacheKey()).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			f.logger.Debug("AI health cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var out dto.AIHealthResponse
	if err := json.Unmarshal(bs, &out); err != nil {
		return nil, false
	}
	out.Cached = true
	return &out, true
}

func (f *AIFlowImpl) storeHealth(ctx context.Context, out *dto.AIHealthResponse) {
	if f.rc == nil || f.cfg.HealthCacheTTL <= 0 {
		return
	}

	bs, err := json.Marshal(out)
	if err != nil {
		return
	}
	if err := f.rc.Set(ctx, f.healthCacheKey(), bs, f.cfg.HealthCacheTTL).Err(); err != nil {
		f.logger.Debug("AI health cache write failed", zap.Error(err), zap.Duration("ttl", f.cfg.HealthCacheTTL))
	}
}
