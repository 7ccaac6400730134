package handlers

import (
	"github.com/amirphl/ecolca/app/dto"
	businessflow "github.com/amirphl/ecolca/business_flow"
	"github.com/amirphl/ecolca/utils"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// AIHandlerInterface defines the AI assisted endpoints
type AIHandlerInterface interface {
	Process(c fiber.Ctx) error
	Recommendations(c fiber.Ctx) error
	Categorize(c fiber.Ctx) error
	Health(c fiber.Ctx) error
}

// AIHandler implements AIHandlerInterface
type AIHandler struct {
	flow   businessflow.AIFlow
	logger *zap.Logger
}

func NewAIHandler(flow businessflow.AIFlow, logger *zap.Logger) AIHandlerInterface {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AIHandler{flow: flow, logger: logger}
}

// @Router /api/ai/process [post]
func (h *AIHandler) Process(c fiber.Ctx) error {
	var req dto.ProcessRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	ctx, cancel := createRequestContext(c, "/api/ai/process", utils.DefaultRequestTimeout)
	defer cancel()

	result, err := h.flow.Process(ctx, &req)
	if err != nil {
		if businessflow.IsMaterialsRequired(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "No materials provided", "MATERIALS_REQUIRED", nil)
		}
		h.logger.Error("AI process failed", zap.Error(err))
		return ErrorResponse(c, fiber.StatusInternalServerError, "Failed to process materials", "INTERNAL_ERROR", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "Materials processed", result)
}

// @Router /api/ai/recommendations [post]
func (h *AIHandler) Recommendations(c fiber.Ctx) error {
	var req dto.RecommendationsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	ctx, cancel := createRequestContext(c, "/api/ai/recommendations", utils.DefaultRequestTimeout)
	defer cancel()

	result, err := h.flow.Recommendations(ctx, &req)
	if err != nil {
		if businessflow.IsLCAResultsRequired(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "LCA results are required", "LCA_RESULTS_REQUIRED", nil)
		}
		h.logger.Error("AI recommendations failed", zap.Error(err))
		return ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate recommendations", "INTERNAL_ERROR", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "Recommendations generated", result)
}

// @Router /api/ai/categorize [post]
func (h *AIHandler) Categorize(c fiber.Ctx) error {
	var req dto.CategorizeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	ctx, cancel := createRequestContext(c, "/api/ai/categorize", utils.DefaultRequestTimeout)
	defer cancel()

	result, err := h.flow.Categorize(ctx, &req)
	if err != nil {
		if businessflow.IsMaterialsRequired(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "No materials provided", "MATERIALS_REQUIRED", nil)
		}
		h.logger.Error("AI categorize failed", zap.Error(err))
		return ErrorResponse(c, fiber.StatusInternalServerError, "Failed to categorize materials", "INTERNAL_ERROR", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "Materials categorized", result)
}

// @Router /api/ai/health [get]
func (h *AIHandler) Health(c fiber.Ctx) error {
	ctx, cancel := createRequestContext(c, "/api/ai/health", utils.DefaultRequestTimeout)
	defer cancel()

	result, err := h.flow.Health(ctx)
	if err != nil {
		h.logger.Error("AI health failed", zap.Error(err))
		return ErrorResponse(c, fiber.StatusInternalServerError, "Failed to check AI service", "INTERNAL_ERROR", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "AI service status", result)
}
