package handlers

import (
	"strconv"

	"github.com/amirphl/ecolca/app/dto"
	businessflow "github.com/amirphl/ecolca/business_flow"
	"github.com/amirphl/ecolca/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// LCAHandlerInterface defines the calculation and assessment endpoints.
// Successful responses carry the bare payload; failures use the error envelope.
type LCAHandlerInterface interface {
	Calculate(c fiber.Ctx) error
	ListAssessments(c fiber.Ctx) error
	GetAssessment(c fiber.Ctx) error
	DeleteAssessment(c fiber.Ctx) error
	ExportAssessment(c fiber.Ctx) error
	ListEmissionFactors(c fiber.Ctx) error
}

// LCAHandler implements LCAHandlerInterface
type LCAHandler struct {
	flow      businessflow.LCAFlow
	validator *validator.Validate
	logger    *zap.Logger
}

func NewLCAHandler(flow businessflow.LCAFlow, logger *zap.Logger) LCAHandlerInterface {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LCAHandler{
		flow:      flow,
		validator: validator.New(),
		logger:    logger,
	}
}

// Calculate runs an assessment and stores it when a name is given
// @Router /api/lca/calculate [post]
func (h *LCAHandler) Calculate(c fiber.Ctx) error {
	var req dto.CalculateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(requestIDOf(c))

	ctx, cancel := createRequestContext(c, "/api/lca/calculate", utils.DefaultRequestTimeout)
	defer cancel()

	result, err := h.flow.Calculate(ctx, &req, metadata)
	if err != nil {
		if businessflow.IsMaterialsRequired(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "No materials provided", "MATERIALS_REQUIRED", nil)
		}
		h.logger.Error("Calculate failed", zap.Error(err), zap.String("request_id", metadata.RequestID))
		return ErrorResponse(c, fiber.StatusInternalServerError, "Failed to calculate assessment", "INTERNAL_ERROR", nil)
	}

	return JSONResponse(c, fiber.StatusOK, result)
}

// ListAssessments lists stored assessments, newest first
// @Router /api/lca/assessments [get]
func (h *LCAHandler) ListAssessments(c fiber.Ctx) error {
	var req dto.ListAssessmentsRequest
	if err := c.Bind().Query(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	ctx, cancel := createRequestContext(c, "/api/lca/assessments", utils.DefaultRequestTimeout)
	defer cancel()

	result, err := h.flow.ListAssessments(ctx, &req)
	if err != nil {
		if businessflow.IsInvalidPageSize(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "Invalid paging parameters", "INVALID_PAGE_SIZE", nil)
		}
		h.logger.Error("List assessments failed", zap.Error(err))
		return ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list assessments", "INTERNAL_ERROR", nil)
	}

	return JSONResponse(c, fiber.StatusOK, result)
}

// GetAssessment returns one assessment with its material rows
// @Router /api/lca/assessments/{id} [get]
func (h *LCAHandler) GetAssessment(c fiber.Ctx) error {
	id, ok := parseAssessmentID(c)
	if !ok {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid assessment id", "INVALID_ID", nil)
	}

	ctx, cancel := createRequestContext(c, "/api/lca/assessments/:id", utils.DefaultRequestTimeout)
	defer cancel()

	result, err := h.flow.GetAssessment(ctx, id)
	if err != nil {
		if businessflow.IsAssessmentNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Assessment not found", "ASSESSMENT_NOT_FOUND", nil)
		}
		h.logger.Error("Get assessment failed", zap.Error(err), zap.Uint("assessment_id", id))
		return ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve assessment", "INTERNAL_ERROR", nil)
	}

	return JSONResponse(c, fiber.StatusOK, result)
}

// DeleteAssessment deletes an assessment; deleting a missing one still succeeds
// @Router /api/lca/assessments/{id} [delete]
func (h *LCAHandler) DeleteAssessment(c fiber.Ctx) error {
	id, ok := parseAssessmentID(c)
	if !ok {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid assessment id", "INVALID_ID", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetRequestID(requestIDOf(c))

	ctx, cancel := createRequestContext(c, "/api/lca/assessments/:id", utils.DefaultRequestTimeout)
	defer cancel()

	result, err := h.flow.DeleteAssessment(ctx, id, metadata)
	if err != nil {
		h.logger.Error("Delete assessment failed", zap.Error(err), zap.Uint("assessment_id", id))
		return ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete assessment", "INTERNAL_ERROR", nil)
	}

	return JSONResponse(c, fiber.StatusOK, result)
}

// ExportAssessment downloads an assessment as an XLSX workbook
// @Router /api/lca/assessments/{id}/export [get]
func (h *LCAHandler) ExportAssessment(c fiber.Ctx) error {
	id, ok := parseAssessmentID(c)
	if !ok {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid assessment id", "INVALID_ID", nil)
	}

	ctx, cancel := createRequestContext(c, "/api/lca/assessments/:id/export", utils.UploadRequestTimeout)
	defer cancel()

	filename, data, err := h.flow.ExportAssessment(ctx, id)
	if err != nil {
		if businessflow.IsAssessmentNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Assessment not found", "ASSESSMENT_NOT_FOUND", nil)
		}
		h.logger.Error("Export assessment failed", zap.Error(err), zap.Uint("assessment_id", id))
		return ErrorResponse(c, fiber.StatusInternalServerError, "Failed to export assessment", "EXPORT_FAILED", nil)
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+filename)
	return c.Send(data)
}

// ListEmissionFactors returns the emission factor table
// @Router /api/lca/emission-factors [get]
func (h *LCAHandler) ListEmissionFactors(c fiber.Ctx) error {
	ctx, cancel := createRequestContext(c, "/api/lca/emission-factors", utils.DefaultRequestTimeout)
	defer cancel()

	result, err := h.flow.ListEmissionFactors(ctx)
	if err != nil {
		h.logger.Error("List emission factors failed", zap.Error(err))
		return ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list emission factors", "INTERNAL_ERROR", nil)
	}

	return JSONResponse(c, fiber.StatusOK, result)
}

func parseAssessmentID(c fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
