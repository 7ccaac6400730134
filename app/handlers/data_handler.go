package handlers

import (
	"strconv"
	"strings"

	"github.com/amirphl/ecolca/app/dto"
	businessflow "github.com/amirphl/ecolca/business_flow"
	"github.com/amirphl/ecolca/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// DataHandlerInterface defines the material intake endpoints
type DataHandlerInterface interface {
	Upload(c fiber.Ctx) error
	Manual(c fiber.Ctx) error
}

// DataHandler implements DataHandlerInterface
type DataHandler struct {
	flow      businessflow.DataFlow
	validator *validator.Validate
	logger    *zap.Logger
}

func NewDataHandler(flow businessflow.DataFlow, logger *zap.Logger) DataHandlerInterface {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DataHandler{
		flow:      flow,
		validator: validator.New(),
		logger:    logger,
	}
}

// Upload accepts a multipart file (.csv or .xlsx) and an optional ai_processing flag
// @Accept multipart/form-data
// @Router /api/data/upload [post]
func (h *DataHandler) Upload(c fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil || fileHeader == nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "No file provided", "FILE_REQUIRED", nil)
	}
	aiProcessing := parseBoolOr(c.FormValue("ai_processing"), true)

	fh, err := fileHeader.Open()
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid file", "INVALID_FILE", err.Error())
	}
	defer fh.Close()

	ctx, cancel := createRequestContext(c, "/api/data/upload", utils.UploadRequestTimeout)
	defer cancel()

	result, err := h.flow.Upload(ctx, fileHeader.Filename, fileHeader.Size, fh, aiProcessing)
	if err != nil {
		return h.uploadError(c, err)
	}

	return SuccessResponse(c, fiber.StatusOK, "File processed", result)
}

func (h *DataHandler) uploadError(c fiber.Ctx, err error) error {
	switch {
	case businessflow.IsFileRequired(err):
		return ErrorResponse(c, fiber.StatusBadRequest, "No file provided", "FILE_REQUIRED", nil)
	case businessflow.IsFileTooLarge(err):
		return ErrorResponse(c, fiber.StatusRequestEntityTooLarge, "File is too large", "FILE_TOO_LARGE", nil)
	case businessflow.IsUnsupportedFileType(err):
		return ErrorResponse(c, fiber.StatusBadRequest, "Unsupported file type; upload a .csv or .xlsx file", "UNSUPPORTED_FILE_TYPE", nil)
	case businessflow.IsMissingMaterialColumn(err):
		return ErrorResponse(c, fiber.StatusBadRequest, "File must contain a material column", "MISSING_MATERIAL_COLUMN", nil)
	case businessflow.IsNoMaterialsInFile(err):
		return ErrorResponse(c, fiber.StatusBadRequest, "No valid materials found in file", "NO_MATERIALS", nil)
	case businessflow.IsInvalidFile(err):
		return ErrorResponse(c, fiber.StatusBadRequest, "File could not be parsed", "INVALID_FILE", nil)
	default:
		h.logger.Error("Upload failed", zap.Error(err))
		return ErrorResponse(c, fiber.StatusInternalServerError, "Failed to process file", "INTERNAL_ERROR", nil)
	}
}

// Manual accepts manually entered materials
// @Router /api/data/manual [post]
func (h *DataHandler) Manual(c fiber.Ctx) error {
	var req dto.ManualEntryRequest
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	ctx, cancel := createRequestContext(c, "/api/data/manual", utils.DefaultRequestTimeout)
	defer cancel()

	result, err := h.flow.Manual(ctx, &req)
	if err != nil {
		if businessflow.IsMaterialsRequired(err) {
			return ErrorResponse(c, fiber.StatusBadRequest, "No materials provided", "MATERIALS_REQUIRED", nil)
		}
		h.logger.Error("Manual entry failed", zap.Error(err))
		return ErrorResponse(c, fiber.StatusInternalServerError, "Failed to process materials", "INTERNAL_ERROR", nil)
	}

	return SuccessResponse(c, fiber.StatusOK, "Materials processed", result)
}

func parseBoolOr(v string, def bool) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
