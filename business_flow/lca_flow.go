package businessflow

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/amirphl/ecolca/app/dto"
	"github.com/amirphl/ecolca/lca"
	"github.com/amirphl/ecolca/models"
	"github.com/amirphl/ecolca/repository"
	"github.com/amirphl/ecolca/utils"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AssessmentNotPersistedWarning is added to a result whose assessment could not be stored
const AssessmentNotPersistedWarning = "Assessment could not be saved; results were not persisted."

const maxAssessmentPageSize = 500

// LCAFlow handles calculation and the lifecycle of stored assessments
type LCAFlow interface {
	Calculate(ctx context.Context, req *dto.CalculateRequest, metadata *ClientMetadata) (*dto.CalculateResponse, error)
	ListAssessments(ctx context.Context, req *dto.ListAssessmentsRequest) ([]dto.AssessmentSummary, error)
	GetAssessment(ctx context.Context, id uint) (*dto.AssessmentDetailResponse, error)
	DeleteAssessment(ctx context.Context, id uint, metadata *ClientMetadata) (*dto.DeleteAssessmentResponse, error)
	ListEmissionFactors(ctx context.Context) (*dto.ListEmissionFactorsResponse, error)
	ExportAssessment(ctx context.Context, id uint) (string, []byte, error)
}

// LCAFlowImpl implements LCAFlow
type LCAFlowImpl struct {
	calculator     *lca.Calculator
	assessmentRepo repository.AssessmentRepository
	materialRepo   repository.AssessmentMaterialRepository
	factorRepo     repository.EmissionFactorRepository
	db             *gorm.DB
	logger         *zap.Logger
}

// NewLCAFlow creates a new LCA flow instance
func NewLCAFlow(
	calculator *lca.Calculator,
	assessmentRepo repository.AssessmentRepository,
	materialRepo repository.AssessmentMaterialRepository,
	factorRepo repository.EmissionFactorRepository,
	db *gorm.DB,
	logger *zap.Logger,
) LCAFlow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LCAFlowImpl{
		calculator:     calculator,
		assessmentRepo: assessmentRepo,
		materialRepo:   materialRepo,
		factorRepo:     factorRepo,
		db:             db,
		logger:         logger,
	}
}

// Calculate runs the assessment pipeline. When an assessment name is given the result is stored;
// a storage failure only adds a warning and leaves assessment_id null.
func (f *LCAFlowImpl) Calculate(ctx context.Context, req *dto.CalculateRequest, metadata *ClientMetadata) (*dto.CalculateResponse, error) {
	if req == nil || len(req.Materials) == 0 {
		return nil, NewBusinessError("MATERIALS_REQUIRED", "No materials provided", ErrMaterialsRequired)
	}

	result := f.calculator.Calculate(req.Materials)
	resp := &dto.CalculateResponse{AssessmentResult: *result}

	name := strings.TrimSpace(req.AssessmentName)
	if name != "" {
		id, err := f.persist(ctx, name, strings.TrimSpace(req.Description), result)
		if err != nil {
			f.logger.Warn("Failed to persist assessment",
				append(metadataFields(metadata), zap.String("name", name), zap.Error(err))...)
			resp.Warnings = append(resp.Warnings, AssessmentNotPersistedWarning)
		} else {
			resp.AssessmentID = &id
		}
	}

	observeCalculation(resp.AssessmentID != nil, result.CountEstimated())
	f.logger.Debug("Assessment calculated",
		append(metadataFields(metadata),
			zap.Int("materials", len(req.Materials)),
			zap.Float64("total_co2_kg", result.TotalCO2Kg),
			zap.String("grade", result.Scores.Grade))...)

	return resp, nil
}

func (f *LCAFlowImpl) persist(ctx context.Context, name, description string, result *lca.AssessmentResult) (uint, error) {
	now := utils.UTCNow()
	assessment := &models.Assessment{
		Name:           name,
		Description:    description,
		TotalCO2:       result.TotalCO2Kg,
		TotalEnergy:    result.TotalEnergyMJ,
		TotalMaterials: result.TotalMaterialsKg,
		OverallScore:   result.Scores.Overall,
		Grade:          result.Scores.Grade,
		CreatedAt:      now,
	}

	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.assessmentRepo.Save(txCtx, assessment); err != nil {
			return err
		}

		rows := make([]*models.AssessmentMaterial, 0, len(result.MaterialBreakdown))
		for _, m := range result.MaterialBreakdown {
			rows = append(rows, &models.AssessmentMaterial{
				AssessmentID:      assessment.ID,
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
				CreatedAt:         now,
			})
		}
		return f.materialRepo.SaveBatch(txCtx, rows)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to store assessment %q: %w", name, err)
	}

	return assessment.ID, nil
}

// ListAssessments returns every stored assessment newest first; paging applies only when a limit is given
func (f *LCAFlowImpl) ListAssessments(ctx context.Context, req *dto.ListAssessmentsRequest) ([]dto.AssessmentSummary, error) {
	limit, offset := 0, 0
	if req != nil {
		if req.Limit < 0 || req.Limit > maxAssessmentPageSize || req.Offset < 0 {
			return nil, NewBusinessError("INVALID_PAGE_SIZE", "Invalid paging parameters", ErrInvalidPageSize)
		}
		limit, offset = req.Limit, req.Offset
	}

	rows, err := f.assessmentRepo.ListRecent(ctx, limit, offset)
	if err != nil {
		return nil, NewBusinessError("LIST_ASSESSMENTS_FAILED", "Failed to list assessments", err)
	}

	items := make([]dto.AssessmentSummary, 0, len(rows))
	for _, a := range rows {
		items = append(items, ToAssessmentSummaryDTO(*a))
	}
	return items, nil
}

func (f *LCAFlowImpl) GetAssessment(ctx context.Context, id uint) (*dto.AssessmentDetailResponse, error) {
	assessment, materials, err := f.loadAssessment(ctx, id)
	if err != nil {
		return nil, err
	}

	items := make([]dto.AssessmentMaterialItem, 0, len(materials))
	for _, m := range materials {
		items = append(items, ToAssessmentMaterialDTO(*m))
	}
	return &dto.AssessmentDetailResponse{
		AssessmentSummary: ToAssessmentSummaryDTO(*assessment),
		Materials:         items,
	}, nil
}

func (f *LCAFlowImpl) loadAssessment(ctx context.Context, id uint) (*models.Assessment, []*models.AssessmentMaterial, error) {
	assessment, err := f.assessmentRepo.ByID(ctx, id)
	if err != nil {
		return nil, nil, NewBusinessError("GET_ASSESSMENT_FAILED", "Failed to load assessment", err)
	}
	if assessment == nil {
		return nil, nil, NewBusinessErrorf("ASSESSMENT_NOT_FOUND", "Assessment %d not found", ErrAssessmentNotFound, id)
	}

	materials, err := f.materialRepo.ListByAssessmentID(ctx, id)
	if err != nil {
		return nil, nil, NewBusinessError("GET_ASSESSMENT_FAILED", "Failed to load assessment materials", err)
	}
	return assessment, materials, nil
}

// DeleteAssessment removes the material rows and then the assessment. Deleting a missing id succeeds.
func (f *LCAFlowImpl) DeleteAssessment(ctx context.Context, id uint, metadata *ClientMetadata) (*dto.DeleteAssessmentResponse, error) {
	var removed int64
	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if _, err := f.materialRepo.DeleteByAssessmentID(txCtx, id); err != nil {
			return err
		}
		n, err := f.assessmentRepo.DeleteByID(txCtx, id)
		if err != nil {
			return err
		}
		removed = n
		return nil
	})
	if err != nil {
		return nil, NewBusinessError("DELETE_ASSESSMENT_FAILED", "Failed to delete assessment", err)
	}

	if removed > 0 {
		f.logger.Info("Assessment deleted", append(metadataFields(metadata), zap.Uint("assessment_id", id))...)
	}
	return &dto.DeleteAssessmentResponse{ID: id, Deleted: removed > 0}, nil
}

func (f *LCAFlowImpl) ListEmissionFactors(ctx context.Context) (*dto.ListEmissionFactorsResponse, error) {
	rows, err := f.factorRepo.ListAll(ctx)
	if err != nil {
		return nil, NewBusinessError("LIST_FACTORS_FAILED", "Failed to list emission factors", err)
	}

	factors := make([]lca.EmissionFactor, 0, len(rows))
	for _, r := range rows {
		factors = append(factors, r.ToDomain())
	}
	return &dto.ListEmissionFactorsResponse{Factors: factors, Total: len(factors)}, nil
}

// ExportAssessment renders a stored assessment as an XLSX workbook with Summary and Materials sheets
func (f *LCAFlowImpl) ExportAssessment(ctx context.Context, id uint) (string, []byte, error) {
	assessment, materials, err := f.loadAssessment(ctx, id)
	if err != nil {
		return "", nil, err
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	const summarySheet, materialsSheet = "Summary", "Materials"
	if err := xl.SetSheetName(xl.GetSheetName(0), summarySheet); err != nil {
		return "", nil, NewBusinessError("EXPORT_FAILED", "Failed to prepare workbook", err)
	}
	if _, err := xl.NewSheet(materialsSheet); err != nil {
		return "", nil, NewBusinessError("EXPORT_FAILED", "Failed to prepare workbook", err)
	}

	summary := [][]any{
		{"Field", "Value"},
		{"ID", assessment.ID},
		{"Name", assessment.Name},
		{"Description", assessment.Description},
		{"Total CO2 (kg)", assessment.TotalCO2},
		{"Total Energy (MJ)", assessment.TotalEnergy},
		{"Total Materials (kg)", assessment.TotalMaterials},
		{"Overall Score", assessment.OverallScore},
		{"Grade", assessment.Grade},
		{"Created At", utils.TimeToUTC(assessment.CreatedAt).Format("2006-01-02 15:04:05")},
	}
	for i, row := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := xl.SetSheetRow(summarySheet, cell, &row); err != nil {
			return "", nil, NewBusinessError("EXPORT_FAILED", "Failed to write summary sheet", err)
		}
	}

	header := []any{"material_type", "category", "quantity", "unit", "energy_consumption", "transport_distance",
		"co2_impact", "energy_impact", "transport_impact", "total_impact", "estimated"}
	if err := xl.SetSheetRow(materialsSheet, "A1", &header); err != nil {
		return "", nil, NewBusinessError("EXPORT_FAILED", "Failed to write materials sheet", err)
	}
	for i, m := range materials {
		row := []any{m.MaterialType, m.Category, m.Quantity, m.Unit, m.EnergyConsumption, m.TransportDistance,
			m.CO2Impact, m.EnergyImpact, m.TransportImpact, m.TotalImpact, m.Estimated}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := xl.SetSheetRow(materialsSheet, cell, &row); err != nil {
			return "", nil, NewBusinessError("EXPORT_FAILED", "Failed to write materials sheet", err)
		}
	}

	var buf *bytes.Buffer
	if buf, err = xl.WriteToBuffer(); err != nil {
		return "", nil, NewBusinessError("EXPORT_FAILED", "Failed to render workbook", err)
	}

	filename := fmt.Sprintf("assessment_%d_%s.xlsx", assessment.ID, exportFileSlug(assessment.Name))
	return filename, buf.Bytes(), nil
}

// exportFileSlug keeps letters, digits, dashes and underscores of an assessment name
func exportFileSlug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	slug := b.String()
	if slug == "" {
		return "export"
	}
	if len(slug) > 40 {
		slug = slug[:40]
	}
	return slug
}

func metadataFields(metadata *ClientMetadata) []zap.Field {
	if metadata == nil {
		return nil
	}
	return []zap.Field{
		zap.String("request_id", metadata.RequestID),
		zap.String("ip", metadata.IPAddress),
	}
}
