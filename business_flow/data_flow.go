package businessflow

import (
	"context"
	"io"
	"strings"

	"github.com/amirphl/ecolca/app/dto"
	"github.com/amirphl/ecolca/lca"
	"github.com/amirphl/ecolca/utils"
	"go.uber.org/zap"
)

// DataFlow turns uploaded files and manual entries into material lists
type DataFlow interface {
	Upload(ctx context.Context, filename string, size int64, r io.Reader, aiProcessing bool) (*dto.ProcessedDataResponse, error)
	Manual(ctx context.Context, req *dto.ManualEntryRequest) (*dto.ProcessedDataResponse, error)
}

// DataFlowImpl implements DataFlow
type DataFlowImpl struct {
	aiFlow        AIFlow
	maxUploadSize int64
	logger        *zap.Logger
}

// NewDataFlow creates a new data flow instance. maxUploadSize <= 0 disables the size check.
func NewDataFlow(aiFlow AIFlow, maxUploadSize int64, logger *zap.Logger) DataFlow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DataFlowImpl{
		aiFlow:        aiFlow,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

func (f *DataFlowImpl) Upload(ctx context.Context, filename string, size int64, r io.Reader, aiProcessing bool) (*dto.ProcessedDataResponse, error) {
	if r == nil || strings.TrimSpace(filename) == "" {
		return nil, NewBusinessError("FILE_REQUIRED", "File is required", ErrFileRequired)
	}
	if f.maxUploadSize > 0 && size > f.maxUploadSize {
		return nil, NewBusinessErrorf("FILE_TOO_LARGE", "File exceeds the %d byte limit", ErrFileTooLarge, f.maxUploadSize)
	}
	if f.maxUploadSize > 0 {
		r = io.LimitReader(r, f.maxUploadSize+1)
	}

	imported, err := ParseMaterialFile(filename, r)
	if err != nil {
		return nil, err
	}

	resp := &dto.ProcessedDataResponse{
		Materials:    imported.Materials,
		TotalRecords: len(imported.Materials),
		SkippedRows:  imported.SkippedRows,
		Filename:     filename,
	}
	if aiProcessing {
		if err := f.process(ctx, resp); err != nil {
			return nil, err
		}
	}

	f.logger.Info("Material file imported",
		zap.String("filename", filename),
		zap.Int("materials", resp.TotalRecords),
		zap.Int("skipped_rows", resp.SkippedRows),
		zap.Bool("ai_processed", resp.AIProcessed),
		zap.Bool("fallback", resp.Fallback))
	return resp, nil
}

func (f *DataFlowImpl) Manual(ctx context.Context, req *dto.ManualEntryRequest) (*dto.ProcessedDataResponse, error) {
	if req == nil || len(req.Materials) == 0 {
		return nil, NewBusinessError("MATERIALS_REQUIRED", "No materials provided", ErrMaterialsRequired)
	}

	materials := make([]lca.MaterialInput, 0, len(req.Materials))
	for _, m := range req.Materials {
		materials = append(materials, manualToMaterialInput(m))
	}

	resp := &dto.ProcessedDataResponse{
		Materials:    materials,
		TotalRecords: len(materials),
	}
	if utils.BoolOr(req.AIProcessing, true) {
		if err := f.process(ctx, resp); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

func (f *DataFlowImpl) process(ctx context.Context, resp *dto.ProcessedDataResponse) error {
	processed, err := f.aiFlow.Process(ctx, &dto.ProcessRequest{Materials: resp.Materials})
	if err != nil {
		return err
	}
	info := processed.ProcessingInfo
	resp.ProcessedMaterials = processed.ProcessedMaterials
	resp.ProcessingInfo = &info
	resp.AIProcessed = true
	resp.Fallback = processed.Fallback
	return nil
}

func manualToMaterialInput(m dto.ManualMaterialRequest) lca.MaterialInput {
	in := lca.MaterialInput{
		MaterialType: strings.TrimSpace(m.MaterialType),
		Unit:         strings.TrimSpace(m.Unit),
	}
	if in.Unit == "" {
		in.Unit = lca.DefaultUnit
	}
	if m.Quantity != nil {
		in.Quantity = lca.Number(*m.Quantity)
	}
	if m.EnergyConsumption != nil {
		in.EnergyConsumption = lca.Number(*m.EnergyConsumption)
	}
	if m.TransportDistance != nil {
		in.TransportDistance = lca.Number(*m.TransportDistance)
	}
	return in
}
