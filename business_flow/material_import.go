package businessflow

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/amirphl/ecolca/lca"
	"github.com/xuri/excelize/v2"
)

// Canonical material columns
const (
	columnMaterialType      = "material_type"
	columnQuantity          = "quantity"
	columnUnit              = "unit"
	columnEnergyConsumption = "energy_consumption"
	columnTransportDistance = "transport_distance"
)

// materialColumnAliases lists accepted header names per canonical column, most specific first
var materialColumnAliases = []struct {
	column  string
	aliases []string
}{
	{columnMaterialType, []string{"material_type", "material", "type", "name", "material_name"}},
	{columnQuantity, []string{"quantity", "qty", "amount", "weight"}},
	{columnUnit, []string{"unit", "units"}},
	{columnEnergyConsumption, []string{"energy_consumption", "energy", "energy_mj"}},
	{columnTransportDistance, []string{"transport_distance", "transport", "distance", "distance_km"}},
}

// MaterialImport is the result of reading a material file
type MaterialImport struct {
	Materials   []lca.MaterialInput
	TotalRows   int
	SkippedRows int
}

// ParseMaterialFile reads a .csv or .xlsx material list. The file type is taken from the name's extension.
func ParseMaterialFile(filename string, r io.Reader) (*MaterialImport, error) {
	if r == nil {
		return nil, NewBusinessError("FILE_REQUIRED", "File is required", ErrFileRequired)
	}

	var (
		rows [][]string
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		rows, err = readCSVRows(r)
	case ".xlsx", ".xlsm":
		rows, err = readXLSXRows(r)
	default:
		return nil, NewBusinessErrorf("UNSUPPORTED_FILE_TYPE", "Unsupported file type %q; upload a .csv or .xlsx file", ErrUnsupportedFileType, ext)
	}
	if err != nil {
		return nil, NewBusinessError("INVALID_FILE", "Failed to read file", errors.Join(ErrInvalidFile, err))
	}

	return materialsFromRows(rows)
}

func readCSVRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

// readXLSXRows returns the rows of the first sheet
func readXLSXRows(r io.Reader) ([][]string, error) {
	xl, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer func() { _ = xl.Close() }()

	return xl.GetRows(xl.GetSheetName(0))
}

func materialsFromRows(rows [][]string) (*MaterialImport, error) {
	if len(rows) == 0 {
		return nil, NewBusinessError("NO_MATERIALS", "File is empty", ErrNoMaterialsInFile)
	}

	colIndex := resolveMaterialColumns(rows[0])
	materialIdx, ok := colIndex[columnMaterialType]
	if !ok {
		return nil, NewBusinessError("MISSING_MATERIAL_COLUMN",
			"File must contain a material column (material_type, material, type, name or material_name)", ErrMissingMaterialColumn)
	}

	out := &MaterialImport{Materials: make([]lca.MaterialInput, 0, len(rows)-1)}
	for _, rec := range rows[1:] {
		if isBlankRow(rec) {
			continue
		}
		out.TotalRows++

		materialType := cellAt(rec, materialIdx)
		if materialType == "" {
			out.SkippedRows++
			continue
		}

		unit := lca.DefaultUnit
		if idx, ok := colIndex[columnUnit]; ok && cellAt(rec, idx) != "" {
			unit = cellAt(rec, idx)
		}
		out.Materials = append(out.Materials, lca.MaterialInput{
			MaterialType:      materialType,
			Quantity:          numberColumn(rec, colIndex, columnQuantity),
			Unit:              unit,
			EnergyConsumption: numberColumn(rec, colIndex, columnEnergyConsumption),
			TransportDistance: numberColumn(rec, colIndex, columnTransportDistance),
		})
	}

	if len(out.Materials) == 0 {
		return nil, NewBusinessError("NO_MATERIALS", "No valid materials found in file", ErrNoMaterialsInFile)
	}
	return out, nil
}

// resolveMaterialColumns maps canonical columns to header positions
func resolveMaterialColumns(header []string) map[string]int {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		name := normalizeColumnName(h)
		if _, seen := positions[name]; !seen && name != "" {
			positions[name] = i
		}
	}

	colIndex := make(map[string]int, len(materialColumnAliases))
	for _, c := range materialColumnAliases {
		for _, alias := range c.aliases {
			if idx, ok := positions[alias]; ok {
				colIndex[c.column] = idx
				break
			}
		}
	}
	return colIndex
}

// normalizeColumnName lower-cases a header and turns spaces and dashes into underscores
func normalizeColumnName(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(h)
}

func cellAt(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

func numberColumn(rec []string, colIndex map[string]int, column string) lca.Number {
	idx, ok := colIndex[column]
	if !ok {
		return 0
	}
	return lca.ParseNumber(cellAt(rec, idx))
}

func isBlankRow(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
