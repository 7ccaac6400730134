package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amirphl/ecolca/app/dto"
	"github.com/amirphl/ecolca/app/handlers"
	"github.com/amirphl/ecolca/app/services"
	businessflow "github.com/amirphl/ecolca/business_flow"
	"github.com/amirphl/ecolca/config"
	"github.com/amirphl/ecolca/lca"
	"github.com/amirphl/ecolca/repository"
	testingutil "github.com/amirphl/ecolca/testing"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Details any    `json:"details"`
	} `json:"error"`
}

func newTestApp(testDB *testingutil.TestDB) *fiber.App {
	table := lca.NewFactorTable(lca.DefaultFactors())
	logger := zap.NewNop()

	lcaFlow := businessflow.NewLCAFlow(
		lca.NewCalculator(table, 2),
		repository.NewAssessmentRepository(testDB.DB),
		repository.NewAssessmentMaterialRepository(testDB.DB),
		repository.NewEmissionFactorRepository(testDB.DB),
		testDB.DB,
		logger,
	)
	aiFlow := businessflow.NewAIFlow(services.NewMockAIProcessorClient(), table, config.AIConfig{Enabled: true}, nil, "", logger)
	dataFlow := businessflow.NewDataFlow(aiFlow, 1<<20, logger)

	lcaHandler := handlers.NewLCAHandler(lcaFlow, logger)
	dataHandler := handlers.NewDataHandler(dataFlow, logger)
	aiHandler := handlers.NewAIHandler(aiFlow, logger)

	app := fiber.New()
	app.Post("/api/lca/calculate", lcaHandler.Calculate)
	app.Get("/api/lca/assessments", lcaHandler.ListAssessments)
	app.Get("/api/lca/assessments/:id", lcaHandler.GetAssessment)
	app.Delete("/api/lca/assessments/:id", lcaHandler.DeleteAssessment)
	app.Get("/api/lca/assessments/:id/export", lcaHandler.ExportAssessment)
	app.Get("/api/lca/emission-factors", lcaHandler.ListEmissionFactors)
	app.Post("/api/data/upload", dataHandler.Upload)
	app.Post("/api/data/manual", dataHandler.Manual)
	app.Post("/api/ai/process", aiHandler.Process)
	app.Post("/api/ai/recommendations", aiHandler.Recommendations)
	app.Post("/api/ai/categorize", aiHandler.Categorize)
	app.Get("/api/ai/health", aiHandler.Health)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, fiber.TestConfig{Timeout: 5 * time.Second})
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, envelope) {
	t.Helper()
	resp, raw := doRequest(t, app, method, path, body)
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp, env
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return env
}

func TestLCAHandlerCalculateAndAssessments(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		app := newTestApp(testDB)

		resp, raw := doRequest(t, app, http.MethodPost, "/api/lca/calculate", map[string]any{
			"materials":       []map[string]any{{"material_type": "Steel", "quantity": "100"}},
			"assessment_name": "Bridge",
		})
		require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))

		var top map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(raw, &top))
		assert.Contains(t, top, "total_co2_kg")
		assert.Contains(t, top, "material_breakdown")
		assert.Contains(t, top, "assessment_id")
		assert.NotContains(t, top, "success")

		var calc dto.CalculateResponse
		require.NoError(t, json.Unmarshal(raw, &calc))
		require.NotNil(t, calc.AssessmentID)
		assert.Equal(t, 185.0, calc.TotalCO2Kg)

		resp, raw = doRequest(t, app, http.MethodPost, "/api/lca/calculate", map[string]any{
			"materials": []map[string]any{{"material_type": "Glass", "quantity": 5}},
		})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		require.NoError(t, json.Unmarshal(raw, &top))
		assert.Equal(t, "null", string(top["assessment_id"]))

		resp, raw = doRequest(t, app, http.MethodGet, "/api/lca/assessments", nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		var list []dto.AssessmentSummary
		require.NoError(t, json.Unmarshal(raw, &list), string(raw))
		require.Len(t, list, 1)
		assert.Equal(t, "Bridge", list[0].Name)
		assert.Equal(t, *calc.AssessmentID, list[0].ID)

		path := "/api/lca/assessments/" + jsonNumber(*calc.AssessmentID)
		resp, raw = doRequest(t, app, http.MethodGet, path, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		var detail dto.AssessmentDetailResponse
		require.NoError(t, json.Unmarshal(raw, &detail))
		assert.Equal(t, "Bridge", detail.Name)
		require.Len(t, detail.Materials, 1)

		req := httptest.NewRequest(http.MethodGet, path+"/export", nil)
		exportResp, err := app.Test(req, fiber.TestConfig{Timeout: 5 * time.Second})
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, exportResp.StatusCode)
		assert.Contains(t, exportResp.Header.Get(fiber.HeaderContentDisposition), "assessment_")

		resp, _ = doRequest(t, app, http.MethodDelete, path, nil)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		resp, raw = doRequest(t, app, http.MethodDelete, path, nil)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		var deleted dto.DeleteAssessmentResponse
		require.NoError(t, json.Unmarshal(raw, &deleted))
		assert.False(t, deleted.Deleted)

		resp, env := doJSON(t, app, http.MethodGet, path, nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		assert.False(t, env.Success)
		assert.Equal(t, "ASSESSMENT_NOT_FOUND", env.Error.Code)

		resp, raw = doRequest(t, app, http.MethodGet, "/api/lca/assessments", nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.JSONEq(t, "[]", string(raw))
		return nil
	})
	require.NoError(t, err)
}

func TestLCAHandlerListsEveryAssessmentUnlessPaged(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		app := newTestApp(testDB)

		const stored = 120
		for i := 0; i < stored; i++ {
			resp, _ := doRequest(t, app, http.MethodPost, "/api/lca/calculate", map[string]any{
				"materials":       []map[string]any{{"material_type": "Wood", "quantity": 1}},
				"assessment_name": "run " + jsonNumber(uint(i)),
			})
			require.Equal(t, fiber.StatusOK, resp.StatusCode)
		}

		_, raw := doRequest(t, app, http.MethodGet, "/api/lca/assessments", nil)
		var all []dto.AssessmentSummary
		require.NoError(t, json.Unmarshal(raw, &all))
		assert.Len(t, all, stored)

		_, raw = doRequest(t, app, http.MethodGet, "/api/lca/assessments?limit=10&offset=5", nil)
		var page []dto.AssessmentSummary
		require.NoError(t, json.Unmarshal(raw, &page))
		require.Len(t, page, 10)
		assert.Equal(t, all[5].ID, page[0].ID)
		return nil
	})
	require.NoError(t, err)
}

func TestLCAHandlerErrors(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		app := newTestApp(testDB)

		resp, env := doJSON(t, app, http.MethodPost, "/api/lca/calculate", map[string]any{"materials": []any{}})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "MATERIALS_REQUIRED", env.Error.Code)

		resp, env = doJSON(t, app, http.MethodGet, "/api/lca/assessments/abc", nil)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", env.Error.Code)

		resp, env = doJSON(t, app, http.MethodGet, "/api/lca/assessments?limit=1000", nil)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

		resp, raw := doRequest(t, app, http.MethodGet, "/api/lca/emission-factors", nil)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		var factors dto.ListEmissionFactorsResponse
		require.NoError(t, json.Unmarshal(raw, &factors))
		assert.Len(t, factors.Factors, factors.Total)
		return nil
	})
	require.NoError(t, err)
}

func TestDataHandlerUpload(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		app := newTestApp(testDB)

		upload := func(filename, content, aiProcessing string) (*http.Response, envelope) {
			var buf bytes.Buffer
			w := multipart.NewWriter(&buf)
			part, err := w.CreateFormFile("file", filename)
			require.NoError(t, err)
			_, err = part.Write([]byte(content))
			require.NoError(t, err)
			if aiProcessing != "" {
				require.NoError(t, w.WriteField("ai_processing", aiProcessing))
			}
			require.NoError(t, w.Close())

			req := httptest.NewRequest(http.MethodPost, "/api/data/upload", &buf)
			req.Header.Set("Content-Type", w.FormDataContentType())
			resp, err := app.Test(req, fiber.TestConfig{Timeout: 5 * time.Second})
			require.NoError(t, err)
			return resp, decodeEnvelope(t, resp)
		}

		resp, env := upload("m.csv", "material,quantity\nSteel,10\nWood,\n", "")
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		var data dto.ProcessedDataResponse
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, 2, data.TotalRecords)
		assert.True(t, data.AIProcessed)
		assert.True(t, data.Fallback)

		resp, env = upload("m.csv", "material,quantity\nSteel,10\n", "false")
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.False(t, data.AIProcessed)

		resp, env = upload("m.pdf", "x", "")
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "UNSUPPORTED_FILE_TYPE", env.Error.Code)

		resp, env = upload("m.csv", "qty\n1\n", "")
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "MISSING_MATERIAL_COLUMN", env.Error.Code)

		req := httptest.NewRequest(http.MethodPost, "/api/data/upload", strings.NewReader(""))
		noFile, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, noFile.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decodeEnvelope(t, noFile).Error.Code)
		return nil
	})
	require.NoError(t, err)
}

func TestDataHandlerManualValidation(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		app := newTestApp(testDB)

		resp, env := doJSON(t, app, http.MethodPost, "/api/data/manual", map[string]any{
			"materials": []map[string]any{{"material_type": "Steel"}},
		})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

		resp, env = doJSON(t, app, http.MethodPost, "/api/data/manual", map[string]any{
			"materials": []map[string]any{{"material_type": "Steel", "quantity": 3}},
		})
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.True(t, env.Success)
		return nil
	})
	require.NoError(t, err)
}

func TestAIHandlerFallbacks(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		app := newTestApp(testDB)

		resp, env := doJSON(t, app, http.MethodPost, "/api/ai/categorize", map[string]any{
			"materials": []map[string]any{{"material_type": "cotton shirt"}},
		})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		var cat dto.CategorizeResponse
		require.NoError(t, json.Unmarshal(env.Data, &cat))
		assert.True(t, cat.Fallback)
		require.Len(t, cat.CategorizedMaterials, 1)
		assert.Equal(t, "Textiles", cat.CategorizedMaterials[0].Category)

		resp, env = doJSON(t, app, http.MethodPost, "/api/ai/recommendations", map[string]any{})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "LCA_RESULTS_REQUIRED", env.Error.Code)

		resp, env = doJSON(t, app, http.MethodGet, "/api/ai/health", nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		var health dto.AIHealthResponse
		require.NoError(t, json.Unmarshal(env.Data, &health))
		assert.Equal(t, dto.AIServiceUnavailable, health.AIService)
		assert.True(t, health.FallbackMode)
		return nil
	})
	require.NoError(t, err)
}

func jsonNumber(id uint) string {
	raw, _ := json.Marshal(id)
	return string(raw)
}
