package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIKey(t *testing.T) {
	app := fiber.New()
	app.Use(APIKey(APIKeyConfig{
		Required: true,
		Keys:     []string{"secret"},
		Skip:     func(c fiber.Ctx) bool { return c.Path() == "/api/health" },
	}))
	app.Get("/api/health", func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/api/lca/emission-factors", func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	cases := []struct {
		name   string
		path   string
		key    string
		status int
	}{
		{"Skipped", "/api/health", "", fiber.StatusOK},
		{"Missing", "/api/lca/emission-factors", "", fiber.StatusUnauthorized},
		{"Wrong", "/api/lca/emission-factors", "nope", fiber.StatusUnauthorized},
		{"Valid", "/api/lca/emission-factors", "secret", fiber.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.key != "" {
				req.Header.Set("X-API-Key", tc.key)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestAPIKeyNotRequired(t *testing.T) {
	app := fiber.New()
	app.Use(APIKey(APIKeyConfig{}))
	app.Get("/x", func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/x", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	app := fiber.New()
	app.Use(Metrics())
	app.Get("/api/lca/assessments/:id", func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/lca/assessments/:id", "200"))
	for _, id := range []string{"1", "2"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/lca/assessments/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/lca/assessments/:id", "200"))
	assert.Equal(t, 2.0, after-before)
}
