package middleware

import (
	"crypto/subtle"

	"github.com/amirphl/ecolca/app/dto"
	"github.com/gofiber/fiber/v3"
)

// APIKeyConfig controls APIKey
type APIKeyConfig struct {
	Required bool
	Header   string
	Keys     []string
	// Skip reports paths that never need a key, e.g. health checks
	Skip func(c fiber.Ctx) bool
}

// APIKey rejects requests whose key header is missing or not in the allow list.
// It is a no-op when keys are not required.
func APIKey(cfg APIKeyConfig) fiber.Handler {
	header := cfg.Header
	if header == "" {
		header = "X-API-Key"
	}

	return func(c fiber.Ctx) error {
		if !cfg.Required || (cfg.Skip != nil && cfg.Skip(c)) {
			return c.Next()
		}

		key := c.Get(header)
		if key == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "API key is required",
				Error:   &dto.ErrorDetail{Code: "MISSING_API_KEY"},
			})
		}

		for _, valid := range cfg.Keys {
			if subtle.ConstantTimeCompare([]byte(key), []byte(valid)) == 1 {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
			Success: false,
			Message: "Invalid API key",
			Error:   &dto.ErrorDetail{Code: "INVALID_API_KEY"},
		})
	}
}
