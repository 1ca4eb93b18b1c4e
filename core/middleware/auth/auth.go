// Package auth provides API key middleware for protecting endpoints.
package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// Config holds the configuration for the auth middleware.
type Config struct {
	// ApiKey is the expected value of the X-API-Key header. When empty,
	// authentication is disabled and every request passes.
	ApiKey string
}

// New creates a middleware that rejects requests without a valid X-API-Key.
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.ApiKey == "" {
			return c.Next()
		}
		key := c.Get("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(cfg.ApiKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or missing API key",
			})
		}
		return c.Next()
	}
}
