// Package rayid assigns a unique request ID (RayID) to every request.
package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Local is the key the RayID is stored under in the request's Locals.
const Local = "ray_id"

// Header is the response header carrying the RayID.
const Header = "X-Ray-Id"

// New creates a middleware that injects a RayID into the request context
// and echoes it back in the response headers.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := uuid.NewString()
		c.Locals(Local, id)
		c.Set(Header, id)
		return c.Next()
	}
}
