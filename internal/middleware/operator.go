package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// RequireOperator guards admin routes with the shared operator secret
// carried in the X-Admin-Secret header. Plain equality against config, no
// accounts: exactly the trust level manual payment verification needs.
func RequireOperator(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		got := c.Get("X-Admin-Secret")
		if secret == "" || got == "" ||
			subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Invalid operator credential",
			})
		}
		return c.Next()
	}
}
