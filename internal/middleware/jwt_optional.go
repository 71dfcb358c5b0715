package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Windi-Fikriyansyah/platform_be_valentine/internal/utils"
)

// OptionalJWT attaches Locals("userId") when a valid session cookie is
// present and lets the request through either way. Checkout allows guests;
// a logged-in buyer just gets the order linked to their account.
func OptionalJWT(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := c.Cookies(cookieName)
		if tokenStr == "" {
			return c.Next()
		}

		token, err := jwt.ParseWithClaims(tokenStr, &utils.Claims{}, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return c.Next()
		}

		if claims, ok := token.Claims.(*utils.Claims); ok {
			if uid := strings.TrimSpace(claims.UserID); uid != "" {
				c.Locals("userId", uid)
			}
		}
		return c.Next()
	}
}
