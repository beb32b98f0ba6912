package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Verifier checks a session credential and returns the bound user id.
type Verifier interface {
	Verify(credential string) (string, error)
}

// UserIDKey is the locals key under which the authenticated user id is
// stored for downstream handlers.
const UserIDKey = "userID"

// RequireAuth verifies the bearer session credential. Every authentication
// failure, missing or invalid, is a 401.
func RequireAuth(tokens Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		credential := strings.TrimPrefix(header, "Bearer ")
		if header == "" || credential == header {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
		}
		userID, err := tokens.Verify(credential)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
		}
		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}
