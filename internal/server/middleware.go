package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/minhng/tripfund/internal/auth"
	"github.com/minhng/tripfund/internal/models"
)

const (
	ctxUserIDKey = "user_id"
	ctxRoleKey   = "user_role"
)

// jwtMiddleware validates the bearer token and stashes the account identity
// in the request locals.
func jwtMiddleware(m *auth.JWTManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "authorization header required")
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "authorization must be 'Bearer <token>'")
		}

		claims, err := m.Validate(parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(ctxUserIDKey, claims.UserID)
		c.Locals(ctxRoleKey, claims.Role)
		return c.Next()
	}
}

func currentUserID(c *fiber.Ctx) string {
	id, _ := c.Locals(ctxUserIDKey).(string)
	return id
}

func currentRole(c *fiber.Ctx) models.Role {
	role, _ := c.Locals(ctxRoleKey).(models.Role)
	return role
}
