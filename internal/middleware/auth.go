package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/foodcourt/internal/config"
	"github.com/example/foodcourt/internal/utils"
)

const (
	userContextKey = "currentUserID"
	roleContextKey = "currentUserRole"
)

// AuthMiddleware validates JWT bearer tokens and loads the authenticated
// user ID and role into the request context.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		userID, role, err := utils.ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(userContextKey, userID)
		c.Locals(roleContextKey, role)
		return c.Next()
	}
}

// RequireRole rejects requests whose token role is not in the allowed set.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := GetCurrentUserRole(c)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "forbidden")
		}
		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "forbidden")
	}
}

// GetCurrentUserID extracts the authenticated user ID from context.
func GetCurrentUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	value := c.Locals(userContextKey)
	if value == nil {
		return uuid.Nil, false
	}

	if id, ok := value.(uuid.UUID); ok {
		return id, true
	}

	return uuid.Nil, false
}

// GetCurrentUserRole extracts the authenticated user's role from context.
func GetCurrentUserRole(c *fiber.Ctx) (string, bool) {
	value := c.Locals(roleContextKey)
	if value == nil {
		return "", false
	}

	if role, ok := value.(string); ok {
		return role, true
	}

	return "", false
}
