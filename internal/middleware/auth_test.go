package middleware_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/foodcourt/internal/config"
	"github.com/example/foodcourt/internal/middleware"
	"github.com/example/foodcourt/internal/models"
	"github.com/example/foodcourt/internal/utils"
)

const testSecret = "test-secret"

func newApp(extra ...fiber.Handler) *fiber.App {
	cfg := &config.Config{JWTSecret: testSecret}
	app := fiber.New()

	chain := []fiber.Handler{middleware.AuthMiddleware(cfg)}
	chain = append(chain, extra...)
	chain = append(chain, func(c *fiber.Ctx) error {
		userID, _ := middleware.GetCurrentUserID(c)
		role, _ := middleware.GetCurrentUserRole(c)
		return c.JSON(fiber.Map{"user_id": userID.String(), "role": role})
	})

	app.Get("/me", chain...)
	return app
}

func bearer(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()
	token, err := utils.GenerateToken(testSecret, userID, role, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	app := newApp()
	userID := uuid.New()

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", bearer(t, userID, models.RoleCustomer))

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthMiddlewareRejectsBadTokens(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"garbage token", "Bearer not.a.jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newApp()
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	app := newApp()

	token, err := utils.GenerateToken(testSecret, uuid.New(), models.RoleCustomer, -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole(t *testing.T) {
	app := newApp(middleware.RequireRole(models.RoleAdmin))

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", bearer(t, uuid.New(), models.RoleCustomer))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", bearer(t, uuid.New(), models.RoleAdmin))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
