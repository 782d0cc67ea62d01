package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/foodcourt/internal/apperr"
	"github.com/example/foodcourt/internal/handlers"
)

func newTestApp(err error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return err
	})
	return app
}

func TestErrorHandlerStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", apperr.ValidationMsg("quantity must be at least 1"), fiber.StatusBadRequest},
		{"not found", apperr.NotFound("order not found"), fiber.StatusNotFound},
		{"unauthorized", apperr.Unauthorized("not your restaurant"), fiber.StatusForbidden},
		{"invalid transition", apperr.InvalidTransition("PENDING", "DELIVERED"), fiber.StatusBadRequest},
		{"invalid operation", apperr.InvalidOperation("card orders only"), fiber.StatusBadRequest},
		{"fiber error", fiber.NewError(fiber.StatusTeapot, "short and stout"), fiber.StatusTeapot},
		{"unknown error", errors.New("disk on fire"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(tt.err)

			resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, false, body["success"])
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestErrorHandlerIncludesValidationFields(t *testing.T) {
	app := newTestApp(apperr.Validation(map[string]string{"quantity": "must be at least 1"}))

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	fields, ok := body["errors"].(map[string]interface{})
	require.True(t, ok, "errors field missing: %v", body)
	assert.Equal(t, "must be at least 1", fields["quantity"])
}

func TestErrorHandlerHidesInternalDetail(t *testing.T) {
	app := newTestApp(apperr.Internal(errors.New("pq: connection refused")))

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "internal server error", body["message"])
}
