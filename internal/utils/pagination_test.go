package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		page   int
		limit  int
		offset int
	}{
		{"defaults", "", 1, 20, 0},
		{"explicit window", "page=3&limit=10", 3, 10, 20},
		{"zero page falls back", "page=0", 1, 20, 0},
		{"negative limit falls back", "limit=-5", 1, 20, 0},
		{"garbage falls back", "page=abc&limit=xyz", 1, 20, 0},
		{"limit capped", "limit=5000", 1, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			var got Pagination
			app.Get("/", func(c *fiber.Ctx) error {
				got = ParsePagination(c)
				return c.SendStatus(fiber.StatusOK)
			})

			_, err := app.Test(httptest.NewRequest("GET", "/?"+tt.query, nil))
			require.NoError(t, err)

			assert.Equal(t, tt.page, got.Page)
			assert.Equal(t, tt.limit, got.Limit)
			assert.Equal(t, tt.offset, got.Offset)
		})
	}
}
