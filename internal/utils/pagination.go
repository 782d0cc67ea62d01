package utils

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// Pagination carries the page window for list endpoints.
type Pagination struct {
	Page   int
	Limit  int
	Offset int
}

// ParsePagination reads the page and limit query params. Out-of-range or
// unparsable values fall back to the defaults; limit is capped so a single
// request cannot page through an entire table.
func ParsePagination(c *fiber.Ctx) Pagination {
	page := atoiOr(c.Query("page"), defaultPage)
	if page < 1 {
		page = defaultPage
	}

	limit := atoiOr(c.Query("limit"), defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return Pagination{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

func atoiOr(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
