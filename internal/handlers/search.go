package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/foodcourt/internal/models"
	"github.com/example/foodcourt/internal/utils"
)

// SearchHandler provides cross-entity text search.
type SearchHandler struct {
	db *gorm.DB
}

// NewSearchHandler constructs SearchHandler.
func NewSearchHandler(db *gorm.DB) *SearchHandler {
	return &SearchHandler{db: db}
}

// Search matches active restaurants and available menu items by name or
// description. Matching is case-insensitive substring.
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return fiber.NewError(fiber.StatusBadRequest, "query parameter q is required")
	}

	pg := utils.ParsePagination(c)
	pattern := "%" + strings.ToLower(q) + "%"

	restaurants := []models.Restaurant{}
	query := h.db.Model(&models.Restaurant{}).
		Where("is_active = ?", true).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	if mallID := c.Query("mall_id"); mallID != "" {
		query = query.Where("mall_id = ?", mallID)
	}
	if err := query.Limit(pg.Limit).Offset(pg.Offset).Order("name asc").
		Find(&restaurants).Error; err != nil {
		return err
	}

	items := []models.MenuItem{}
	if err := h.db.Model(&models.MenuItem{}).
		Where("is_available = ?", true).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern).
		Preload("Restaurant").
		Limit(pg.Limit).Offset(pg.Offset).Order("name asc").
		Find(&items).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"restaurants": restaurants,
			"menu_items":  items,
		},
	})
}
