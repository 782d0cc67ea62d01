package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/foodcourt/internal/models"
	"github.com/example/foodcourt/internal/utils"
)

// PromotionHandler manages restaurant-scoped promotions.
type PromotionHandler struct {
	db *gorm.DB
}

// NewPromotionHandler constructs PromotionHandler.
func NewPromotionHandler(db *gorm.DB) *PromotionHandler {
	return &PromotionHandler{db: db}
}

// ListActive returns promotions currently in their date window.
func (h *PromotionHandler) ListActive(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	now := time.Now()
	query := h.db.Model(&models.Promotion{}).
		Where("is_active = ? AND starts_at <= ? AND ends_at >= ?", true, now, now)

	if restaurantID := c.Query("restaurant_id"); restaurantID != "" {
		id, err := uuid.Parse(restaurantID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid restaurant_id")
		}
		query = query.Where("restaurant_id = ?", id)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var promotions []models.Promotion
	if err := query.Limit(pg.Limit).Offset(pg.Offset).Order("ends_at asc").
		Find(&promotions).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    promotions,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// Create persists a promotion for a restaurant the caller owns.
func (h *PromotionHandler) Create(c *fiber.Ctx) error {
	restaurant, err := ownedRestaurant(h.db, c, c.Params("restaurantId"))
	if err != nil {
		return err
	}

	var payload models.Promotion
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if payload.DiscountType != models.DiscountPercent && payload.DiscountType != models.DiscountFixed {
		return fiber.NewError(fiber.StatusBadRequest, "discount_type must be PERCENT or FIXED")
	}
	payload.RestaurantID = restaurant.ID

	if err := h.db.Create(&payload).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": payload})
}

// Update modifies a promotion for a restaurant the caller owns.
func (h *PromotionHandler) Update(c *fiber.Ctx) error {
	restaurant, err := ownedRestaurant(h.db, c, c.Params("restaurantId"))
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var promotion models.Promotion
	if err := h.db.First(&promotion, "id = ? AND restaurant_id = ?", id, restaurant.ID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "promotion not found")
		}
		return err
	}

	var payload models.Promotion
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	payload.ID = promotion.ID
	payload.RestaurantID = promotion.RestaurantID
	if err := h.db.Model(&promotion).Updates(payload).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": promotion})
}

// Delete removes a promotion for a restaurant the caller owns.
func (h *PromotionHandler) Delete(c *fiber.Ctx) error {
	restaurant, err := ownedRestaurant(h.db, c, c.Params("restaurantId"))
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Delete(&models.Promotion{}, "id = ? AND restaurant_id = ?", id, restaurant.ID).Error; err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
