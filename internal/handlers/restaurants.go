package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/foodcourt/internal/middleware"
	"github.com/example/foodcourt/internal/models"
	"github.com/example/foodcourt/internal/utils"
)

// RestaurantHandler manages restaurant records and their opening hours.
type RestaurantHandler struct {
	db *gorm.DB
}

// NewRestaurantHandler constructs RestaurantHandler.
func NewRestaurantHandler(db *gorm.DB) *RestaurantHandler {
	return &RestaurantHandler{db: db}
}

// List returns active restaurants, filterable by mall and cuisine.
func (h *RestaurantHandler) List(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Restaurant{}).Where("restaurants.is_active = ?", true)

	if mallID := c.Query("mall_id"); mallID != "" {
		id, err := uuid.Parse(mallID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid mall_id")
		}
		query = query.Where("restaurants.mall_id = ?", id)
	}

	if cuisineID := c.Query("cuisine_id"); cuisineID != "" {
		id, err := uuid.Parse(cuisineID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid cuisine_id")
		}
		query = query.
			Joins("JOIN restaurant_cuisines rc ON rc.restaurant_id = restaurants.id").
			Where("rc.cuisine_category_id = ?", id)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var restaurants []models.Restaurant
	if err := query.Preload("Cuisines").
		Limit(pg.Limit).Offset(pg.Offset).Order("restaurants.name asc").
		Find(&restaurants).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    restaurants,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// Get returns a restaurant with its menu preloaded.
func (h *RestaurantHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var restaurant models.Restaurant
	err = h.db.Preload("Cuisines").
		Preload("MenuItems", "is_available = ?", true).
		Preload("MenuItems.Variations.Options").
		Preload("MenuItems.AddOns.Options").
		First(&restaurant, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "restaurant not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": restaurant})
}

// Create persists a new restaurant owned by the caller.
func (h *RestaurantHandler) Create(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var payload models.Restaurant
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	payload.OwnerID = userID

	if err := h.db.Create(&payload).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": payload})
}

// Update modifies a restaurant owned by the caller.
func (h *RestaurantHandler) Update(c *fiber.Ctx) error {
	restaurant, err := ownedRestaurant(h.db, c, c.Params("id"))
	if err != nil {
		return err
	}

	var payload models.Restaurant
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	payload.ID = restaurant.ID
	payload.OwnerID = restaurant.OwnerID
	if err := h.db.Model(restaurant).Updates(payload).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": restaurant})
}

type hoursRequest struct {
	OpensAt  string `json:"opens_at" validate:"required"`
	ClosesAt string `json:"closes_at" validate:"required"`
	IsOpen   *bool  `json:"is_open"`
}

// UpdateHours replaces the restaurant's opening hours.
func (h *RestaurantHandler) UpdateHours(c *fiber.Ctx) error {
	restaurant, err := ownedRestaurant(h.db, c, c.Params("id"))
	if err != nil {
		return err
	}

	var req hoursRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	updates := map[string]interface{}{
		"opens_at":  req.OpensAt,
		"closes_at": req.ClosesAt,
	}
	if req.IsOpen != nil {
		updates["is_open"] = *req.IsOpen
	}
	if err := h.db.Model(restaurant).Updates(updates).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": restaurant})
}

// Delete deactivates a restaurant.
func (h *RestaurantHandler) Delete(c *fiber.Ctx) error {
	restaurant, err := ownedRestaurant(h.db, c, c.Params("id"))
	if err != nil {
		return err
	}

	if err := h.db.Model(restaurant).Update("is_active", false).Error; err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ownedRestaurant loads the restaurant and verifies the caller owns it or is
// an admin. Shared by the menu, promotion and order handlers.
func ownedRestaurant(db *gorm.DB, c *fiber.Ctx, rawID string) (*models.Restaurant, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var restaurant models.Restaurant
	if err := db.First(&restaurant, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fiber.NewError(fiber.StatusNotFound, "restaurant not found")
		}
		return nil, err
	}

	role, _ := middleware.GetCurrentUserRole(c)
	if restaurant.OwnerID != userID && role != models.RoleAdmin {
		return nil, fiber.NewError(fiber.StatusForbidden, "not the restaurant owner")
	}
	return &restaurant, nil
}
