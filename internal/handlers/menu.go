package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/foodcourt/internal/models"
	"github.com/example/foodcourt/internal/utils"
)

// MenuHandler manages menu items, variations and add-ons under a restaurant.
type MenuHandler struct {
	db *gorm.DB
}

// NewMenuHandler constructs MenuHandler.
func NewMenuHandler(db *gorm.DB) *MenuHandler {
	return &MenuHandler{db: db}
}

// ListItems returns a restaurant's menu items with option groups preloaded.
func (h *MenuHandler) ListItems(c *fiber.Ctx) error {
	restaurantID, err := uuid.Parse(c.Params("restaurantId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid restaurant id")
	}

	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.MenuItem{}).Where("restaurant_id = ?", restaurantID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var items []models.MenuItem
	if err := query.Preload("Variations.Options").Preload("AddOns.Options").
		Limit(pg.Limit).Offset(pg.Offset).Order("name asc").
		Find(&items).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    items,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetItem returns one menu item with its option groups.
func (h *MenuHandler) GetItem(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var item models.MenuItem
	err = h.db.Preload("Variations.Options").Preload("AddOns.Options").
		First(&item, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "menu item not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": item})
}

// CreateItem persists a new menu item, optionally with nested variations and
// add-ons in one request.
func (h *MenuHandler) CreateItem(c *fiber.Ctx) error {
	restaurant, err := ownedRestaurant(h.db, c, c.Params("restaurantId"))
	if err != nil {
		return err
	}

	var payload models.MenuItem
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	payload.RestaurantID = restaurant.ID

	if err := h.db.Create(&payload).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": payload})
}

// UpdateItem modifies a menu item belonging to the caller's restaurant.
func (h *MenuHandler) UpdateItem(c *fiber.Ctx) error {
	restaurant, err := ownedRestaurant(h.db, c, c.Params("restaurantId"))
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var item models.MenuItem
	if err := h.db.First(&item, "id = ? AND restaurant_id = ?", id, restaurant.ID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "menu item not found")
		}
		return err
	}

	var payload models.MenuItem
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	payload.ID = item.ID
	payload.RestaurantID = item.RestaurantID
	if err := h.db.Model(&item).Updates(payload).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": item})
}

// DeleteItem removes a menu item and its option groups.
func (h *MenuHandler) DeleteItem(c *fiber.Ctx) error {
	restaurant, err := ownedRestaurant(h.db, c, c.Params("restaurantId"))
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Delete(&models.MenuItem{}, "id = ? AND restaurant_id = ?", id, restaurant.ID).Error; err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateVariation adds a variation group with options to a menu item.
func (h *MenuHandler) CreateVariation(c *fiber.Ctx) error {
	restaurant, err := ownedRestaurant(h.db, c, c.Params("restaurantId"))
	if err != nil {
		return err
	}

	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var item models.MenuItem
	if err := h.db.First(&item, "id = ? AND restaurant_id = ?", itemID, restaurant.ID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "menu item not found")
		}
		return err
	}

	var payload models.Variation
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	payload.MenuItemID = item.ID

	if err := h.db.Create(&payload).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": payload})
}

// DeleteVariation removes a variation group and its options.
func (h *MenuHandler) DeleteVariation(c *fiber.Ctx) error {
	if _, err := ownedRestaurant(h.db, c, c.Params("restaurantId")); err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("variationId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Delete(&models.VariationOption{}, "variation_id = ?", id).Error; err != nil {
		return err
	}
	if err := h.db.Delete(&models.Variation{}, "id = ?", id).Error; err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateAddOn adds an add-on group with options to a menu item.
func (h *MenuHandler) CreateAddOn(c *fiber.Ctx) error {
	restaurant, err := ownedRestaurant(h.db, c, c.Params("restaurantId"))
	if err != nil {
		return err
	}

	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var item models.MenuItem
	if err := h.db.First(&item, "id = ? AND restaurant_id = ?", itemID, restaurant.ID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "menu item not found")
		}
		return err
	}

	var payload models.AddOn
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	payload.MenuItemID = item.ID

	if err := h.db.Create(&payload).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": payload})
}

// DeleteAddOn removes an add-on group and its options.
func (h *MenuHandler) DeleteAddOn(c *fiber.Ctx) error {
	if _, err := ownedRestaurant(h.db, c, c.Params("restaurantId")); err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("addOnId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Delete(&models.AddOnOption{}, "add_on_id = ?", id).Error; err != nil {
		return err
	}
	if err := h.db.Delete(&models.AddOn{}, "id = ?", id).Error; err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
