package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/foodcourt/internal/middleware"
	"github.com/example/foodcourt/internal/models"
)

// FavouriteHandler manages favourite restaurants and menu items.
type FavouriteHandler struct {
	db *gorm.DB
}

// NewFavouriteHandler constructs FavouriteHandler.
func NewFavouriteHandler(db *gorm.DB) *FavouriteHandler {
	return &FavouriteHandler{db: db}
}

// ListRestaurants returns the caller's favourite restaurants.
func (h *FavouriteHandler) ListRestaurants(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var favourites []models.FavouriteRestaurant
	if err := h.db.Preload("Restaurant").
		Where("user_id = ?", userID).Order("created_at desc").
		Find(&favourites).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": favourites})
}

// AddRestaurant favourites a restaurant; re-adding is a no-op.
func (h *FavouriteHandler) AddRestaurant(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	restaurantID, err := uuid.Parse(c.Params("restaurantId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid restaurant id")
	}

	var restaurant models.Restaurant
	if err := h.db.First(&restaurant, "id = ?", restaurantID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "restaurant not found")
		}
		return err
	}

	favourite := models.FavouriteRestaurant{UserID: userID, RestaurantID: restaurantID}
	if err := h.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&favourite).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": favourite})
}

// RemoveRestaurant unfavourites a restaurant.
func (h *FavouriteHandler) RemoveRestaurant(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	restaurantID, err := uuid.Parse(c.Params("restaurantId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid restaurant id")
	}

	if err := h.db.Delete(&models.FavouriteRestaurant{},
		"user_id = ? AND restaurant_id = ?", userID, restaurantID).Error; err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListMenuItems returns the caller's favourite menu items.
func (h *FavouriteHandler) ListMenuItems(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var favourites []models.FavouriteMenuItem
	if err := h.db.Preload("MenuItem").
		Where("user_id = ?", userID).Order("created_at desc").
		Find(&favourites).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": favourites})
}

// AddMenuItem favourites a menu item; re-adding is a no-op.
func (h *FavouriteHandler) AddMenuItem(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	menuItemID, err := uuid.Parse(c.Params("menuItemId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid menu item id")
	}

	var item models.MenuItem
	if err := h.db.First(&item, "id = ?", menuItemID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "menu item not found")
		}
		return err
	}

	favourite := models.FavouriteMenuItem{UserID: userID, MenuItemID: menuItemID}
	if err := h.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&favourite).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": favourite})
}

// RemoveMenuItem unfavourites a menu item.
func (h *FavouriteHandler) RemoveMenuItem(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	menuItemID, err := uuid.Parse(c.Params("menuItemId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid menu item id")
	}

	if err := h.db.Delete(&models.FavouriteMenuItem{},
		"user_id = ? AND menu_item_id = ?", userID, menuItemID).Error; err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
