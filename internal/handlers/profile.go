package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/foodcourt/internal/middleware"
	"github.com/example/foodcourt/internal/models"
)

// ProfileHandler manages the caller's account and saved addresses.
type ProfileHandler struct {
	db *gorm.DB
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{db: db}
}

// Get returns the caller's profile with saved addresses.
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var user models.User
	if err := h.db.Preload("Addresses").First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": user})
}

// Update modifies the caller's name and email. Phone and role are immutable
// through this endpoint.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var payload struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return err
	}

	updates := map[string]interface{}{
		"first_name": payload.FirstName,
		"last_name":  payload.LastName,
		"email":      payload.Email,
	}
	if err := h.db.Model(&user).Updates(updates).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": user})
}

// ListAddresses returns the caller's saved addresses, default first.
func (h *ProfileHandler) ListAddresses(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var addresses []models.UserAddress
	if err := h.db.Where("user_id = ?", userID).
		Order("is_default desc, created_at desc").
		Find(&addresses).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": addresses})
}

// CreateAddress saves a new delivery address. Marking it default clears the
// previous default.
func (h *ProfileHandler) CreateAddress(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var payload models.UserAddress
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	payload.UserID = userID

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if payload.IsDefault {
			if err := tx.Model(&models.UserAddress{}).
				Where("user_id = ?", userID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&payload).Error
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": payload})
}

// UpdateAddress modifies one of the caller's addresses.
func (h *ProfileHandler) UpdateAddress(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var address models.UserAddress
	if err := h.db.First(&address, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "address not found")
		}
		return err
	}

	var payload models.UserAddress
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	payload.ID = address.ID
	payload.UserID = userID

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if payload.IsDefault {
			if err := tx.Model(&models.UserAddress{}).
				Where("user_id = ? AND id <> ?", userID, address.ID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Model(&address).Updates(payload).Error
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": address})
}

// DeleteAddress removes one of the caller's addresses.
func (h *ProfileHandler) DeleteAddress(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Delete(&models.UserAddress{}, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
