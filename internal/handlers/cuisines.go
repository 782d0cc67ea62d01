package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/foodcourt/internal/models"
	"github.com/example/foodcourt/internal/utils"
)

// CuisineHandler manages cuisine categories.
type CuisineHandler struct {
	db *gorm.DB
}

// NewCuisineHandler constructs CuisineHandler.
func NewCuisineHandler(db *gorm.DB) *CuisineHandler {
	return &CuisineHandler{db: db}
}

func (h *CuisineHandler) List(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	var cuisines []models.CuisineCategory
	var total int64

	if err := h.db.Model(&models.CuisineCategory{}).Count(&total).Error; err != nil {
		return err
	}
	if err := h.db.Limit(pg.Limit).Offset(pg.Offset).Order("name asc").
		Find(&cuisines).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    cuisines,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

func (h *CuisineHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var cuisine models.CuisineCategory
	if err := h.db.First(&cuisine, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "cuisine not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": cuisine})
}

func (h *CuisineHandler) Create(c *fiber.Ctx) error {
	var payload models.CuisineCategory
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.db.Create(&payload).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": payload})
}

func (h *CuisineHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var cuisine models.CuisineCategory
	if err := h.db.First(&cuisine, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "cuisine not found")
		}
		return err
	}

	var payload models.CuisineCategory
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	payload.ID = cuisine.ID
	if err := h.db.Model(&cuisine).Updates(payload).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": cuisine})
}

func (h *CuisineHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Delete(&models.CuisineCategory{}, "id = ?", id).Error; err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
