package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/foodcourt/internal/models"
	"github.com/example/foodcourt/internal/utils"
)

// LocationHandler manages the country/city/mall hierarchy.
type LocationHandler struct {
	db *gorm.DB
}

// NewLocationHandler constructs LocationHandler.
func NewLocationHandler(db *gorm.DB) *LocationHandler {
	return &LocationHandler{db: db}
}

// ListCountries returns paginated countries.
func (h *LocationHandler) ListCountries(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	var countries []models.Country
	var total int64

	if err := h.db.Model(&models.Country{}).Count(&total).Error; err != nil {
		return err
	}
	if err := h.db.Limit(pg.Limit).Offset(pg.Offset).Order("name asc").
		Find(&countries).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    countries,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// CreateCountry persists a new country.
func (h *LocationHandler) CreateCountry(c *fiber.Ctx) error {
	var payload models.Country
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.db.Create(&payload).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": payload})
}

// ListCities returns cities, optionally filtered by country.
func (h *LocationHandler) ListCities(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.City{})

	if countryID := c.Query("country_id"); countryID != "" {
		id, err := uuid.Parse(countryID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid country_id")
		}
		query = query.Where("country_id = ?", id)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var cities []models.City
	if err := query.Limit(pg.Limit).Offset(pg.Offset).Order("name asc").
		Find(&cities).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    cities,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// CreateCity persists a new city.
func (h *LocationHandler) CreateCity(c *fiber.Ctx) error {
	var payload models.City
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.db.Create(&payload).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": payload})
}

// ListMalls returns malls, optionally filtered by city.
func (h *LocationHandler) ListMalls(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Mall{}).Where("is_active = ?", true)

	if cityID := c.Query("city_id"); cityID != "" {
		id, err := uuid.Parse(cityID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid city_id")
		}
		query = query.Where("city_id = ?", id)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var malls []models.Mall
	if err := query.Limit(pg.Limit).Offset(pg.Offset).Order("name asc").
		Find(&malls).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    malls,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetMall returns a single mall with its restaurants preloaded.
func (h *LocationHandler) GetMall(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var mall models.Mall
	if err := h.db.Preload("Restaurants", "is_active = ?", true).
		First(&mall, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "mall not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": mall})
}

// CreateMall persists a new mall.
func (h *LocationHandler) CreateMall(c *fiber.Ctx) error {
	var payload models.Mall
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.db.Create(&payload).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": payload})
}

// UpdateMall updates an existing mall.
func (h *LocationHandler) UpdateMall(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var mall models.Mall
	if err := h.db.First(&mall, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "mall not found")
		}
		return err
	}

	var payload models.Mall
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	payload.ID = mall.ID
	if err := h.db.Model(&mall).Updates(payload).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": mall})
}

// DeleteMall removes a mall by ID.
func (h *LocationHandler) DeleteMall(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.Delete(&models.Mall{}, "id = ?", id).Error; err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
