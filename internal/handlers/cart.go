package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/foodcourt/internal/middleware"
	"github.com/example/foodcourt/internal/pricing"
	"github.com/example/foodcourt/internal/utils"
)

// CartHandler exposes cart reads and mutations. All pricing is recomputed by
// the cart service on every read.
type CartHandler struct {
	carts *pricing.CartService
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(carts *pricing.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// Summary returns the priced cart grouped by restaurant.
func (h *CartHandler) Summary(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	summary, err := h.carts.Summary(userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": summary})
}

// AddItem adds a line to the cart, merging into an existing identical line.
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req pricing.AddItemInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	item, err := h.carts.AddItem(userID, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": item})
}

// UpdateItem applies a partial update to one cart line.
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req pricing.UpdateItemInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	item, err := h.carts.UpdateItem(userID, itemID, req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": item})
}

// RemoveItem deletes one cart line.
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.carts.RemoveItem(userID, itemID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Clear empties the cart.
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	if err := h.carts.Clear(userID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
