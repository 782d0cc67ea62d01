package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/foodcourt/internal/middleware"
	"github.com/example/foodcourt/internal/models"
	"github.com/example/foodcourt/internal/orderstate"
	"github.com/example/foodcourt/internal/utils"
)

// OrderHandler manages checkout and the order lifecycle endpoints.
type OrderHandler struct {
	db       *gorm.DB
	checkout *orderstate.CheckoutService
	status   *orderstate.Service
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB, checkout *orderstate.CheckoutService, status *orderstate.Service) *OrderHandler {
	return &OrderHandler{db: db, checkout: checkout, status: status}
}

// Checkout freezes the caller's cart into orders, one per restaurant.
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req orderstate.CheckoutInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	orders, err := h.checkout.Checkout(c.Context(), userID, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": orders})
}

// ListMine returns the caller's orders, newest first.
func (h *OrderHandler) ListMine(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{}).Where("user_id = ?", userID)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("placed_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetMine returns a single order belonging to the caller.
func (h *OrderHandler) GetMine(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.Preload("Items").Preload("Restaurant").
		First(&order, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

// ListForRestaurant returns incoming orders for a restaurant the caller owns.
func (h *OrderHandler) ListForRestaurant(c *fiber.Ctx) error {
	restaurant, err := ownedRestaurant(h.db, c, c.Params("restaurantId"))
	if err != nil {
		return err
	}

	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{}).Where("restaurant_id = ?", restaurant.ID)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("placed_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetForRestaurant returns one order for a restaurant the caller owns.
func (h *OrderHandler) GetForRestaurant(c *fiber.Ctx) error {
	restaurant, err := ownedRestaurant(h.db, c, c.Params("restaurantId"))
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Params("orderId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var order models.Order
	if err := h.db.Preload("Items").Preload("User").
		First(&order, "id = ? AND restaurant_id = ?", id, restaurant.ID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

// UpdateStatus applies one order-status transition.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	restaurant, err := ownedRestaurant(h.db, c, c.Params("restaurantId"))
	if err != nil {
		return err
	}

	orderID, err := uuid.Parse(c.Params("orderId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
	}

	var req orderstate.UpdateStatusInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	userID, _ := middleware.GetCurrentUserID(c)
	role, _ := middleware.GetCurrentUserRole(c)

	order, err := h.status.UpdateStatus(c.Context(), restaurant.ID, orderID,
		orderstate.Actor{UserID: userID, Role: role}, req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": order})
}

// UpdatePaymentStatus applies one cash payment-status transition.
func (h *OrderHandler) UpdatePaymentStatus(c *fiber.Ctx) error {
	restaurant, err := ownedRestaurant(h.db, c, c.Params("restaurantId"))
	if err != nil {
		return err
	}

	orderID, err := uuid.Parse(c.Params("orderId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
	}

	var req orderstate.UpdatePaymentStatusInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}

	order, err := h.status.UpdatePaymentStatus(c.Context(), restaurant.ID, orderID, req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": order})
}
