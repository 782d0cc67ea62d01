package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/example/foodcourt/internal/models"
)

// AnalyticsHandler aggregates order counts and revenue.
type AnalyticsHandler struct {
	db *gorm.DB
}

// NewAnalyticsHandler constructs AnalyticsHandler.
func NewAnalyticsHandler(db *gorm.DB) *AnalyticsHandler {
	return &AnalyticsHandler{db: db}
}

type orderStats struct {
	TotalOrders     int64           `json:"total_orders"`
	DeliveredOrders int64           `json:"delivered_orders"`
	RejectedOrders  int64           `json:"rejected_orders"`
	Revenue         decimal.Decimal `json:"revenue"`
}

// dateRange parses optional from/to query params, defaulting to the
// last 30 days.
func dateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return from, to, fiber.NewError(fiber.StatusBadRequest, "from must be YYYY-MM-DD")
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return from, to, fiber.NewError(fiber.StatusBadRequest, "to must be YYYY-MM-DD")
		}
		to = parsed.AddDate(0, 0, 1)
	}
	if !from.Before(to) {
		return from, to, fiber.NewError(fiber.StatusBadRequest, "from must precede to")
	}
	return from, to, nil
}

func (h *AnalyticsHandler) stats(query *gorm.DB, from, to time.Time) (*orderStats, error) {
	stats := &orderStats{}
	base := query.Where("placed_at >= ? AND placed_at < ?", from, to)

	if err := base.Session(&gorm.Session{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).
		Where("status = ?", models.OrderDelivered).
		Count(&stats.DeliveredOrders).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).
		Where("status = ?", models.OrderRejected).
		Count(&stats.RejectedOrders).Error; err != nil {
		return nil, err
	}

	// Revenue counts delivered orders only.
	var revenue decimal.NullDecimal
	if err := base.Session(&gorm.Session{}).
		Where("status = ?", models.OrderDelivered).
		Select("COALESCE(SUM(total), 0)").
		Scan(&revenue).Error; err != nil {
		return nil, err
	}
	if revenue.Valid {
		stats.Revenue = revenue.Decimal
	}
	return stats, nil
}

// RestaurantStats returns order counts and revenue for a restaurant the
// caller owns over a date range.
func (h *AnalyticsHandler) RestaurantStats(c *fiber.Ctx) error {
	restaurant, err := ownedRestaurant(h.db, c, c.Params("restaurantId"))
	if err != nil {
		return err
	}

	from, to, err := dateRange(c)
	if err != nil {
		return err
	}

	stats, err := h.stats(h.db.Model(&models.Order{}).
		Where("restaurant_id = ?", restaurant.ID), from, to)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"restaurant_id": restaurant.ID,
			"from":          from,
			"to":            to,
			"stats":         stats,
		},
	})
}

// PlatformStats returns platform-wide totals. Admin only; enforced by
// route middleware.
func (h *AnalyticsHandler) PlatformStats(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return err
	}

	stats, err := h.stats(h.db.Model(&models.Order{}), from, to)
	if err != nil {
		return err
	}

	var restaurants int64
	if err := h.db.Model(&models.Restaurant{}).Where("is_active = ?", true).
		Count(&restaurants).Error; err != nil {
		return err
	}
	var customers int64
	if err := h.db.Model(&models.User{}).Where("role = ?", models.RoleCustomer).
		Count(&customers).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"from":               from,
			"to":                 to,
			"stats":              stats,
			"active_restaurants": restaurants,
			"customers":          customers,
		},
	})
}
