package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Promotion discount kinds.
const (
	DiscountPercent = "PERCENT"
	DiscountFixed   = "FIXED"
)

// Promotion is a restaurant-scoped discount active inside a date window.
type Promotion struct {
	BaseModel
	RestaurantID uuid.UUID       `gorm:"type:uuid;index" json:"restaurant_id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	DiscountType string          `json:"discount_type"`
	Value        decimal.Decimal `gorm:"type:numeric(12,2)" json:"value"`
	StartsAt     time.Time       `json:"starts_at"`
	EndsAt       time.Time       `json:"ends_at"`
	IsActive     bool            `gorm:"default:true" json:"is_active"`
}

// ActiveAt reports whether the promotion applies at the given instant.
func (p *Promotion) ActiveAt(t time.Time) bool {
	return p.IsActive && !t.Before(p.StartsAt) && !t.After(p.EndsAt)
}

// Apply returns the discount amount for the given subtotal, never exceeding it.
func (p *Promotion) Apply(subtotal decimal.Decimal) decimal.Decimal {
	var d decimal.Decimal
	switch p.DiscountType {
	case DiscountPercent:
		d = subtotal.Mul(p.Value).Div(decimal.NewFromInt(100))
	case DiscountFixed:
		d = p.Value
	default:
		return decimal.Zero
	}
	if d.GreaterThan(subtotal) {
		return subtotal
	}
	return d
}
