package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MenuItem struct {
	BaseModel
	RestaurantID uuid.UUID       `gorm:"type:uuid;index" json:"restaurant_id"`
	Restaurant   *Restaurant     `json:"restaurant,omitempty"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	ImageURL     string          `json:"image_url"`
	BasePrice    decimal.Decimal `gorm:"type:numeric(12,2)" json:"base_price"`
	IsAvailable  bool            `gorm:"default:true" json:"is_available"`
	Variations   []Variation     `json:"variations,omitempty"`
	AddOns       []AddOn         `json:"add_ons,omitempty"`
}

// Variation is a single-choice attribute group on a menu item (e.g. Size).
type Variation struct {
	BaseModel
	MenuItemID uuid.UUID         `gorm:"type:uuid;index" json:"menu_item_id"`
	Name       string            `json:"name"`
	IsRequired bool              `json:"is_required"`
	Options    []VariationOption `json:"options,omitempty"`
}

type VariationOption struct {
	BaseModel
	VariationID   uuid.UUID       `gorm:"type:uuid;index" json:"variation_id"`
	Name          string          `json:"name"`
	PriceModifier decimal.Decimal `gorm:"type:numeric(12,2)" json:"price_modifier"`
}

// AddOn is a multi-choice extra group on a menu item (e.g. Toppings).
type AddOn struct {
	BaseModel
	MenuItemID uuid.UUID     `gorm:"type:uuid;index" json:"menu_item_id"`
	Name       string        `json:"name"`
	Options    []AddOnOption `json:"options,omitempty"`
}

type AddOnOption struct {
	BaseModel
	AddOnID uuid.UUID       `gorm:"type:uuid;index" json:"add_on_id"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `gorm:"type:numeric(12,2)" json:"price"`
}
