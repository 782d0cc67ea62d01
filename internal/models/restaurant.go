package models

import "github.com/google/uuid"

type CuisineCategory struct {
	BaseModel
	Name     string `gorm:"uniqueIndex" json:"name"`
	ImageURL string `json:"image_url"`
}

// Restaurant is a tenant inside a mall.
type Restaurant struct {
	BaseModel
	MallID      uuid.UUID         `gorm:"type:uuid;index" json:"mall_id"`
	Mall        *Mall             `json:"mall,omitempty"`
	OwnerID     uuid.UUID         `gorm:"type:uuid;index" json:"owner_id"`
	Owner       *User             `json:"owner,omitempty"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	LogoURL     string            `json:"logo_url"`
	CoverURL    string            `json:"cover_url"`
	Phone       string            `json:"phone"`
	UnitNumber  string            `json:"unit_number"`
	OpensAt     string            `json:"opens_at"`
	ClosesAt    string            `json:"closes_at"`
	IsOpen      bool              `gorm:"default:true" json:"is_open"`
	IsActive    bool              `gorm:"default:true" json:"is_active"`
	RatingAvg   float64           `json:"rating_avg"`
	RatingCount int               `json:"rating_count"`
	Cuisines    []CuisineCategory `gorm:"many2many:restaurant_cuisines;" json:"cuisines,omitempty"`
	MenuItems   []MenuItem        `json:"menu_items,omitempty"`
	Promotions  []Promotion       `json:"promotions,omitempty"`
}
