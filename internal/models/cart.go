package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Cart is a user's in-progress, unsubmitted selection of menu items. Items may
// span multiple restaurants within the same mall; checkout splits them.
type Cart struct {
	BaseModel
	UserID uuid.UUID  `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	Items  []CartItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// CartItem references a menu item plus a normalized selection set. Prices are
// never cached here; they are resolved from the catalog on every read so that
// catalog changes apply until checkout freezes them into OrderItem rows.
type CartItem struct {
	BaseModel
	CartID       uuid.UUID   `gorm:"type:uuid;index;uniqueIndex:uniq_cart_line" json:"cart_id"`
	MenuItemID   uuid.UUID   `gorm:"type:uuid;uniqueIndex:uniq_cart_line" json:"menu_item_id"`
	MenuItem     *MenuItem   `json:"menu_item,omitempty"`
	RestaurantID uuid.UUID   `gorm:"type:uuid;index;uniqueIndex:uniq_cart_line" json:"restaurant_id"`
	Restaurant   *Restaurant `json:"restaurant,omitempty"`
	Quantity     int         `json:"quantity"`
	Note         string      `json:"note"`
	// Selections holds the normalized selection set as JSON; SelectionHash is
	// its digest and completes the uniqueness tuple, so adding an identical
	// combination upserts into quantity instead of duplicating the row.
	Selections    datatypes.JSON `json:"selections"`
	SelectionHash string         `gorm:"size:64;uniqueIndex:uniq_cart_line" json:"-"`
}
