package models

import "github.com/google/uuid"

type FavouriteRestaurant struct {
	BaseModel
	UserID       uuid.UUID   `gorm:"type:uuid;index;uniqueIndex:uniq_fav_restaurant" json:"user_id"`
	RestaurantID uuid.UUID   `gorm:"type:uuid;uniqueIndex:uniq_fav_restaurant" json:"restaurant_id"`
	Restaurant   *Restaurant `json:"restaurant,omitempty"`
}

type FavouriteMenuItem struct {
	BaseModel
	UserID     uuid.UUID `gorm:"type:uuid;index;uniqueIndex:uniq_fav_menu_item" json:"user_id"`
	MenuItemID uuid.UUID `gorm:"type:uuid;uniqueIndex:uniq_fav_menu_item" json:"menu_item_id"`
	MenuItem   *MenuItem `json:"menu_item,omitempty"`
}
