package models

import "github.com/google/uuid"

type Country struct {
	BaseModel
	Name   string `gorm:"uniqueIndex" json:"name"`
	Code   string `json:"code"`
	Cities []City `json:"cities,omitempty"`
}

type City struct {
	BaseModel
	CountryID uuid.UUID `gorm:"type:uuid;index" json:"country_id"`
	Country   *Country  `json:"country,omitempty"`
	Name      string    `json:"name"`
	Malls     []Mall    `json:"malls,omitempty"`
}

// Mall is a physical venue hosting multiple restaurants.
type Mall struct {
	BaseModel
	CityID      uuid.UUID    `gorm:"type:uuid;index" json:"city_id"`
	City        *City        `json:"city,omitempty"`
	Name        string       `json:"name"`
	Address     string       `json:"address"`
	ImageURL    string       `json:"image_url"`
	IsActive    bool         `gorm:"default:true" json:"is_active"`
	Restaurants []Restaurant `json:"restaurants,omitempty"`
}
