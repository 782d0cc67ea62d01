package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles.
const (
	RoleCustomer   = "customer"
	RoleRestaurant = "restaurant"
	RoleAdmin      = "admin"
)

// User represents an authenticated account: customer, restaurant owner or admin.
type User struct {
	BaseModel
	FirstName    string        `json:"first_name"`
	LastName     string        `json:"last_name"`
	Phone        string        `gorm:"uniqueIndex" json:"phone"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"-"`
	Role         string        `gorm:"default:customer" json:"role"`
	IsVerified   bool          `json:"is_verified"`
	Addresses    []UserAddress `json:"addresses,omitempty"`
	Orders       []Order       `json:"orders,omitempty"`
}

// UserAddress is a saved delivery address.
type UserAddress struct {
	BaseModel
	UserID      uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Label       string    `json:"label"`
	AddressLine string    `json:"address_line"`
	Apartment   string    `json:"apartment"`
	City        string    `json:"city"`
	District    string    `json:"district"`
	IsDefault   bool      `json:"is_default"`
}

// OTPVerification keeps track of verification codes sent to users.
type OTPVerification struct {
	BaseModel
	Phone     string     `gorm:"index" json:"phone"`
	Code      string     `json:"code"`
	ExpiresAt time.Time  `json:"expires_at"`
	Verified  bool       `json:"verified"`
	UsedAt    *time.Time `json:"used_at"`
}
