package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order status values. Pending is the sole initial state; Delivered, Rejected
// and Cancelled are terminal.
const (
	OrderPending        = "PENDING"
	OrderAccepted       = "ACCEPTED"
	OrderPreparing      = "PREPARING"
	OrderReady          = "READY"
	OrderOutForDelivery = "OUT_FOR_DELIVERY"
	OrderDelivered      = "DELIVERED"
	OrderRejected       = "REJECTED"
	OrderCancelled      = "CANCELLED"
)

// Payment methods.
const (
	PaymentCash = "CASH"
	PaymentCard = "CARD"
)

// Payment status values (cash orders track these through their own machine).
const (
	PaymentStatusPending  = "PENDING"
	PaymentStatusPaid     = "PAID"
	PaymentStatusFailed   = "FAILED"
	PaymentStatusRefunded = "REFUNDED"
)

// Order is an immutable snapshot created from a cart at checkout.
type Order struct {
	BaseModel
	OrderNumber  string      `gorm:"uniqueIndex" json:"order_number"`
	UserID       uuid.UUID   `gorm:"type:uuid;index" json:"user_id"`
	User         *User       `json:"user,omitempty"`
	RestaurantID uuid.UUID   `gorm:"type:uuid;index" json:"restaurant_id"`
	Restaurant   *Restaurant `json:"restaurant,omitempty"`

	Status        string `gorm:"default:PENDING" json:"status"`
	PaymentMethod string `json:"payment_method"`
	PaymentStatus string `gorm:"default:PENDING" json:"payment_status"`
	// PaymentIntentID references the charge at the external gateway; set for
	// card orders only and required to initiate a refund.
	PaymentIntentID string `json:"payment_intent_id"`

	Subtotal    decimal.Decimal `gorm:"type:numeric(12,2)" json:"subtotal"`
	Tax         decimal.Decimal `gorm:"type:numeric(12,2)" json:"tax"`
	DeliveryFee decimal.Decimal `gorm:"type:numeric(12,2)" json:"delivery_fee"`
	Discount    decimal.Decimal `gorm:"type:numeric(12,2)" json:"discount"`
	Total       decimal.Decimal `gorm:"type:numeric(12,2)" json:"total"`

	DeliveryAddress string `json:"delivery_address"`
	Instructions    string `json:"instructions"`

	PlacedAt              time.Time  `json:"placed_at"`
	EstimatedDeliveryTime *time.Time `json:"estimated_delivery_time"`
	ActualDeliveryTime    *time.Time `json:"actual_delivery_time"`
	PaidAt                *time.Time `json:"paid_at"`

	Items []OrderItem `json:"items,omitempty"`
}

// OrderItem is a frozen copy of a cart item at checkout, decoupled from later
// catalog price changes.
type OrderItem struct {
	BaseModel
	OrderID    uuid.UUID       `gorm:"type:uuid;index" json:"order_id"`
	MenuItemID *uuid.UUID      `gorm:"type:uuid" json:"menu_item_id"`
	ItemName   string          `json:"item_name"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(12,2)" json:"unit_price"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(12,2)" json:"total_price"`
	Note       string          `json:"note"`
}
