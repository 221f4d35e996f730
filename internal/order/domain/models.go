package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Order is one accepted pickup order. Line items live in their own rows and
// are created atomically with the parent: an order never exists with zero
// items.
type Order struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID        snowflake.ID `gorm:"not null;index" json:"tenant_id"`
	CustomerName    string       `gorm:"not null" json:"customer_name"`
	CustomerPhone   string       `gorm:"not null" json:"customer_phone"`
	CustomerEmail   string       `json:"customer_email,omitempty"`
	PickupDate      string       `gorm:"not null;index" json:"pickup_date"`
	PickupMinutes   int          `gorm:"not null" json:"pickup_minutes"`
	Status          string       `gorm:"not null;default:'pending';index" json:"status"`
	Notes           string       `json:"notes,omitempty"`
	TotalCents      int64        `gorm:"not null;default:0" json:"total_cents"`
	Currency        string       `gorm:"not null;default:'EUR'" json:"currency"`
	PaymentIntentID string       `json:"payment_intent_id,omitempty"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is one line of an order, referencing the catalog item it was
// priced from.
type OrderItem struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	OrderID    snowflake.ID `gorm:"not null;index" json:"order_id"`
	TenantID   snowflake.ID `gorm:"not null;index" json:"tenant_id"`
	ItemID     snowflake.ID `gorm:"not null" json:"item_id"`
	Name       string       `gorm:"not null" json:"name"`
	Quantity   int          `gorm:"not null" json:"quantity"`
	PriceCents int64        `gorm:"not null" json:"price_cents"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

var (
	ErrNotFound      = errors.New("order_not_found")
	ErrPaymentFailed = errors.New("order_payment_failed")
)
