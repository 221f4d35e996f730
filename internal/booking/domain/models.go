package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// LineItem is one booked service with its captured price. Prices are copied
// at intake time so later catalog edits never rewrite history.
type LineItem struct {
	ItemID     snowflake.ID `json:"item_id"`
	Name       string       `json:"name"`
	Quantity   int          `json:"quantity"`
	PriceCents int64        `json:"price_cents"`
}

// Booking is one accepted appointment or reservation.
type Booking struct {
	ID            snowflake.ID                  `gorm:"primaryKey" json:"id"`
	TenantID      snowflake.ID                  `gorm:"not null;index" json:"tenant_id"`
	CustomerID    snowflake.ID                  `gorm:"index" json:"customer_id,omitempty"`
	CustomerName  string                        `gorm:"not null" json:"customer_name"`
	CustomerPhone string                        `gorm:"not null" json:"customer_phone"`
	CustomerEmail string                        `json:"customer_email,omitempty"`
	Date          string                        `gorm:"not null;index" json:"date"`
	TimeMinutes   int                           `gorm:"not null" json:"time_minutes"`
	Status        string                        `gorm:"not null;default:'pending';index" json:"status"`
	Notes         string                        `json:"notes,omitempty"`
	Items         datatypes.JSONSlice[LineItem] `gorm:"type:jsonb" json:"items,omitempty"`
	TotalCents    int64                         `gorm:"not null;default:0" json:"total_cents"`
	CreatedAt     time.Time                     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time                     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Booking) TableName() string {
	return "bookings"
}

var (
	ErrNotFound        = errors.New("booking_not_found")
	ErrNotOwner        = errors.New("booking_not_owner")
	ErrAlreadyDone     = errors.New("booking_already_completed")
	ErrTooLateToCancel = errors.New("booking_too_late_to_cancel")
)
