package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type CreateBookingRequest struct {
	TenantID      snowflake.ID
	CustomerID    snowflake.ID
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	Date          string
	TimeMinutes   int
	Notes         string
	Items         []LineItem
	Confirmed     bool
}

type CancelBookingRequest struct {
	TenantID   snowflake.ID
	BookingID  snowflake.ID
	CustomerID snowflake.ID
}

// CancelBookingResult reports the post-cancel state. Transitioned is false
// when the booking was already cancelled; callers use it to suppress repeat
// side effects.
type CancelBookingResult struct {
	Booking      Booking
	Transitioned bool
}

type Service interface {
	Create(ctx context.Context, req CreateBookingRequest) (Booking, error)
	Cancel(ctx context.Context, req CancelBookingRequest) (CancelBookingResult, error)
}
