package notify

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
	EventOrderCreated     = "order.created"
)

// Event is the envelope handed to delivery channels. Payload keys are the
// fields a template may reference; channels must tolerate missing keys.
type Event struct {
	Type      string
	TenantID  snowflake.ID
	SubjectID snowflake.ID
	Payload   map[string]string
}

// Dispatcher delivers events to whatever channels a tenant has configured.
// Delivery is best-effort: a failed dispatch never affects the record that
// triggered it.
type Dispatcher interface {
	Dispatch(ctx context.Context, event Event)
}
