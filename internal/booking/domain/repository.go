package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, booking *Booking) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*Booking, error)
	// MarkCancelled transitions status to cancelled unless the booking is
	// already completed or cancelled. Returns the number of rows changed so
	// the caller can distinguish a fresh transition from an idempotent repeat.
	MarkCancelled(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID, at time.Time) (int64, error)
	// CompleteElapsed transitions confirmed bookings whose appointment time has
	// passed to completed. date is a "2006-01-02" string and minutes the
	// current minutes-since-midnight on that date.
	CompleteElapsed(ctx context.Context, db *gorm.DB, date string, minutes int, at time.Time) (int64, error)
}
