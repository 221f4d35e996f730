package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindSpecialDay(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, date string) (*SpecialDay, error)
	ListSpecialDaySlots(ctx context.Context, db *gorm.DB, specialDayID snowflake.ID) ([]SpecialDaySlot, error)
	ListWeeklySlots(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, weekday int) ([]WeeklySlot, error)
	FindWeeklyHours(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, weekday int) (*WeeklyHours, error)
}
