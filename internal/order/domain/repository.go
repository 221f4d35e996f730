package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, order *Order) error
	InsertItems(ctx context.Context, db *gorm.DB, items []OrderItem) error
	Delete(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*Order, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID, status string, at time.Time) error
	SetPaymentIntent(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID, intentID string, at time.Time) error
}
