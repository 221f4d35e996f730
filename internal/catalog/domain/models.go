package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	KindService  = "service"
	KindMenuItem = "menu_item"
)

// Item is one bookable service or orderable menu item, scoped to a tenant.
type Item struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID   snowflake.ID `gorm:"not null;index" json:"tenant_id"`
	Kind       string       `gorm:"not null" json:"kind"`
	Name       string       `gorm:"not null" json:"name"`
	PriceCents int64        `gorm:"not null;default:0" json:"price_cents"`
	IsActive   bool         `gorm:"not null;index" json:"is_active"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Item) TableName() string {
	return "catalog_items"
}

var ErrUnknownItems = errors.New("unknown_items")
