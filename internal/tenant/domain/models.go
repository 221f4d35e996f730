package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Tenant is one onboarded business: a subdomain on the platform, an optional
// custom domain, and an opaque configuration blob owned by provisioning.
type Tenant struct {
	ID               snowflake.ID                 `gorm:"primaryKey" json:"id"`
	Subdomain        string                       `gorm:"uniqueIndex;not null" json:"subdomain"`
	Domain           string                       `gorm:"index" json:"domain"`
	AlternateDomains datatypes.JSONSlice[string]  `gorm:"type:jsonb" json:"alternate_domains,omitempty"`
	BusinessType     string                       `gorm:"not null;default:'appointment'" json:"business_type"`
	IsActive         bool                         `gorm:"not null;index" json:"is_active"`
	Config           datatypes.JSONMap            `gorm:"type:jsonb;not null;default:'{}'" json:"config,omitempty"`
	CreatedAt        time.Time                    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time                    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Tenant) TableName() string {
	return "tenants"
}

const (
	PaymentModeOnline  = "online"
	PaymentModeOnSite  = "on_site"
	BusinessTypeOrder  = "order"
	BusinessTypeBooking = "appointment"
)

// PaymentMode reads the provisioned payment mode, defaulting to on-site.
func (t Tenant) PaymentMode() string {
	raw, _ := t.Config["payment_mode"].(string)
	mode := strings.ToLower(strings.TrimSpace(raw))
	if mode == PaymentModeOnline {
		return PaymentModeOnline
	}
	return PaymentModeOnSite
}

// Currency reads the provisioned currency, defaulting to EUR.
func (t Tenant) Currency() string {
	raw, _ := t.Config["currency"].(string)
	currency := strings.ToUpper(strings.TrimSpace(raw))
	if currency == "" {
		return "EUR"
	}
	return currency
}
