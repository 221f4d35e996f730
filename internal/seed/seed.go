package seed

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/bookline/internal/catalog/domain"
	scheduledomain "github.com/smallbiznis/bookline/internal/schedule/domain"
	tenantdomain "github.com/smallbiznis/bookline/internal/tenant/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EnsureDemoTenant provisions a "demo" tenant with weekday hours and a small
// catalog so a fresh development instance accepts intake requests immediately.
// It is a no-op once any tenant exists.
func EnsureDemoTenant(conn *gorm.DB, genID *snowflake.Node) error {
	var count int64
	if err := conn.Model(&tenantdomain.Tenant{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count tenants: %w", err)
	}
	if count > 0 {
		return nil
	}

	tenant := tenantdomain.Tenant{
		ID:           genID.Generate(),
		Subdomain:    "demo",
		Domain:       "demo.example.com",
		BusinessType: tenantdomain.BusinessTypeBooking,
		IsActive:     true,
		Config:       datatypes.JSONMap{"payment_mode": tenantdomain.PaymentModeOnSite},
	}
	if err := conn.Create(&tenant).Error; err != nil {
		return fmt.Errorf("create demo tenant: %w", err)
	}

	hours := make([]scheduledomain.WeeklyHours, 0, 7)
	for weekday := 0; weekday < 7; weekday++ {
		hours = append(hours, scheduledomain.WeeklyHours{
			ID:        genID.Generate(),
			TenantID:  tenant.ID,
			Weekday:   weekday,
			IsOpen:    weekday < 5,
			OpenTime:  "09:00",
			CloseTime: "17:00",
		})
	}
	if err := conn.Create(&hours).Error; err != nil {
		return fmt.Errorf("create demo hours: %w", err)
	}

	items := []catalogdomain.Item{
		{ID: genID.Generate(), TenantID: tenant.ID, Kind: catalogdomain.KindService, Name: "Consultation", PriceCents: 5000, IsActive: true},
		{ID: genID.Generate(), TenantID: tenant.ID, Kind: catalogdomain.KindService, Name: "Follow-up", PriceCents: 3000, IsActive: true},
	}
	if err := conn.Create(&items).Error; err != nil {
		return fmt.Errorf("create demo catalog: %w", err)
	}
	return nil
}
