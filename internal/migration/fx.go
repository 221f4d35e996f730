package migration

import (
	"github.com/bwmarrin/snowflake"
	bookingdomain "github.com/smallbiznis/bookline/internal/booking/domain"
	catalogdomain "github.com/smallbiznis/bookline/internal/catalog/domain"
	"github.com/smallbiznis/bookline/internal/config"
	orderdomain "github.com/smallbiznis/bookline/internal/order/domain"
	scheduledomain "github.com/smallbiznis/bookline/internal/schedule/domain"
	"github.com/smallbiznis/bookline/internal/seed"
	tenantdomain "github.com/smallbiznis/bookline/internal/tenant/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, genID *snowflake.Node) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite/mysql development setups take the gorm schema directly.
			if err := conn.AutoMigrate(models()...); err != nil {
				return err
			}
		}

		if cfg.Environment == "development" {
			return seed.EnsureDemoTenant(conn, genID)
		}
		return nil
	}),
)

func models() []any {
	return []any{
		&tenantdomain.Tenant{},
		&catalogdomain.Item{},
		&scheduledomain.SpecialDay{},
		&scheduledomain.SpecialDaySlot{},
		&scheduledomain.WeeklySlot{},
		&scheduledomain.WeeklyHours{},
		&bookingdomain.Booking{},
		&orderdomain.Order{},
		&orderdomain.OrderItem{},
	}
}
