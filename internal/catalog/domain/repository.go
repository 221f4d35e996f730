package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// FindActiveByIDs returns the active items among ids for the tenant.
	// Callers compare the result count against the request to detect partial
	// matches; a partial match is a validation failure, never a partial order.
	FindActiveByIDs(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, ids []snowflake.ID) ([]Item, error)
}
