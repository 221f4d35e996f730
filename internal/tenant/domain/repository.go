package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindActiveByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Tenant, error)
	FindActiveBySubdomain(ctx context.Context, db *gorm.DB, subdomain string) (*Tenant, error)
	FindActiveByDomain(ctx context.Context, db *gorm.DB, domain string) (*Tenant, error)
}
