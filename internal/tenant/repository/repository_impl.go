package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/bookline/internal/tenant/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindActiveByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Tenant, error) {
	var tenant domain.Tenant
	err := db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		Limit(1).
		Find(&tenant).Error
	if err != nil {
		return nil, err
	}
	if tenant.ID == 0 {
		return nil, nil
	}
	return &tenant, nil
}

func (r *repo) FindActiveBySubdomain(ctx context.Context, db *gorm.DB, subdomain string) (*domain.Tenant, error) {
	var tenant domain.Tenant
	err := db.WithContext(ctx).
		Where("subdomain = ? AND is_active = ?", subdomain, true).
		Limit(1).
		Find(&tenant).Error
	if err != nil {
		return nil, err
	}
	if tenant.ID == 0 {
		return nil, nil
	}
	return &tenant, nil
}

func (r *repo) FindActiveByDomain(ctx context.Context, db *gorm.DB, host string) (*domain.Tenant, error) {
	var tenant domain.Tenant
	err := db.WithContext(ctx).
		Where("domain = ? AND is_active = ?", host, true).
		Limit(1).
		Find(&tenant).Error
	if err != nil {
		return nil, err
	}
	if tenant.ID != 0 {
		return &tenant, nil
	}

	// Alternate domains live in a JSON array; a quoted-substring match keeps the
	// lookup portable across postgres, mysql and sqlite.
	var alternate domain.Tenant
	err = db.WithContext(ctx).
		Where("alternate_domains LIKE ? AND is_active = ?", `%"`+host+`"%`, true).
		Limit(1).
		Find(&alternate).Error
	if err != nil {
		return nil, err
	}
	if alternate.ID == 0 {
		return nil, nil
	}
	return &alternate, nil
}
