package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/bookline/internal/catalog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindActiveByIDs(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, ids []snowflake.ID) ([]domain.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []domain.Item
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ? AND is_active = ?", tenantID, ids, true).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
