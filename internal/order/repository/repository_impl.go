package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/bookline/internal/order/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return db.WithContext(ctx).Create(order).Error
}

func (r *repo) InsertItems(ctx context.Context, db *gorm.DB, items []domain.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&items).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) error {
	if err := db.WithContext(ctx).
		Where("order_id = ? AND tenant_id = ?", id, tenantID).
		Delete(&domain.OrderItem{}).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&domain.Order{}).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*domain.Order, error) {
	var order domain.Order
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Limit(1).
		Find(&order).Error
	if err != nil {
		return nil, err
	}
	if order.ID == 0 {
		return nil, nil
	}
	return &order, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID, status string, at time.Time) error {
	return db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": at,
		}).Error
}

func (r *repo) SetPaymentIntent(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID, intentID string, at time.Time) error {
	return db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Updates(map[string]interface{}{
			"payment_intent_id": intentID,
			"updated_at":        at,
		}).Error
}
