package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/bookline/internal/booking/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, booking *domain.Booking) error {
	return db.WithContext(ctx).Create(booking).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID) (*domain.Booking, error) {
	var booking domain.Booking
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Limit(1).
		Find(&booking).Error
	if err != nil {
		return nil, err
	}
	if booking.ID == 0 {
		return nil, nil
	}
	return &booking, nil
}

func (r *repo) MarkCancelled(ctx context.Context, db *gorm.DB, tenantID, id snowflake.ID, at time.Time) (int64, error) {
	result := db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("tenant_id = ? AND id = ? AND status NOT IN ?", tenantID, id, []string{domain.StatusCompleted, domain.StatusCancelled}).
		Updates(map[string]interface{}{
			"status":     domain.StatusCancelled,
			"updated_at": at,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repo) CompleteElapsed(ctx context.Context, db *gorm.DB, date string, minutes int, at time.Time) (int64, error) {
	// ISO dates compare correctly as strings.
	result := db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("status = ? AND (date < ? OR (date = ? AND time_minutes <= ?))",
			domain.StatusConfirmed, date, date, minutes).
		Updates(map[string]interface{}{
			"status":     domain.StatusCompleted,
			"updated_at": at,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
