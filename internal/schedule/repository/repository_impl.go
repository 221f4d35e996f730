package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/bookline/internal/schedule/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindSpecialDay(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, date string) (*domain.SpecialDay, error) {
	var day domain.SpecialDay
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND date = ?", tenantID, date).
		Limit(1).
		Find(&day).Error
	if err != nil {
		return nil, err
	}
	if day.ID == 0 {
		return nil, nil
	}
	return &day, nil
}

func (r *repo) ListSpecialDaySlots(ctx context.Context, db *gorm.DB, specialDayID snowflake.ID) ([]domain.SpecialDaySlot, error) {
	var slots []domain.SpecialDaySlot
	err := db.WithContext(ctx).
		Where("special_day_id = ?", specialDayID).
		Order("sort_order asc, id asc").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *repo) ListWeeklySlots(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, weekday int) ([]domain.WeeklySlot, error) {
	var slots []domain.WeeklySlot
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND weekday = ? AND is_active = ?", tenantID, weekday, true).
		Order("sort_order asc, id asc").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *repo) FindWeeklyHours(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, weekday int) (*domain.WeeklyHours, error) {
	var hours domain.WeeklyHours
	err := db.WithContext(ctx).
		Where("tenant_id = ? AND weekday = ?", tenantID, weekday).
		Limit(1).
		Find(&hours).Error
	if err != nil {
		return nil, err
	}
	if hours.ID == 0 {
		return nil, nil
	}
	return &hours, nil
}
