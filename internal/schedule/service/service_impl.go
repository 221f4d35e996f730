package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/bookline/internal/schedule/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("schedule.service"),
		repo: p.Repo,
	}
}

// OpenWindows walks the configuration layers in strict precedence order and
// returns the windows of the first layer that yields data. A special day wins
// absolutely: a closed override produces zero windows no matter what the
// weekly tables say.
func (s *Service) OpenWindows(ctx context.Context, tenantID snowflake.ID, date string) (domain.DaySchedule, error) {
	parsed, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return domain.DaySchedule{}, domain.ErrInvalidDate
	}

	override, err := s.repo.FindSpecialDay(ctx, s.db, tenantID, date)
	if err != nil {
		return domain.DaySchedule{}, err
	}
	if override != nil {
		return s.resolveOverride(ctx, override)
	}

	weekday := domain.ISOWeekday(parsed)

	slots, err := s.repo.ListWeeklySlots(ctx, s.db, tenantID, weekday)
	if err != nil {
		return domain.DaySchedule{}, err
	}
	if len(slots) > 0 {
		windows := make([]domain.Window, 0, len(slots))
		for _, slot := range slots {
			window, ok := domain.ParseWindow(slot.StartTime, slot.EndTime)
			if !ok {
				s.log.Warn("dropping malformed weekly slot",
					zap.String("tenant_id", tenantID.String()),
					zap.String("slot_id", slot.ID.String()),
					zap.String("start", slot.StartTime),
					zap.String("end", slot.EndTime),
				)
				continue
			}
			windows = append(windows, window)
		}
		return domain.DaySchedule{Source: domain.SourceWeeklySlots, Windows: windows}, nil
	}

	hours, err := s.repo.FindWeeklyHours(ctx, s.db, tenantID, weekday)
	if err != nil {
		return domain.DaySchedule{}, err
	}
	if hours == nil || !hours.IsOpen {
		return domain.DaySchedule{Source: domain.SourceClosed}, nil
	}
	window, ok := domain.ParseWindow(hours.OpenTime, hours.CloseTime)
	if !ok {
		return domain.DaySchedule{Source: domain.SourceClosed}, nil
	}
	return domain.DaySchedule{Source: domain.SourceLegacyRange, Windows: []domain.Window{window}}, nil
}

func (s *Service) resolveOverride(ctx context.Context, override *domain.SpecialDay) (domain.DaySchedule, error) {
	if !override.IsOpen {
		return domain.DaySchedule{Source: domain.SourceOverride}, nil
	}

	slots, err := s.repo.ListSpecialDaySlots(ctx, s.db, override.ID)
	if err != nil {
		return domain.DaySchedule{}, err
	}
	if len(slots) > 0 {
		windows := make([]domain.Window, 0, len(slots))
		for _, slot := range slots {
			window, ok := domain.ParseWindow(slot.StartTime, slot.EndTime)
			if !ok {
				s.log.Warn("dropping malformed special day slot",
					zap.String("special_day_id", override.ID.String()),
					zap.String("start", slot.StartTime),
					zap.String("end", slot.EndTime),
				)
				continue
			}
			windows = append(windows, window)
		}
		return domain.DaySchedule{Source: domain.SourceOverride, Windows: windows}, nil
	}

	// No explicit slot list: the override's own open/close pair is the window.
	window, ok := domain.ParseWindow(override.OpenTime, override.CloseTime)
	if !ok {
		return domain.DaySchedule{Source: domain.SourceOverride}, nil
	}
	return domain.DaySchedule{Source: domain.SourceOverride, Windows: []domain.Window{window}}, nil
}
