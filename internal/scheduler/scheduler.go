package scheduler

import (
	"context"
	"time"

	bookingdomain "github.com/smallbiznis/bookline/internal/booking/domain"
	"github.com/smallbiznis/bookline/internal/clock"
	scheduledomain "github.com/smallbiznis/bookline/internal/schedule/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Config controls the background sweep interval.
type Config struct {
	RunInterval time.Duration
}

func DefaultConfig() Config {
	return Config{RunInterval: time.Minute}
}

func (c Config) withDefaults() Config {
	if c.RunInterval <= 0 {
		c.RunInterval = DefaultConfig().RunInterval
	}
	return c
}

// Scheduler sweeps confirmed bookings whose appointment time has passed and
// marks them completed, so a cancellation of yesterday's booking can never
// succeed just because nobody clicked a dashboard button.
type Scheduler struct {
	cfg   Config
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  bookingdomain.Repository
}

type Params struct {
	fx.In

	Cfg   Config
	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Repo  bookingdomain.Repository
}

func New(p Params) *Scheduler {
	return &Scheduler{
		cfg:   p.Cfg.withDefaults(),
		db:    p.DB,
		log:   p.Log.Named("scheduler"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sweep.
func (s *Scheduler) RunOnce(ctx context.Context) {
	now := s.clock.Now()
	date := now.Format(scheduledomain.DateLayout)
	minutes := now.Hour()*60 + now.Minute()

	affected, err := s.repo.CompleteElapsed(ctx, s.db, date, minutes, now)
	if err != nil {
		s.log.Error("booking completion sweep failed", zap.Error(err))
		return
	}
	if affected > 0 {
		s.log.Info("completed elapsed bookings", zap.Int64("count", affected))
	}
}
