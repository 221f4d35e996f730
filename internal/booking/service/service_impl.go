package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/bookline/internal/booking/domain"
	"github.com/smallbiznis/bookline/internal/clock"
	"github.com/smallbiznis/bookline/internal/config"
	scheduledomain "github.com/smallbiznis/bookline/internal/schedule/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Cfg   config.Config
	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	cfg   config.Config
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		cfg:   p.Cfg,
		db:    p.DB,
		log:   p.Log.Named("booking.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateBookingRequest) (domain.Booking, error) {
	status := domain.StatusPending
	if req.Confirmed {
		status = domain.StatusConfirmed
	}

	var total int64
	for _, item := range req.Items {
		total += item.PriceCents * int64(item.Quantity)
	}

	now := s.clock.Now()
	booking := domain.Booking{
		ID:            s.genID.Generate(),
		TenantID:      req.TenantID,
		CustomerID:    req.CustomerID,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		Date:          req.Date,
		TimeMinutes:   req.TimeMinutes,
		Status:        status,
		Notes:         req.Notes,
		Items:         datatypes.NewJSONSlice(req.Items),
		TotalCents:    total,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Insert(ctx, s.db, &booking); err != nil {
		return domain.Booking{}, err
	}
	return booking, nil
}

// Cancel transitions a booking to cancelled. It is idempotent: a repeat
// cancel succeeds without a second transition. Cancelling a completed booking
// always fails, and a cancel inside the lead-time cutoff is rejected before
// any write.
func (s *Service) Cancel(ctx context.Context, req domain.CancelBookingRequest) (domain.CancelBookingResult, error) {
	booking, err := s.repo.FindByID(ctx, s.db, req.TenantID, req.BookingID)
	if err != nil {
		return domain.CancelBookingResult{}, err
	}
	if booking == nil {
		return domain.CancelBookingResult{}, domain.ErrNotFound
	}
	if booking.CustomerID != req.CustomerID {
		return domain.CancelBookingResult{}, domain.ErrNotOwner
	}

	switch booking.Status {
	case domain.StatusCompleted:
		return domain.CancelBookingResult{}, domain.ErrAlreadyDone
	case domain.StatusCancelled:
		return domain.CancelBookingResult{Booking: *booking}, nil
	}

	if err := s.checkLeadTime(*booking); err != nil {
		return domain.CancelBookingResult{}, err
	}

	now := s.clock.Now()
	affected, err := s.repo.MarkCancelled(ctx, s.db, req.TenantID, req.BookingID, now)
	if err != nil {
		return domain.CancelBookingResult{}, err
	}
	if affected == 0 {
		// Raced with another transition; re-read to tell cancelled from completed.
		current, err := s.repo.FindByID(ctx, s.db, req.TenantID, req.BookingID)
		if err != nil {
			return domain.CancelBookingResult{}, err
		}
		if current != nil && current.Status == domain.StatusCancelled {
			return domain.CancelBookingResult{Booking: *current}, nil
		}
		return domain.CancelBookingResult{}, domain.ErrAlreadyDone
	}

	booking.Status = domain.StatusCancelled
	booking.UpdatedAt = now
	return domain.CancelBookingResult{Booking: *booking, Transitioned: true}, nil
}

func (s *Service) checkLeadTime(booking domain.Booking) error {
	day, err := time.Parse(scheduledomain.DateLayout, booking.Date)
	if err != nil {
		return nil
	}
	appointmentAt := day.Add(time.Duration(booking.TimeMinutes) * time.Minute)
	if appointmentAt.Sub(s.clock.Now()) < s.cfg.Intake.CancelLeadTime {
		return domain.ErrTooLateToCancel
	}
	return nil
}
