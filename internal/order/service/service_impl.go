package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/bookline/internal/clock"
	"github.com/smallbiznis/bookline/internal/order/domain"
	"github.com/smallbiznis/bookline/internal/providers/payment"
	"github.com/smallbiznis/bookline/internal/saga"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	Payments payment.Provider
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	payments payment.Provider
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("order.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		payments: p.Payments,
	}
}

// Create persists the order and its line items atomically: if the item insert
// fails, the already-written parent row is compensated away so no empty order
// survives. Online payment runs after storage; a provider failure marks the
// order failed instead of deleting it, keeping the attempt visible to the
// merchant.
func (s *Service) Create(ctx context.Context, req domain.CreateOrderRequest) (domain.CreateOrderResult, error) {
	now := s.clock.Now()

	var total int64
	for _, line := range req.Lines {
		total += line.PriceCents * int64(line.Quantity)
	}

	order := domain.Order{
		ID:            s.genID.Generate(),
		TenantID:      req.TenantID,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		PickupDate:    req.PickupDate,
		PickupMinutes: req.PickupMinutes,
		Status:        domain.StatusPending,
		Notes:         req.Notes,
		TotalCents:    total,
		Currency:      req.Currency,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	items := make([]domain.OrderItem, 0, len(req.Lines))
	for _, line := range req.Lines {
		items = append(items, domain.OrderItem{
			ID:         s.genID.Generate(),
			OrderID:    order.ID,
			TenantID:   req.TenantID,
			ItemID:     line.ItemID,
			Name:       line.Name,
			Quantity:   line.Quantity,
			PriceCents: line.PriceCents,
		})
	}

	sg := saga.New(s.log).
		AddStep(saga.Step{
			Name: "insert_order",
			Run: func(ctx context.Context) error {
				return s.repo.Insert(ctx, s.db, &order)
			},
			Compensate: func(ctx context.Context) error {
				return s.repo.Delete(ctx, s.db, order.TenantID, order.ID)
			},
		}).
		AddStep(saga.Step{
			Name: "insert_order_items",
			Run: func(ctx context.Context) error {
				return s.repo.InsertItems(ctx, s.db, items)
			},
		})

	if err := sg.Execute(ctx); err != nil {
		return domain.CreateOrderResult{}, err
	}

	result := domain.CreateOrderResult{Order: order}
	if !req.PaymentOnline {
		return result, nil
	}

	intent, err := s.payments.CreateIntent(ctx, payment.IntentRequest{
		AmountCents: total,
		Currency:    req.Currency,
		Metadata: map[string]string{
			"order_id":  order.ID.String(),
			"tenant_id": order.TenantID.String(),
		},
	})
	if err != nil {
		s.log.Warn("payment intent creation failed",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
		failedAt := s.clock.Now()
		if uerr := s.repo.UpdateStatus(ctx, s.db, order.TenantID, order.ID, domain.StatusFailed, failedAt); uerr != nil {
			s.log.Error("failed to mark order failed",
				zap.String("order_id", order.ID.String()),
				zap.Error(uerr),
			)
		}
		order.Status = domain.StatusFailed
		order.UpdatedAt = failedAt
		return domain.CreateOrderResult{Order: order}, domain.ErrPaymentFailed
	}

	setAt := s.clock.Now()
	if err := s.repo.SetPaymentIntent(ctx, s.db, order.TenantID, order.ID, intent.ID, setAt); err != nil {
		return domain.CreateOrderResult{}, err
	}
	order.PaymentIntentID = intent.ID
	order.UpdatedAt = setAt
	result.Order = order
	result.PaymentClientSecret = intent.ClientSecret
	return result, nil
}
