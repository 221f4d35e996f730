package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/bookline/internal/clock"
	"github.com/smallbiznis/bookline/internal/order/domain"
	"github.com/smallbiznis/bookline/internal/order/repository"
	"github.com/smallbiznis/bookline/internal/providers/payment"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeProvider struct {
	err    error
	intent payment.Intent
	calls  int
}

func (f *fakeProvider) CreateIntent(ctx context.Context, req payment.IntentRequest) (payment.Intent, error) {
	f.calls++
	_ = ctx
	_ = req
	if f.err != nil {
		return payment.Intent{}, f.err
	}
	return f.intent, nil
}

// failingItemsRepo lets the parent insert succeed and the child insert fail,
// exercising the compensation path against a real database.
type failingItemsRepo struct {
	domain.Repository
}

func (f *failingItemsRepo) InsertItems(ctx context.Context, db *gorm.DB, items []domain.OrderItem) error {
	return errors.New("simulated insert failure")
}

func setupOrderTest(t *testing.T, repo domain.Repository, provider payment.Provider) (*gorm.DB, domain.Service, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&domain.Order{}, &domain.OrderItem{}))

	node, err := snowflake.NewNode(1)
	assert.NoError(t, err)

	svc := New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    clock.NewFakeClock(time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)),
		Repo:     repo,
		Payments: provider,
	})
	return db, svc, node
}

func testOrderRequest(node *snowflake.Node, paymentOnline bool) domain.CreateOrderRequest {
	return domain.CreateOrderRequest{
		TenantID:      node.Generate(),
		CustomerName:  "Ada",
		CustomerPhone: "+331",
		PickupDate:    "2024-06-10",
		PickupMinutes: 12 * 60,
		Lines: []domain.OrderLine{
			{ItemID: node.Generate(), Name: "Margherita", Quantity: 2, PriceCents: 1200},
			{ItemID: node.Generate(), Name: "Tiramisu", Quantity: 1, PriceCents: 600},
		},
		Currency:      "EUR",
		PaymentOnline: paymentOnline,
	}
}

func TestCreateOrderPersistsParentAndItems(t *testing.T) {
	db, svc, node := setupOrderTest(t, repository.Provide(), &fakeProvider{})

	result, err := svc.Create(context.Background(), testOrderRequest(node, false))
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusPending, result.Order.Status)
	assert.Equal(t, int64(3000), result.Order.TotalCents)
	assert.Empty(t, result.PaymentClientSecret)

	var items []domain.OrderItem
	assert.NoError(t, db.Where("order_id = ?", result.Order.ID).Find(&items).Error)
	assert.Len(t, items, 2)
}

func TestCreateOrderRollsBackParentWhenItemsFail(t *testing.T) {
	db, svc, node := setupOrderTest(t, &failingItemsRepo{Repository: repository.Provide()}, &fakeProvider{})

	_, err := svc.Create(context.Background(), testOrderRequest(node, false))
	assert.Error(t, err)

	var count int64
	assert.NoError(t, db.Model(&domain.Order{}).Count(&count).Error)
	assert.Zero(t, count, "parent order must not survive a child insert failure")
}

func TestCreateOrderOnlinePaymentSetsIntent(t *testing.T) {
	provider := &fakeProvider{intent: payment.Intent{
		ID:           "pi_123",
		ClientSecret: "pi_123_secret",
		Status:       "requires_payment_method",
	}}
	db, svc, node := setupOrderTest(t, repository.Provide(), provider)

	result, err := svc.Create(context.Background(), testOrderRequest(node, true))
	assert.NoError(t, err)
	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, "pi_123_secret", result.PaymentClientSecret)
	assert.Equal(t, "pi_123", result.Order.PaymentIntentID)

	var stored domain.Order
	assert.NoError(t, db.First(&stored, "id = ?", result.Order.ID).Error)
	assert.Equal(t, "pi_123", stored.PaymentIntentID)
}

func TestCreateOrderPaymentFailureMarksOrderFailed(t *testing.T) {
	provider := &fakeProvider{err: errors.New("gateway unavailable")}
	db, svc, node := setupOrderTest(t, repository.Provide(), provider)

	result, err := svc.Create(context.Background(), testOrderRequest(node, true))
	assert.ErrorIs(t, err, domain.ErrPaymentFailed)
	assert.Equal(t, domain.StatusFailed, result.Order.Status)

	// The order stays on record as failed instead of being deleted.
	var stored domain.Order
	assert.NoError(t, db.First(&stored, "id = ?", result.Order.ID).Error)
	assert.Equal(t, domain.StatusFailed, stored.Status)

	var items int64
	assert.NoError(t, db.Model(&domain.OrderItem{}).Where("order_id = ?", result.Order.ID).Count(&items).Error)
	assert.Equal(t, int64(2), items)
}

func TestCreateOrderOnSitePaymentSkipsProvider(t *testing.T) {
	provider := &fakeProvider{}
	_, svc, node := setupOrderTest(t, repository.Provide(), provider)

	_, err := svc.Create(context.Background(), testOrderRequest(node, false))
	assert.NoError(t, err)
	assert.Zero(t, provider.calls)
}
