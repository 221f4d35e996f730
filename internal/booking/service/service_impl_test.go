package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/bookline/internal/booking/domain"
	"github.com/smallbiznis/bookline/internal/booking/repository"
	"github.com/smallbiznis/bookline/internal/clock"
	"github.com/smallbiznis/bookline/internal/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupBookingTest(t *testing.T) (*gorm.DB, domain.Service, *clock.FakeClock, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&domain.Booking{}))

	node, err := snowflake.NewNode(1)
	assert.NoError(t, err)

	// 2024-06-10 08:00 UTC, well before any same-day appointment.
	clk := clock.NewFakeClock(time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC))
	cfg := config.Config{Intake: config.IntakeConfig{CancelLeadTime: 2 * time.Hour}}

	svc := New(Params{
		Cfg:   cfg,
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clk,
		Repo:  repository.Provide(),
	})
	return db, svc, clk, node
}

func createTestBooking(t *testing.T, svc domain.Service, node *snowflake.Node, confirmed bool) (domain.Booking, snowflake.ID) {
	t.Helper()

	customerID := node.Generate()
	booking, err := svc.Create(context.Background(), domain.CreateBookingRequest{
		TenantID:      node.Generate(),
		CustomerID:    customerID,
		CustomerName:  "Ada",
		CustomerPhone: "+331",
		Date:          "2024-06-10",
		TimeMinutes:   12*60 + 30,
		Items: []domain.LineItem{
			{ItemID: node.Generate(), Name: "Consultation", Quantity: 2, PriceCents: 5000},
		},
		Confirmed: confirmed,
	})
	assert.NoError(t, err)
	return booking, customerID
}

func TestCreateBookingComputesTotalAndStatus(t *testing.T) {
	_, svc, _, node := setupBookingTest(t)

	booking, _ := createTestBooking(t, svc, node, true)
	assert.Equal(t, domain.StatusConfirmed, booking.Status)
	assert.Equal(t, int64(10000), booking.TotalCents)

	pending, _ := createTestBooking(t, svc, node, false)
	assert.Equal(t, domain.StatusPending, pending.Status)
}

func TestCancelBookingIdempotent(t *testing.T) {
	_, svc, _, node := setupBookingTest(t)
	booking, customerID := createTestBooking(t, svc, node, true)

	req := domain.CancelBookingRequest{
		TenantID:   booking.TenantID,
		BookingID:  booking.ID,
		CustomerID: customerID,
	}

	first, err := svc.Cancel(context.Background(), req)
	assert.NoError(t, err)
	assert.True(t, first.Transitioned)
	assert.Equal(t, domain.StatusCancelled, first.Booking.Status)

	// Second cancel succeeds without a second transition.
	second, err := svc.Cancel(context.Background(), req)
	assert.NoError(t, err)
	assert.False(t, second.Transitioned)
	assert.Equal(t, domain.StatusCancelled, second.Booking.Status)
}

func TestCancelCompletedBookingAlwaysFails(t *testing.T) {
	db, svc, _, node := setupBookingTest(t)
	booking, customerID := createTestBooking(t, svc, node, true)

	assert.NoError(t, db.Model(&domain.Booking{}).
		Where("id = ?", booking.ID).
		Update("status", domain.StatusCompleted).Error)

	_, err := svc.Cancel(context.Background(), domain.CancelBookingRequest{
		TenantID:   booking.TenantID,
		BookingID:  booking.ID,
		CustomerID: customerID,
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyDone)
}

func TestCancelBookingOwnershipMismatch(t *testing.T) {
	_, svc, _, node := setupBookingTest(t)
	booking, _ := createTestBooking(t, svc, node, true)

	_, err := svc.Cancel(context.Background(), domain.CancelBookingRequest{
		TenantID:   booking.TenantID,
		BookingID:  booking.ID,
		CustomerID: node.Generate(),
	})
	assert.ErrorIs(t, err, domain.ErrNotOwner)
}

func TestCancelBookingWrongTenantIsNotFound(t *testing.T) {
	_, svc, _, node := setupBookingTest(t)
	booking, customerID := createTestBooking(t, svc, node, true)

	_, err := svc.Cancel(context.Background(), domain.CancelBookingRequest{
		TenantID:   node.Generate(),
		BookingID:  booking.ID,
		CustomerID: customerID,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancelBookingLeadTimeCutoff(t *testing.T) {
	_, svc, clk, node := setupBookingTest(t)
	booking, customerID := createTestBooking(t, svc, node, true)

	// 11:00: only 90 minutes before the 12:30 appointment.
	clk.Advance(3 * time.Hour)

	_, err := svc.Cancel(context.Background(), domain.CancelBookingRequest{
		TenantID:   booking.TenantID,
		BookingID:  booking.ID,
		CustomerID: customerID,
	})
	assert.ErrorIs(t, err, domain.ErrTooLateToCancel)
}
