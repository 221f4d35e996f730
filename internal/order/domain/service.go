package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type OrderLine struct {
	ItemID     snowflake.ID
	Name       string
	Quantity   int
	PriceCents int64
}

type CreateOrderRequest struct {
	TenantID      snowflake.ID
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	PickupDate    string
	PickupMinutes int
	Notes         string
	Lines         []OrderLine
	Currency      string
	PaymentOnline bool
}

// CreateOrderResult carries the persisted order and, for online payment, the
// client secret the storefront needs to complete the charge.
type CreateOrderResult struct {
	Order               Order
	PaymentClientSecret string
}

type Service interface {
	Create(ctx context.Context, req CreateOrderRequest) (CreateOrderResult, error)
}
