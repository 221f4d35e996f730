package payment

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NoOpProvider stands in when no gateway is configured; intents are accepted
// locally so on-site payment tenants keep working.
type NoOpProvider struct {
	log *zap.Logger
}

func NewNoOp(log *zap.Logger) *NoOpProvider {
	return &NoOpProvider{log: log.Named("providers.payment")}
}

func (p *NoOpProvider) CreateIntent(ctx context.Context, req IntentRequest) (Intent, error) {
	_ = ctx
	id := "pi_" + uuid.NewString()
	p.log.Debug("created noop payment intent",
		zap.String("intent_id", id),
		zap.Int64("amount_cents", req.AmountCents),
		zap.String("currency", req.Currency),
	)
	return Intent{ID: id, ClientSecret: id + "_secret", Status: "requires_payment_method"}, nil
}
