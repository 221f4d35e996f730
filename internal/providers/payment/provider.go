package payment

import "context"

// IntentRequest describes the charge the storefront will complete client-side.
type IntentRequest struct {
	AmountCents int64
	Currency    string
	Metadata    map[string]string
}

// Intent is the provider's handle for a created payment intent.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
}

// Provider creates payment intents. Concrete gateway integrations live
// outside the intake core; this boundary is all the orchestrator knows.
type Provider interface {
	CreateIntent(ctx context.Context, req IntentRequest) (Intent, error)
}
