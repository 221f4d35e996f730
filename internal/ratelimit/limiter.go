package ratelimit

import (
	"context"
	"strings"
	"time"

	"github.com/smallbiznis/bookline/internal/config"
)

// Preset fixes the window and ceiling for one endpoint class.
type Preset struct {
	Name   string
	Window time.Duration
	Max    int
}

// Presets holds the two endpoint classes the intake pipeline throttles.
type Presets struct {
	Standard Preset
	Payments Preset
}

// Result reports one fixed-window decision.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter is a fixed-window counter. The ceiling is enforced idempotently:
// once a key is over the limit, further rejected requests do not keep
// inflating the counter.
type Limiter interface {
	Check(ctx context.Context, key string, preset Preset) (Result, error)
}

// Key composes the limiter key so one tenant's burst never throttles another
// tenant's traffic arriving from the same edge IP pool.
func Key(ip, tenantID, class string) string {
	parts := []string{strings.TrimSpace(ip), strings.TrimSpace(tenantID)}
	if class = strings.TrimSpace(class); class != "" {
		parts = append(parts, class)
	}
	return strings.Join(parts, ":")
}

// PresetsFromConfig builds the standard and payment presets.
func PresetsFromConfig(cfg config.Config) Presets {
	return Presets{
		Standard: Preset{
			Name:   "standard",
			Window: time.Duration(cfg.RateLimit.StandardWindowSeconds) * time.Second,
			Max:    cfg.RateLimit.StandardMaxRequests,
		},
		Payments: Preset{
			Name:   "payments",
			Window: time.Duration(cfg.RateLimit.PaymentWindowSeconds) * time.Second,
			Max:    cfg.RateLimit.PaymentMaxRequests,
		},
	}
}
