package notify

import (
	"context"
	"time"

	"github.com/smallbiznis/bookline/internal/observability/metrics"
	"go.uber.org/zap"
)

// Sink is one delivery channel (email, SMS, webhook).
type Sink interface {
	Deliver(ctx context.Context, event Event) error
}

const deliverTimeout = 10 * time.Second

// AsyncDispatcher fans events out to sinks on a detached goroutine so the
// request path never waits on delivery. Panics and errors are absorbed and
// logged; the triggering write has already committed by the time dispatch
// runs.
type AsyncDispatcher struct {
	log     *zap.Logger
	metrics *metrics.Metrics
	sinks   []Sink
}

func NewAsyncDispatcher(log *zap.Logger, m *metrics.Metrics, sinks ...Sink) *AsyncDispatcher {
	return &AsyncDispatcher{
		log:     log.Named("notify"),
		metrics: m,
		sinks:   sinks,
	}
}

func (d *AsyncDispatcher) Dispatch(ctx context.Context, event Event) {
	// Detach from the request context so an early client disconnect does not
	// cancel delivery mid-flight.
	detached := context.WithoutCancel(ctx)
	go d.deliver(detached, event)
}

func (d *AsyncDispatcher) deliver(ctx context.Context, event Event) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("notification delivery panicked",
				zap.String("event_type", event.Type),
				zap.Any("panic", r),
			)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, deliverTimeout)
	defer cancel()

	for _, sink := range d.sinks {
		if err := sink.Deliver(ctx, event); err != nil {
			d.log.Warn("notification delivery failed",
				zap.String("event_type", event.Type),
				zap.String("tenant_id", event.TenantID.String()),
				zap.Error(err),
			)
			d.metrics.RecordNotification(ctx, event.Type, "failed")
			continue
		}
		d.metrics.RecordNotification(ctx, event.Type, "delivered")
	}
}
