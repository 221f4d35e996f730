package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogSink records events to the application log. It is the default channel
// until a tenant wires a real transport, and doubles as an audit trail.
type LogSink struct {
	log *zap.Logger
}

func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{log: log.Named("notify.log")}
}

func (s *LogSink) Deliver(ctx context.Context, event Event) error {
	_ = ctx
	s.log.Info("notification",
		zap.String("event_type", event.Type),
		zap.String("tenant_id", event.TenantID.String()),
		zap.String("subject_id", event.SubjectID.String()),
		zap.Any("payload", event.Payload),
	)
	return nil
}
