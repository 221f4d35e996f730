package notify

import (
	"github.com/smallbiznis/bookline/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("notify",
	fx.Provide(func(log *zap.Logger, m *metrics.Metrics) Dispatcher {
		return NewAsyncDispatcher(log, m, NewLogSink(log))
	}),
)
