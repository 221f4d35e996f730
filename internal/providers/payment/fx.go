package payment

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("providers.payment",
	fx.Provide(func(log *zap.Logger) Provider {
		return NewNoOp(log)
	}),
)
