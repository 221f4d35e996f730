package saga

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Step pairs a forward action with the compensation that undoes it. Steps
// with nothing to undo leave Compensate nil.
type Step struct {
	Name       string
	Run        func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Saga executes steps in order. When a step fails, compensations of the
// already-completed steps run in reverse; compensation failures are logged
// and never mask the original error, since endlessly retrying a rollback in
// the request path is its own availability problem.
type Saga struct {
	log   *zap.Logger
	steps []Step
}

func New(log *zap.Logger) *Saga {
	return &Saga{log: log}
}

func (s *Saga) AddStep(step Step) *Saga {
	s.steps = append(s.steps, step)
	return s
}

func (s *Saga) Execute(ctx context.Context) error {
	completed := make([]Step, 0, len(s.steps))
	for _, step := range s.steps {
		if err := step.Run(ctx); err != nil {
			s.rollback(ctx, completed)
			return fmt.Errorf("%s: %w", step.Name, err)
		}
		completed = append(completed, step)
	}
	return nil
}

func (s *Saga) rollback(ctx context.Context, completed []Step) {
	for i := len(completed) - 1; i >= 0; i-- {
		step := completed[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil && s.log != nil {
			s.log.Error("saga compensation failed, manual reconciliation required",
				zap.String("step", step.Name),
				zap.Error(err),
			)
		}
	}
}
