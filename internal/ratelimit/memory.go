package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/smallbiznis/bookline/internal/clock"
)

type windowState struct {
	windowStart time.Time
	count       int
}

// MemoryLimiter is the in-process fixed-window store used when no shared
// redis is configured. A single mutex guards the counter map, so the
// read-and-increment is atomic under concurrent request workers.
type MemoryLimiter struct {
	mu      sync.Mutex
	clock   clock.Clock
	windows map[string]*windowState
}

func NewMemoryLimiter(clk clock.Clock) *MemoryLimiter {
	return &MemoryLimiter{
		clock:   clk,
		windows: make(map[string]*windowState),
	}
}

func (l *MemoryLimiter) Check(ctx context.Context, key string, preset Preset) (Result, error) {
	_ = ctx
	if key == "" {
		return Result{}, errors.New("rate limiter key is empty")
	}
	if preset.Window <= 0 || preset.Max <= 0 {
		return Result{}, errors.New("rate limiter preset must be positive")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	state, ok := l.windows[key]
	if !ok || now.Sub(state.windowStart) >= preset.Window {
		l.windows[key] = &windowState{windowStart: now, count: 1}
		return Result{
			Allowed:   true,
			Remaining: preset.Max - 1,
			ResetAt:   now.Add(preset.Window),
		}, nil
	}

	resetAt := state.windowStart.Add(preset.Window)
	if state.count >= preset.Max {
		// One increment past the ceiling marks the window as saturated;
		// rejected requests after that leave the counter alone.
		if state.count == preset.Max {
			state.count++
		}
		return Result{Allowed: false, Remaining: 0, ResetAt: resetAt}, nil
	}

	state.count++
	return Result{
		Allowed:   true,
		Remaining: preset.Max - state.count,
		ResetAt:   resetAt,
	}, nil
}
