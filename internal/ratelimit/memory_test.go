package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/smallbiznis/bookline/internal/clock"
	"github.com/stretchr/testify/assert"
)

func testPreset() Preset {
	return Preset{Name: "standard", Window: time.Minute, Max: 5}
}

func TestMemoryLimiterCeiling(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC))
	limiter := NewMemoryLimiter(clk)
	preset := testPreset()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		result, err := limiter.Check(ctx, "k", preset)
		assert.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.Equal(t, 4-i, result.Remaining)
	}

	// 6th request is rejected and saturates the counter at max+1.
	result, err := limiter.Check(ctx, "k", preset)
	assert.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, 6, limiter.windows["k"].count)

	// Further rejections do not inflate the counter.
	for i := 0; i < 3; i++ {
		result, err = limiter.Check(ctx, "k", preset)
		assert.NoError(t, err)
		assert.False(t, result.Allowed)
	}
	assert.Equal(t, 6, limiter.windows["k"].count)
}

func TestMemoryLimiterWindowReset(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC))
	limiter := NewMemoryLimiter(clk)
	preset := testPreset()
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		_, err := limiter.Check(ctx, "k", preset)
		assert.NoError(t, err)
	}

	clk.Advance(preset.Window)

	result, err := limiter.Check(ctx, "k", preset)
	assert.NoError(t, err)
	assert.True(t, result.Allowed, "new window admits again")
	assert.Equal(t, 1, limiter.windows["k"].count, "count resets to 1")
	assert.Equal(t, clk.Now().Add(preset.Window), result.ResetAt)
}

func TestMemoryLimiterKeysAreIndependent(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC))
	limiter := NewMemoryLimiter(clk)
	preset := testPreset()
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		_, err := limiter.Check(ctx, Key("1.2.3.4", "100", "standard"), preset)
		assert.NoError(t, err)
	}

	// Same IP, different tenant: not throttled.
	result, err := limiter.Check(ctx, Key("1.2.3.4", "200", "standard"), preset)
	assert.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestMemoryLimiterConcurrentAccess(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC))
	limiter := NewMemoryLimiter(clk)
	preset := Preset{Name: "standard", Window: time.Minute, Max: 50}
	ctx := context.Background()

	var wg sync.WaitGroup
	allowed := make([]bool, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := limiter.Check(ctx, "k", preset)
			assert.NoError(t, err)
			allowed[i] = result.Allowed
		}(i)
	}
	wg.Wait()

	granted := 0
	for _, ok := range allowed {
		if ok {
			granted++
		}
	}
	assert.Equal(t, 50, granted, "ceiling holds under concurrency")
}

func TestMemoryLimiterRejectsInvalidInput(t *testing.T) {
	clk := clock.NewFakeClock(time.Now())
	limiter := NewMemoryLimiter(clk)

	_, err := limiter.Check(context.Background(), "", testPreset())
	assert.Error(t, err)

	_, err = limiter.Check(context.Background(), "k", Preset{Window: 0, Max: 5})
	assert.Error(t, err)
}

func TestKeyComposition(t *testing.T) {
	assert.Equal(t, "1.2.3.4:42:payments", Key("1.2.3.4", "42", "payments"))
	assert.Equal(t, "1.2.3.4:42", Key(" 1.2.3.4 ", "42", " "))
}
