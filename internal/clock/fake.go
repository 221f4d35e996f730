package clock

import "time"

// FakeClock is a Clock frozen at a chosen instant. It never ticks on its own;
// tests move it explicitly with Advance.
type FakeClock struct {
	now time.Time
}

// NewFakeClock pins the clock to start, normalized to UTC.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start.UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.now
}

// Advance moves the frozen instant forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
