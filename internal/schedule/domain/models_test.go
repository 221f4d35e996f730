package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWindowHalfOpenBoundary(t *testing.T) {
	window := Window{StartMin: 9 * 60, EndMin: 17 * 60}

	assert.True(t, window.Contains(9*60), "opening minute is bookable")
	assert.True(t, window.Contains(16*60+59), "last minute before close is bookable")
	assert.False(t, window.Contains(17*60), "closing minute is not bookable")
	assert.False(t, window.Contains(8*60+59))
}

func TestWithinWindowsSplitShift(t *testing.T) {
	windows := []Window{
		{StartMin: 9 * 60, EndMin: 13 * 60},
		{StartMin: 16 * 60, EndMin: 20 * 60},
	}

	assert.True(t, WithinWindows(12*60+30, windows))
	assert.False(t, WithinWindows(14*60, windows))
	assert.True(t, WithinWindows(19*60+59, windows))
	assert.False(t, WithinWindows(20*60, windows))
}

func TestISOWeekday(t *testing.T) {
	monday := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, ISOWeekday(monday))

	sunday := time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 6, ISOWeekday(sunday))

	friday := time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 4, ISOWeekday(friday))
}

func TestParseClock(t *testing.T) {
	minutes, err := ParseClock("09:30")
	assert.NoError(t, err)
	assert.Equal(t, 570, minutes)

	minutes, err = ParseClock("17:00:00")
	assert.NoError(t, err)
	assert.Equal(t, 1020, minutes)

	_, err = ParseClock("24:00")
	assert.ErrorIs(t, err, ErrInvalidTime)

	_, err = ParseClock("ab:cd")
	assert.ErrorIs(t, err, ErrInvalidTime)

	_, err = ParseClock("9")
	assert.ErrorIs(t, err, ErrInvalidTime)
}

func TestParseWindowDropsMalformedAndInverted(t *testing.T) {
	window, ok := ParseWindow("09:00", "17:00")
	assert.True(t, ok)
	assert.Equal(t, Window{StartMin: 540, EndMin: 1020}, window)

	_, ok = ParseWindow("17:00", "09:00")
	assert.False(t, ok, "inverted pair is dropped")

	_, ok = ParseWindow("oops", "17:00")
	assert.False(t, ok)

	_, ok = ParseWindow("09:00", "09:00")
	assert.False(t, ok, "zero-length window is dropped")
}
