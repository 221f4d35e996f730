package domain

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Window is a half-open interval [StartMin, EndMin) in minutes from midnight.
// A request exactly at EndMin is not inside the window: nothing can be booked
// at the moment the tenant closes.
type Window struct {
	StartMin int `json:"start_min"`
	EndMin   int `json:"end_min"`
}

// Contains tests start <= minute < end.
func (w Window) Contains(minute int) bool {
	return minute >= w.StartMin && minute < w.EndMin
}

// WithinWindows reports whether any window contains the minute.
func WithinWindows(minute int, windows []Window) bool {
	for _, w := range windows {
		if w.Contains(minute) {
			return true
		}
	}
	return false
}

// SpecialDay is an explicit per-date exception: a closure, or custom hours
// that replace the weekly schedule entirely for that date.
type SpecialDay struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID  snowflake.ID `gorm:"not null;index:idx_special_day,unique" json:"tenant_id"`
	Date      string       `gorm:"not null;index:idx_special_day,unique" json:"date"`
	IsOpen    bool         `gorm:"not null" json:"is_open"`
	OpenTime  string       `json:"open_time,omitempty"`
	CloseTime string       `json:"close_time,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (SpecialDay) TableName() string {
	return "special_days"
}

// SpecialDaySlot is one explicit window attached to an open special day.
type SpecialDaySlot struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	SpecialDayID snowflake.ID `gorm:"not null;index" json:"special_day_id"`
	StartTime    string       `gorm:"not null" json:"start_time"`
	EndTime      string       `gorm:"not null" json:"end_time"`
	SortOrder    int          `gorm:"not null;default:0" json:"sort_order"`
}

func (SpecialDaySlot) TableName() string {
	return "special_day_slots"
}

// WeeklySlot is one window of the weekly slot table; a weekday may carry
// several rows (split shifts).
type WeeklySlot struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID  snowflake.ID `gorm:"not null;index" json:"tenant_id"`
	Weekday   int          `gorm:"not null" json:"weekday"`
	StartTime string       `gorm:"not null" json:"start_time"`
	EndTime   string       `gorm:"not null" json:"end_time"`
	SortOrder int          `gorm:"not null;default:0" json:"sort_order"`
	IsActive  bool         `gorm:"not null" json:"is_active"`
}

func (WeeklySlot) TableName() string {
	return "weekly_slots"
}

// WeeklyHours is the legacy single open/close pair per weekday, consulted only
// when a weekday has no slot rows.
type WeeklyHours struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	TenantID  snowflake.ID `gorm:"not null;index:idx_weekly_hours,unique" json:"tenant_id"`
	Weekday   int          `gorm:"not null;index:idx_weekly_hours,unique" json:"weekday"`
	IsOpen    bool         `gorm:"not null" json:"is_open"`
	OpenTime  string       `json:"open_time,omitempty"`
	CloseTime string       `json:"close_time,omitempty"`
}

func (WeeklyHours) TableName() string {
	return "weekly_hours"
}

const DateLayout = "2006-01-02"

var (
	ErrInvalidDate = errors.New("invalid_date")
	ErrInvalidTime = errors.New("invalid_time")
)

// ISOWeekday maps a calendar date to Monday=0 .. Sunday=6.
func ISOWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// ParseClock converts "HH:MM" or "HH:MM:SS" to minutes since midnight.
func ParseClock(value string) (int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) < 2 {
		return 0, ErrInvalidTime
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, ErrInvalidTime
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, ErrInvalidTime
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, ErrInvalidTime
	}
	return hour*60 + minute, nil
}

// ParseWindow builds a window from two clock strings. Malformed or inverted
// pairs are dropped by callers, never fatal.
func ParseWindow(start, end string) (Window, bool) {
	startMin, err := ParseClock(start)
	if err != nil {
		return Window{}, false
	}
	endMin, err := ParseClock(end)
	if err != nil {
		return Window{}, false
	}
	if startMin >= endMin {
		return Window{}, false
	}
	return Window{StartMin: startMin, EndMin: endMin}, true
}
