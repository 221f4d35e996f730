package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// SourceKind tags which configuration layer decided a date's openness.
// Exactly one layer is authoritative per date; layers are never merged.
type SourceKind string

const (
	SourceOverride    SourceKind = "override"
	SourceWeeklySlots SourceKind = "weekly_slots"
	SourceLegacyRange SourceKind = "legacy_range"
	SourceClosed      SourceKind = "closed"
)

// DaySchedule is the resolved availability for one tenant and date.
type DaySchedule struct {
	Source  SourceKind
	Windows []Window
}

type Service interface {
	// OpenWindows resolves the open windows for a tenant and an ISO date
	// ("2006-01-02"), walking override, weekly slot table, then legacy range.
	OpenWindows(ctx context.Context, tenantID snowflake.ID, date string) (DaySchedule, error)
}
