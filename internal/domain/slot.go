package domain

import (
	"time"

	"github.com/kkosolapov/SPA-BookingService/pkg/types"
)

// AvailableSlot represents a candidate (resource, start-time) pair that
// satisfies duration, buffer and policy constraints.
type AvailableSlot struct {
	ResourceID      int64
	Date            time.Time
	StartTime       types.TimeString
	DurationMinutes int
}

// SameStart reports whether two slots start at the same moment
// (used when merging "any resource" results).
func (s AvailableSlot) SameStart(other AvailableSlot) bool {
	return s.Date.Equal(other.Date) && s.StartTime == other.StartTime
}
