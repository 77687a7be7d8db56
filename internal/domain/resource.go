package domain

import (
	"fmt"
	"time"
)

// ResourceKind вид ресурса: мастер или кабинет
type ResourceKind string

const (
	ResourceStaff ResourceKind = "staff"
	ResourceRoom  ResourceKind = "room"
)

// ParseResourceKind validates a raw resource kind string.
func ParseResourceKind(s string) (ResourceKind, error) {
	switch ResourceKind(s) {
	case ResourceStaff, ResourceRoom:
		return ResourceKind(s), nil
	default:
		return "", fmt.Errorf("unknown resource kind: %q", s)
	}
}

// DaySchedule расписание работы ресурса на один день недели
type DaySchedule struct {
	IsOpen    bool    `json:"isOpen"`
	OpenTime  *string `json:"openTime,omitempty"`  // "HH:MM"
	CloseTime *string `json:"closeTime,omitempty"` // "HH:MM"
}

// WeekSchedule расписание работы ресурса по дням недели
type WeekSchedule struct {
	Monday    DaySchedule `json:"monday"`
	Tuesday   DaySchedule `json:"tuesday"`
	Wednesday DaySchedule `json:"wednesday"`
	Thursday  DaySchedule `json:"thursday"`
	Friday    DaySchedule `json:"friday"`
	Saturday  DaySchedule `json:"saturday"`
	Sunday    DaySchedule `json:"sunday"`
}

// ForDay returns the schedule for the given weekday.
func (w WeekSchedule) ForDay(day time.Weekday) DaySchedule {
	switch day {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	case time.Sunday:
		return w.Sunday
	default:
		return DaySchedule{IsOpen: false}
	}
}

// Resource represents a bookable salon resource: a staff member or a room.
// The resource calendar (busy intervals) is derived from active bookings
// and is written only through booking transitions.
type Resource struct {
	ID           int64
	SalonID      int64
	Kind         ResourceKind
	Name         string
	WorkingHours WeekSchedule
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// WorksOn reports whether the resource has open hours on the given date.
func (r *Resource) WorksOn(date time.Time) bool {
	day := r.WorkingHours.ForDay(date.Weekday())
	return day.IsOpen && day.OpenTime != nil && day.CloseTime != nil
}
