package domain

import "time"

// WaitlistStatus статус записи в листе ожидания
type WaitlistStatus string

const (
	WaitlistWaiting  WaitlistStatus = "waiting"
	WaitlistPromoted WaitlistStatus = "promoted"
	WaitlistExpired  WaitlistStatus = "expired"
)

// WaitlistEntry represents a customer waiting for a slot to free up.
// Entries are promoted in FIFO order when a cancellation frees capacity.
type WaitlistEntry struct {
	ID        int64
	UserID    int64
	SalonID   int64
	ServiceID int64

	// ResourceID nil означает "любой подходящий ресурс"
	ResourceID *int64

	WindowStart time.Time // Начало желаемого окна (дата)
	WindowEnd   time.Time // Конец желаемого окна (дата, включительно)

	Status    WaitlistStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MatchesResource reports whether the entry accepts the given resource.
func (e *WaitlistEntry) MatchesResource(resourceID int64) bool {
	return e.ResourceID == nil || *e.ResourceID == resourceID
}

// WindowContains reports whether the given date falls inside the
// entry's desired window (date precision, inclusive bounds).
func (e *WaitlistEntry) WindowContains(date time.Time) bool {
	d := truncateToDay(date)
	return !d.Before(truncateToDay(e.WindowStart)) && !d.After(truncateToDay(e.WindowEnd))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
