package domain

import "time"

// Service represents a bookable salon service. Read-only reference data
// for slot computation and booking creation.
type Service struct {
	ID              int64
	SalonID         int64
	Name            string
	DurationMinutes int
	BasePrice       float64

	// Буферы до/после процедуры. nil означает "использовать дефолт из PolicyConfig".
	BufferBeforeMinutes *int
	BufferAfterMinutes  *int

	// Ресурсы, на которых доступна услуга
	ResourceIDs []int64

	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AvailableOnResource reports whether the service can be performed
// by the given resource.
func (s *Service) AvailableOnResource(resourceID int64) bool {
	for _, id := range s.ResourceIDs {
		if id == resourceID {
			return true
		}
	}
	return false
}

// BufferBefore returns the pre-service buffer, falling back to the
// policy default when the service has no override.
func (s *Service) BufferBefore(defaultMinutes int) int {
	if s.BufferBeforeMinutes != nil {
		return *s.BufferBeforeMinutes
	}
	return defaultMinutes
}

// BufferAfter returns the post-service buffer, falling back to the
// policy default when the service has no override.
func (s *Service) BufferAfter(defaultMinutes int) int {
	if s.BufferAfterMinutes != nil {
		return *s.BufferAfterMinutes
	}
	return defaultMinutes
}
