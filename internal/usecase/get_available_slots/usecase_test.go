package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kkosolapov/SPA-BookingService/internal/domain"
	resourcestore "github.com/kkosolapov/SPA-BookingService/internal/infra/storage/resource"
	servicestore "github.com/kkosolapov/SPA-BookingService/internal/infra/storage/service"
	"github.com/kkosolapov/SPA-BookingService/pkg/ptr"
	"github.com/kkosolapov/SPA-BookingService/pkg/types"
)

type stubLogger struct{}

func (stubLogger) Info(format string, v ...interface{})  {}
func (stubLogger) Warn(format string, v ...interface{})  {}
func (stubLogger) Error(format string, v ...interface{}) {}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type bookingRepoStub struct {
	bookings []*domain.Booking
}

func (s *bookingRepoStub) GetBySalonWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	return s.bookings, nil
}

type serviceRepoStub struct {
	service *domain.Service
}

func (s *serviceRepoStub) GetByID(ctx context.Context, salonID, serviceID int64) (*domain.Service, error) {
	if s.service == nil || s.service.ID != serviceID || s.service.SalonID != salonID {
		return nil, servicestore.ErrServiceNotFound
	}
	return s.service, nil
}

type resourceRepoStub struct {
	resources []*domain.Resource
}

func (s *resourceRepoStub) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	for _, r := range s.resources {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, resourcestore.ErrResourceNotFound
}

func (s *resourceRepoStub) GetBySalonID(ctx context.Context, salonID int64, onlyActive bool) ([]*domain.Resource, error) {
	result := make([]*domain.Resource, 0, len(s.resources))
	for _, r := range s.resources {
		if r.SalonID != salonID {
			continue
		}
		if onlyActive && !r.Active {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

type policyRepoStub struct {
	policy *domain.PolicyConfig
}

func (s *policyRepoStub) GetBySalonID(ctx context.Context, salonID int64) (*domain.PolicyConfig, error) {
	if s.policy == nil {
		return nil, assert.AnError
	}
	return s.policy, nil
}

func openAllWeek(open, close string) domain.WeekSchedule {
	day := domain.DaySchedule{IsOpen: true, OpenTime: ptr.Ptr(open), CloseTime: ptr.Ptr(close)}
	return domain.WeekSchedule{
		Monday: day, Tuesday: day, Wednesday: day, Thursday: day,
		Friday: day, Saturday: day, Sunday: day,
	}
}

func slotsPolicy() *domain.PolicyConfig {
	return &domain.PolicyConfig{
		SalonID:                1,
		SlotGranularityMinutes: 30,
		DefaultDurationMinutes: 60,
		DefaultBufferMinutes:   0,
		MinAdvanceBookingHours: 2,
		MaxAdvanceBookingDays:  90,
		AllowSameDay:           true,
	}
}

func slotsService(resourceIDs ...int64) *domain.Service {
	return &domain.Service{
		ID:                  10,
		SalonID:             1,
		Name:                "Massage",
		DurationMinutes:     60,
		BasePrice:           3000,
		BufferBeforeMinutes: ptr.Ptr(0),
		BufferAfterMinutes:  ptr.Ptr(0),
		ResourceIDs:         resourceIDs,
		Active:              true,
	}
}

func slotsResource(id int64, open, close string) *domain.Resource {
	return &domain.Resource{
		ID:           id,
		SalonID:      1,
		Kind:         domain.ResourceStaff,
		Name:         "Master",
		WorkingHours: openAllWeek(open, close),
		Active:       true,
	}
}

func newTestUseCase(
	bookings []*domain.Booking,
	service *domain.Service,
	resources []*domain.Resource,
	policy *domain.PolicyConfig,
	now time.Time,
) *UseCase {
	uc := NewUseCase(
		&bookingRepoStub{bookings: bookings},
		&serviceRepoStub{service: service},
		&resourceRepoStub{resources: resources},
		&policyRepoStub{policy: policy},
		stubLogger{},
	)
	uc.timeProvider = fixedClock{now: now}
	return uc
}

func startTimes(slots []Slot) []string {
	times := make([]string, len(slots))
	for i, s := range slots {
		times[i] = s.StartTime.String()
	}
	return times
}

func TestExecute_GeneratesGridWithinWorkingHours(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		nil,
		slotsService(1),
		[]*domain.Resource{slotsResource(1, "10:00", "13:00")},
		slotsPolicy(),
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{SalonID: 1, ServiceID: 10, StartDate: date})
	require.NoError(t, err)

	// Последний слот заканчивается ровно в закрытие
	assert.Equal(t, []string{"10:00", "10:30", "11:00", "11:30", "12:00"}, startTimes(resp.Slots))
	for _, s := range resp.Slots {
		assert.Equal(t, int64(1), s.ResourceID)
		assert.Equal(t, 60, s.DurationMinutes)
	}
}

func TestExecute_BusySlotExcludedBoundaryTouchAllowed(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	booking := &domain.Booking{
		ID:              100,
		ResourceID:      1,
		BookingDate:     date,
		StartTime:       types.TimeString("11:00"),
		DurationMinutes: 60,
		Status:          domain.StatusConfirmed,
	}

	uc := newTestUseCase(
		[]*domain.Booking{booking},
		slotsService(1),
		[]*domain.Resource{slotsResource(1, "10:00", "13:00")},
		slotsPolicy(),
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{SalonID: 1, ServiceID: 10, StartDate: date})
	require.NoError(t, err)

	// 10:00 заканчивается ровно в начале занятого интервала, 12:00 начинается
	// ровно в его конце: граничное касание пересечением не считается
	assert.Equal(t, []string{"10:00", "12:00"}, startTimes(resp.Slots))
}

func TestExecute_BookingBuffersPadBusyInterval(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	booking := &domain.Booking{
		ID:                  100,
		ResourceID:          1,
		BookingDate:         date,
		StartTime:           types.TimeString("11:00"),
		DurationMinutes:     60,
		BufferBeforeMinutes: 15,
		BufferAfterMinutes:  15,
		Status:              domain.StatusConfirmed,
	}

	uc := newTestUseCase(
		[]*domain.Booking{booking},
		slotsService(1),
		[]*domain.Resource{slotsResource(1, "09:00", "14:00")},
		slotsPolicy(),
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{SalonID: 1, ServiceID: 10, StartDate: date})
	require.NoError(t, err)

	// Занято 10:45-12:15: слоты, задевающие буферы, исключены
	assert.Equal(t, []string{"09:00", "09:30", "12:30", "13:00"}, startTimes(resp.Slots))
}

func TestExecute_CancelledBookingDoesNotBlockSlot(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	booking := &domain.Booking{
		ID:              100,
		ResourceID:      1,
		BookingDate:     date,
		StartTime:       types.TimeString("11:00"),
		DurationMinutes: 60,
		Status:          domain.StatusCancelled,
	}

	uc := newTestUseCase(
		[]*domain.Booking{booking},
		slotsService(1),
		[]*domain.Resource{slotsResource(1, "10:00", "13:00")},
		slotsPolicy(),
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{SalonID: 1, ServiceID: 10, StartDate: date})
	require.NoError(t, err)

	assert.Equal(t, []string{"10:00", "10:30", "11:00", "11:30", "12:00"}, startTimes(resp.Slots))
}

func TestExecute_MinAdvanceCutsSameDaySlots(t *testing.T) {
	// 09:30 текущего дня, минимум 2 часа до начала: доступны слоты с 11:30
	now := time.Date(2026, 9, 10, 9, 30, 0, 0, time.UTC)
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		nil,
		slotsService(1),
		[]*domain.Resource{slotsResource(1, "09:00", "14:00")},
		slotsPolicy(),
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{SalonID: 1, ServiceID: 10, StartDate: date})
	require.NoError(t, err)

	assert.Equal(t, []string{"11:30", "12:00", "12:30", "13:00"}, startTimes(resp.Slots))
}

func TestExecute_SameDayDisabledYieldsNoSlots(t *testing.T) {
	now := time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	policy := slotsPolicy()
	policy.AllowSameDay = false

	uc := newTestUseCase(
		nil,
		slotsService(1),
		[]*domain.Resource{slotsResource(1, "09:00", "14:00")},
		policy,
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{SalonID: 1, ServiceID: 10, StartDate: date})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_DateBeyondAdvanceLimitYieldsNoSlots(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	date := now.AddDate(0, 0, 91)

	uc := newTestUseCase(
		nil,
		slotsService(1),
		[]*domain.Resource{slotsResource(1, "09:00", "14:00")},
		slotsPolicy(),
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{SalonID: 1, ServiceID: 10, StartDate: date})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_SortsAndMergesAcrossResources(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	resources := []*domain.Resource{
		slotsResource(2, "10:00", "12:00"),
		slotsResource(1, "10:00", "12:00"),
	}

	uc := newTestUseCase(nil, slotsService(1, 2), resources, slotsPolicy(), now)

	resp, err := uc.Execute(context.Background(), &Request{SalonID: 1, ServiceID: 10, StartDate: date})
	require.NoError(t, err)

	// Без merge: оба ресурса, сортировка по времени, затем по resourceID
	require.Len(t, resp.Slots, 6)
	assert.Equal(t, int64(1), resp.Slots[0].ResourceID)
	assert.Equal(t, int64(2), resp.Slots[1].ResourceID)
	assert.Equal(t, resp.Slots[0].StartTime, resp.Slots[1].StartTime)

	merged, err := uc.Execute(context.Background(), &Request{SalonID: 1, ServiceID: 10, StartDate: date, Merge: true})
	require.NoError(t, err)

	// С merge остается один слот на каждое время, с минимальным resourceID
	assert.Equal(t, []string{"10:00", "10:30", "11:00"}, startTimes(merged.Slots))
	for _, s := range merged.Slots {
		assert.Equal(t, int64(1), s.ResourceID)
	}
}

func TestExecute_MultiDayRangeSkipsDisallowedDates(t *testing.T) {
	now := time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)

	policy := slotsPolicy()
	policy.AllowSameDay = false

	uc := newTestUseCase(
		nil,
		slotsService(1),
		[]*domain.Resource{slotsResource(1, "10:00", "12:00")},
		policy,
		now,
	)

	// Период: вчера, сегодня, завтра. Слоты есть только на завтра.
	resp, err := uc.Execute(context.Background(), &Request{
		SalonID:   1,
		ServiceID: 10,
		StartDate: now.AddDate(0, 0, -1),
		EndDate:   now.AddDate(0, 0, 1),
	})
	require.NoError(t, err)

	require.NotEmpty(t, resp.Slots)
	tomorrow := time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC)
	for _, s := range resp.Slots {
		assert.True(t, s.Date.Equal(tomorrow))
	}
}

func TestExecute_ResourceErrors(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	resources := []*domain.Resource{
		slotsResource(1, "10:00", "12:00"),
		slotsResource(2, "10:00", "12:00"),
	}

	uc := newTestUseCase(nil, slotsService(1), resources, slotsPolicy(), now)

	// Ресурс существует, но услуга на нем недоступна
	_, err := uc.Execute(context.Background(), &Request{
		SalonID: 1, ServiceID: 10, StartDate: date, ResourceID: ptr.Ptr(int64(2)),
	})
	assert.ErrorIs(t, err, ErrResourceNotEligible)

	// Ресурс не существует
	_, err = uc.Execute(context.Background(), &Request{
		SalonID: 1, ServiceID: 10, StartDate: date, ResourceID: ptr.Ptr(int64(99)),
	})
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestExecute_InactiveServiceNotFound(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	service := slotsService(1)
	service.Active = false

	uc := newTestUseCase(nil, service, []*domain.Resource{slotsResource(1, "10:00", "12:00")}, slotsPolicy(), now)

	_, err := uc.Execute(context.Background(), &Request{SalonID: 1, ServiceID: 10, StartDate: date})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_RangeTooLongRejected(t *testing.T) {
	now := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	start := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	uc := newTestUseCase(nil, slotsService(1), []*domain.Resource{slotsResource(1, "10:00", "12:00")}, slotsPolicy(), now)

	_, err := uc.Execute(context.Background(), &Request{
		SalonID:   1,
		ServiceID: 10,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 40),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
