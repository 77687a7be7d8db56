package create_booking

import (
	"fmt"
	"time"

	"github.com/kkosolapov/SPA-BookingService/internal/domain"
	"github.com/kkosolapov/SPA-BookingService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID < 0 {
		return fmt.Errorf("%w: userID must not be negative", ErrInvalidInput)
	}

	// Гостевое бронирование (UserID = 0) требует контакт
	if req.UserID == 0 && (req.GuestContact == nil || *req.GuestContact == "") {
		return fmt.Errorf("%w: guest booking requires a contact", ErrInvalidInput)
	}

	if req.SalonID <= 0 {
		return fmt.Errorf("%w: salonID must be positive", ErrInvalidInput)
	}

	if req.ResourceID <= 0 {
		return fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	return nil
}

// validateDate проверяет дату бронирования против политики салона
func validateDate(bookingDate time.Time, now time.Time, policy *domain.PolicyConfig) error {
	if isDateInPast(bookingDate, now) {
		return ErrInvalidDate
	}

	if !policy.AllowSameDay && isSameDay(bookingDate, now) {
		return ErrSameDayNotAllowed
	}

	if policy.HasAdvanceBookingLimit() {
		maxDate := truncateToDay(now).AddDate(0, 0, policy.MaxAdvanceBookingDays)
		if truncateToDay(bookingDate).After(maxDate) {
			return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, policy.MaxAdvanceBookingDays)
		}
	}

	return nil
}

// validateBookingTime проверяет minAdvanceBookingHours по полным меткам
// времени (дата + время начала), а не по календарным дням
func validateBookingTime(
	bookingDate time.Time,
	startTime types.TimeString,
	now time.Time,
	minAdvanceHours int,
) error {
	startAt, err := startTime.At(bookingDate)
	if err != nil {
		return fmt.Errorf("%w: failed to combine date and time: %v", ErrInternal, err)
	}

	if startAt.Sub(now) < time.Duration(minAdvanceHours)*time.Hour {
		return fmt.Errorf("%w: must book at least %d hours in advance", ErrTooLateToBook, minAdvanceHours)
	}

	return nil
}

// validateTimeSlot проверяет, что слот лежит внутри рабочих часов ресурса
// и выровнен по сетке granularity от времени открытия
func validateTimeSlot(
	resource *domain.Resource,
	date time.Time,
	startTime types.TimeString,
	durationMinutes int,
	granularityMinutes int,
) error {
	day := resource.WorkingHours.ForDay(date.Weekday())
	if !day.IsOpen || day.OpenTime == nil || day.CloseTime == nil {
		return ErrResourceClosed
	}

	openTime, err := types.NewTimeStringFromString(*day.OpenTime)
	if err != nil {
		return fmt.Errorf("%w: invalid open time: %v", ErrInternal, err)
	}
	closeTime, err := types.NewTimeStringFromString(*day.CloseTime)
	if err != nil {
		return fmt.Errorf("%w: invalid close time: %v", ErrInternal, err)
	}

	openMin, err := openTime.MinutesSinceMidnight()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	closeMin, err := closeTime.MinutesSinceMidnight()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	startMin, err := startTime.MinutesSinceMidnight()
	if err != nil {
		return fmt.Errorf("%w: invalid start time: %v", ErrInvalidInput, err)
	}

	if startMin < openMin || startMin+durationMinutes > closeMin {
		return fmt.Errorf("%w: slot is outside working hours %s-%s", ErrInvalidTimeSlot, openTime, closeTime)
	}

	if granularityMinutes > 0 && (startMin-openMin)%granularityMinutes != 0 {
		return fmt.Errorf("%w: start time is not aligned to %d-minute grid", ErrInvalidTimeSlot, granularityMinutes)
	}

	return nil
}

// hasOverlap проверяет пересечение кандидата с активными бронированиями.
// Оба интервала расширяются буферами; строгие неравенства, граничные
// случаи пересечением не считаются.
func hasOverlap(
	startTime types.TimeString,
	durationMinutes int,
	bufferBefore int,
	bufferAfter int,
	bookings []*domain.Booking,
) (bool, error) {
	startMin, err := startTime.MinutesSinceMidnight()
	if err != nil {
		return false, err
	}

	candidateStart := startMin - bufferBefore
	candidateEnd := startMin + durationMinutes + bufferAfter

	for _, booking := range bookings {
		if !booking.IsActive() {
			continue
		}

		bookingStartMin, err := booking.StartTime.MinutesSinceMidnight()
		if err != nil {
			continue
		}

		bookingStart := bookingStartMin - booking.BufferBeforeMinutes
		bookingEnd := bookingStartMin + booking.DurationMinutes + booking.BufferAfterMinutes

		if bookingStart < candidateEnd && bookingEnd > candidateStart {
			return true, nil
		}
	}

	return false, nil
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	return truncateToDay(date).Before(truncateToDay(now))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
