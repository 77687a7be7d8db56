package get_available_slots

import (
	"time"

	"github.com/kkosolapov/SPA-BookingService/internal/domain"
	"github.com/kkosolapov/SPA-BookingService/pkg/types"
)

// interval полуинтервал в минутах от полуночи с учетом буферов
type interval struct {
	start int
	end   int
}

// overlaps проверяет РЕАЛЬНОЕ пересечение интервалов.
// Строгие неравенства: если интервалы граничат (конец одного равен началу
// другого), пересечения НЕТ.
func (i interval) overlaps(other interval) bool {
	return i.start < other.end && i.end > other.start
}

// dateAllowed проверяет, разрешена ли дата политикой салона.
// Запрещенные даты не являются ошибкой: по ним просто нет слотов.
func dateAllowed(date time.Time, now time.Time, policy *domain.PolicyConfig) bool {
	if isDateInPast(date, now) {
		return false
	}

	// Запись "день в день" может быть отключена политикой
	if !policy.AllowSameDay && isSameDay(date, now) {
		return false
	}

	if policy.HasAdvanceBookingLimit() {
		maxDate := truncateToDay(now).AddDate(0, 0, policy.MaxAdvanceBookingDays)
		if truncateToDay(date).After(maxDate) {
			return false
		}
	}

	return true
}

// generateResourceSlots генерирует доступные слоты одного ресурса на одну дату.
// Кандидаты идут от времени открытия с шагом granularity; кандидат допустим, если
// [start, start+duration] лежит внутри рабочих часов, интервал с буферами не
// пересекается ни с одним активным бронированием и до начала остается не меньше
// minAdvanceBookingHours (по полным меткам времени, а не по календарным дням).
func generateResourceSlots(
	resource *domain.Resource,
	date time.Time,
	now time.Time,
	policy *domain.PolicyConfig,
	durationMinutes int,
	bufferBefore int,
	bufferAfter int,
	bookings []*domain.Booking,
) ([]types.TimeString, error) {
	day := resource.WorkingHours.ForDay(date.Weekday())
	if !day.IsOpen || day.OpenTime == nil || day.CloseTime == nil {
		return []types.TimeString{}, nil
	}

	openTime, err := types.NewTimeStringFromString(*day.OpenTime)
	if err != nil {
		return nil, err
	}
	closeTime, err := types.NewTimeStringFromString(*day.CloseTime)
	if err != nil {
		return nil, err
	}

	openMin, err := openTime.MinutesSinceMidnight()
	if err != nil {
		return nil, err
	}
	closeMin, err := closeTime.MinutesSinceMidnight()
	if err != nil {
		return nil, err
	}

	busy, err := paddedBookingIntervals(resource.ID, date, bookings)
	if err != nil {
		return nil, err
	}

	minAdvance := time.Duration(policy.MinAdvanceBookingHours) * time.Hour

	slots := make([]types.TimeString, 0)

	for startMin := openMin; startMin+durationMinutes <= closeMin; startMin += policy.SlotGranularityMinutes {
		start, err := types.NewTimeStringFromMinutes(startMin)
		if err != nil {
			return nil, err
		}

		startAt, err := start.At(date)
		if err != nil {
			return nil, err
		}
		if startAt.Sub(now) < minAdvance {
			continue
		}

		// Интервал кандидата расширяется буферами с обеих сторон
		candidate := interval{
			start: startMin - bufferBefore,
			end:   startMin + durationMinutes + bufferAfter,
		}

		if overlapsAny(candidate, busy) {
			continue
		}

		slots = append(slots, start)
	}

	return slots, nil
}

// paddedBookingIntervals возвращает занятые интервалы ресурса на дату
// с учетом буферов каждого бронирования
func paddedBookingIntervals(resourceID int64, date time.Time, bookings []*domain.Booking) ([]interval, error) {
	intervals := make([]interval, 0)

	for _, b := range bookings {
		if b.ResourceID != resourceID || !b.IsActive() || !isSameDay(b.BookingDate, date) {
			continue
		}

		startMin, err := b.StartTime.MinutesSinceMidnight()
		if err != nil {
			return nil, err
		}

		intervals = append(intervals, interval{
			start: startMin - b.BufferBeforeMinutes,
			end:   startMin + b.DurationMinutes + b.BufferAfterMinutes,
		})
	}

	return intervals, nil
}

func overlapsAny(candidate interval, busy []interval) bool {
	for _, b := range busy {
		if candidate.overlaps(b) {
			return true
		}
	}
	return false
}

// mergeSlots схлопывает слоты с одинаковым началом, оставляя первый
// (с минимальным resourceID после сортировки)
func mergeSlots(slots []Slot) []Slot {
	merged := make([]Slot, 0, len(slots))

	for _, s := range slots {
		if len(merged) > 0 {
			last := merged[len(merged)-1]
			if last.Date.Equal(s.Date) && last.StartTime == s.StartTime {
				continue
			}
		}
		merged = append(merged, s)
	}

	return merged
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
