package cancel_booking

import (
	"context"
	"fmt"

	"github.com/kkosolapov/SPA-BookingService/internal/domain"
)

// promoteWaitlist продвигает первую подходящую запись листа ожидания (FIFO)
// на интервал, освободившийся после отмены. Запись подходит, если дата попадает
// в ее окно ожидания, ресурс совпадает (или "любой"), услуга доступна на ресурсе
// и ее длительность с буферами помещается в освободившийся интервал.
// Продвигается не более одной записи.
func (uc *UseCase) promoteWaitlist(ctx context.Context, freed *domain.Booking, policy *domain.PolicyConfig) (*domain.WaitlistEntry, error) {
	entries, err := uc.waitlistRepo.GetWaitingBySalon(ctx, freed.SalonID)
	if err != nil {
		uc.logger.Error("CancelBooking: failed to get waitlist for salon id=%d: %v", freed.SalonID, err)
		return nil, fmt.Errorf("%w: failed to get waitlist: %v", ErrInternal, err)
	}
	if len(entries) == 0 {
		return nil, nil
	}

	freedStartMin, err := freed.StartTime.MinutesSinceMidnight()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid freed start time: %v", ErrInternal, err)
	}

	// Освободившийся интервал с буферами отмененного бронирования
	freedStart := freedStartMin - freed.BufferBeforeMinutes
	freedEnd := freedStartMin + freed.DurationMinutes + freed.BufferAfterMinutes

	for _, entry := range entries {
		if !entry.WindowContains(freed.BookingDate) || !entry.MatchesResource(freed.ResourceID) {
			continue
		}

		service, err := uc.serviceRepo.GetByID(ctx, freed.SalonID, entry.ServiceID)
		if err != nil || !service.Active || !service.AvailableOnResource(freed.ResourceID) {
			continue
		}

		duration := service.DurationMinutes
		if duration <= 0 {
			duration = policy.DefaultDurationMinutes
		}
		bufferBefore := service.BufferBefore(policy.DefaultBufferMinutes)
		bufferAfter := service.BufferAfter(policy.DefaultBufferMinutes)

		// Новое бронирование встает на место отмененного; его интервал
		// с буферами должен помещаться в освободившийся
		if freedStartMin-bufferBefore < freedStart || freedStartMin+duration+bufferAfter > freedEnd {
			continue
		}

		booking := &domain.Booking{
			UserID:              entry.UserID,
			SalonID:             freed.SalonID,
			ResourceID:          freed.ResourceID,
			ServiceID:           entry.ServiceID,
			BookingDate:         freed.BookingDate,
			StartTime:           freed.StartTime,
			DurationMinutes:     duration,
			BufferBeforeMinutes: bufferBefore,
			BufferAfterMinutes:  bufferAfter,
			Status:              domain.StatusPending,
			PaymentStatus:       domain.PaymentNone,
			TotalAmount:         service.BasePrice,
			ServiceName:         service.Name,
		}

		if _, err := uc.bookingRepo.Create(ctx, booking); err != nil {
			uc.logger.Error("CancelBooking: failed to create promoted booking for entry id=%d: %v", entry.ID, err)
			return nil, fmt.Errorf("%w: failed to create promoted booking: %v", ErrInternal, err)
		}

		if err := uc.waitlistRepo.UpdateStatus(ctx, entry.ID, domain.WaitlistPromoted); err != nil {
			uc.logger.Error("CancelBooking: failed to mark entry id=%d promoted: %v", entry.ID, err)
			return nil, fmt.Errorf("%w: failed to mark waitlist entry promoted: %v", ErrInternal, err)
		}

		uc.logger.Info("CancelBooking: promoted waitlist entry id=%d to %s %s on resource id=%d",
			entry.ID, freed.BookingDate.Format(domain.DateFormat), freed.StartTime, freed.ResourceID)

		return entry, nil
	}

	return nil, nil
}
