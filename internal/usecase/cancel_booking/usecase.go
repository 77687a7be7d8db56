package cancel_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/kkosolapov/SPA-BookingService/internal/domain"
	bookingRepo "github.com/kkosolapov/SPA-BookingService/internal/infra/storage/booking"
	policyRepo "github.com/kkosolapov/SPA-BookingService/internal/infra/storage/policy"
)

// UseCase use case для отмены бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	waitlistRepo WaitlistRepository
	serviceRepo  ServiceRepository
	policyRepo   PolicyRepository
	txManager    TransactionManager
	payments     PaymentsClient
	notifier     Notifier
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	waitlistRepo WaitlistRepository,
	serviceRepo ServiceRepository,
	policyRepo PolicyRepository,
	txManager TransactionManager,
	payments PaymentsClient,
	notifier Notifier,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		waitlistRepo: waitlistRepo,
		serviceRepo:  serviceRepo,
		policyRepo:   policyRepo,
		txManager:    txManager,
		payments:     payments,
		notifier:     notifier,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет отмену бронирования.
// Отмена и продвижение листа ожидания выполняются в одной сериализуемой
// транзакции: освободившийся интервал достается ровно одной записи FIFO.
// Возврат депозита и события публикуются после коммита.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: booking=%d, actor=%d, byManager=%v", req.BookingID, req.ActorID, req.ByManager)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	var (
		cancelled *domain.Booking
		outcome   domain.CancellationOutcome
		promoted  *domain.WaitlistEntry
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Получаем бронирование
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("CancelBooking: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("CancelBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		// 2. Проверка доступа: владелец или менеджер салона
		if !req.ByManager && booking.UserID != req.ActorID {
			uc.logger.Warn("CancelBooking: actor id=%d is not the owner of booking id=%d", req.ActorID, req.BookingID)
			return ErrAccessDenied
		}

		// 3. Машина статусов: отменяются только pending и confirmed
		if !booking.CanBeCancelled() {
			uc.logger.Warn("CancelBooking: booking id=%d in status %s cannot be cancelled", req.BookingID, booking.Status)
			return ErrInvalidTransition
		}

		// 4. Политика салона для расчета штрафа
		policy, err := uc.policyRepo.GetBySalonID(txCtx, booking.SalonID)
		if err != nil {
			if !errors.Is(err, policyRepo.ErrPolicyNotFound) {
				uc.logger.Error("CancelBooking: failed to get policy for salon id=%d: %v", booking.SalonID, err)
				return fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
			}
			policy = domain.DefaultPolicyConfig(booking.SalonID)
		}

		// 5. Расчет штрафа; отмена по инициативе салона всегда без штрафа
		if req.ByManager {
			outcome = domain.CompanyCancellationOutcome(booking)
		} else {
			outcome = domain.EvaluateCancellation(booking, now, policy)
		}

		reason := ""
		if req.Reason != nil {
			reason = *req.Reason
		}

		// 6. Помечаем бронирование отмененным с аудитом расчета
		if err := uc.bookingRepo.Cancel(txCtx, booking.ID, reason, outcome, now); err != nil {
			uc.logger.Error("CancelBooking: failed to cancel booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to cancel booking: %v", ErrInternal, err)
		}

		// 7. Обновляем платёжный статус оплаченного депозита
		if booking.PaymentStatus == domain.PaymentDepositPaid {
			paymentStatus := domain.PaymentForfeited
			if refundableAmount(booking, outcome) > 0 {
				paymentStatus = domain.PaymentRefunded
			}
			if err := uc.bookingRepo.UpdatePaymentStatus(txCtx, booking.ID, paymentStatus); err != nil {
				uc.logger.Error("CancelBooking: failed to update payment status for booking id=%d: %v", booking.ID, err)
				return fmt.Errorf("%w: failed to update payment status: %v", ErrInternal, err)
			}
		}

		// 8. Продвижение листа ожидания: ровно одна запись на освободившийся интервал
		if policy.WaitlistEnabled {
			promoted, err = uc.promoteWaitlist(txCtx, booking, policy)
			if err != nil {
				return err
			}
		}

		cancelled = booking
		return nil
	})

	if err != nil {
		return nil, err
	}

	// 9. Возврат депозита после коммита
	uc.refundDeposit(ctx, cancelled, outcome)

	// 10. События публикуются после коммита; ошибки брокера не влияют на результат
	uc.notifier.BookingCancelled(ctx, cancelled, outcome)
	if promoted != nil {
		uc.notifier.WaitlistPromoted(ctx, promoted, cancelled.BookingDate.Format(domain.DateFormat))
	}

	uc.logger.Info("CancelBooking: booking id=%d cancelled, code=%s, fee=%.2f", cancelled.ID, outcome.ReasonCode, outcome.FeeAmount)

	return toResponse(cancelled, outcome, now, promoted), nil
}

// refundDeposit возвращает депозит через платёжный шлюз.
// Возвращается депозит за вычетом штрафа, не более списанной суммы.
func (uc *UseCase) refundDeposit(ctx context.Context, booking *domain.Booking, outcome domain.CancellationOutcome) {
	amount := refundableAmount(booking, outcome)
	if amount <= 0 || booking.PaymentRef == nil || !uc.payments.Enabled() {
		return
	}

	if err := uc.payments.Refund(ctx, *booking.PaymentRef, amount); err != nil {
		// Отмена уже зафиксирована; возврат придется повторить вручную
		uc.logger.Error("CancelBooking: failed to refund %.2f for booking id=%d payment=%s: %v",
			amount, booking.ID, *booking.PaymentRef, err)
		return
	}

	uc.logger.Info("CancelBooking: refunded %.2f for booking id=%d", amount, booking.ID)
}

// refundableAmount сумма возврата по депозиту: депозит минус штраф, не меньше нуля
func refundableAmount(booking *domain.Booking, outcome domain.CancellationOutcome) float64 {
	if booking.PaymentStatus != domain.PaymentDepositPaid {
		return 0
	}
	amount := booking.DepositAmount - outcome.FeeAmount
	if amount < 0 {
		return 0
	}
	return amount
}
