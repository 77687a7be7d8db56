package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/kkosolapov/SPA-BookingService/internal/domain"
	policyRepo "github.com/kkosolapov/SPA-BookingService/internal/infra/storage/policy"
	resourceRepo "github.com/kkosolapov/SPA-BookingService/internal/infra/storage/resource"
	serviceRepo "github.com/kkosolapov/SPA-BookingService/internal/infra/storage/service"
	"github.com/kkosolapov/SPA-BookingService/pkg/ptr"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	serviceRepo  ServiceRepository
	resourceRepo ResourceRepository
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
	serviceRepo ServiceRepository,
	resourceRepo ResourceRepository,
	policyRepo PolicyRepository,
	txManager TransactionManager,
	payments PaymentsClient,
	notifier Notifier,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		serviceRepo:  serviceRepo,
		resourceRepo: resourceRepo,
		policyRepo:   policyRepo,
		txManager:    txManager,
		payments:     payments,
		notifier:     notifier,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
// Проверка занятости и вставка выполняются в одной сериализуемой транзакции,
// чтобы при одновременных запросах на один интервал прошел ровно один.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, salon=%d, resource=%d, service=%d, date=%s, time=%s",
		req.UserID, req.SalonID, req.ResourceID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Получаем услугу
	service, err := uc.serviceRepo.GetByID(ctx, req.SalonID, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found in salon id=%d", req.ServiceID, req.SalonID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.Active {
		return nil, ErrServiceNotFound
	}

	// 3. Получаем ресурс и проверяем, что услуга на нем доступна
	resource, err := uc.resourceRepo.GetByID(ctx, req.ResourceID)
	if err != nil {
		if errors.Is(err, resourceRepo.ErrResourceNotFound) {
			uc.logger.Warn("CreateBooking: resource id=%d not found", req.ResourceID)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get resource id=%d: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}
	if resource.SalonID != req.SalonID || !resource.Active {
		return nil, ErrResourceNotFound
	}
	if !service.AvailableOnResource(resource.ID) {
		uc.logger.Warn("CreateBooking: service id=%d not available on resource id=%d", req.ServiceID, req.ResourceID)
		return nil, ErrResourceNotEligible
	}

	// 4. Получаем политику салона; при отсутствии используем дефолтную
	policy, err := uc.policyRepo.GetBySalonID(ctx, req.SalonID)
	if err != nil {
		if !errors.Is(err, policyRepo.ErrPolicyNotFound) {
			uc.logger.Error("CreateBooking: failed to get policy for salon id=%d: %v", req.SalonID, err)
			return nil, fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
		}
		policy = domain.DefaultPolicyConfig(req.SalonID)
		uc.logger.Info("CreateBooking: using default policy for salon=%d", req.SalonID)
	}

	// 5. Гостевое бронирование разрешено только политикой
	if req.UserID == 0 && !policy.GuestCheckoutEnabled {
		uc.logger.Warn("CreateBooking: guest checkout disabled for salon=%d", req.SalonID)
		return nil, ErrGuestCheckoutDisabled
	}

	// 6. Проверки окна бронирования по политике
	if err := validateDate(req.Date, now, policy); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}
	if err := validateBookingTime(req.Date, req.StartTime, now, policy.MinAdvanceBookingHours); err != nil {
		uc.logger.Warn("CreateBooking: booking time validation failed: %v", err)
		return nil, err
	}

	// 7. Параметры слота: длительность услуги и буферы
	duration := service.DurationMinutes
	if duration <= 0 {
		duration = policy.DefaultDurationMinutes
	}
	bufferBefore := service.BufferBefore(policy.DefaultBufferMinutes)
	bufferAfter := service.BufferAfter(policy.DefaultBufferMinutes)

	// 8. Слот должен лежать в рабочих часах ресурса и на сетке granularity
	if err := validateTimeSlot(resource, req.Date, req.StartTime, duration, policy.SlotGranularityMinutes); err != nil {
		uc.logger.Warn("CreateBooking: time slot validation failed: %v", err)
		return nil, err
	}

	totalAmount := service.BasePrice

	// 9. Списываем депозит до транзакции; при конфликте слота вернем деньги
	depositAmount := policy.DepositAmount(totalAmount)
	var paymentRef *string

	if depositAmount > 0 && uc.payments.Enabled() {
		ref, err := uc.payments.ChargeDeposit(ctx, uuid.NewString(), depositAmount)
		if err != nil {
			uc.logger.Error("CreateBooking: deposit charge failed: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrDepositFailed, err)
		}
		paymentRef = ptr.Ptr(ref)
		uc.logger.Info("CreateBooking: deposit %.2f charged, payment=%s", depositAmount, ref)
	} else if depositAmount > 0 {
		// Платежи не сконфигурированы: бронирование останется pending
		uc.logger.Warn("CreateBooking: deposit required but payments are disabled, booking stays pending")
		depositAmount = 0
	}

	// 10. Начальный статус: confirmed при оплаченном депозите, иначе pending.
	// Гостевые бронирования всегда начинаются с pending.
	status := domain.StatusPending
	paymentStatus := domain.PaymentNone
	if paymentRef != nil {
		paymentStatus = domain.PaymentDepositPaid
		if req.UserID != 0 {
			status = domain.StatusConfirmed
		}
	}

	var result *domain.Booking

	// 11. Проверка занятости и вставка в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 11.1. Активные бронирования ресурса на дату с блокировкой (FOR UPDATE)
		filter := domain.BookingsFilter{
			SalonID:         req.SalonID,
			ResourceID:      ptr.Ptr(req.ResourceID),
			StartDate:       &req.Date,
			EndDate:         &req.Date,
			IncludeInactive: false,
		}

		bookings, err := uc.bookingRepo.GetBySalonWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		// 11.2. Проверка пересечения интервалов с учетом буферов
		conflict, err := hasOverlap(req.StartTime, duration, bufferBefore, bufferAfter, bookings)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to check overlap: %v", err)
			return fmt.Errorf("%w: failed to check overlap: %v", ErrInternal, err)
		}
		if conflict {
			uc.logger.Warn("CreateBooking: slot %s %s is taken on resource id=%d",
				req.Date.Format(domain.DateFormat), req.StartTime, req.ResourceID)
			return ErrSlotNotAvailable
		}

		// 11.3. Создаем бронирование с денормализацией данных услуги
		booking := &domain.Booking{
			UserID:              req.UserID,
			SalonID:             req.SalonID,
			ResourceID:          req.ResourceID,
			ServiceID:           req.ServiceID,
			BookingDate:         req.Date,
			StartTime:           req.StartTime,
			DurationMinutes:     duration,
			BufferBeforeMinutes: bufferBefore,
			BufferAfterMinutes:  bufferAfter,
			Status:              status,
			PaymentStatus:       paymentStatus,
			PaymentRef:          paymentRef,
			DepositAmount:       depositAmount,
			TotalAmount:         totalAmount,
			ServiceName:         service.Name,
			GuestContact:        req.GuestContact,
			Notes:               req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		// Депозит уже списан, а бронирование не состоялось — возвращаем деньги
		if paymentRef != nil {
			if refundErr := uc.payments.Refund(ctx, *paymentRef, depositAmount); refundErr != nil {
				uc.logger.Error("CreateBooking: failed to refund deposit payment=%s: %v", *paymentRef, refundErr)
			} else {
				uc.logger.Info("CreateBooking: deposit refunded after failed booking, payment=%s", *paymentRef)
			}
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, status=%s", result.ID, result.Status)

	// 12. Событие публикуется после коммита; ошибки брокера не влияют на результат
	uc.notifier.BookingCreated(ctx, result)

	return toResponse(result, depositAmount), nil
}
