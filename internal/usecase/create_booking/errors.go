package create_booking

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrResourceNotFound возвращается, когда ресурс не найден или неактивен
	ErrResourceNotFound = errors.New("create_booking: resource not found")

	// ErrResourceNotEligible возвращается, когда услуга недоступна на указанном ресурсе
	ErrResourceNotEligible = errors.New("create_booking: service is not available on this resource")

	// ErrInvalidDate возвращается при некорректной дате бронирования
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение maxAdvanceBookingDays
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrSameDayNotAllowed возвращается, когда политика салона запрещает запись день в день
	ErrSameDayNotAllowed = errors.New("create_booking: same-day booking is not allowed")

	// ErrTooLateToBook возвращается при нарушении minAdvanceBookingHours
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrResourceClosed возвращается, когда ресурс не работает в указанную дату
	ErrResourceClosed = errors.New("create_booking: resource is closed on this date")

	// ErrInvalidTimeSlot возвращается, когда время не выровнено по сетке слотов
	// или выходит за рабочие часы
	ErrInvalidTimeSlot = errors.New("create_booking: invalid time slot")

	// ErrSlotNotAvailable возвращается, когда интервал уже занят другим бронированием
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrGuestCheckoutDisabled возвращается, когда гостевое бронирование выключено политикой
	ErrGuestCheckoutDisabled = errors.New("create_booking: guest checkout is disabled")

	// ErrDepositFailed возвращается, когда не удалось списать депозит
	ErrDepositFailed = errors.New("create_booking: failed to charge deposit")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
