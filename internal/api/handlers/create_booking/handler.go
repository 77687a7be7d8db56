package create_booking

import (
	"errors"
	"net/http"

	"github.com/kkosolapov/SPA-BookingService/internal/api/handlers"
	"github.com/kkosolapov/SPA-BookingService/internal/api/middleware"
	createBooking "github.com/kkosolapov/SPA-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDate         = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgSlotNotAvailable    = "выбранный временной слот недоступен"
	msgServiceNotFound     = "услуга не найдена"
	msgResourceNotFound    = "ресурс не найден"
	msgResourceNotEligible = "услуга недоступна на выбранном ресурсе"
	msgResourceClosed      = "ресурс не работает в выбранную дату"
	msgInvalidBookingDate  = "некорректная дата бронирования"
	msgSameDayNotAllowed   = "бронирование на текущий день запрещено"
	msgDateTooFar          = "дата бронирования слишком далеко в будущем"
	msgInvalidTimeSlot     = "некорректный временной слот"
	msgTooLateToBook       = "слишком поздно для бронирования этого слота"
	msgGuestCheckoutClosed = "гостевое бронирование отключено для этого салона"
	msgDepositFailed       = "не удалось списать депозит"
	msgInvalidInput        = "некорректные параметры запроса"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
// Гостевые запросы (без X-User-ID) допускаются, если салон разрешает
// гостевое бронирование.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	var userID int64
	if actor, ok := middleware.GetActor(r.Context()); ok {
		userID = actor.UserID
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: user_id=%d, salon_id=%d, resource_id=%d",
				userID, req.SalonID, req.ResourceID)
			handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: salon_id=%d, service_id=%d", req.SalonID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrResourceNotFound):
			h.logger.Warn("POST /bookings - Resource not found: salon_id=%d, resource_id=%d", req.SalonID, req.ResourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, createBooking.ErrResourceNotEligible):
			h.logger.Warn("POST /bookings - Resource not eligible: salon_id=%d, resource_id=%d, service_id=%d",
				req.SalonID, req.ResourceID, req.ServiceID)
			handlers.RespondBadRequest(w, msgResourceNotEligible)

		case errors.Is(err, createBooking.ErrResourceClosed):
			h.logger.Warn("POST /bookings - Resource closed: salon_id=%d, resource_id=%d, date=%s",
				req.SalonID, req.ResourceID, req.BookingDate)
			handlers.RespondBadRequest(w, msgResourceClosed)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid booking date: user_id=%d, salon_id=%d", userID, req.SalonID)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrSameDayNotAllowed):
			h.logger.Warn("POST /bookings - Same-day booking not allowed: salon_id=%d", req.SalonID)
			handlers.RespondBadRequest(w, msgSameDayNotAllowed)

		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			h.logger.Warn("POST /bookings - Date too far in future: salon_id=%d, date=%s", req.SalonID, req.BookingDate)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createBooking.ErrInvalidTimeSlot):
			h.logger.Warn("POST /bookings - Invalid time slot: salon_id=%d, start_time=%s", req.SalonID, req.StartTime)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createBooking.ErrTooLateToBook):
			h.logger.Warn("POST /bookings - Too late to book: salon_id=%d, date=%s %s",
				req.SalonID, req.BookingDate, req.StartTime)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createBooking.ErrGuestCheckoutDisabled):
			h.logger.Warn("POST /bookings - Guest checkout disabled: salon_id=%d", req.SalonID)
			handlers.RespondForbidden(w, msgGuestCheckoutClosed)

		case errors.Is(err, createBooking.ErrDepositFailed):
			h.logger.Warn("POST /bookings - Deposit charge failed: user_id=%d, salon_id=%d", userID, req.SalonID)
			handlers.RespondError(w, http.StatusPaymentRequired, msgDepositFailed)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, salon_id=%d, error=%v",
				userID, req.SalonID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, salon_id=%d, status=%s",
		result.ID, userID, req.SalonID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
