package booking_wizard

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kkosolapov/SPA-BookingService/internal/api/handlers"
	"github.com/kkosolapov/SPA-BookingService/internal/api/middleware"
	createBooking "github.com/kkosolapov/SPA-BookingService/internal/usecase/create_booking"
	"github.com/kkosolapov/SPA-BookingService/internal/wizard"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidSalonID      = "некорректный ID салона"
	msgSessionNotFound     = "сессия мастера не найдена"
	msgInvalidStep         = "операция недоступна на текущем шаге"
	msgStepIncomplete      = "не заполнены обязательные поля шага"
	msgSubmitInFlight      = "подтверждение уже выполняется"
	msgAlreadySubmitted    = "сессия уже подтверждена"
	msgInvalidInput        = "некорректные параметры запроса"
	msgSlotNotAvailable    = "выбранный временной слот недоступен"
	msgGuestCheckoutClosed = "гостевое бронирование отключено для этого салона"
	msgDepositFailed       = "не удалось списать депозит"
	msgBookingRejected     = "бронирование не прошло проверку"
	msgNotFound            = "услуга или ресурс не найдены"
)

type Handler struct {
	manager WizardManager
	logger  Logger
}

func NewHandler(manager WizardManager, logger Logger) *Handler {
	return &Handler{
		manager: manager,
		logger:  logger,
	}
}

// HandleStart POST /api/v1/wizard/sessions
// Гостевые сессии (без X-User-ID) допускаются.
func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /wizard/sessions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if req.SalonID <= 0 {
		h.logger.Warn("POST /wizard/sessions - Invalid salon ID: %d", req.SalonID)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	var userID int64
	if actor, ok := middleware.GetActor(r.Context()); ok {
		userID = actor.UserID
	}

	session, err := h.manager.Start(r.Context(), userID, req.SalonID)
	if err != nil {
		h.logger.Error("POST /wizard/sessions - Failed to start session: salon_id=%d, error=%v", req.SalonID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /wizard/sessions - Session started: session_id=%s, salon_id=%d, user_id=%d",
		session.ID, req.SalonID, userID)
	handlers.RespondJSON(w, http.StatusCreated, FromSession(session))
}

// HandleGet GET /api/v1/wizard/sessions/{sessionId}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	session, err := h.manager.Get(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, wizard.ErrSessionNotFound):
			h.logger.Warn("GET /wizard/sessions/{id} - Session not found: session_id=%s", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		default:
			h.logger.Error("GET /wizard/sessions/{id} - Failed to get session: session_id=%s, error=%v",
				sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromSession(session))
}

// HandleAdvance POST /api/v1/wizard/sessions/{sessionId}/advance
func (h *Handler) HandleAdvance(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req StepInputRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /wizard/sessions/{id}/advance - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	input, err := req.ToStepInput()
	if err != nil {
		h.logger.Warn("POST /wizard/sessions/{id}/advance - Failed to parse input: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInput)
		return
	}

	session, err := h.manager.Advance(r.Context(), sessionID, input)
	if err != nil {
		h.respondWizardError(w, "POST /wizard/sessions/{id}/advance", sessionID, err)
		return
	}

	h.logger.Info("POST /wizard/sessions/{id}/advance - Session advanced: session_id=%s, step=%s",
		sessionID, session.Step)
	handlers.RespondJSON(w, http.StatusOK, FromSession(session))
}

// HandleBack POST /api/v1/wizard/sessions/{sessionId}/back
func (h *Handler) HandleBack(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	session, err := h.manager.Back(r.Context(), sessionID)
	if err != nil {
		h.respondWizardError(w, "POST /wizard/sessions/{id}/back", sessionID, err)
		return
	}

	h.logger.Info("POST /wizard/sessions/{id}/back - Session stepped back: session_id=%s, step=%s",
		sessionID, session.Step)
	handlers.RespondJSON(w, http.StatusOK, FromSession(session))
}

// HandleSubmit POST /api/v1/wizard/sessions/{sessionId}/submit
// Повторный submit той же сессии возвращает 409 и не создает второе бронирование.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	session, booking, err := h.manager.Submit(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /wizard/sessions/{id}/submit - Slot not available: session_id=%s", sessionID)
			handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrGuestCheckoutDisabled):
			h.logger.Warn("POST /wizard/sessions/{id}/submit - Guest checkout disabled: session_id=%s", sessionID)
			handlers.RespondForbidden(w, msgGuestCheckoutClosed)

		case errors.Is(err, createBooking.ErrDepositFailed):
			h.logger.Warn("POST /wizard/sessions/{id}/submit - Deposit charge failed: session_id=%s", sessionID)
			handlers.RespondError(w, http.StatusPaymentRequired, msgDepositFailed)

		case errors.Is(err, createBooking.ErrServiceNotFound),
			errors.Is(err, createBooking.ErrResourceNotFound):
			h.logger.Warn("POST /wizard/sessions/{id}/submit - Referenced entity not found: session_id=%s, error=%v",
				sessionID, err)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, createBooking.ErrInvalidDate),
			errors.Is(err, createBooking.ErrSameDayNotAllowed),
			errors.Is(err, createBooking.ErrDateTooFarInFuture),
			errors.Is(err, createBooking.ErrTooLateToBook),
			errors.Is(err, createBooking.ErrResourceClosed),
			errors.Is(err, createBooking.ErrResourceNotEligible),
			errors.Is(err, createBooking.ErrInvalidTimeSlot),
			errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /wizard/sessions/{id}/submit - Booking rejected: session_id=%s, error=%v",
				sessionID, err)
			handlers.RespondBadRequest(w, msgBookingRejected)

		default:
			h.respondWizardError(w, "POST /wizard/sessions/{id}/submit", sessionID, err)
		}
		return
	}

	h.logger.Info("POST /wizard/sessions/{id}/submit - Session submitted: session_id=%s, booking_id=%d",
		sessionID, booking.ID)
	handlers.RespondJSON(w, http.StatusCreated, FromSubmitResult(session, booking))
}

// respondWizardError единая обработка ошибок состояния сессии
func (h *Handler) respondWizardError(w http.ResponseWriter, route, sessionID string, err error) {
	switch {
	case errors.Is(err, wizard.ErrSessionNotFound):
		h.logger.Warn("%s - Session not found: session_id=%s", route, sessionID)
		handlers.RespondNotFound(w, msgSessionNotFound)

	case errors.Is(err, wizard.ErrInvalidStep):
		h.logger.Warn("%s - Invalid step: session_id=%s, error=%v", route, sessionID, err)
		handlers.RespondBadRequest(w, msgInvalidStep)

	case errors.Is(err, wizard.ErrStepIncomplete):
		h.logger.Warn("%s - Step incomplete: session_id=%s, error=%v", route, sessionID, err)
		handlers.RespondBadRequest(w, msgStepIncomplete)

	case errors.Is(err, wizard.ErrSubmitInFlight):
		h.logger.Warn("%s - Submit in flight: session_id=%s", route, sessionID)
		handlers.RespondError(w, http.StatusConflict, msgSubmitInFlight)

	case errors.Is(err, wizard.ErrAlreadySubmitted):
		h.logger.Warn("%s - Already submitted: session_id=%s", route, sessionID)
		handlers.RespondError(w, http.StatusConflict, msgAlreadySubmitted)

	case errors.Is(err, wizard.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: session_id=%s, error=%v", route, sessionID, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	default:
		h.logger.Error("%s - Unexpected error: session_id=%s, error=%v", route, sessionID, err)
		handlers.RespondInternalError(w)
	}
}
