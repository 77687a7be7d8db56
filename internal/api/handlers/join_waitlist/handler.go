package join_waitlist

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/kkosolapov/SPA-BookingService/internal/api/handlers"
	"github.com/kkosolapov/SPA-BookingService/internal/api/middleware"
	"github.com/kkosolapov/SPA-BookingService/internal/service/waitlist"
)

const (
	msgInvalidSalonID     = "некорректный ID салона"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgWaitlistDisabled   = "лист ожидания отключен для этого салона"
	msgServiceNotFound    = "услуга не найдена"
	msgResourceNotFound   = "ресурс не найден"
	msgInvalidInput       = "некорректные параметры запроса"
)

type Handler struct {
	service WaitlistService
	logger  Logger
}

func NewHandler(service WaitlistService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/salons/{salonId}/waitlist
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	salonID, err := strconv.ParseInt(vars["salonId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /salons/{id}/waitlist - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /salons/{id}/waitlist - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req JoinWaitlistRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /salons/{id}/waitlist - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(salonID, actor.UserID)
	if err != nil {
		h.logger.Warn("POST /salons/{id}/waitlist - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.Join(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, waitlist.ErrWaitlistDisabled):
			h.logger.Warn("POST /salons/{id}/waitlist - Waitlist disabled: salon_id=%d", salonID)
			handlers.RespondForbidden(w, msgWaitlistDisabled)

		case errors.Is(err, waitlist.ErrServiceNotFound):
			h.logger.Warn("POST /salons/{id}/waitlist - Service not found: salon_id=%d, service_id=%d",
				salonID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, waitlist.ErrResourceNotFound):
			h.logger.Warn("POST /salons/{id}/waitlist - Resource not found: salon_id=%d", salonID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, waitlist.ErrInvalidInput):
			h.logger.Warn("POST /salons/{id}/waitlist - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /salons/{id}/waitlist - Failed to join waitlist: salon_id=%d, user_id=%d, error=%v",
				salonID, actor.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /salons/{id}/waitlist - Waitlist entry created: entry_id=%d, salon_id=%d, user_id=%d",
		result.ID, salonID, actor.UserID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
