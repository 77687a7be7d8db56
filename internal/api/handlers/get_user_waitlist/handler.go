package get_user_waitlist

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
	msgInvalidUserID  = "некорректный ID пользователя"
	msgInvalidSalonID = "некорректный ID салона"
	msgMissingSalonID = "ID салона обязателен"
	msgMissingUserID  = "отсутствует ID пользователя"
	msgForbidden      = "доступ запрещен"
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

// Handle GET /api/v1/users/{userId}/waitlist
// Query params: salonId (required)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	userID, err := strconv.ParseInt(vars["userId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /users/{id}/waitlist - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /users/{id}/waitlist - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	salonIDStr := r.URL.Query().Get("salonId")
	if salonIDStr == "" {
		h.logger.Warn("GET /users/{id}/waitlist - Missing salon ID")
		handlers.RespondBadRequest(w, msgMissingSalonID)
		return
	}

	salonID, err := strconv.ParseInt(salonIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /users/{id}/waitlist - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	result, err := h.service.GetUserWaitlist(r.Context(), salonID, userID, actor)
	if err != nil {
		switch {
		case errors.Is(err, waitlist.ErrAccessDenied):
			h.logger.Warn("GET /users/{id}/waitlist - Access denied: user_id=%d, actor_id=%d",
				userID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /users/{id}/waitlist - Failed to get waitlist: user_id=%d, error=%v",
				userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /users/{id}/waitlist - Waitlist retrieved successfully: user_id=%d, salon_id=%d, count=%d",
		userID, salonID, len(result.Entries))
	handlers.RespondJSON(w, http.StatusOK, result)
}
