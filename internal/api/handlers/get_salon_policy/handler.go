package get_salon_policy

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/kkosolapov/SPA-BookingService/internal/api/handlers"
)

const msgInvalidSalonID = "некорректный ID салона"

type Handler struct {
	service PolicyService
	logger  Logger
}

func NewHandler(service PolicyService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/salons/{salonId}/policy
// Публичный endpoint: для салона без сохранённой политики возвращаются
// значения по умолчанию.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	salonID, err := strconv.ParseInt(vars["salonId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /salons/{id}/policy - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	policy, err := h.service.Get(r.Context(), salonID)
	if err != nil {
		h.logger.Error("GET /salons/{id}/policy - Failed to get policy: salon_id=%d, error=%v", salonID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /salons/{id}/policy - Policy retrieved successfully: salon_id=%d", salonID)
	handlers.RespondJSON(w, http.StatusOK, policy)
}
