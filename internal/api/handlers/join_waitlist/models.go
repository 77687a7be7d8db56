package join_waitlist

import (
	"time"

	"github.com/kkosolapov/SPA-BookingService/internal/domain"
	"github.com/kkosolapov/SPA-BookingService/internal/service/waitlist/models"
)

// JoinWaitlistRequest HTTP request model
type JoinWaitlistRequest struct {
	ServiceID   int64  `json:"serviceId"`
	ResourceID  *int64 `json:"resourceId,omitempty"`
	WindowStart string `json:"windowStart"` // "2026-09-15"
	WindowEnd   string `json:"windowEnd"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *JoinWaitlistRequest) ToServiceRequest(salonID, userID int64) (*models.JoinWaitlistRequest, error) {
	windowStart, err := time.Parse(domain.DateFormat, r.WindowStart)
	if err != nil {
		return nil, err
	}

	windowEnd, err := time.Parse(domain.DateFormat, r.WindowEnd)
	if err != nil {
		return nil, err
	}

	return &models.JoinWaitlistRequest{
		UserID:      userID,
		SalonID:     salonID,
		ServiceID:   r.ServiceID,
		ResourceID:  r.ResourceID,
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
	}, nil
}
