package update_salon_policy

import (
	"context"

	"github.com/kkosolapov/SPA-BookingService/internal/domain"
	"github.com/kkosolapov/SPA-BookingService/internal/service/policy/models"
)

type PolicyService interface {
	Update(ctx context.Context, salonID int64, req *models.UpdatePolicyRequest, actor domain.Actor) (*models.PolicyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
