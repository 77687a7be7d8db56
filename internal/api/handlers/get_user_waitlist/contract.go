package get_user_waitlist

import (
	"context"

	"github.com/kkosolapov/SPA-BookingService/internal/domain"
	"github.com/kkosolapov/SPA-BookingService/internal/service/waitlist/models"
)

type WaitlistService interface {
	GetUserWaitlist(ctx context.Context, salonID, userID int64, actor domain.Actor) (*models.WaitlistResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
