package get_user_bookings

import (
	"context"

	"github.com/kkosolapov/SPA-BookingService/internal/domain"
	"github.com/kkosolapov/SPA-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest, actor domain.Actor) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
