package create_booking

import (
	"time"

	"github.com/kkosolapov/SPA-BookingService/internal/domain"
	"github.com/kkosolapov/SPA-BookingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID     int64            // ID пользователя; 0 для гостевого бронирования
	SalonID    int64            // ID салона
	ResourceID int64            // ID ресурса (мастер или кабинет)
	ServiceID  int64            // ID услуги
	Date       time.Time        // Дата бронирования (без времени)
	StartTime  types.TimeString // Время начала слота (например, "10:00")

	// GuestContact обязателен для гостевого бронирования (UserID = 0)
	GuestContact *string

	Notes *string // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID         int64
	UserID     int64
	SalonID    int64
	ResourceID int64
	ServiceID  int64

	BookingDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int

	Status        string // pending | confirmed
	PaymentStatus string
	TotalAmount   float64
	DepositAmount float64 // Списанный депозит (0 если депозит не требовался)

	// Денормализованные данные
	ServiceName  string
	GuestContact *string
	Notes        *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func toResponse(b *domain.Booking, deposit float64) *Response {
	return &Response{
		ID:              b.ID,
		UserID:          b.UserID,
		SalonID:         b.SalonID,
		ResourceID:      b.ResourceID,
		ServiceID:       b.ServiceID,
		BookingDate:     b.BookingDate,
		StartTime:       b.StartTime,
		DurationMinutes: b.DurationMinutes,
		Status:          string(b.Status),
		PaymentStatus:   string(b.PaymentStatus),
		TotalAmount:     b.TotalAmount,
		DepositAmount:   deposit,
		ServiceName:     b.ServiceName,
		GuestContact:    b.GuestContact,
		Notes:           b.Notes,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}
