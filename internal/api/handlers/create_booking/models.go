package create_booking

import (
	"time"

	"github.com/kkosolapov/SPA-BookingService/internal/domain"
	createBooking "github.com/kkosolapov/SPA-BookingService/internal/usecase/create_booking"
	"github.com/kkosolapov/SPA-BookingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	SalonID      int64   `json:"salonId"`
	ResourceID   int64   `json:"resourceId"`
	ServiceID    int64   `json:"serviceId"`
	BookingDate  string  `json:"bookingDate"` // "2026-09-15"
	StartTime    string  `json:"startTime"`   // "10:00"
	GuestContact *string `json:"guestContact,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64   `json:"id"`
	UserID          int64   `json:"userId"`
	SalonID         int64   `json:"salonId"`
	ResourceID      int64   `json:"resourceId"`
	ServiceID       int64   `json:"serviceId"`
	BookingDate     string  `json:"bookingDate"`
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	PaymentStatus   string  `json:"paymentStatus"`
	TotalAmount     float64 `json:"totalAmount"`
	DepositAmount   float64 `json:"depositAmount"`
	ServiceName     string  `json:"serviceName"`
	GuestContact    *string `json:"guestContact,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// userID = 0 означает гостевое бронирование.
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		UserID:       userID,
		SalonID:      r.SalonID,
		ResourceID:   r.ResourceID,
		ServiceID:    r.ServiceID,
		Date:         bookingDate,
		StartTime:    startTime,
		GuestContact: r.GuestContact,
		Notes:        r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		UserID:          resp.UserID,
		SalonID:         resp.SalonID,
		ResourceID:      resp.ResourceID,
		ServiceID:       resp.ServiceID,
		BookingDate:     resp.BookingDate.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		PaymentStatus:   resp.PaymentStatus,
		TotalAmount:     resp.TotalAmount,
		DepositAmount:   resp.DepositAmount,
		ServiceName:     resp.ServiceName,
		GuestContact:    resp.GuestContact,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
