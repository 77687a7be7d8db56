package booking_wizard

import (
	"time"

	"github.com/kkosolapov/SPA-BookingService/internal/domain"
	createBooking "github.com/kkosolapov/SPA-BookingService/internal/usecase/create_booking"
	"github.com/kkosolapov/SPA-BookingService/internal/wizard"
	"github.com/kkosolapov/SPA-BookingService/pkg/types"
)

// StartSessionRequest HTTP request model
type StartSessionRequest struct {
	SalonID int64 `json:"salonId"`
}

// StepInputRequest данные шага, передаваемые в Advance
type StepInputRequest struct {
	ServiceID    *int64  `json:"serviceId,omitempty"`
	ResourceID   *int64  `json:"resourceId,omitempty"`
	Date         *string `json:"date,omitempty"`      // "2026-09-15"
	StartTime    *string `json:"startTime,omitempty"` // "10:00"
	GuestContact *string `json:"guestContact,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// SessionResponse HTTP модель состояния сессии мастера
type SessionResponse struct {
	ID      string `json:"id"`
	UserID  int64  `json:"userId"`
	SalonID int64  `json:"salonId"`
	Step    string `json:"step"`

	ServiceID  *int64  `json:"serviceId,omitempty"`
	ResourceID *int64  `json:"resourceId,omitempty"`
	Date       *string `json:"date,omitempty"`
	StartTime  *string `json:"startTime,omitempty"`

	GuestContact *string `json:"guestContact,omitempty"`
	Notes        *string `json:"notes,omitempty"`

	Submitted bool   `json:"submitted"`
	BookingID *int64 `json:"bookingId,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// SubmitResponse ответ на успешный submit сессии
type SubmitResponse struct {
	Session *SessionResponse       `json:"session"`
	Booking *SubmitBookingResponse `json:"booking"`
}

// SubmitBookingResponse созданное бронирование в ответе submit
type SubmitBookingResponse struct {
	ID              int64   `json:"id"`
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
}

// ToStepInput конвертирует HTTP запрос в модель мастера
func (r *StepInputRequest) ToStepInput() (*wizard.StepInput, error) {
	input := &wizard.StepInput{
		ServiceID:    r.ServiceID,
		ResourceID:   r.ResourceID,
		GuestContact: r.GuestContact,
		Notes:        r.Notes,
	}

	if r.Date != nil {
		date, err := time.Parse(domain.DateFormat, *r.Date)
		if err != nil {
			return nil, err
		}
		input.Date = &date
	}

	if r.StartTime != nil {
		startTime, err := types.NewTimeStringFromString(*r.StartTime)
		if err != nil {
			return nil, err
		}
		input.StartTime = &startTime
	}

	return input, nil
}

// FromSession конвертирует сессию мастера в HTTP response
func FromSession(s *wizard.Session) *SessionResponse {
	resp := &SessionResponse{
		ID:           s.ID,
		UserID:       s.UserID,
		SalonID:      s.SalonID,
		Step:         string(s.Step),
		ServiceID:    s.ServiceID,
		ResourceID:   s.ResourceID,
		GuestContact: s.GuestContact,
		Notes:        s.Notes,
		Submitted:    s.Submitted,
		BookingID:    s.BookingID,
		CreatedAt:    s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    s.UpdatedAt.Format(time.RFC3339),
	}

	if s.Date != nil {
		dateStr := s.Date.Format(domain.DateFormat)
		resp.Date = &dateStr
	}
	if s.StartTime != nil {
		startTimeStr := s.StartTime.String()
		resp.StartTime = &startTimeStr
	}

	return resp
}

// FromSubmitResult конвертирует результат submit в HTTP response
func FromSubmitResult(session *wizard.Session, booking *createBooking.Response) *SubmitResponse {
	return &SubmitResponse{
		Session: FromSession(session),
		Booking: &SubmitBookingResponse{
			ID:              booking.ID,
			SalonID:         booking.SalonID,
			ResourceID:      booking.ResourceID,
			ServiceID:       booking.ServiceID,
			BookingDate:     booking.BookingDate.Format(domain.DateFormat),
			StartTime:       booking.StartTime.String(),
			DurationMinutes: booking.DurationMinutes,
			Status:          booking.Status,
			PaymentStatus:   booking.PaymentStatus,
			TotalAmount:     booking.TotalAmount,
			DepositAmount:   booking.DepositAmount,
			ServiceName:     booking.ServiceName,
		},
	}
}
