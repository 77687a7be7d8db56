package cancel_booking

import (
	"time"

	"github.com/kkosolapov/SPA-BookingService/internal/domain"
	cancelBooking "github.com/kkosolapov/SPA-BookingService/internal/usecase/cancel_booking"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
}

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	BookingID    int64   `json:"bookingId"`
	Status       string  `json:"status"`
	ReasonCode   string  `json:"reasonCode"`
	FeeAmount    float64 `json:"feeAmount"`
	RefundAmount float64 `json:"refundAmount"`
	CancelledAt  string  `json:"cancelledAt"`

	PromotedWaitlistEntryID *int64 `json:"promotedWaitlistEntryId,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CancelBookingRequest) ToUseCaseRequest(bookingID int64, actor domain.Actor) *cancelBooking.Request {
	return &cancelBooking.Request{
		BookingID: bookingID,
		ActorID:   actor.UserID,
		ByManager: actor.IsManager(),
		Reason:    r.Reason,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelBooking.Response) *CancelBookingResponse {
	return &CancelBookingResponse{
		BookingID:               resp.BookingID,
		Status:                  resp.Status,
		ReasonCode:              resp.ReasonCode,
		FeeAmount:               resp.FeeAmount,
		RefundAmount:            resp.RefundAmount,
		CancelledAt:             resp.CancelledAt.Format(time.RFC3339),
		PromotedWaitlistEntryID: resp.PromotedWaitlistEntryID,
	}
}
