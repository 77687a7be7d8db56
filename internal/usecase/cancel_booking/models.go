package cancel_booking

import (
	"time"

	"github.com/kkosolapov/SPA-BookingService/internal/domain"
)

// Request модель запроса на отмену бронирования
type Request struct {
	BookingID int64

	// ActorID пользователь, выполняющий отмену
	ActorID int64

	// ByManager true для отмены менеджером салона: доступ к любым
	// бронированиям салона, штраф не взимается
	ByManager bool

	Reason *string // Причина отмены (опционально)
}

// Response модель ответа с результатом отмены
type Response struct {
	BookingID    int64
	Status       string
	ReasonCode   string  // no_charge | late_cancellation | no_show | company_initiated
	FeeAmount    float64 // Штраф за отмену
	RefundAmount float64 // Сумма к возврату (от полной стоимости)
	CancelledAt  time.Time

	// PromotedWaitlistEntryID ID продвинутой записи листа ожидания, если была
	PromotedWaitlistEntryID *int64
}

func toResponse(booking *domain.Booking, outcome domain.CancellationOutcome, cancelledAt time.Time, promoted *domain.WaitlistEntry) *Response {
	resp := &Response{
		BookingID:    booking.ID,
		Status:       string(domain.StatusCancelled),
		ReasonCode:   outcome.ReasonCode,
		FeeAmount:    outcome.FeeAmount,
		RefundAmount: outcome.RefundAmount,
		CancelledAt:  cancelledAt,
	}
	if promoted != nil {
		resp.PromotedWaitlistEntryID = &promoted.ID
	}
	return resp
}
