package domain

import (
	"fmt"
	"time"

	"github.com/kkosolapov/SPA-BookingService/pkg/types"
)

// BookingStatus represents the lifecycle status of a booking
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
	StatusNoShow     BookingStatus = "no_show"
)

// PaymentStatus represents the deposit/payment state of a booking
type PaymentStatus string

const (
	PaymentNone        PaymentStatus = "none"
	PaymentDepositPaid PaymentStatus = "deposit_paid"
	PaymentRefunded    PaymentStatus = "refunded"
	PaymentForfeited   PaymentStatus = "forfeited"
)

// ParseBookingStatus validates a raw status string.
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case StatusPending, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow:
		return BookingStatus(s), nil
	default:
		return "", fmt.Errorf("unknown booking status: %q", s)
	}
}

// allowedTransitions таблица допустимых переходов статусов.
// Терминальные статусы (completed, cancelled, no_show) не имеют исходящих переходов.
var allowedTransitions = map[BookingStatus]map[BookingStatus]bool{
	StatusPending: {
		StatusConfirmed: true,
		StatusCancelled: true,
	},
	StatusConfirmed: {
		StatusInProgress: true,
		StatusCancelled:  true,
		StatusNoShow:     true,
	},
	StatusInProgress: {
		StatusCompleted: true,
		StatusNoShow:    true,
	},
	StatusCompleted: {},
	StatusCancelled: {},
	StatusNoShow:    {},
}

// CanTransition reports whether the status move from -> to is legal.
func CanTransition(from, to BookingStatus) bool {
	next, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return next[to]
}

// IsTerminal reports whether the status permits no further transitions.
func (s BookingStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// Booking represents a scheduled appointment for a resource (master or room)
type Booking struct {
	ID         int64
	UserID     int64 // 0 для гостевого бронирования
	SalonID    int64
	ResourceID int64
	ServiceID  int64

	BookingDate         time.Time
	StartTime           types.TimeString
	DurationMinutes     int
	BufferBeforeMinutes int
	BufferAfterMinutes  int

	Status        BookingStatus
	PaymentStatus PaymentStatus
	TotalAmount   float64

	// PaymentRef внешний идентификатор платежа (Stripe payment intent)
	PaymentRef *string

	// DepositAmount фактически списанный депозит; 0 если депозит не требовался
	DepositAmount float64

	// Denormalized data for history
	ServiceName  string
	GuestContact *string
	Notes        *string

	CancellationReason *string
	CancellationCode   *string
	CancellationFee    *float64
	RefundAmount       *float64
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies its calendar interval
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled && b.Status != StatusNoShow
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return CanTransition(b.Status, StatusCancelled)
}

// IsGuest returns true for guest-checkout bookings
func (b *Booking) IsGuest() bool {
	return b.UserID == 0
}

// StartAt combines the booking date and start time into a timestamp.
func (b *Booking) StartAt() (time.Time, error) {
	return b.StartTime.At(b.BookingDate)
}

// BookingsFilter фильтр для выборки бронирований салона
type BookingsFilter struct {
	SalonID         int64          // Обязательный параметр
	ResourceID      *int64         // Фильтр по ресурсу (опционально)
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отменённые и no-show бронирования
}
