package cancel_booking

import (
	"context"
	"time"

	"github.com/kkosolapov/SPA-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetBySalonWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	Cancel(ctx context.Context, id int64, reason string, outcome domain.CancellationOutcome, cancelledAt time.Time) error
	UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error
}

// WaitlistRepository интерфейс репозитория листа ожидания
type WaitlistRepository interface {
	GetWaitingBySalon(ctx context.Context, salonID int64) ([]*domain.WaitlistEntry, error)
	UpdateStatus(ctx context.Context, entryID int64, status domain.WaitlistStatus) error
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, salonID, serviceID int64) (*domain.Service, error)
}

// PolicyRepository интерфейс репозитория политик салона
type PolicyRepository interface {
	GetBySalonID(ctx context.Context, salonID int64) (*domain.PolicyConfig, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// PaymentsClient интерфейс клиента платежей (возврат депозита)
type PaymentsClient interface {
	Enabled() bool
	Refund(ctx context.Context, paymentID string, amount float64) error
}

// Notifier интерфейс публикации событий отмены и продвижения листа ожидания
type Notifier interface {
	BookingCancelled(ctx context.Context, booking *domain.Booking, outcome domain.CancellationOutcome)
	WaitlistPromoted(ctx context.Context, entry *domain.WaitlistEntry, freedDate string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
