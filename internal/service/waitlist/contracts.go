package waitlist

import (
	"context"

	"github.com/kkosolapov/SPA-BookingService/internal/domain"
)

// WaitlistRepository интерфейс репозитория листа ожидания
type WaitlistRepository interface {
	Create(ctx context.Context, entry *domain.WaitlistEntry) (*domain.WaitlistEntry, error)
	GetByUserID(ctx context.Context, salonID, userID int64) ([]*domain.WaitlistEntry, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, salonID, serviceID int64) (*domain.Service, error)
}

// ResourceRepository интерфейс репозитория ресурсов
type ResourceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
}

// PolicyRepository интерфейс репозитория политик салона
type PolicyRepository interface {
	GetBySalonID(ctx context.Context, salonID int64) (*domain.PolicyConfig, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
