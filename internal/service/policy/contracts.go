package policy

import (
	"context"

	"github.com/kkosolapov/SPA-BookingService/internal/domain"
)

// PolicyRepository интерфейс репозитория политик салона
type PolicyRepository interface {
	GetBySalonID(ctx context.Context, salonID int64) (*domain.PolicyConfig, error)
	Upsert(ctx context.Context, p *domain.PolicyConfig) (*domain.PolicyConfig, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
