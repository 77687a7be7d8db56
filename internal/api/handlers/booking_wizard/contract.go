package booking_wizard

import (
	"context"

	createBooking "github.com/kkosolapov/SPA-BookingService/internal/usecase/create_booking"
	"github.com/kkosolapov/SPA-BookingService/internal/wizard"
)

type WizardManager interface {
	Start(ctx context.Context, userID, salonID int64) (*wizard.Session, error)
	Get(ctx context.Context, sessionID string) (*wizard.Session, error)
	Advance(ctx context.Context, sessionID string, input *wizard.StepInput) (*wizard.Session, error)
	Back(ctx context.Context, sessionID string) (*wizard.Session, error)
	Submit(ctx context.Context, sessionID string) (*wizard.Session, *createBooking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
