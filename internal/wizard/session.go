package wizard

import (
	"time"

	"github.com/kkosolapov/SPA-BookingService/pkg/types"
)

// Step шаг мастера бронирования
type Step string

const (
	StepService Step = "service" // Выбор услуги и ресурса
	StepTime    Step = "time"    // Выбор даты и времени
	StepDetails Step = "details" // Контакт и заметки
	StepConfirm Step = "confirm" // Подтверждение и submit
)

// nextStep порядок шагов мастера
var nextStep = map[Step]Step{
	StepService: StepTime,
	StepTime:    StepDetails,
	StepDetails: StepConfirm,
}

// prevStep обратный порядок для Back
var prevStep = map[Step]Step{
	StepTime:    StepService,
	StepDetails: StepTime,
	StepConfirm: StepDetails,
}

// Session is the draft state of a booking wizard. It accumulates the
// booking fields step by step and is submitted exactly once.
type Session struct {
	ID      string `json:"id"`
	UserID  int64  `json:"userId"` // 0 для гостевой сессии
	SalonID int64  `json:"salonId"`
	Step    Step   `json:"step"`

	ServiceID  *int64            `json:"serviceId,omitempty"`
	ResourceID *int64            `json:"resourceId,omitempty"`
	Date       *time.Time        `json:"date,omitempty"`
	StartTime  *types.TimeString `json:"startTime,omitempty"`

	GuestContact *string `json:"guestContact,omitempty"`
	Notes        *string `json:"notes,omitempty"`

	// Submitting выставляется на время выполнения submit (single-flight)
	Submitting bool `json:"submitting"`
	// Submitted выставляется после успешного submit; сессия становится неизменяемой
	Submitted bool   `json:"submitted"`
	BookingID *int64 `json:"bookingId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StepInput поля, принимаемые Advance на текущем шаге
type StepInput struct {
	ServiceID  *int64            `json:"serviceId,omitempty"`
	ResourceID *int64            `json:"resourceId,omitempty"`
	Date       *time.Time        `json:"date,omitempty"`
	StartTime  *types.TimeString `json:"startTime,omitempty"`

	GuestContact *string `json:"guestContact,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// IsGuest reports whether the session belongs to an unauthenticated visitor.
func (s *Session) IsGuest() bool {
	return s.UserID == 0
}
