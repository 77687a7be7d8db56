package wizard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kkosolapov/SPA-BookingService/internal/domain"
	"github.com/kkosolapov/SPA-BookingService/internal/usecase/create_booking"
)

// BookingCreator интерфейс создания бронирования (usecase create_booking)
type BookingCreator interface {
	Execute(ctx context.Context, req *create_booking.Request) (*create_booking.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Manager drives the booking wizard: a step-by-step draft that is
// submitted as a real booking exactly once. Submit is single-flight:
// a concurrent submit of the same session is rejected, a repeat after
// success is rejected permanently.
type Manager struct {
	store   SessionStore
	creator BookingCreator
	logger  Logger

	// Пер-сессионные мьютексы сериализуют check-and-set флага Submitting
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewManager создает менеджер мастера бронирования
func NewManager(store SessionStore, creator BookingCreator, logger Logger) *Manager {
	return &Manager{
		store:   store,
		creator: creator,
		logger:  logger,
		locks:   make(map[string]*sync.Mutex),
	}
}

// Start открывает новую сессию мастера на шаге выбора услуги
func (m *Manager) Start(ctx context.Context, userID, salonID int64) (*Session, error) {
	if salonID <= 0 {
		return nil, fmt.Errorf("%w: salonID must be positive", ErrInvalidInput)
	}
	if userID < 0 {
		return nil, fmt.Errorf("%w: userID must not be negative", ErrInvalidInput)
	}

	now := time.Now()
	session := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		SalonID:   salonID,
		Step:      StepService,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := m.store.Save(ctx, session); err != nil {
		return nil, err
	}

	m.logger.Info("Wizard: started session %s for user=%d, salon=%d", session.ID, userID, salonID)
	return session, nil
}

// Get возвращает текущее состояние сессии
func (m *Manager) Get(ctx context.Context, sessionID string) (*Session, error) {
	return m.store.Get(ctx, sessionID)
}

// Advance заполняет поля текущего шага и переводит сессию на следующий.
// С шага подтверждения Advance невозможен: дальше только Submit.
func (m *Manager) Advance(ctx context.Context, sessionID string, input *StepInput) (*Session, error) {
	session, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Submitted {
		return nil, ErrAlreadySubmitted
	}
	if session.Submitting {
		return nil, ErrSubmitInFlight
	}
	if session.Step == StepConfirm {
		return nil, fmt.Errorf("%w: confirm step accepts only submit", ErrInvalidStep)
	}

	if err := applyStepInput(session, input); err != nil {
		m.logger.Warn("Wizard: advance of session %s failed at step %s: %v", sessionID, session.Step, err)
		return nil, err
	}

	session.Step = nextStep[session.Step]
	session.UpdatedAt = time.Now()

	if err := m.store.Save(ctx, session); err != nil {
		return nil, err
	}

	m.logger.Info("Wizard: session %s advanced to step %s", sessionID, session.Step)
	return session, nil
}

// Back возвращает сессию на предыдущий шаг.
// После успешного submit шаги неизменяемы.
func (m *Manager) Back(ctx context.Context, sessionID string) (*Session, error) {
	session, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Submitted {
		return nil, ErrAlreadySubmitted
	}
	if session.Submitting {
		return nil, ErrSubmitInFlight
	}

	prev, ok := prevStep[session.Step]
	if !ok {
		return nil, fmt.Errorf("%w: already at the first step", ErrInvalidStep)
	}

	session.Step = prev
	session.UpdatedAt = time.Now()

	if err := m.store.Save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// Submit создает бронирование из заполненной сессии.
// Повторный submit во время выполнения дает ErrSubmitInFlight,
// после успеха — ErrAlreadySubmitted.
func (m *Manager) Submit(ctx context.Context, sessionID string) (*Session, *create_booking.Response, error) {
	session, err := m.markSubmitting(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	resp, err := m.creator.Execute(ctx, &create_booking.Request{
		UserID:       session.UserID,
		SalonID:      session.SalonID,
		ResourceID:   *session.ResourceID,
		ServiceID:    *session.ServiceID,
		Date:         *session.Date,
		StartTime:    *session.StartTime,
		GuestContact: session.GuestContact,
		Notes:        session.Notes,
	})

	lock := m.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session.Submitting = false
	session.UpdatedAt = time.Now()

	if err != nil {
		m.logger.Warn("Wizard: submit of session %s failed: %v", sessionID, err)
		if saveErr := m.store.Save(ctx, session); saveErr != nil {
			m.logger.Error("Wizard: failed to reset session %s after failed submit: %v", sessionID, saveErr)
		}
		return nil, nil, err
	}

	session.Submitted = true
	session.BookingID = &resp.ID

	if err := m.store.Save(ctx, session); err != nil {
		// Бронирование уже создано; потеря флага грозит лишь повторной попыткой
		m.logger.Error("Wizard: failed to mark session %s submitted: %v", sessionID, err)
	}

	// Сессия завершена, мьютекс больше не нужен: повторный submit
	// отсекается флагом Submitted из стора
	m.releaseLock(sessionID)

	m.logger.Info("Wizard: session %s submitted, booking id=%d", sessionID, resp.ID)
	return session, resp, nil
}

// markSubmitting атомарно проверяет состояние сессии и выставляет флаг Submitting
func (m *Manager) markSubmitting(ctx context.Context, sessionID string) (*Session, error) {
	lock := m.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := m.store.Get(ctx, sessionID)
	if err != nil {
		// Сессии нет (истекла или не существовала) — запись в locks не оставляем
		m.releaseLock(sessionID)
		return nil, err
	}

	if session.Submitted {
		m.releaseLock(sessionID)
		return nil, ErrAlreadySubmitted
	}
	if session.Submitting {
		return nil, ErrSubmitInFlight
	}
	if session.Step != StepConfirm {
		return nil, fmt.Errorf("%w: submit is allowed only on the confirm step", ErrInvalidStep)
	}
	if session.ServiceID == nil || session.ResourceID == nil || session.Date == nil || session.StartTime == nil {
		return nil, fmt.Errorf("%w: booking fields are not complete", ErrStepIncomplete)
	}

	session.Submitting = true
	session.UpdatedAt = time.Now()

	if err := m.store.Save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (m *Manager) sessionLock(sessionID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok := m.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[sessionID] = lock
	}
	return lock
}

func (m *Manager) releaseLock(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.locks, sessionID)
}

// applyStepInput применяет поля текущего шага и валидирует их
func applyStepInput(session *Session, input *StepInput) error {
	if input == nil {
		return fmt.Errorf("%w: step input is required", ErrInvalidInput)
	}

	switch session.Step {
	case StepService:
		if input.ServiceID == nil || *input.ServiceID <= 0 {
			return fmt.Errorf("%w: serviceId is required", ErrStepIncomplete)
		}
		session.ServiceID = input.ServiceID
		// Предпочитаемый ресурс можно выбрать уже на этом шаге
		if input.ResourceID != nil {
			if *input.ResourceID <= 0 {
				return fmt.Errorf("%w: resourceId must be positive", ErrInvalidInput)
			}
			session.ResourceID = input.ResourceID
		}

	case StepTime:
		if input.ResourceID != nil {
			if *input.ResourceID <= 0 {
				return fmt.Errorf("%w: resourceId must be positive", ErrInvalidInput)
			}
			session.ResourceID = input.ResourceID
		}
		if session.ResourceID == nil {
			return fmt.Errorf("%w: resourceId is required", ErrStepIncomplete)
		}
		if input.Date == nil || input.Date.IsZero() {
			return fmt.Errorf("%w: date is required", ErrStepIncomplete)
		}
		if input.StartTime == nil || input.StartTime.IsZero() {
			return fmt.Errorf("%w: startTime is required", ErrStepIncomplete)
		}
		if err := input.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
		}
		session.Date = input.Date
		session.StartTime = input.StartTime

	case StepDetails:
		if session.IsGuest() && (input.GuestContact == nil || *input.GuestContact == "") {
			return fmt.Errorf("%w: guest booking requires a contact", ErrStepIncomplete)
		}
		if input.Notes != nil && len(*input.Notes) > domain.MaxNotesLength {
			return fmt.Errorf("%w: notes are longer than %d characters", ErrInvalidInput, domain.MaxNotesLength)
		}
		session.GuestContact = input.GuestContact
		session.Notes = input.Notes

	default:
		return ErrInvalidStep
	}

	return nil
}
