package wizard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kkosolapov/SPA-BookingService/internal/usecase/create_booking"
	"github.com/kkosolapov/SPA-BookingService/pkg/ptr"
	"github.com/kkosolapov/SPA-BookingService/pkg/types"
)

type stubLogger struct{}

func (stubLogger) Info(format string, v ...interface{})  {}
func (stubLogger) Warn(format string, v ...interface{})  {}
func (stubLogger) Error(format string, v ...interface{}) {}

type creatorStub struct {
	mu       sync.Mutex
	requests []*create_booking.Request
	err      error

	// started/release позволяют удерживать Execute для проверки single-flight
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *creatorStub) Execute(ctx context.Context, req *create_booking.Request) (*create_booking.Response, error) {
	if s.started != nil {
		s.once.Do(func() { close(s.started) })
	}
	if s.release != nil {
		<-s.release
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)

	if s.err != nil {
		err := s.err
		s.err = nil
		return nil, err
	}

	return &create_booking.Response{
		ID:         777,
		UserID:     req.UserID,
		SalonID:    req.SalonID,
		ResourceID: req.ResourceID,
		ServiceID:  req.ServiceID,
		Status:     "pending",
	}, nil
}

func newManager(creator *creatorStub) *Manager {
	return NewManager(NewMemoryStore(time.Minute), creator, stubLogger{})
}

// advanceToConfirm проводит сессию через все шаги до confirm
func advanceToConfirm(t *testing.T, m *Manager, sessionID string, guest bool) {
	t.Helper()
	ctx := context.Background()

	_, err := m.Advance(ctx, sessionID, &StepInput{
		ServiceID:  ptr.Ptr(int64(10)),
		ResourceID: ptr.Ptr(int64(1)),
	})
	require.NoError(t, err)

	_, err = m.Advance(ctx, sessionID, &StepInput{
		Date:      ptr.Ptr(time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)),
		StartTime: ptr.Ptr(types.TimeString("12:00")),
	})
	require.NoError(t, err)

	input := &StepInput{}
	if guest {
		input.GuestContact = ptr.Ptr("guest@example.com")
	}
	_, err = m.Advance(ctx, sessionID, input)
	require.NoError(t, err)
}

func TestManager_FullFlow(t *testing.T) {
	ctx := context.Background()
	creator := &creatorStub{}
	m := newManager(creator)

	session, err := m.Start(ctx, 42, 1)
	require.NoError(t, err)
	assert.Equal(t, StepService, session.Step)

	advanceToConfirm(t, m, session.ID, false)

	current, err := m.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, StepConfirm, current.Step)

	submitted, resp, err := m.Submit(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(777), resp.ID)
	assert.True(t, submitted.Submitted)
	require.NotNil(t, submitted.BookingID)
	assert.Equal(t, int64(777), *submitted.BookingID)

	require.Len(t, creator.requests, 1)
	req := creator.requests[0]
	assert.Equal(t, int64(42), req.UserID)
	assert.Equal(t, int64(1), req.SalonID)
	assert.Equal(t, int64(1), req.ResourceID)
	assert.Equal(t, int64(10), req.ServiceID)
	assert.Equal(t, types.TimeString("12:00"), req.StartTime)
}

func TestManager_StepOrderEnforced(t *testing.T) {
	ctx := context.Background()
	m := newManager(&creatorStub{})

	session, err := m.Start(ctx, 42, 1)
	require.NoError(t, err)

	// Шаг услуги требует serviceId
	_, err = m.Advance(ctx, session.ID, &StepInput{})
	assert.ErrorIs(t, err, ErrStepIncomplete)

	// nil input недопустим
	_, err = m.Advance(ctx, session.ID, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = m.Advance(ctx, session.ID, &StepInput{ServiceID: ptr.Ptr(int64(10)), ResourceID: ptr.Ptr(int64(1))})
	require.NoError(t, err)

	// Шаг времени требует дату и время
	_, err = m.Advance(ctx, session.ID, &StepInput{Date: ptr.Ptr(time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))})
	assert.ErrorIs(t, err, ErrStepIncomplete)
}

func TestManager_GuestRequiresContact(t *testing.T) {
	ctx := context.Background()
	m := newManager(&creatorStub{})

	session, err := m.Start(ctx, 0, 1)
	require.NoError(t, err)

	_, err = m.Advance(ctx, session.ID, &StepInput{ServiceID: ptr.Ptr(int64(10)), ResourceID: ptr.Ptr(int64(1))})
	require.NoError(t, err)
	_, err = m.Advance(ctx, session.ID, &StepInput{
		Date:      ptr.Ptr(time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)),
		StartTime: ptr.Ptr(types.TimeString("12:00")),
	})
	require.NoError(t, err)

	// Гостевая сессия не проходит шаг деталей без контакта
	_, err = m.Advance(ctx, session.ID, &StepInput{})
	assert.ErrorIs(t, err, ErrStepIncomplete)

	_, err = m.Advance(ctx, session.ID, &StepInput{GuestContact: ptr.Ptr("guest@example.com")})
	require.NoError(t, err)
}

func TestManager_Back(t *testing.T) {
	ctx := context.Background()
	m := newManager(&creatorStub{})

	session, err := m.Start(ctx, 42, 1)
	require.NoError(t, err)

	// С первого шага возвращаться некуда
	_, err = m.Back(ctx, session.ID)
	assert.ErrorIs(t, err, ErrInvalidStep)

	_, err = m.Advance(ctx, session.ID, &StepInput{ServiceID: ptr.Ptr(int64(10)), ResourceID: ptr.Ptr(int64(1))})
	require.NoError(t, err)

	back, err := m.Back(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, StepService, back.Step)
	// Уже заполненные поля сохраняются
	require.NotNil(t, back.ServiceID)
	assert.Equal(t, int64(10), *back.ServiceID)
}

func TestManager_SubmitOnlyOnConfirmStep(t *testing.T) {
	ctx := context.Background()
	m := newManager(&creatorStub{})

	session, err := m.Start(ctx, 42, 1)
	require.NoError(t, err)

	_, _, err = m.Submit(ctx, session.ID)
	assert.ErrorIs(t, err, ErrInvalidStep)
}

func TestManager_SessionImmutableAfterSubmit(t *testing.T) {
	ctx := context.Background()
	m := newManager(&creatorStub{})

	session, err := m.Start(ctx, 42, 1)
	require.NoError(t, err)
	advanceToConfirm(t, m, session.ID, false)

	_, _, err = m.Submit(ctx, session.ID)
	require.NoError(t, err)

	_, err = m.Back(ctx, session.ID)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)

	_, err = m.Advance(ctx, session.ID, &StepInput{Notes: ptr.Ptr("late note")})
	assert.ErrorIs(t, err, ErrAlreadySubmitted)

	_, _, err = m.Submit(ctx, session.ID)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
}

func TestManager_SubmitSingleFlight(t *testing.T) {
	ctx := context.Background()
	creator := &creatorStub{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	m := newManager(creator)

	session, err := m.Start(ctx, 42, 1)
	require.NoError(t, err)
	advanceToConfirm(t, m, session.ID, false)

	done := make(chan error, 1)
	go func() {
		_, _, err := m.Submit(ctx, session.ID)
		done <- err
	}()

	// Конкурирующий submit отклоняется, пока первый выполняется
	<-creator.started
	_, _, err = m.Submit(ctx, session.ID)
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(creator.release)
	require.NoError(t, <-done)

	// После успеха повторный submit отклоняется навсегда
	_, _, err = m.Submit(ctx, session.ID)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)

	require.Len(t, creator.requests, 1)
}

func TestManager_FailedSubmitAllowsRetry(t *testing.T) {
	ctx := context.Background()
	creator := &creatorStub{err: create_booking.ErrSlotNotAvailable}
	m := newManager(creator)

	session, err := m.Start(ctx, 42, 1)
	require.NoError(t, err)
	advanceToConfirm(t, m, session.ID, false)

	_, _, err = m.Submit(ctx, session.ID)
	assert.ErrorIs(t, err, create_booking.ErrSlotNotAvailable)

	// Неудачный submit снимает флаг, сессия остается рабочей
	current, err := m.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.False(t, current.Submitting)
	assert.False(t, current.Submitted)

	_, resp, err := m.Submit(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(777), resp.ID)
}

func lockCount(m *Manager) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}

func TestManager_LockReleasedAfterSubmit(t *testing.T) {
	ctx := context.Background()
	m := newManager(&creatorStub{})

	session, err := m.Start(ctx, 42, 1)
	require.NoError(t, err)
	advanceToConfirm(t, m, session.ID, false)

	_, _, err = m.Submit(ctx, session.ID)
	require.NoError(t, err)

	// Завершенная сессия не держит мьютекс в памяти
	assert.Equal(t, 0, lockCount(m))

	// и повторный submit по-прежнему отклоняется
	_, _, err = m.Submit(ctx, session.ID)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.Equal(t, 0, lockCount(m))
}

func TestManager_LockReleasedForExpiredSession(t *testing.T) {
	ctx := context.Background()
	m := newManager(&creatorStub{})

	// submit по несуществующим сессиям не накапливает записи в locks
	for _, id := range []string{"gone-1", "gone-2", "gone-3"} {
		_, _, err := m.Submit(ctx, id)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	}
	assert.Equal(t, 0, lockCount(m))
}

func TestManager_StartValidation(t *testing.T) {
	ctx := context.Background()
	m := newManager(&creatorStub{})

	_, err := m.Start(ctx, 42, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = m.Start(ctx, -1, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestManager_UnknownSession(t *testing.T) {
	ctx := context.Background()
	m := newManager(&creatorStub{})

	_, err := m.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = m.Advance(ctx, "missing", &StepInput{ServiceID: ptr.Ptr(int64(10))})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStore_TTL(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(20 * time.Millisecond)

	session := &Session{ID: "s1", SalonID: 1, Step: StepService}
	require.NoError(t, store.Save(ctx, session))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.ID)

	time.Sleep(40 * time.Millisecond)

	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)

	require.NoError(t, store.Save(ctx, &Session{ID: "s1"}))
	require.NoError(t, store.Delete(ctx, "s1"))

	_, err := store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
