package cancel_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kkosolapov/SPA-BookingService/internal/domain"
	bookingstore "github.com/kkosolapov/SPA-BookingService/internal/infra/storage/booking"
	servicestore "github.com/kkosolapov/SPA-BookingService/internal/infra/storage/service"
	"github.com/kkosolapov/SPA-BookingService/pkg/ptr"
	"github.com/kkosolapov/SPA-BookingService/pkg/types"
)

type stubLogger struct{}

func (stubLogger) Info(format string, v ...interface{})  {}
func (stubLogger) Warn(format string, v ...interface{})  {}
func (stubLogger) Error(format string, v ...interface{}) {}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type cancelCall struct {
	id      int64
	reason  string
	outcome domain.CancellationOutcome
}

type bookingRepoStub struct {
	booking *domain.Booking

	cancelled      []cancelCall
	paymentUpdates []domain.PaymentStatus
	created        []*domain.Booking
}

func (s *bookingRepoStub) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if s.booking == nil || s.booking.ID != id {
		return nil, bookingstore.ErrBookingNotFound
	}
	return s.booking, nil
}

func (s *bookingRepoStub) GetBySalonWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	return nil, nil
}

func (s *bookingRepoStub) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	created := *booking
	created.ID = int64(1000 + len(s.created))
	s.created = append(s.created, &created)
	return &created, nil
}

func (s *bookingRepoStub) Cancel(ctx context.Context, id int64, reason string, outcome domain.CancellationOutcome, cancelledAt time.Time) error {
	s.cancelled = append(s.cancelled, cancelCall{id: id, reason: reason, outcome: outcome})
	return nil
}

func (s *bookingRepoStub) UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	s.paymentUpdates = append(s.paymentUpdates, status)
	return nil
}

type waitlistRepoStub struct {
	entries  []*domain.WaitlistEntry
	promoted []int64
}

func (s *waitlistRepoStub) GetWaitingBySalon(ctx context.Context, salonID int64) ([]*domain.WaitlistEntry, error) {
	result := make([]*domain.WaitlistEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.SalonID == salonID && e.Status == domain.WaitlistWaiting {
			result = append(result, e)
		}
	}
	return result, nil
}

func (s *waitlistRepoStub) UpdateStatus(ctx context.Context, entryID int64, status domain.WaitlistStatus) error {
	if status == domain.WaitlistPromoted {
		s.promoted = append(s.promoted, entryID)
	}
	return nil
}

type serviceRepoStub struct {
	services map[int64]*domain.Service
}

func (s *serviceRepoStub) GetByID(ctx context.Context, salonID, serviceID int64) (*domain.Service, error) {
	service, ok := s.services[serviceID]
	if !ok || service.SalonID != salonID {
		return nil, servicestore.ErrServiceNotFound
	}
	return service, nil
}

type policyRepoStub struct {
	policy *domain.PolicyConfig
}

func (s *policyRepoStub) GetBySalonID(ctx context.Context, salonID int64) (*domain.PolicyConfig, error) {
	if s.policy == nil {
		return nil, assert.AnError
	}
	return s.policy, nil
}

type txManagerStub struct{}

func (txManagerStub) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type refundCall struct {
	paymentID string
	amount    float64
}

type paymentsStub struct {
	enabled bool
	refunds []refundCall
}

func (s *paymentsStub) Enabled() bool { return s.enabled }

func (s *paymentsStub) Refund(ctx context.Context, paymentID string, amount float64) error {
	s.refunds = append(s.refunds, refundCall{paymentID: paymentID, amount: amount})
	return nil
}

type notifierStub struct {
	cancelled []*domain.Booking
	outcomes  []domain.CancellationOutcome
	promotion []*domain.WaitlistEntry
}

func (s *notifierStub) BookingCancelled(ctx context.Context, booking *domain.Booking, outcome domain.CancellationOutcome) {
	s.cancelled = append(s.cancelled, booking)
	s.outcomes = append(s.outcomes, outcome)
}

func (s *notifierStub) WaitlistPromoted(ctx context.Context, entry *domain.WaitlistEntry, freedDate string) {
	s.promotion = append(s.promotion, entry)
}

type fixture struct {
	uc       *UseCase
	bookings *bookingRepoStub
	waitlist *waitlistRepoStub
	services *serviceRepoStub
	payments *paymentsStub
	notifier *notifierStub
	policy   *domain.PolicyConfig
}

// Бронирование: 2026-09-10 12:00, 60 минут, 3000 руб, депозит 600 оплачен
func cancellableBooking() *domain.Booking {
	return &domain.Booking{
		ID:              5,
		UserID:          42,
		SalonID:         1,
		ResourceID:      1,
		ServiceID:       10,
		BookingDate:     time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		StartTime:       types.TimeString("12:00"),
		DurationMinutes: 60,
		Status:          domain.StatusConfirmed,
		PaymentStatus:   domain.PaymentDepositPaid,
		PaymentRef:      ptr.Ptr("pay_1"),
		DepositAmount:   600,
		TotalAmount:     3000,
		ServiceName:     "Massage",
	}
}

func newFixture(now time.Time, booking *domain.Booking) *fixture {
	policy := &domain.PolicyConfig{
		SalonID:                1,
		SlotGranularityMinutes: 30,
		DefaultDurationMinutes: 60,
		DefaultBufferMinutes:   0,
		MinAdvanceBookingHours: 2,
		MaxAdvanceBookingDays:  90,
		AllowSameDay:           true,
		WaitlistEnabled:        true,
		CancellationFeeTiers: []domain.CancellationFeeTier{
			{HoursBefore: 24, FeePercent: 0},
			{HoursBefore: 0, FeePercent: 50},
		},
		NoShowFeePercent: 100,
	}

	f := &fixture{
		bookings: &bookingRepoStub{booking: booking},
		waitlist: &waitlistRepoStub{},
		services: &serviceRepoStub{services: map[int64]*domain.Service{
			10: {
				ID:                  10,
				SalonID:             1,
				Name:                "Massage",
				DurationMinutes:     60,
				BasePrice:           3000,
				BufferBeforeMinutes: ptr.Ptr(0),
				BufferAfterMinutes:  ptr.Ptr(0),
				ResourceIDs:         []int64{1},
				Active:              true,
			},
		}},
		payments: &paymentsStub{enabled: true},
		notifier: &notifierStub{},
		policy:   policy,
	}

	f.uc = NewUseCase(
		f.bookings,
		f.waitlist,
		f.services,
		&policyRepoStub{policy: policy},
		txManagerStub{},
		f.payments,
		f.notifier,
		stubLogger{},
	)
	f.uc.timeProvider = fixedClock{now: now}

	return f
}

func TestExecute_EarlyCancellationNoCharge(t *testing.T) {
	// За двое суток до начала: штрафа нет, депозит возвращается
	now := time.Date(2026, 9, 8, 12, 0, 0, 0, time.UTC)
	f := newFixture(now, cancellableBooking())

	resp, err := f.uc.Execute(context.Background(), &Request{BookingID: 5, ActorID: 42})
	require.NoError(t, err)

	assert.Equal(t, domain.CancellationNoCharge, resp.ReasonCode)
	assert.Equal(t, float64(0), resp.FeeAmount)
	assert.Equal(t, float64(3000), resp.RefundAmount)
	assert.Nil(t, resp.PromotedWaitlistEntryID)

	require.Len(t, f.bookings.paymentUpdates, 1)
	assert.Equal(t, domain.PaymentRefunded, f.bookings.paymentUpdates[0])

	require.Len(t, f.payments.refunds, 1)
	assert.Equal(t, "pay_1", f.payments.refunds[0].paymentID)
	assert.Equal(t, float64(600), f.payments.refunds[0].amount)

	require.Len(t, f.notifier.cancelled, 1)
	assert.Equal(t, int64(5), f.notifier.cancelled[0].ID)
}

func TestExecute_LateCancellationForfeitsDeposit(t *testing.T) {
	// За два часа до начала: ступень 0-24 часа, штраф 50% = 1500.
	// Штраф превышает депозит, возвращать нечего.
	now := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	f := newFixture(now, cancellableBooking())

	resp, err := f.uc.Execute(context.Background(), &Request{BookingID: 5, ActorID: 42})
	require.NoError(t, err)

	assert.Equal(t, domain.CancellationLate, resp.ReasonCode)
	assert.Equal(t, float64(1500), resp.FeeAmount)
	assert.Equal(t, float64(1500), resp.RefundAmount)

	require.Len(t, f.bookings.paymentUpdates, 1)
	assert.Equal(t, domain.PaymentForfeited, f.bookings.paymentUpdates[0])
	assert.Empty(t, f.payments.refunds)
}

func TestExecute_AfterStartIsNoShow(t *testing.T) {
	// После начала: тариф no-show, максимум из NoShowFeePercent и ступеней
	now := time.Date(2026, 9, 10, 12, 30, 0, 0, time.UTC)
	f := newFixture(now, cancellableBooking())

	resp, err := f.uc.Execute(context.Background(), &Request{BookingID: 5, ActorID: 42})
	require.NoError(t, err)

	assert.Equal(t, domain.CancellationNoShow, resp.ReasonCode)
	assert.Equal(t, float64(3000), resp.FeeAmount)
	assert.Equal(t, float64(0), resp.RefundAmount)
}

func TestExecute_ManagerCancellationIsFeeFree(t *testing.T) {
	// Отмена менеджером: полный возврат независимо от времени,
	// доступ к чужому бронированию разрешен
	now := time.Date(2026, 9, 10, 11, 0, 0, 0, time.UTC)
	f := newFixture(now, cancellableBooking())

	resp, err := f.uc.Execute(context.Background(), &Request{BookingID: 5, ActorID: 7, ByManager: true})
	require.NoError(t, err)

	assert.Equal(t, domain.CancellationByCompany, resp.ReasonCode)
	assert.Equal(t, float64(0), resp.FeeAmount)
	assert.Equal(t, float64(3000), resp.RefundAmount)

	require.Len(t, f.payments.refunds, 1)
	assert.Equal(t, float64(600), f.payments.refunds[0].amount)
}

func TestExecute_OnlyOwnerCanCancel(t *testing.T) {
	now := time.Date(2026, 9, 8, 12, 0, 0, 0, time.UTC)
	f := newFixture(now, cancellableBooking())

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 5, ActorID: 7})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, f.bookings.cancelled)
}

func TestExecute_CompletedBookingCannotBeCancelled(t *testing.T) {
	now := time.Date(2026, 9, 8, 12, 0, 0, 0, time.UTC)
	booking := cancellableBooking()
	booking.Status = domain.StatusCompleted
	f := newFixture(now, booking)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 5, ActorID: 42})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestExecute_BookingNotFound(t *testing.T) {
	now := time.Date(2026, 9, 8, 12, 0, 0, 0, time.UTC)
	f := newFixture(now, cancellableBooking())

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 999, ActorID: 42})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_PromotesFirstMatchingWaitlistEntry(t *testing.T) {
	now := time.Date(2026, 9, 8, 12, 0, 0, 0, time.UTC)
	f := newFixture(now, cancellableBooking())

	winStart := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
	winEnd := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	f.waitlist.entries = []*domain.WaitlistEntry{
		{ID: 1, UserID: 100, SalonID: 1, ServiceID: 10, WindowStart: winStart, WindowEnd: winEnd, Status: domain.WaitlistWaiting},
		{ID: 2, UserID: 101, SalonID: 1, ServiceID: 10, WindowStart: winStart, WindowEnd: winEnd, Status: domain.WaitlistWaiting},
	}

	resp, err := f.uc.Execute(context.Background(), &Request{BookingID: 5, ActorID: 42})
	require.NoError(t, err)

	// Продвигается ровно одна запись: первая в порядке FIFO
	require.NotNil(t, resp.PromotedWaitlistEntryID)
	assert.Equal(t, int64(1), *resp.PromotedWaitlistEntryID)
	assert.Equal(t, []int64{1}, f.waitlist.promoted)

	// Новое бронирование встает на освободившийся интервал со статусом pending
	require.Len(t, f.bookings.created, 1)
	created := f.bookings.created[0]
	assert.Equal(t, int64(100), created.UserID)
	assert.Equal(t, types.TimeString("12:00"), created.StartTime)
	assert.Equal(t, domain.StatusPending, created.Status)
	assert.Equal(t, domain.PaymentNone, created.PaymentStatus)

	require.Len(t, f.notifier.promotion, 1)
	assert.Equal(t, int64(1), f.notifier.promotion[0].ID)
}

func TestExecute_PromotionSkipsNonMatchingEntries(t *testing.T) {
	now := time.Date(2026, 9, 8, 12, 0, 0, 0, time.UTC)
	f := newFixture(now, cancellableBooking())

	// Услуга, которая не помещается в освободившийся интервал
	f.services.services[20] = &domain.Service{
		ID:                  20,
		SalonID:             1,
		Name:                "Spa Day",
		DurationMinutes:     120,
		BasePrice:           8000,
		BufferBeforeMinutes: ptr.Ptr(0),
		BufferAfterMinutes:  ptr.Ptr(0),
		ResourceIDs:         []int64{1},
		Active:              true,
	}

	winStart := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
	winEnd := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	f.waitlist.entries = []*domain.WaitlistEntry{
		// Окно не содержит освободившуюся дату
		{ID: 1, UserID: 100, SalonID: 1, ServiceID: 10,
			WindowStart: time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC),
			WindowEnd:   time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
			Status:      domain.WaitlistWaiting},
		// Ждет другой ресурс
		{ID: 2, UserID: 101, SalonID: 1, ServiceID: 10, ResourceID: ptr.Ptr(int64(2)),
			WindowStart: winStart, WindowEnd: winEnd, Status: domain.WaitlistWaiting},
		// Услуга длиннее освободившегося интервала
		{ID: 3, UserID: 102, SalonID: 1, ServiceID: 20,
			WindowStart: winStart, WindowEnd: winEnd, Status: domain.WaitlistWaiting},
		// Первая подходящая
		{ID: 4, UserID: 103, SalonID: 1, ServiceID: 10,
			WindowStart: winStart, WindowEnd: winEnd, Status: domain.WaitlistWaiting},
	}

	resp, err := f.uc.Execute(context.Background(), &Request{BookingID: 5, ActorID: 42})
	require.NoError(t, err)

	require.NotNil(t, resp.PromotedWaitlistEntryID)
	assert.Equal(t, int64(4), *resp.PromotedWaitlistEntryID)
	assert.Equal(t, []int64{4}, f.waitlist.promoted)
}

func TestExecute_NoPromotionWhenWaitlistDisabled(t *testing.T) {
	now := time.Date(2026, 9, 8, 12, 0, 0, 0, time.UTC)
	f := newFixture(now, cancellableBooking())
	f.policy.WaitlistEnabled = false

	f.waitlist.entries = []*domain.WaitlistEntry{
		{ID: 1, UserID: 100, SalonID: 1, ServiceID: 10,
			WindowStart: time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC),
			WindowEnd:   time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
			Status:      domain.WaitlistWaiting},
	}

	resp, err := f.uc.Execute(context.Background(), &Request{BookingID: 5, ActorID: 42})
	require.NoError(t, err)

	assert.Nil(t, resp.PromotedWaitlistEntryID)
	assert.Empty(t, f.waitlist.promoted)
	assert.Empty(t, f.bookings.created)
}

func TestExecute_InvalidInput(t *testing.T) {
	now := time.Date(2026, 9, 8, 12, 0, 0, 0, time.UTC)
	f := newFixture(now, cancellableBooking())

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 0, ActorID: 42})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
