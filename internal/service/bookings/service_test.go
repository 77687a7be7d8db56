package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kkosolapov/SPA-BookingService/internal/domain"
	bookingstore "github.com/kkosolapov/SPA-BookingService/internal/infra/storage/booking"
	"github.com/kkosolapov/SPA-BookingService/internal/service/bookings/models"
	"github.com/kkosolapov/SPA-BookingService/pkg/ptr"
	"github.com/kkosolapov/SPA-BookingService/pkg/types"
)

type stubLogger struct{}

func (stubLogger) Info(format string, v ...interface{})  {}
func (stubLogger) Warn(format string, v ...interface{})  {}
func (stubLogger) Error(format string, v ...interface{}) {}

type bookingRepoStub struct {
	booking *domain.Booking

	userBookings  []*domain.Booking
	salonBookings []*domain.Booking

	lastFilter    *domain.BookingsFilter
	statusUpdates []domain.BookingStatus
}

func (s *bookingRepoStub) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if s.booking == nil || s.booking.ID != id {
		return nil, bookingstore.ErrBookingNotFound
	}
	return s.booking, nil
}

func (s *bookingRepoStub) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	return s.userBookings, nil
}

func (s *bookingRepoStub) GetBySalonWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	s.lastFilter = &filter
	return s.salonBookings, nil
}

func (s *bookingRepoStub) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	s.statusUpdates = append(s.statusUpdates, status)
	return nil
}

func testBooking() *domain.Booking {
	return &domain.Booking{
		ID:              5,
		UserID:          42,
		SalonID:         1,
		ResourceID:      3,
		ServiceID:       10,
		BookingDate:     time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		StartTime:       types.TimeString("12:00"),
		DurationMinutes: 60,
		Status:          domain.StatusConfirmed,
		PaymentStatus:   domain.PaymentNone,
		TotalAmount:     3000,
		ServiceName:     "Massage",
	}
}

func TestGetByID_Access(t *testing.T) {
	tests := []struct {
		name    string
		actor   domain.Actor
		wantErr error
	}{
		{
			name:  "owner sees own booking",
			actor: domain.Actor{UserID: 42, Role: domain.RoleCustomer},
		},
		{
			name:  "manager sees any booking",
			actor: domain.Actor{UserID: 7, Role: domain.RoleManager},
		},
		{
			name:  "staff sees bookings of own resource",
			actor: domain.Actor{UserID: 8, Role: domain.RoleStaff, ResourceID: ptr.Ptr(int64(3))},
		},
		{
			name:    "staff denied for foreign resource",
			actor:   domain.Actor{UserID: 8, Role: domain.RoleStaff, ResourceID: ptr.Ptr(int64(4))},
			wantErr: ErrAccessDenied,
		},
		{
			name:    "other customer denied",
			actor:   domain.Actor{UserID: 7, Role: domain.RoleCustomer},
			wantErr: ErrAccessDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&bookingRepoStub{booking: testBooking()}, stubLogger{})

			resp, err := svc.GetByID(context.Background(), 5, tt.actor)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(5), resp.ID)
			assert.Equal(t, "12:00", resp.StartTime)
		})
	}
}

func TestGetByID_NotFound(t *testing.T) {
	svc := NewService(&bookingRepoStub{}, stubLogger{})

	_, err := svc.GetByID(context.Background(), 99, domain.Actor{UserID: 42, Role: domain.RoleCustomer})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetUserBookings_Access(t *testing.T) {
	repo := &bookingRepoStub{userBookings: []*domain.Booking{testBooking()}}
	svc := NewService(repo, stubLogger{})

	// Своя история доступна
	resp, err := svc.GetUserBookings(context.Background(),
		&models.GetUserBookingsRequest{UserID: 42},
		domain.Actor{UserID: 42, Role: domain.RoleCustomer})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)

	// Чужая история доступна менеджеру
	_, err = svc.GetUserBookings(context.Background(),
		&models.GetUserBookingsRequest{UserID: 42},
		domain.Actor{UserID: 7, Role: domain.RoleManager})
	require.NoError(t, err)

	// Чужая история недоступна обычному пользователю
	_, err = svc.GetUserBookings(context.Background(),
		&models.GetUserBookingsRequest{UserID: 42},
		domain.Actor{UserID: 7, Role: domain.RoleCustomer})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetUserBookings_InvalidStatus(t *testing.T) {
	svc := NewService(&bookingRepoStub{}, stubLogger{})

	_, err := svc.GetUserBookings(context.Background(),
		&models.GetUserBookingsRequest{UserID: 42, Status: ptr.Ptr("unknown")},
		domain.Actor{UserID: 42, Role: domain.RoleCustomer})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetSalonBookings_StaffNarrowedToOwnResource(t *testing.T) {
	repo := &bookingRepoStub{salonBookings: []*domain.Booking{testBooking()}}
	svc := NewService(repo, stubLogger{})

	// Мастер запрашивает чужой ресурс, но фильтр сужается до его собственного
	_, err := svc.GetSalonBookings(context.Background(),
		&models.GetSalonBookingsRequest{SalonID: 1, ResourceID: ptr.Ptr(int64(9))},
		domain.Actor{UserID: 8, Role: domain.RoleStaff, ResourceID: ptr.Ptr(int64(3))})
	require.NoError(t, err)

	require.NotNil(t, repo.lastFilter)
	require.NotNil(t, repo.lastFilter.ResourceID)
	assert.Equal(t, int64(3), *repo.lastFilter.ResourceID)
}

func TestGetSalonBookings_Access(t *testing.T) {
	repo := &bookingRepoStub{}
	svc := NewService(repo, stubLogger{})

	// Мастер без привязки к ресурсу
	_, err := svc.GetSalonBookings(context.Background(),
		&models.GetSalonBookingsRequest{SalonID: 1},
		domain.Actor{UserID: 8, Role: domain.RoleStaff})
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Обычный пользователь
	_, err = svc.GetSalonBookings(context.Background(),
		&models.GetSalonBookingsRequest{SalonID: 1},
		domain.Actor{UserID: 42, Role: domain.RoleCustomer})
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Менеджер видит весь салон
	_, err = svc.GetSalonBookings(context.Background(),
		&models.GetSalonBookingsRequest{SalonID: 1},
		domain.Actor{UserID: 7, Role: domain.RoleManager})
	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter)
	assert.Nil(t, repo.lastFilter.ResourceID)
}

func TestUpdateStatus_Transitions(t *testing.T) {
	manager := domain.Actor{UserID: 7, Role: domain.RoleManager}

	tests := []struct {
		name    string
		from    domain.BookingStatus
		to      string
		wantErr error
	}{
		{name: "pending to confirmed", from: domain.StatusPending, to: "confirmed"},
		{name: "confirmed to in_progress", from: domain.StatusConfirmed, to: "in_progress"},
		{name: "in_progress to completed", from: domain.StatusInProgress, to: "completed"},
		{name: "confirmed to no_show", from: domain.StatusConfirmed, to: "no_show"},
		{name: "pending to completed forbidden", from: domain.StatusPending, to: "completed", wantErr: ErrInvalidTransition},
		{name: "completed is terminal", from: domain.StatusCompleted, to: "confirmed", wantErr: ErrInvalidTransition},
		{name: "cancelled is terminal", from: domain.StatusCancelled, to: "pending", wantErr: ErrInvalidTransition},
		{name: "unknown status", from: domain.StatusPending, to: "paused", wantErr: ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := testBooking()
			booking.Status = tt.from
			repo := &bookingRepoStub{booking: booking}
			svc := NewService(repo, stubLogger{})

			err := svc.UpdateStatus(context.Background(), 5, &models.UpdateStatusRequest{Status: tt.to}, manager)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, repo.statusUpdates)
				return
			}
			require.NoError(t, err)
			require.Len(t, repo.statusUpdates, 1)
			assert.Equal(t, domain.BookingStatus(tt.to), repo.statusUpdates[0])
		})
	}
}

func TestUpdateStatus_Access(t *testing.T) {
	booking := testBooking()
	booking.Status = domain.StatusConfirmed

	// Мастер своего ресурса может переводить статусы
	repo := &bookingRepoStub{booking: booking}
	svc := NewService(repo, stubLogger{})
	err := svc.UpdateStatus(context.Background(), 5,
		&models.UpdateStatusRequest{Status: "in_progress"},
		domain.Actor{UserID: 8, Role: domain.RoleStaff, ResourceID: ptr.Ptr(int64(3))})
	require.NoError(t, err)

	// Владелец бронирования не управляет статусами
	repo = &bookingRepoStub{booking: testBooking()}
	svc = NewService(repo, stubLogger{})
	err = svc.UpdateStatus(context.Background(), 5,
		&models.UpdateStatusRequest{Status: "in_progress"},
		domain.Actor{UserID: 42, Role: domain.RoleCustomer})
	assert.ErrorIs(t, err, ErrAccessDenied)
}
