package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/kkosolapov/SPA-BookingService/internal/domain"
	bookingRepo "github.com/kkosolapov/SPA-BookingService/internal/infra/storage/booking"
	"github.com/kkosolapov/SPA-BookingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID.
// Пользователь видит только свое бронирование; менеджер и мастер — любые
// бронирования салона (мастер — только своего ресурса).
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, actor.UserID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if err := checkBookingAccess(booking, actor); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", actor.UserID, id)
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя.
// Опционально фильтрует по статусу.
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest, actor domain.Actor) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	// Чужая история доступна только менеджеру
	if req.UserID != actor.UserID && !actor.IsManager() {
		s.logger.Warn("GetUserBookings: access denied for user=%d to history of user=%d", actor.UserID, req.UserID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := domain.ParseBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetSalonBookings получает бронирования салона с гибкой фильтрацией.
// Доступно менеджеру (весь салон) и мастеру: фильтр мастера принудительно
// сужается до его собственного ресурса.
func (s *Service) GetSalonBookings(ctx context.Context, req *models.GetSalonBookingsRequest, actor domain.Actor) (*models.BookingListResponse, error) {
	s.logger.Info("GetSalonBookings: fetching bookings for salon=%d, user=%d, role=%s", req.SalonID, actor.UserID, actor.Role)

	switch {
	case actor.IsManager():
		// Менеджер видит весь салон
	case actor.IsStaff():
		if actor.ResourceID == nil {
			s.logger.Warn("GetSalonBookings: staff user=%d has no resource binding", actor.UserID)
			return nil, ErrAccessDenied
		}
		// Мастер видит только свой ресурс независимо от запрошенного фильтра
		req.ResourceID = actor.ResourceID
	default:
		s.logger.Warn("GetSalonBookings: access denied for user=%d, role=%s", actor.UserID, actor.Role)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetSalonBookings: invalid filter for salon=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetBySalonWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetSalonBookings: repository error for salon=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: GetSalonBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetSalonBookings: fetched %d bookings for salon=%d", len(bookings), req.SalonID)
	return models.FromDomainBookingList(bookings), nil
}

// UpdateStatus обновляет статус бронирования по машине статусов.
// Доступно менеджеру и мастеру своего ресурса. Запрещенный переход,
// включая любой переход из терминального статуса, дает ErrInvalidTransition.
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest, actor domain.Actor) error {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s by user=%d", bookingID, req.Status, actor.UserID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdateStatus: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	if !actor.IsManager() && !staffOwnsResource(booking, actor) {
		s.logger.Warn("UpdateStatus: access denied for user=%d to booking id=%d", actor.UserID, bookingID)
		return ErrAccessDenied
	}

	newStatus, err := domain.ParseBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}

	if !domain.CanTransition(booking.Status, newStatus) {
		s.logger.Warn("UpdateStatus: transition %s -> %s is not allowed for booking id=%d",
			booking.Status, newStatus, bookingID)
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, newStatus)
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, newStatus); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: booking id=%d moved %s -> %s", bookingID, booking.Status, newStatus)
	return nil
}

// checkBookingAccess проверяет право актора видеть бронирование
func checkBookingAccess(booking *domain.Booking, actor domain.Actor) error {
	if booking.UserID != 0 && booking.UserID == actor.UserID {
		return nil
	}
	if actor.IsManager() || staffOwnsResource(booking, actor) {
		return nil
	}
	return ErrAccessDenied
}

// staffOwnsResource проверяет, что мастер привязан к ресурсу бронирования
func staffOwnsResource(booking *domain.Booking, actor domain.Actor) bool {
	return actor.IsStaff() && actor.ResourceID != nil && *actor.ResourceID == booking.ResourceID
}
