package waitlist

import (
	"context"
	"errors"
	"fmt"

	"github.com/kkosolapov/SPA-BookingService/internal/domain"
	policyRepo "github.com/kkosolapov/SPA-BookingService/internal/infra/storage/policy"
	resourceRepo "github.com/kkosolapov/SPA-BookingService/internal/infra/storage/resource"
	serviceRepo "github.com/kkosolapov/SPA-BookingService/internal/infra/storage/service"
	"github.com/kkosolapov/SPA-BookingService/internal/service/waitlist/models"
)

// Service сервис листа ожидания
type Service struct {
	waitlistRepo WaitlistRepository
	serviceRepo  ServiceRepository
	resourceRepo ResourceRepository
	policyRepo   PolicyRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса листа ожидания
func NewService(
	waitlistRepo WaitlistRepository,
	serviceRepo ServiceRepository,
	resourceRepo ResourceRepository,
	policyRepo PolicyRepository,
	logger Logger,
) *Service {
	return &Service{
		waitlistRepo: waitlistRepo,
		serviceRepo:  serviceRepo,
		resourceRepo: resourceRepo,
		policyRepo:   policyRepo,
		logger:       logger,
	}
}

// Join добавляет пользователя в лист ожидания салона.
// Запрещено, когда лист ожидания выключен политикой салона.
func (s *Service) Join(ctx context.Context, req *models.JoinWaitlistRequest) (*models.WaitlistEntryResponse, error) {
	s.logger.Info("JoinWaitlist: user=%d, salon=%d, service=%d, window=%s..%s",
		req.UserID, req.SalonID, req.ServiceID,
		req.WindowStart.Format(domain.DateFormat), req.WindowEnd.Format(domain.DateFormat))

	if err := validateJoinRequest(req); err != nil {
		s.logger.Warn("JoinWaitlist: validation failed: %v", err)
		return nil, err
	}

	// Фича-гейт: лист ожидания может быть выключен политикой
	policy, err := s.policyRepo.GetBySalonID(ctx, req.SalonID)
	if err != nil {
		if !errors.Is(err, policyRepo.ErrPolicyNotFound) {
			s.logger.Error("JoinWaitlist: failed to get policy for salon=%d: %v", req.SalonID, err)
			return nil, fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
		}
		policy = domain.DefaultPolicyConfig(req.SalonID)
	}
	if !policy.WaitlistEnabled {
		s.logger.Warn("JoinWaitlist: waitlist disabled for salon=%d", req.SalonID)
		return nil, ErrWaitlistDisabled
	}

	// Услуга должна существовать и быть активной
	service, err := s.serviceRepo.GetByID(ctx, req.SalonID, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			s.logger.Warn("JoinWaitlist: service id=%d not found in salon=%d", req.ServiceID, req.SalonID)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("JoinWaitlist: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.Active {
		return nil, ErrServiceNotFound
	}

	// Конкретный ресурс (если указан) должен существовать и подходить услуге
	if req.ResourceID != nil {
		resource, err := s.resourceRepo.GetByID(ctx, *req.ResourceID)
		if err != nil {
			if errors.Is(err, resourceRepo.ErrResourceNotFound) {
				s.logger.Warn("JoinWaitlist: resource id=%d not found", *req.ResourceID)
				return nil, ErrResourceNotFound
			}
			s.logger.Error("JoinWaitlist: failed to get resource id=%d: %v", *req.ResourceID, err)
			return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
		}
		if resource.SalonID != req.SalonID || !resource.Active {
			return nil, ErrResourceNotFound
		}
		if !service.AvailableOnResource(resource.ID) {
			return nil, fmt.Errorf("%w: service is not available on this resource", ErrInvalidInput)
		}
	}

	created, err := s.waitlistRepo.Create(ctx, req.ToDomainEntry())
	if err != nil {
		s.logger.Error("JoinWaitlist: failed to create entry: %v", err)
		return nil, fmt.Errorf("%w: Join - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("JoinWaitlist: created entry id=%d for user=%d", created.ID, created.UserID)
	return models.FromDomainEntry(created), nil
}

// GetUserWaitlist возвращает записи пользователя в листе ожидания салона.
// Чужие записи доступны только менеджеру.
func (s *Service) GetUserWaitlist(ctx context.Context, salonID, userID int64, actor domain.Actor) (*models.WaitlistResponse, error) {
	s.logger.Info("GetUserWaitlist: salon=%d, user=%d, actor=%d", salonID, userID, actor.UserID)

	if salonID <= 0 || userID <= 0 {
		return nil, fmt.Errorf("%w: salonID and userID must be positive", ErrInvalidInput)
	}

	if userID != actor.UserID && !actor.IsManager() {
		s.logger.Warn("GetUserWaitlist: access denied for user=%d to waitlist of user=%d", actor.UserID, userID)
		return nil, ErrAccessDenied
	}

	entries, err := s.waitlistRepo.GetByUserID(ctx, salonID, userID)
	if err != nil {
		s.logger.Error("GetUserWaitlist: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: GetUserWaitlist - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainEntryList(entries), nil
}

// validateJoinRequest валидирует запрос на вступление в лист ожидания
func validateJoinRequest(req *models.JoinWaitlistRequest) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}
	if req.SalonID <= 0 {
		return fmt.Errorf("%w: salonID must be positive", ErrInvalidInput)
	}
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}
	if req.ResourceID != nil && *req.ResourceID <= 0 {
		return fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}
	if req.WindowStart.IsZero() || req.WindowEnd.IsZero() {
		return fmt.Errorf("%w: windowStart and windowEnd are required", ErrInvalidInput)
	}
	if req.WindowEnd.Before(req.WindowStart) {
		return fmt.Errorf("%w: windowEnd is before windowStart", ErrInvalidInput)
	}
	if req.WindowEnd.Sub(req.WindowStart).Hours() > 24*domain.MaxWaitlistWindowDays {
		return fmt.Errorf("%w: waitlist window is longer than %d days", ErrInvalidInput, domain.MaxWaitlistWindowDays)
	}
	return nil
}
