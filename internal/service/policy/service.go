package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/kkosolapov/SPA-BookingService/internal/domain"
	policyRepo "github.com/kkosolapov/SPA-BookingService/internal/infra/storage/policy"
	"github.com/kkosolapov/SPA-BookingService/internal/service/policy/models"
)

// Service сервис для работы с политикой салона
type Service struct {
	policyRepo PolicyRepository
	logger     Logger
}

// NewService создает новый экземпляр сервиса политик
func NewService(policyRepo PolicyRepository, logger Logger) *Service {
	return &Service{
		policyRepo: policyRepo,
		logger:     logger,
	}
}

// Get возвращает политику салона.
// Публичный метод: клиентам нужны правила отмены до бронирования.
// Для салона без сохраненной политики возвращаются дефолтные значения.
func (s *Service) Get(ctx context.Context, salonID int64) (*models.PolicyResponse, error) {
	s.logger.Info("GetPolicy: fetching policy for salon=%d", salonID)

	if salonID <= 0 {
		return nil, fmt.Errorf("%w: salonID must be positive", ErrInvalidInput)
	}

	policy, err := s.policyRepo.GetBySalonID(ctx, salonID)
	if err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			s.logger.Info("GetPolicy: no stored policy for salon=%d, returning defaults", salonID)
			return models.FromDomainPolicy(domain.DefaultPolicyConfig(salonID)), nil
		}
		s.logger.Error("GetPolicy: repository error for salon=%d: %v", salonID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainPolicy(policy), nil
}

// Update обновляет политику салона. Доступно только менеджеру.
// Частичное обновление поверх сохраненной политики (или дефолтной).
func (s *Service) Update(ctx context.Context, salonID int64, req *models.UpdatePolicyRequest, actor domain.Actor) (*models.PolicyResponse, error) {
	s.logger.Info("UpdatePolicy: updating policy for salon=%d by user=%d", salonID, actor.UserID)

	if salonID <= 0 {
		return nil, fmt.Errorf("%w: salonID must be positive", ErrInvalidInput)
	}

	if !actor.IsManager() {
		s.logger.Warn("UpdatePolicy: access denied for user=%d, role=%s", actor.UserID, actor.Role)
		return nil, ErrAccessDenied
	}

	// Базой служит сохраненная политика, при ее отсутствии — дефолтная
	policy, err := s.policyRepo.GetBySalonID(ctx, salonID)
	if err != nil {
		if !errors.Is(err, policyRepo.ErrPolicyNotFound) {
			s.logger.Error("UpdatePolicy: repository error for salon=%d: %v", salonID, err)
			return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}
		policy = domain.DefaultPolicyConfig(salonID)
	}

	req.ApplyTo(policy)

	if err := validatePolicy(policy); err != nil {
		s.logger.Warn("UpdatePolicy: validation failed for salon=%d: %v", salonID, err)
		return nil, err
	}

	updated, err := s.policyRepo.Upsert(ctx, policy)
	if err != nil {
		s.logger.Error("UpdatePolicy: failed to upsert policy for salon=%d: %v", salonID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdatePolicy: policy for salon=%d updated", salonID)
	return models.FromDomainPolicy(updated), nil
}

// validatePolicy проверяет границы значений политики
func validatePolicy(p *domain.PolicyConfig) error {
	if p.SlotGranularityMinutes < domain.MinSlotGranularityMinutes || p.SlotGranularityMinutes > domain.MaxSlotGranularityMinutes {
		return fmt.Errorf("%w: slotGranularityMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotGranularityMinutes, domain.MaxSlotGranularityMinutes)
	}

	if p.DefaultDurationMinutes < domain.MinServiceDurationMinutes || p.DefaultDurationMinutes > domain.MaxServiceDurationMinutes {
		return fmt.Errorf("%w: defaultDurationMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinServiceDurationMinutes, domain.MaxServiceDurationMinutes)
	}

	if p.DefaultBufferMinutes < 0 || p.DefaultBufferMinutes > domain.MaxBufferMinutes {
		return fmt.Errorf("%w: defaultBufferMinutes must be between 0 and %d", ErrInvalidInput, domain.MaxBufferMinutes)
	}

	if p.MinAdvanceBookingHours < domain.MinAdvanceBookingHours || p.MinAdvanceBookingHours > domain.MaxAdvanceBookingHours {
		return fmt.Errorf("%w: minAdvanceBookingHours must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceBookingHours, domain.MaxAdvanceBookingHours)
	}

	if p.MaxAdvanceBookingDays < 0 || p.MaxAdvanceBookingDays > domain.MaxAdvanceBookingDaysCap {
		return fmt.Errorf("%w: maxAdvanceBookingDays must be between 0 and %d", ErrInvalidInput, domain.MaxAdvanceBookingDaysCap)
	}

	if p.DepositPercent < 0 || p.DepositPercent > 100 {
		return fmt.Errorf("%w: depositPercent must be between 0 and 100", ErrInvalidInput)
	}

	if p.NoShowFeePercent < 0 || p.NoShowFeePercent > domain.MaxFeePercent {
		return fmt.Errorf("%w: noShowFeePercent must be between 0 and %.0f", ErrInvalidInput, domain.MaxFeePercent)
	}

	for _, tier := range p.CancellationFeeTiers {
		if tier.HoursBefore < 0 {
			return fmt.Errorf("%w: tier hoursBefore must not be negative", ErrInvalidInput)
		}
		if tier.FeePercent < 0 || tier.FeePercent > domain.MaxFeePercent {
			return fmt.Errorf("%w: tier feePercent must be between 0 and %.0f", ErrInvalidInput, domain.MaxFeePercent)
		}
	}

	return nil
}
