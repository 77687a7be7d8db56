package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/kkosolapov/SPA-BookingService/internal/domain"
	policyRepo "github.com/kkosolapov/SPA-BookingService/internal/infra/storage/policy"
	resourceRepo "github.com/kkosolapov/SPA-BookingService/internal/infra/storage/resource"
	serviceRepo "github.com/kkosolapov/SPA-BookingService/internal/infra/storage/service"
)

// UseCase use case для получения доступных слотов
type UseCase struct {
	bookingRepo  BookingRepository
	serviceRepo  ServiceRepository
	resourceRepo ResourceRepository
	policyRepo   PolicyRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	serviceRepo ServiceRepository,
	resourceRepo ResourceRepository,
	policyRepo PolicyRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		serviceRepo:  serviceRepo,
		resourceRepo: resourceRepo,
		policyRepo:   policyRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute вычисляет доступные слоты по политике салона.
// Операция только читает данные: календарь занятости выводится из активных
// бронирований, никакие записи не создаются.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: salon=%d, service=%d, dates=%s..%s",
		req.SalonID, req.ServiceID,
		req.StartDate.Format(domain.DateFormat), endDate(req).Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Получаем услугу
	service, err := uc.serviceRepo.GetByID(ctx, req.SalonID, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found in salon id=%d", req.ServiceID, req.SalonID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.Active {
		uc.logger.Warn("GetAvailableSlots: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 3. Получаем политику салона; при отсутствии используем дефолтную
	policy, err := uc.policyRepo.GetBySalonID(ctx, req.SalonID)
	if err != nil {
		if !errors.Is(err, policyRepo.ErrPolicyNotFound) {
			uc.logger.Error("GetAvailableSlots: failed to get policy for salon id=%d: %v", req.SalonID, err)
			return nil, fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
		}
		policy = domain.DefaultPolicyConfig(req.SalonID)
		uc.logger.Info("GetAvailableSlots: using default policy for salon=%d", req.SalonID)
	}

	// 4. Собираем подходящие ресурсы
	resources, err := uc.resolveResources(ctx, req, service)
	if err != nil {
		return nil, err
	}
	if len(resources) == 0 {
		return &Response{SalonID: req.SalonID, ServiceID: req.ServiceID, Slots: []Slot{}}, nil
	}

	// 5. Параметры слота: длительность услуги и буферы (с дефолтами политики)
	duration := service.DurationMinutes
	if duration <= 0 {
		duration = policy.DefaultDurationMinutes
	}
	bufferBefore := service.BufferBefore(policy.DefaultBufferMinutes)
	bufferAfter := service.BufferAfter(policy.DefaultBufferMinutes)

	// 6. Одним запросом получаем активные бронирования за весь период
	start := truncateToDay(req.StartDate)
	end := truncateToDay(endDate(req))

	filter := domain.BookingsFilter{
		SalonID:         req.SalonID,
		ResourceID:      req.ResourceID,
		StartDate:       &start,
		EndDate:         &end,
		IncludeInactive: false,
	}

	bookings, err := uc.bookingRepo.GetBySalonWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 7. Генерируем слоты по каждой дате и каждому ресурсу
	slots := make([]Slot, 0)

	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		if !dateAllowed(date, now, policy) {
			continue
		}

		for _, resource := range resources {
			starts, err := generateResourceSlots(resource, date, now, policy, duration, bufferBefore, bufferAfter, bookings)
			if err != nil {
				uc.logger.Error("GetAvailableSlots: failed to generate slots for resource id=%d: %v", resource.ID, err)
				return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
			}

			for _, startTime := range starts {
				slots = append(slots, Slot{
					ResourceID:      resource.ID,
					Date:            date,
					StartTime:       startTime,
					DurationMinutes: duration,
				})
			}
		}
	}

	// 8. Сортировка: (дата, время начала) по возрастанию, затем resourceID
	sort.SliceStable(slots, func(i, j int) bool {
		if !slots[i].Date.Equal(slots[j].Date) {
			return slots[i].Date.Before(slots[j].Date)
		}
		if slots[i].StartTime != slots[j].StartTime {
			return slots[i].StartTime.IsBefore(slots[j].StartTime)
		}
		return slots[i].ResourceID < slots[j].ResourceID
	})

	if req.Merge {
		slots = mergeSlots(slots)
	}

	uc.logger.Info("GetAvailableSlots: found %d slots for salon=%d, service=%d", len(slots), req.SalonID, req.ServiceID)

	return &Response{SalonID: req.SalonID, ServiceID: req.ServiceID, Slots: slots}, nil
}

// resolveResources возвращает активные ресурсы салона, на которых доступна услуга
func (uc *UseCase) resolveResources(ctx context.Context, req *Request, service *domain.Service) ([]*domain.Resource, error) {
	if req.ResourceID != nil {
		resource, err := uc.resourceRepo.GetByID(ctx, *req.ResourceID)
		if err != nil {
			if errors.Is(err, resourceRepo.ErrResourceNotFound) {
				uc.logger.Warn("GetAvailableSlots: resource id=%d not found", *req.ResourceID)
				return nil, ErrResourceNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get resource id=%d: %v", *req.ResourceID, err)
			return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
		}

		if resource.SalonID != req.SalonID || !resource.Active {
			return nil, ErrResourceNotFound
		}
		if !service.AvailableOnResource(resource.ID) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not available on resource id=%d", service.ID, resource.ID)
			return nil, ErrResourceNotEligible
		}

		return []*domain.Resource{resource}, nil
	}

	all, err := uc.resourceRepo.GetBySalonID(ctx, req.SalonID, true)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get resources for salon id=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: failed to get resources: %v", ErrInternal, err)
	}

	eligible := make([]*domain.Resource, 0, len(all))
	for _, resource := range all {
		if service.AvailableOnResource(resource.ID) {
			eligible = append(eligible, resource)
		}
	}

	return eligible, nil
}

// endDate возвращает конец периода; нулевой EndDate означает запрос на один день
func endDate(req *Request) time.Time {
	if req.EndDate.IsZero() {
		return req.StartDate
	}
	return req.EndDate
}
