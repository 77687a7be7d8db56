package get_available_slots

import (
	"time"

	"github.com/kkosolapov/SPA-BookingService/internal/domain"
	getAvailableSlots "github.com/kkosolapov/SPA-BookingService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	SalonID   int64           `json:"salonId"`
	ServiceID int64           `json:"serviceId"`
	Slots     []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	ResourceID      int64  `json:"resourceId"`
	Date            string `json:"date"`
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
}

// ToUseCaseRequest создает запрос use case из path и query параметров
func ToUseCaseRequest(salonID, serviceID int64, startDateStr, endDateStr string, resourceID *int64, merge bool) (*getAvailableSlots.Request, error) {
	startDate, err := time.Parse(domain.DateFormat, startDateStr)
	if err != nil {
		return nil, err
	}

	var endDate time.Time
	if endDateStr != "" {
		endDate, err = time.Parse(domain.DateFormat, endDateStr)
		if err != nil {
			return nil, err
		}
	}

	return &getAvailableSlots.Request{
		SalonID:    salonID,
		ServiceID:  serviceID,
		StartDate:  startDate,
		EndDate:    endDate,
		ResourceID: resourceID,
		Merge:      merge,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			ResourceID:      slot.ResourceID,
			Date:            slot.Date.Format(domain.DateFormat),
			StartTime:       slot.StartTime.String(),
			DurationMinutes: slot.DurationMinutes,
		}
	}

	return &AvailableSlotsResponse{
		SalonID:   resp.SalonID,
		ServiceID: resp.ServiceID,
		Slots:     slots,
	}
}
