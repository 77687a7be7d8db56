package models

import (
	"time"

	"github.com/kkosolapov/SPA-BookingService/internal/domain"
)

// JoinWaitlistRequest запрос на вступление в лист ожидания
type JoinWaitlistRequest struct {
	UserID      int64     `json:"userId"`
	SalonID     int64     `json:"salonId"`
	ServiceID   int64     `json:"serviceId"`
	ResourceID  *int64    `json:"resourceId,omitempty"` // nil = любой подходящий ресурс
	WindowStart time.Time `json:"windowStart"`
	WindowEnd   time.Time `json:"windowEnd"`
}

// ToDomainEntry конвертирует request в domain модель
func (r *JoinWaitlistRequest) ToDomainEntry() *domain.WaitlistEntry {
	return &domain.WaitlistEntry{
		UserID:      r.UserID,
		SalonID:     r.SalonID,
		ServiceID:   r.ServiceID,
		ResourceID:  r.ResourceID,
		WindowStart: r.WindowStart,
		WindowEnd:   r.WindowEnd,
		Status:      domain.WaitlistWaiting,
	}
}

// WaitlistEntryResponse ответ с записью листа ожидания
type WaitlistEntryResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	SalonID     int64     `json:"salonId"`
	ServiceID   int64     `json:"serviceId"`
	ResourceID  *int64    `json:"resourceId,omitempty"`
	WindowStart string    `json:"windowStart"` // "2026-09-15"
	WindowEnd   string    `json:"windowEnd"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// WaitlistResponse ответ со списком записей
type WaitlistResponse struct {
	Entries []WaitlistEntryResponse `json:"entries"`
}

// FromDomainEntry конвертирует domain модель в DTO
func FromDomainEntry(e *domain.WaitlistEntry) *WaitlistEntryResponse {
	if e == nil {
		return nil
	}
	return &WaitlistEntryResponse{
		ID:          e.ID,
		UserID:      e.UserID,
		SalonID:     e.SalonID,
		ServiceID:   e.ServiceID,
		ResourceID:  e.ResourceID,
		WindowStart: e.WindowStart.Format(domain.DateFormat),
		WindowEnd:   e.WindowEnd.Format(domain.DateFormat),
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt,
	}
}

// FromDomainEntryList конвертирует список domain моделей в DTO
func FromDomainEntryList(entries []*domain.WaitlistEntry) *WaitlistResponse {
	resp := &WaitlistResponse{Entries: make([]WaitlistEntryResponse, 0, len(entries))}
	for _, e := range entries {
		if dto := FromDomainEntry(e); dto != nil {
			resp.Entries = append(resp.Entries, *dto)
		}
	}
	return resp
}
