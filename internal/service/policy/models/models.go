package models

import (
	"time"

	"github.com/kkosolapov/SPA-BookingService/internal/domain"
)

// FeeTier ступень политики штрафов за отмену
type FeeTier struct {
	HoursBefore int     `json:"hoursBefore"`
	FeePercent  float64 `json:"feePercent"`
}

// UpdatePolicyRequest запрос на обновление политики салона.
// Частичное обновление: обновляются только указанные поля.
type UpdatePolicyRequest struct {
	SlotGranularityMinutes *int `json:"slotGranularityMinutes,omitempty"`
	DefaultDurationMinutes *int `json:"defaultDurationMinutes,omitempty"`
	DefaultBufferMinutes   *int `json:"defaultBufferMinutes,omitempty"`

	MinAdvanceBookingHours *int `json:"minAdvanceBookingHours,omitempty"`
	MaxAdvanceBookingDays  *int `json:"maxAdvanceBookingDays,omitempty"`

	AllowSameDay         *bool    `json:"allowSameDay,omitempty"`
	WaitlistEnabled      *bool    `json:"waitlistEnabled,omitempty"`
	GuestCheckoutEnabled *bool    `json:"guestCheckoutEnabled,omitempty"`
	RequireDeposit       *bool    `json:"requireDeposit,omitempty"`
	DepositPercent       *float64 `json:"depositPercent,omitempty"`

	CancellationFeeTiers *[]FeeTier `json:"cancellationFeeTiers,omitempty"`
	NoShowFeePercent     *float64   `json:"noShowFeePercent,omitempty"`
}

// ApplyTo накладывает частичное обновление на существующую политику
func (r *UpdatePolicyRequest) ApplyTo(p *domain.PolicyConfig) {
	if r.SlotGranularityMinutes != nil {
		p.SlotGranularityMinutes = *r.SlotGranularityMinutes
	}
	if r.DefaultDurationMinutes != nil {
		p.DefaultDurationMinutes = *r.DefaultDurationMinutes
	}
	if r.DefaultBufferMinutes != nil {
		p.DefaultBufferMinutes = *r.DefaultBufferMinutes
	}
	if r.MinAdvanceBookingHours != nil {
		p.MinAdvanceBookingHours = *r.MinAdvanceBookingHours
	}
	if r.MaxAdvanceBookingDays != nil {
		p.MaxAdvanceBookingDays = *r.MaxAdvanceBookingDays
	}
	if r.AllowSameDay != nil {
		p.AllowSameDay = *r.AllowSameDay
	}
	if r.WaitlistEnabled != nil {
		p.WaitlistEnabled = *r.WaitlistEnabled
	}
	if r.GuestCheckoutEnabled != nil {
		p.GuestCheckoutEnabled = *r.GuestCheckoutEnabled
	}
	if r.RequireDeposit != nil {
		p.RequireDeposit = *r.RequireDeposit
	}
	if r.DepositPercent != nil {
		p.DepositPercent = *r.DepositPercent
	}
	if r.CancellationFeeTiers != nil {
		tiers := make([]domain.CancellationFeeTier, len(*r.CancellationFeeTiers))
		for i, t := range *r.CancellationFeeTiers {
			tiers[i] = domain.CancellationFeeTier{HoursBefore: t.HoursBefore, FeePercent: t.FeePercent}
		}
		p.CancellationFeeTiers = tiers
	}
	if r.NoShowFeePercent != nil {
		p.NoShowFeePercent = *r.NoShowFeePercent
	}
}

// PolicyResponse ответ с политикой салона
type PolicyResponse struct {
	SalonID int64 `json:"salonId"`

	SlotGranularityMinutes int `json:"slotGranularityMinutes"`
	DefaultDurationMinutes int `json:"defaultDurationMinutes"`
	DefaultBufferMinutes   int `json:"defaultBufferMinutes"`

	MinAdvanceBookingHours int `json:"minAdvanceBookingHours"`
	MaxAdvanceBookingDays  int `json:"maxAdvanceBookingDays"`

	AllowSameDay         bool    `json:"allowSameDay"`
	WaitlistEnabled      bool    `json:"waitlistEnabled"`
	GuestCheckoutEnabled bool    `json:"guestCheckoutEnabled"`
	RequireDeposit       bool    `json:"requireDeposit"`
	DepositPercent       float64 `json:"depositPercent"`

	CancellationFeeTiers []FeeTier `json:"cancellationFeeTiers"`
	NoShowFeePercent     float64   `json:"noShowFeePercent"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromDomainPolicy конвертирует domain модель в DTO
func FromDomainPolicy(p *domain.PolicyConfig) *PolicyResponse {
	if p == nil {
		return nil
	}

	tiers := make([]FeeTier, len(p.CancellationFeeTiers))
	for i, t := range p.CancellationFeeTiers {
		tiers[i] = FeeTier{HoursBefore: t.HoursBefore, FeePercent: t.FeePercent}
	}

	return &PolicyResponse{
		SalonID:                p.SalonID,
		SlotGranularityMinutes: p.SlotGranularityMinutes,
		DefaultDurationMinutes: p.DefaultDurationMinutes,
		DefaultBufferMinutes:   p.DefaultBufferMinutes,
		MinAdvanceBookingHours: p.MinAdvanceBookingHours,
		MaxAdvanceBookingDays:  p.MaxAdvanceBookingDays,
		AllowSameDay:           p.AllowSameDay,
		WaitlistEnabled:        p.WaitlistEnabled,
		GuestCheckoutEnabled:   p.GuestCheckoutEnabled,
		RequireDeposit:         p.RequireDeposit,
		DepositPercent:         p.DepositPercent,
		CancellationFeeTiers:   tiers,
		NoShowFeePercent:       p.NoShowFeePercent,
		CreatedAt:              p.CreatedAt,
		UpdatedAt:              p.UpdatedAt,
	}
}
