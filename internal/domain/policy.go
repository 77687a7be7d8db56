package domain

import "time"

// CancellationFeeTier одна ступень политики штрафов за отмену.
// HoursBefore — нижняя граница интервала "часов до начала", на котором
// действует ступень, FeePercent — процент от стоимости бронирования.
type CancellationFeeTier struct {
	HoursBefore int     `json:"hoursBefore"`
	FeePercent  float64 `json:"feePercent"`
}

// PolicyConfig represents the booking rules of a single salon (tenant).
// One instance per salon; read by every booking operation, changed only
// through the admin settings endpoint.
type PolicyConfig struct {
	SalonID int64

	SlotGranularityMinutes int
	DefaultDurationMinutes int
	DefaultBufferMinutes   int

	MinAdvanceBookingHours int
	MaxAdvanceBookingDays  int // 0 = unlimited

	AllowSameDay         bool
	WaitlistEnabled      bool
	GuestCheckoutEnabled bool
	RequireDeposit       bool
	DepositPercent       float64

	CancellationFeeTiers []CancellationFeeTier

	// Процент штрафа за неявку. Неявка всегда тарифицируется по максимуму
	// из этого значения и ступеней CancellationFeeTiers.
	NoShowFeePercent float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultPolicyConfig returns the fallback policy used when a salon
// has no stored configuration.
func DefaultPolicyConfig(salonID int64) *PolicyConfig {
	return &PolicyConfig{
		SalonID:                salonID,
		SlotGranularityMinutes: DefaultSlotGranularityMinutes,
		DefaultDurationMinutes: DefaultDurationMinutes,
		DefaultBufferMinutes:   DefaultBufferMinutes,
		MinAdvanceBookingHours: DefaultMinAdvanceBookingHours,
		MaxAdvanceBookingDays:  DefaultMaxAdvanceBookingDays,
		AllowSameDay:           true,
		WaitlistEnabled:        true,
		GuestCheckoutEnabled:   false,
		RequireDeposit:         false,
		DepositPercent:         DefaultDepositPercent,
		CancellationFeeTiers: []CancellationFeeTier{
			{HoursBefore: 24, FeePercent: 0},
			{HoursBefore: 0, FeePercent: 50},
		},
		NoShowFeePercent: DefaultNoShowFeePercent,
	}
}

// HasAdvanceBookingLimit returns true if there's a limit on how far
// in advance bookings can be made.
func (p *PolicyConfig) HasAdvanceBookingLimit() bool {
	return p.MaxAdvanceBookingDays > 0
}

// DepositAmount computes the deposit for a given service price.
func (p *PolicyConfig) DepositAmount(price float64) float64 {
	if !p.RequireDeposit || p.DepositPercent <= 0 {
		return 0
	}
	return roundMoney(price * p.DepositPercent / 100)
}
