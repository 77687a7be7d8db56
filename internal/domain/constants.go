package domain

// Default policy values used when a salon has no stored configuration
const (
	DefaultSlotGranularityMinutes = 15
	DefaultDurationMinutes        = 60
	DefaultBufferMinutes          = 15
	DefaultMinAdvanceBookingHours = 2
	DefaultMaxAdvanceBookingDays  = 90
	DefaultDepositPercent         = 20.0
	DefaultNoShowFeePercent       = 100.0
)

// Business validation constants
const (
	MinSlotGranularityMinutes = 5
	MaxSlotGranularityMinutes = 120
	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 hours
	MaxBufferMinutes          = 120
	MinAdvanceBookingHours    = 0
	MaxAdvanceBookingHours    = 168 // 1 week
	MaxAdvanceBookingDaysCap  = 365
	MaxFeePercent             = 100.0
	MaxNotesLength            = 500
	MaxCancellationReasonLen  = 500
	MaxWaitlistWindowDays     = 31
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов, не занимающих интервал в календаре ресурса.
// Используется при подсчёте занятости слотов.
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
	StatusNoShow,
}

// ActiveStatuses список статусов, занимающих интервал в календаре ресурса
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
}
