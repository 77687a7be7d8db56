package get_available_slots

import (
	"time"

	"github.com/kkosolapov/SPA-BookingService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	SalonID   int64     // ID салона
	ServiceID int64     // ID услуги
	StartDate time.Time // Начало периода (без времени)
	EndDate   time.Time // Конец периода включительно; нулевое значение = StartDate

	// ResourceID nil означает "любой подходящий ресурс"
	ResourceID *int64

	// Merge схлопывает одинаковые времена начала разных ресурсов,
	// оставляя ресурс с минимальным ID
	Merge bool
}

// Slot один доступный слот в ответе
type Slot struct {
	ResourceID      int64            // ID ресурса (мастер или кабинет)
	Date            time.Time        // Дата слота
	StartTime       types.TimeString // Время начала (например, "10:00")
	DurationMinutes int              // Длительность услуги в минутах
}

// Response модель ответа со списком доступных слотов
type Response struct {
	SalonID   int64
	ServiceID int64
	Slots     []Slot
}
