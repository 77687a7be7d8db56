package get_available_slots

import "fmt"

// maxRangeDays ограничивает длину запрашиваемого периода,
// чтобы один запрос не сканировал календарь без ограничений
const maxRangeDays = 31

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.SalonID <= 0 {
		return fmt.Errorf("%w: salonID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.ResourceID != nil && *req.ResourceID <= 0 {
		return fmt.Errorf("%w: resourceID must be positive", ErrInvalidInput)
	}

	if req.StartDate.IsZero() {
		return fmt.Errorf("%w: startDate is required", ErrInvalidInput)
	}

	end := endDate(req)
	if end.Before(req.StartDate) {
		return fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	}

	if truncateToDay(end).Sub(truncateToDay(req.StartDate)).Hours() > 24*maxRangeDays {
		return fmt.Errorf("%w: date range is longer than %d days", ErrInvalidInput, maxRangeDays)
	}

	return nil
}
