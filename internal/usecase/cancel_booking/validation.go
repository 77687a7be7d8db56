package cancel_booking

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	if req.ActorID < 0 {
		return fmt.Errorf("%w: actorID must not be negative", ErrInvalidInput)
	}

	if !req.ByManager && req.ActorID == 0 {
		return fmt.Errorf("%w: actorID is required for customer cancellation", ErrInvalidInput)
	}

	return nil
}
