package payments

import "errors"

var (
	ErrPaymentsDisabled = errors.New("payments are not configured")
	ErrChargeFailed     = errors.New("failed to charge deposit")
	ErrRefundFailed     = errors.New("failed to refund payment")
)
