package payments

import (
	"context"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/paymentintent"
	"github.com/stripe/stripe-go/v79/refund"
)

// StripeClient charges booking deposits and refunds them through Stripe.
// A client built with an empty secret key reports ErrPaymentsDisabled on use.
type StripeClient struct {
	secretKey string
	currency  string
}

// NewStripeClient создает клиент платежей Stripe
func NewStripeClient(secretKey, currency string) *StripeClient {
	if currency == "" {
		currency = "usd"
	}
	return &StripeClient{secretKey: secretKey, currency: currency}
}

// Enabled reports whether a Stripe secret key is configured.
func (c *StripeClient) Enabled() bool {
	return c.secretKey != ""
}

// ChargeDeposit charges the deposit amount (major currency units) for a booking
// and returns the Stripe payment intent ID.
func (c *StripeClient) ChargeDeposit(ctx context.Context, bookingRef string, amount float64) (string, error) {
	if !c.Enabled() {
		return "", ErrPaymentsDisabled
	}

	stripe.Key = c.secretKey

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(toMinorUnits(amount)),
		Currency: stripe.String(c.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Description: stripe.String("booking deposit " + bookingRef),
	}
	params.AddMetadata("booking_ref", bookingRef)
	params.IdempotencyKey = stripe.String(depositIdempotencyKey(bookingRef))

	intent, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrChargeFailed, err)
	}

	return intent.ID, nil
}

// Refund returns the deposit (or a partial amount of it) to the customer.
func (c *StripeClient) Refund(ctx context.Context, paymentID string, amount float64) error {
	if !c.Enabled() {
		return ErrPaymentsDisabled
	}
	if amount <= 0 {
		return nil
	}

	stripe.Key = c.secretKey

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentID),
		Amount:        stripe.Int64(toMinorUnits(amount)),
	}

	if _, err := refund.New(params); err != nil {
		return fmt.Errorf("%w: %v", ErrRefundFailed, err)
	}

	return nil
}

// depositIdempotencyKey builds the Stripe idempotency key for a deposit charge.
// bookingRef уникален для каждой попытки бронирования; ключ без случайной
// части, иначе ретрай того же запроса списал бы депозит повторно
func depositIdempotencyKey(bookingRef string) string {
	return "deposit-" + bookingRef
}

// toMinorUnits converts a major-unit amount to cents, rounding half up.
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
