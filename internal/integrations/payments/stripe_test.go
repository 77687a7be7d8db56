package payments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepositIdempotencyKey(t *testing.T) {
	t.Parallel()

	ref := "a3f1c9d2-8b44-4e6f-9c11-0d2e7a5b6c8d"

	// Повторный вызов с тем же bookingRef дает тот же ключ,
	// иначе Stripe не схлопнет ретрай
	assert.Equal(t, depositIdempotencyKey(ref), depositIdempotencyKey(ref))
	assert.Equal(t, "deposit-"+ref, depositIdempotencyKey(ref))
	assert.NotEqual(t, depositIdempotencyKey(ref), depositIdempotencyKey("other-ref"))
}

func TestStripeClientDisabled(t *testing.T) {
	t.Parallel()

	c := NewStripeClient("", "usd")
	require.False(t, c.Enabled())

	_, err := c.ChargeDeposit(context.Background(), "ref-1", 10)
	require.ErrorIs(t, err, ErrPaymentsDisabled)

	err = c.Refund(context.Background(), "pi_1", 10)
	require.ErrorIs(t, err, ErrPaymentsDisabled)
}

func TestToMinorUnits(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(3000), toMinorUnits(30))
	assert.Equal(t, int64(1999), toMinorUnits(19.99))
	assert.Equal(t, int64(1), toMinorUnits(0.005))
}
