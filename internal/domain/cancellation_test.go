package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kkosolapov/SPA-BookingService/pkg/types"
)

func feePolicy() *PolicyConfig {
	return &PolicyConfig{
		SalonID: 1,
		CancellationFeeTiers: []CancellationFeeTier{
			{HoursBefore: 24, FeePercent: 0},
			{HoursBefore: 0, FeePercent: 50},
		},
		NoShowFeePercent: 100,
	}
}

func feeBooking() *Booking {
	return &Booking{
		ID:          1,
		BookingDate: time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC),
		StartTime:   types.TimeString("10:00"),
		TotalAmount: 2000,
		Status:      StatusConfirmed,
	}
}

func TestEvaluateCancellation(t *testing.T) {
	tests := []struct {
		name        string
		cancelledAt time.Time
		wantFee     float64
		wantRefund  float64
		wantCode    string
	}{
		{
			name:        "24 hours before is free",
			cancelledAt: time.Date(2026, 2, 19, 10, 0, 0, 0, time.UTC),
			wantFee:     0,
			wantRefund:  2000,
			wantCode:    CancellationNoCharge,
		},
		{
			name:        "48 hours before is free",
			cancelledAt: time.Date(2026, 2, 18, 10, 0, 0, 0, time.UTC),
			wantFee:     0,
			wantRefund:  2000,
			wantCode:    CancellationNoCharge,
		},
		{
			name:        "one hour before charges 50 percent",
			cancelledAt: time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC),
			wantFee:     1000,
			wantRefund:  1000,
			wantCode:    CancellationLate,
		},
		{
			name:        "just under 24 hours charges 50 percent",
			cancelledAt: time.Date(2026, 2, 19, 10, 1, 0, 0, time.UTC),
			wantFee:     1000,
			wantRefund:  1000,
			wantCode:    CancellationLate,
		},
		{
			name:        "after start is a no-show at 100 percent",
			cancelledAt: time.Date(2026, 2, 20, 10, 30, 0, 0, time.UTC),
			wantFee:     2000,
			wantRefund:  0,
			wantCode:    CancellationNoShow,
		},
		{
			name:        "exactly at start is a no-show",
			cancelledAt: time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC),
			wantFee:     2000,
			wantRefund:  0,
			wantCode:    CancellationNoShow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateCancellation(feeBooking(), tt.cancelledAt, feePolicy())
			assert.Equal(t, tt.wantFee, got.FeeAmount)
			assert.Equal(t, tt.wantRefund, got.RefundAmount)
			assert.Equal(t, tt.wantCode, got.ReasonCode)
		})
	}
}

func TestEvaluateCancellation_IsPure(t *testing.T) {
	cancelledAt := time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC)
	booking := feeBooking()
	policy := feePolicy()

	first := EvaluateCancellation(booking, cancelledAt, policy)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, EvaluateCancellation(booking, cancelledAt, policy))
	}
}

func TestEvaluateCancellation_NoTiers(t *testing.T) {
	policy := &PolicyConfig{SalonID: 1, NoShowFeePercent: 100}

	got := EvaluateCancellation(feeBooking(), time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC), policy)
	assert.Equal(t, 0.0, got.FeeAmount)
	assert.Equal(t, 2000.0, got.RefundAmount)
	assert.Equal(t, CancellationNoCharge, got.ReasonCode)
}

func TestEvaluateCancellation_NoShowUsesStrictestTier(t *testing.T) {
	// Если настроенная ступень строже процента за неявку, действует ступень
	policy := feePolicy()
	policy.NoShowFeePercent = 30

	got := EvaluateCancellation(feeBooking(), time.Date(2026, 2, 20, 11, 0, 0, 0, time.UTC), policy)
	assert.Equal(t, 1000.0, got.FeeAmount)
	assert.Equal(t, CancellationNoShow, got.ReasonCode)
}

func TestPolicyConfig_DepositAmount(t *testing.T) {
	p := &PolicyConfig{RequireDeposit: true, DepositPercent: 20}
	assert.Equal(t, 400.0, p.DepositAmount(2000))

	p.RequireDeposit = false
	assert.Equal(t, 0.0, p.DepositAmount(2000))
}
