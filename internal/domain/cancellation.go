package domain

import (
	"math"
	"sort"
	"time"
)

// Cancellation reason codes recorded in the booking audit trail
const (
	CancellationNoCharge = "no_charge"
	CancellationLate     = "late_cancellation"
	CancellationNoShow   = "no_show"

	// CancellationByCompany отмена по инициативе салона: без штрафа
	CancellationByCompany = "company_initiated"
)

// CompanyCancellationOutcome is the fee-free outcome applied when the
// salon itself cancels the booking.
func CompanyCancellationOutcome(b *Booking) CancellationOutcome {
	return CancellationOutcome{
		FeeAmount:    0,
		RefundAmount: b.TotalAmount,
		ReasonCode:   CancellationByCompany,
	}
}

// CancellationOutcome computed fee/refund result of a cancellation.
// Value object only; persisted onto the booking row.
type CancellationOutcome struct {
	FeeAmount    float64
	RefundAmount float64
	ReasonCode   string
}

// EvaluateCancellation computes the cancellation outcome for a booking.
// Pure function of (booking, cancelledAt, policy).
//
// hoursBefore = start − cancelledAt. Отмена после начала (no-show)
// всегда тарифицируется по максимальной ступени, независимо от порогов.
// Иначе выбирается ступень с наибольшим порогом, не превышающим hoursBefore;
// если ни одна ступень не подходит, штраф не взимается.
func EvaluateCancellation(b *Booking, cancelledAt time.Time, p *PolicyConfig) CancellationOutcome {
	start, err := b.StartAt()
	if err != nil {
		// Некорректное время начала: трактуем как отмену без штрафа,
		// проблему поймает валидация на создании
		return CancellationOutcome{RefundAmount: b.TotalAmount, ReasonCode: CancellationNoCharge}
	}

	if !cancelledAt.Before(start) {
		fee := roundMoney(b.TotalAmount * noShowFeePercent(p) / 100)
		return CancellationOutcome{
			FeeAmount:    fee,
			RefundAmount: roundMoney(b.TotalAmount - fee),
			ReasonCode:   CancellationNoShow,
		}
	}

	hoursBefore := start.Sub(cancelledAt).Hours()

	tier, ok := matchTier(p.CancellationFeeTiers, hoursBefore)
	if !ok || tier.FeePercent <= 0 {
		return CancellationOutcome{
			FeeAmount:    0,
			RefundAmount: b.TotalAmount,
			ReasonCode:   CancellationNoCharge,
		}
	}

	fee := roundMoney(b.TotalAmount * tier.FeePercent / 100)
	refund := roundMoney(b.TotalAmount - fee)
	if refund < 0 {
		refund = 0
	}

	return CancellationOutcome{
		FeeAmount:    fee,
		RefundAmount: refund,
		ReasonCode:   CancellationLate,
	}
}

// matchTier selects the tier with the largest HoursBefore threshold
// that does not exceed the actual hours before start.
func matchTier(tiers []CancellationFeeTier, hoursBefore float64) (CancellationFeeTier, bool) {
	sorted := make([]CancellationFeeTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].HoursBefore > sorted[j].HoursBefore
	})

	for _, t := range sorted {
		if hoursBefore >= float64(t.HoursBefore) {
			return t, true
		}
	}
	return CancellationFeeTier{}, false
}

// noShowFeePercent is the maximum of the configured no-show percent
// and every tier percent: no-show never costs less than the strictest tier.
func noShowFeePercent(p *PolicyConfig) float64 {
	max := p.NoShowFeePercent
	for _, t := range p.CancellationFeeTiers {
		if t.FeePercent > max {
			max = t.FeePercent
		}
	}
	return max
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
