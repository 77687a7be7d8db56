package policy

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/kkosolapov/SPA-BookingService/internal/domain"
	"github.com/kkosolapov/SPA-BookingService/pkg/dbmetrics"
	"github.com/kkosolapov/SPA-BookingService/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий конфигурации бронирования (политики салона)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория политики
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var policyColumns = []string{
	"salon_id",
	"slot_granularity_minutes",
	"default_duration_minutes",
	"default_buffer_minutes",
	"min_advance_booking_hours",
	"max_advance_booking_days",
	"allow_same_day",
	"waitlist_enabled",
	"guest_checkout_enabled",
	"require_deposit",
	"deposit_percent",
	"cancellation_fee_tiers",
	"no_show_fee_percent",
	"created_at",
	"updated_at",
}

// GetBySalonID получает политику бронирования салона
func (r *Repository) GetBySalonID(ctx context.Context, salonID int64) (*domain.PolicyConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(policyColumns...).
		From("booking_policies").
		Where(squirrel.Eq{"salon_id": salonID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBySalonID - build select query: %v", ErrBuildQuery, err)
	}

	var (
		p         domain.PolicyConfig
		tiersJSON []byte
		createdAt sql.NullTime
		updatedAt sql.NullTime
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.SalonID,
		&p.SlotGranularityMinutes,
		&p.DefaultDurationMinutes,
		&p.DefaultBufferMinutes,
		&p.MinAdvanceBookingHours,
		&p.MaxAdvanceBookingDays,
		&p.AllowSameDay,
		&p.WaitlistEnabled,
		&p.GuestCheckoutEnabled,
		&p.RequireDeposit,
		&p.DepositPercent,
		&tiersJSON,
		&p.NoShowFeePercent,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySalonID - scan policy: %v", ErrScanRow, err)
	}

	if len(tiersJSON) > 0 {
		if err := json.Unmarshal(tiersJSON, &p.CancellationFeeTiers); err != nil {
			return nil, fmt.Errorf("%w: GetBySalonID - decode tiers: %v", ErrScanRow, err)
		}
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return &p, nil
}

// Upsert creates or replaces the salon's booking policy.
func (r *Repository) Upsert(ctx context.Context, p *domain.PolicyConfig) (*domain.PolicyConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	tiersJSON, err := json.Marshal(p.CancellationFeeTiers)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - marshal tiers: %v", ErrEncodeTiers, err)
	}

	query, args, err := psqlbuilder.Insert("booking_policies").
		Columns(
			"salon_id",
			"slot_granularity_minutes",
			"default_duration_minutes",
			"default_buffer_minutes",
			"min_advance_booking_hours",
			"max_advance_booking_days",
			"allow_same_day",
			"waitlist_enabled",
			"guest_checkout_enabled",
			"require_deposit",
			"deposit_percent",
			"cancellation_fee_tiers",
			"no_show_fee_percent",
		).
		Values(
			p.SalonID,
			p.SlotGranularityMinutes,
			p.DefaultDurationMinutes,
			p.DefaultBufferMinutes,
			p.MinAdvanceBookingHours,
			p.MaxAdvanceBookingDays,
			p.AllowSameDay,
			p.WaitlistEnabled,
			p.GuestCheckoutEnabled,
			p.RequireDeposit,
			p.DepositPercent,
			tiersJSON,
			p.NoShowFeePercent,
		).
		Suffix(`ON CONFLICT (salon_id) DO UPDATE SET
			slot_granularity_minutes = EXCLUDED.slot_granularity_minutes,
			default_duration_minutes = EXCLUDED.default_duration_minutes,
			default_buffer_minutes = EXCLUDED.default_buffer_minutes,
			min_advance_booking_hours = EXCLUDED.min_advance_booking_hours,
			max_advance_booking_days = EXCLUDED.max_advance_booking_days,
			allow_same_day = EXCLUDED.allow_same_day,
			waitlist_enabled = EXCLUDED.waitlist_enabled,
			guest_checkout_enabled = EXCLUDED.guest_checkout_enabled,
			require_deposit = EXCLUDED.require_deposit,
			deposit_percent = EXCLUDED.deposit_percent,
			cancellation_fee_tiers = EXCLUDED.cancellation_fee_tiers,
			no_show_fee_percent = EXCLUDED.no_show_fee_percent,
			updated_at = NOW()
			RETURNING created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build upsert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute upsert: %v", ErrExecQuery, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return p, nil
}
