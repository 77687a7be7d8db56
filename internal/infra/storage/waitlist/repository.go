package waitlist

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/kkosolapov/SPA-BookingService/internal/domain"
	"github.com/kkosolapov/SPA-BookingService/pkg/dbmetrics"
	"github.com/kkosolapov/SPA-BookingService/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий листа ожидания
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория листа ожидания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var waitlistColumns = []string{
	"id",
	"user_id",
	"salon_id",
	"service_id",
	"resource_id",
	"window_start",
	"window_end",
	"status",
	"created_at",
	"updated_at",
}

// Create добавляет запись в лист ожидания
func (r *Repository) Create(ctx context.Context, entry *domain.WaitlistEntry) (*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("waitlist_entries").
		Columns("user_id", "salon_id", "service_id", "resource_id", "window_start", "window_end", "status").
		Values(
			entry.UserID,
			entry.SalonID,
			entry.ServiceID,
			entry.ResourceID,
			entry.WindowStart,
			entry.WindowEnd,
			domain.WaitlistWaiting,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	created := *entry
	created.Status = domain.WaitlistWaiting

	err = executor.QueryRowContext(ctx, query, args...).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute query: %v", ErrExecQuery, err)
	}

	return &created, nil
}

// GetByUserID получает записи пользователя в листе ожидания салона
func (r *Repository) GetByUserID(ctx context.Context, salonID, userID int64) ([]*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(waitlistColumns...).
		From("waitlist_entries").
		Where(squirrel.Eq{"salon_id": salonID, "user_id": userID}).
		OrderBy("created_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryEntries(ctx, executor, query, args)
}

// GetWaitingBySalon получает активные записи листа ожидания салона в порядке FIFO.
// Внутри транзакции блокирует строки через FOR UPDATE для безопасного продвижения.
func (r *Repository) GetWaitingBySalon(ctx context.Context, salonID int64) ([]*domain.WaitlistEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(waitlistColumns...).
		From("waitlist_entries").
		Where(squirrel.Eq{"salon_id": salonID, "status": domain.WaitlistWaiting}).
		OrderBy("created_at ASC", "id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWaitingBySalon - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryEntries(ctx, executor, query, args)
}

// UpdateStatus обновляет статус записи листа ожидания
func (r *Repository) UpdateStatus(ctx context.Context, entryID int64, status domain.WaitlistStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("waitlist_entries").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": entryID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute query: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrEntryNotFound
	}

	return nil
}

func (r *Repository) queryEntries(ctx context.Context, executor DBExecutor, query string, args []interface{}) ([]*domain.WaitlistEntry, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*domain.WaitlistEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan row: %v", ErrScanRow, err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (*domain.WaitlistEntry, error) {
	var (
		entry      domain.WaitlistEntry
		resourceID sql.NullInt64
	)

	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.SalonID,
		&entry.ServiceID,
		&resourceID,
		&entry.WindowStart,
		&entry.WindowEnd,
		&entry.Status,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if resourceID.Valid {
		entry.ResourceID = &resourceID.Int64
	}

	return &entry, nil
}
