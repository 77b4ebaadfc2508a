package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/facility-service/internal/domain"
	apperrors "github.com/spec-kit/facility-service/pkg/util/errorutil"
)

// CalendarRepository persists holiday calendars and their dates.
type CalendarRepository interface {
	Create(ctx context.Context, calendar *domain.HolidayCalendar) error
	GetByCode(ctx context.Context, code string) (*domain.HolidayCalendar, error)
	AddDate(ctx context.Context, calendarID string, day time.Time) error
}

type calendarRepository struct {
	pool *pgxpool.Pool
}

// NewCalendarRepository instantiates repository.
func NewCalendarRepository(pool *pgxpool.Pool) CalendarRepository {
	return &calendarRepository{pool: pool}
}

func (r *calendarRepository) Create(ctx context.Context, calendar *domain.HolidayCalendar) error {
	const query = `
        INSERT INTO holiday_calendars (code, name, country, skip_weekends)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query, calendar.Code, calendar.Name, calendar.Country, calendar.SkipWeekends).
		Scan(&calendar.ID, &calendar.CreatedAt)
	if isUniqueViolation(err) {
		return apperrors.NewConflict("calendar code already exists", map[string]any{"code": calendar.Code})
	}
	return err
}

// GetByCode loads the calendar and all of its dates in one round trip per
// table; calendars are small.
func (r *calendarRepository) GetByCode(ctx context.Context, code string) (*domain.HolidayCalendar, error) {
	const query = `SELECT id, code, name, country, skip_weekends, created_at FROM holiday_calendars WHERE code=$1`
	var calendar domain.HolidayCalendar
	if err := r.pool.QueryRow(ctx, query, code).Scan(
		&calendar.ID, &calendar.Code, &calendar.Name, &calendar.Country, &calendar.SkipWeekends, &calendar.CreatedAt,
	); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `SELECT day FROM holiday_dates WHERE calendar_id=$1`, calendar.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		calendar.AddHoliday(day)
	}
	return &calendar, rows.Err()
}

func (r *calendarRepository) AddDate(ctx context.Context, calendarID string, day time.Time) error {
	const query = `INSERT INTO holiday_dates (calendar_id, day) VALUES ($1,$2) ON CONFLICT DO NOTHING`
	_, err := r.pool.Exec(ctx, query, calendarID, day)
	return err
}
