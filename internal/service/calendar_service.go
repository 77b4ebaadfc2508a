package service

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/repository"
	apperrors "github.com/spec-kit/facility-service/pkg/util/errorutil"
)

// CalendarService manages holiday calendars. Calendars are shared reference
// data, so writes require platform scope.
type CalendarService struct {
	calendars repository.CalendarRepository
	scopeSvc  *ScopeService
}

// NewCalendarService constructs the service.
func NewCalendarService(calendars repository.CalendarRepository, scopeSvc *ScopeService) *CalendarService {
	return &CalendarService{calendars: calendars, scopeSvc: scopeSvc}
}

// CreateCalendar registers a calendar under a unique code.
func (s *CalendarService) CreateCalendar(ctx context.Context, set *domain.ScopeSet, code, name string, country *string, skipWeekends bool) (*domain.HolidayCalendar, error) {
	if err := s.scopeSvc.RequirePlatform(set); err != nil {
		return nil, err
	}
	code = strings.TrimSpace(strings.ToLower(code))
	if code == "" {
		return nil, apperrors.NewInvalidInput("calendar code required", nil)
	}
	calendar := &domain.HolidayCalendar{
		Code:         code,
		Name:         strings.TrimSpace(name),
		Country:      country,
		SkipWeekends: skipWeekends,
	}
	if err := s.calendars.Create(ctx, calendar); err != nil {
		return nil, err
	}
	return calendar, nil
}

// AddHoliday records a non-business date on a calendar.
func (s *CalendarService) AddHoliday(ctx context.Context, set *domain.ScopeSet, code string, day time.Time) (*domain.HolidayCalendar, error) {
	if err := s.scopeSvc.RequirePlatform(set); err != nil {
		return nil, err
	}
	calendar, err := s.getByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := s.calendars.AddDate(ctx, calendar.ID, day.UTC()); err != nil {
		return nil, err
	}
	calendar.AddHoliday(day)
	return calendar, nil
}

// GetCalendar returns a calendar with its dates.
func (s *CalendarService) GetCalendar(ctx context.Context, code string) (*domain.HolidayCalendar, error) {
	return s.getByCode(ctx, code)
}

func (s *CalendarService) getByCode(ctx context.Context, code string) (*domain.HolidayCalendar, error) {
	calendar, err := s.calendars.GetByCode(ctx, strings.TrimSpace(strings.ToLower(code)))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("holiday calendar", map[string]any{"calendar_code": code})
		}
		return nil, err
	}
	return calendar, nil
}
