package handlers

import (
	"sort"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/facility-service/internal/api/dto"
	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/service"
	apperrors "github.com/spec-kit/facility-service/pkg/util/errorutil"
)

// CalendarsHandler manages holiday calendars.
type CalendarsHandler struct {
	calendars *service.CalendarService
	scopes    *service.ScopeService
}

// NewCalendarsHandler constructs handler.
func NewCalendarsHandler(calendars *service.CalendarService, scopes *service.ScopeService) *CalendarsHandler {
	return &CalendarsHandler{calendars: calendars, scopes: scopes}
}

// CreateCalendar POST /calendars.
func (h *CalendarsHandler) CreateCalendar(c *fiber.Ctx) error {
	set, _, err := requireScopes(c, h.scopes)
	if err != nil {
		return err
	}
	var req dto.CreateCalendarRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	calendar, err := h.calendars.CreateCalendar(c.UserContext(), set, req.Code, req.Name, req.Country, req.SkipWeekends)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": calendarResponse(calendar)})
}

// GetCalendar GET /calendars/:code.
func (h *CalendarsHandler) GetCalendar(c *fiber.Ctx) error {
	if _, _, err := requireScopes(c, h.scopes); err != nil {
		return err
	}
	calendar, err := h.calendars.GetCalendar(c.UserContext(), c.Params("code"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": calendarResponse(calendar)})
}

// AddHoliday POST /calendars/:code/holidays.
func (h *CalendarsHandler) AddHoliday(c *fiber.Ctx) error {
	set, _, err := requireScopes(c, h.scopes)
	if err != nil {
		return err
	}
	var req dto.AddHolidayRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	day, err := parseDay(req.Day)
	if err != nil {
		return err
	}
	calendar, err := h.calendars.AddHoliday(c.UserContext(), set, c.Params("code"), day)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": calendarResponse(calendar)})
}

func calendarResponse(calendar *domain.HolidayCalendar) dto.CalendarResponse {
	days := make([]string, 0, len(calendar.Holidays))
	for day := range calendar.Holidays {
		days = append(days, day)
	}
	sort.Strings(days)
	return dto.CalendarResponse{
		ID:           calendar.ID,
		Code:         calendar.Code,
		Name:         calendar.Name,
		Country:      calendar.Country,
		SkipWeekends: calendar.SkipWeekends,
		Holidays:     days,
		CreatedAt:    calendar.CreatedAt,
	}
}
