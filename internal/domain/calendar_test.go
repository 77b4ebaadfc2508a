package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d, hour, min int) time.Time {
	return time.Date(y, m, d, hour, min, 0, 0, time.UTC)
}

func TestAddWorkingTimeNilCalendar(t *testing.T) {
	var cal *HolidayCalendar
	start := date(2025, time.March, 3, 9, 0)
	assert.Equal(t, start.Add(4*time.Hour), cal.AddWorkingTime(start, 4*time.Hour))
}

func TestAddWorkingTimeWithinBusinessDay(t *testing.T) {
	cal := &HolidayCalendar{Code: "std", SkipWeekends: true}
	// Monday morning plus four hours stays on Monday.
	start := date(2025, time.March, 3, 9, 0)
	assert.Equal(t, date(2025, time.March, 3, 13, 0), cal.AddWorkingTime(start, 4*time.Hour))
}

func TestAddWorkingTimeSkipsWeekend(t *testing.T) {
	cal := &HolidayCalendar{Code: "std", SkipWeekends: true}
	// Friday 18:00 plus twelve hours: six remain on Friday, the rest lands
	// on Monday because Saturday and Sunday do not count.
	start := date(2025, time.March, 7, 18, 0)
	got := cal.AddWorkingTime(start, 12*time.Hour)
	assert.Equal(t, date(2025, time.March, 10, 6, 0), got)
}

func TestAddWorkingTimeSkipsHoliday(t *testing.T) {
	cal := &HolidayCalendar{Code: "std", SkipWeekends: false}
	cal.AddHoliday(date(2025, time.March, 4, 0, 0))

	start := date(2025, time.March, 3, 20, 0)
	// Four hours remain on Monday, then Tuesday is a holiday, so the last
	// two land on Wednesday.
	got := cal.AddWorkingTime(start, 6*time.Hour)
	assert.Equal(t, date(2025, time.March, 5, 2, 0), got)
}

func TestAddWorkingTimeStartsOnNonBusinessDay(t *testing.T) {
	cal := &HolidayCalendar{Code: "std", SkipWeekends: true}
	// Saturday start: the clock only begins on Monday.
	start := date(2025, time.March, 8, 10, 0)
	got := cal.AddWorkingTime(start, 2*time.Hour)
	assert.Equal(t, date(2025, time.March, 10, 2, 0), got)
}

func TestIsBusinessDay(t *testing.T) {
	country := "FR"
	cal := &HolidayCalendar{Code: "fr", Country: &country, SkipWeekends: true}
	cal.AddHoliday(date(2025, time.July, 14, 0, 0))

	assert.False(t, cal.IsBusinessDay(date(2025, time.March, 8, 12, 0)))  // Saturday
	assert.False(t, cal.IsBusinessDay(date(2025, time.July, 14, 12, 0))) // holiday
	assert.True(t, cal.IsBusinessDay(date(2025, time.July, 15, 12, 0)))
}
