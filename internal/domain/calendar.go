package domain

import "time"

// HolidayCalendar names a set of non-business dates, optionally scoped to a
// country. Dates are held at UTC day granularity.
type HolidayCalendar struct {
	ID           string
	Code         string
	Name         string
	Country      *string
	SkipWeekends bool
	Holidays     map[string]struct{}
	CreatedAt    time.Time
}

const dayFormat = "2006-01-02"

// HasHoliday reports whether the given instant falls on a holiday date.
func (c *HolidayCalendar) HasHoliday(t time.Time) bool {
	if c == nil || len(c.Holidays) == 0 {
		return false
	}
	_, ok := c.Holidays[t.UTC().Format(dayFormat)]
	return ok
}

// IsBusinessDay reports whether the instant falls on a working day.
func (c *HolidayCalendar) IsBusinessDay(t time.Time) bool {
	if c == nil {
		return true
	}
	day := t.UTC()
	if c.SkipWeekends {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			return false
		}
	}
	return !c.HasHoliday(day)
}

// AddWorkingTime advances start by d, counting only time that falls on
// business days. Weekend days (when SkipWeekends) and holiday dates are
// skipped without consuming the duration. A nil calendar degrades to plain
// wall-clock addition.
func (c *HolidayCalendar) AddWorkingTime(start time.Time, d time.Duration) time.Time {
	if c == nil || d <= 0 {
		return start.Add(d)
	}

	cursor := start.UTC()
	remaining := d
	for remaining > 0 {
		if !c.IsBusinessDay(cursor) {
			cursor = nextDayStart(cursor)
			continue
		}
		dayEnd := nextDayStart(cursor)
		window := dayEnd.Sub(cursor)
		if remaining <= window {
			return cursor.Add(remaining)
		}
		remaining -= window
		cursor = dayEnd
	}
	return cursor
}

// AddHoliday records a non-business date.
func (c *HolidayCalendar) AddHoliday(day time.Time) {
	if c.Holidays == nil {
		c.Holidays = make(map[string]struct{})
	}
	c.Holidays[day.UTC().Format(dayFormat)] = struct{}{}
}

func nextDayStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, 1)
}
