package dto

import "time"

// CreateCalendarRequest payload.
type CreateCalendarRequest struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Country      *string `json:"country,omitempty"`
	SkipWeekends bool    `json:"skip_weekends"`
}

// AddHolidayRequest payload. Day is a calendar date, time-of-day ignored.
type AddHolidayRequest struct {
	Day string `json:"day"`
}

// CalendarResponse representation.
type CalendarResponse struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Country      *string   `json:"country,omitempty"`
	SkipWeekends bool      `json:"skip_weekends"`
	Holidays     []string  `json:"holidays"`
	CreatedAt    time.Time `json:"created_at"`
}
