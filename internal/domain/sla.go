package domain

import "time"

// SlaTargetType distinguishes the two deadlines attached to a ticket.
type SlaTargetType string

const (
	SlaTargetAck     SlaTargetType = "ACK"
	SlaTargetResolve SlaTargetType = "RESOLVE"
)

// SlaTargetState is the timer state machine. Satisfied and Breached are
// terminal.
type SlaTargetState string

const (
	SlaStateActive    SlaTargetState = "ACTIVE"
	SlaStatePaused    SlaTargetState = "PAUSED"
	SlaStateSatisfied SlaTargetState = "SATISFIED"
	SlaStateBreached  SlaTargetState = "BREACHED"
)

// SlaTarget is one deadline for one ticket. Revision backs optimistic
// concurrency: every persisted transition is conditional on the revision
// read, and the loser of a race retries.
type SlaTarget struct {
	ID          string
	TicketID    string
	Type        SlaTargetType
	State       SlaTargetState
	DueAt       time.Time
	PausedAt    *time.Time
	SatisfiedAt *time.Time
	Revision    int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewSlaTarget computes the due timestamp from the opening time, the SLA
// duration, and the business calendar (nil means wall-clock).
func NewSlaTarget(ticketID string, targetType SlaTargetType, openedAt time.Time, window time.Duration, calendar *HolidayCalendar) *SlaTarget {
	return &SlaTarget{
		TicketID: ticketID,
		Type:     targetType,
		State:    SlaStateActive,
		DueAt:    calendar.AddWorkingTime(openedAt, window),
	}
}

// Terminal reports whether the target can no longer transition.
func (t *SlaTarget) Terminal() bool {
	return t.State == SlaStateSatisfied || t.State == SlaStateBreached
}

// Pause stops the clock. Only an active target can pause.
func (t *SlaTarget) Pause(now time.Time) bool {
	if t.State != SlaStateActive {
		return false
	}
	t.State = SlaStatePaused
	t.PausedAt = &now
	return true
}

// Resume restarts the clock, shifting the deadline forward by the paused
// duration so that paused wall-clock time never counts against it.
func (t *SlaTarget) Resume(now time.Time) bool {
	if t.State != SlaStatePaused || t.PausedAt == nil {
		return false
	}
	t.DueAt = t.DueAt.Add(now.Sub(*t.PausedAt))
	t.State = SlaStateActive
	t.PausedAt = nil
	return true
}

// Satisfy closes the target when the ticket event arrived in time. A late
// event must go through Breach instead.
func (t *SlaTarget) Satisfy(eventTime time.Time) bool {
	if t.State != SlaStateActive || eventTime.After(t.DueAt) {
		return false
	}
	t.State = SlaStateSatisfied
	t.SatisfiedAt = &eventTime
	return true
}

// Breach marks the target breached and returns the breach record. Only an
// active target past its deadline breaches; paused and terminal targets
// never do.
func (t *SlaTarget) Breach(detectedAt time.Time) (*SlaBreach, bool) {
	if t.State != SlaStateActive || !detectedAt.After(t.DueAt) {
		return nil, false
	}
	t.State = SlaStateBreached
	return &SlaBreach{
		TicketID:   t.TicketID,
		Type:       t.Type,
		DetectedAt: detectedAt,
		DelayMs:    detectedAt.Sub(t.DueAt).Milliseconds(),
	}, true
}

// SlaBreach records that a target's deadline elapsed while still active.
// Immutable once written, apart from the notified flag.
type SlaBreach struct {
	ID         string
	TicketID   string
	Type       SlaTargetType
	DetectedAt time.Time
	DelayMs    int64
	Notified   bool
	CreatedAt  time.Time
}
