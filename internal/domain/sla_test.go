package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newActiveTarget(opened time.Time, window time.Duration) *SlaTarget {
	return NewSlaTarget("tkt-1", SlaTargetAck, opened, window, nil)
}

func TestNewSlaTargetDueAt(t *testing.T) {
	opened := date(2025, time.March, 3, 9, 0)
	target := newActiveTarget(opened, 4*time.Hour)
	assert.Equal(t, SlaStateActive, target.State)
	assert.Equal(t, opened.Add(4*time.Hour), target.DueAt)
}

func TestPauseResumeShiftsDeadline(t *testing.T) {
	opened := date(2025, time.March, 3, 9, 0)
	target := newActiveTarget(opened, 4*time.Hour)

	require.True(t, target.Pause(opened.Add(time.Hour)))
	assert.Equal(t, SlaStatePaused, target.State)
	assert.False(t, target.Pause(opened.Add(2*time.Hour)), "double pause")

	require.True(t, target.Resume(opened.Add(2*time.Hour)))
	assert.Equal(t, SlaStateActive, target.State)
	// One hour paused pushes the deadline by one hour.
	assert.Equal(t, opened.Add(5*time.Hour), target.DueAt)
	assert.Nil(t, target.PausedAt)
}

func TestPauseResumeAccumulatesAcrossCycles(t *testing.T) {
	opened := date(2025, time.March, 3, 9, 0)
	target := newActiveTarget(opened, 4*time.Hour)

	// First cycle: one hour paused.
	require.True(t, target.Pause(opened.Add(30*time.Minute)))
	require.True(t, target.Resume(opened.Add(90*time.Minute)))

	// Second cycle: forty-five minutes paused.
	require.True(t, target.Pause(opened.Add(2*time.Hour)))
	require.True(t, target.Resume(opened.Add(2*time.Hour+45*time.Minute)))

	// The deadline moved by the total paused duration, 1h45m.
	assert.Equal(t, opened.Add(5*time.Hour+45*time.Minute), target.DueAt)
	assert.Equal(t, SlaStateActive, target.State)
}

func TestSatisfyAtExactDeadline(t *testing.T) {
	opened := date(2025, time.March, 3, 9, 0)
	target := newActiveTarget(opened, 4*time.Hour)

	require.True(t, target.Satisfy(target.DueAt))
	assert.Equal(t, SlaStateSatisfied, target.State)
}

func TestSatisfyRejectsLateEvent(t *testing.T) {
	opened := date(2025, time.March, 3, 9, 0)
	target := newActiveTarget(opened, 4*time.Hour)

	assert.False(t, target.Satisfy(target.DueAt.Add(time.Millisecond)))
	assert.Equal(t, SlaStateActive, target.State)
}

func TestBreachRequiresOverdueActive(t *testing.T) {
	opened := date(2025, time.March, 3, 9, 0)
	target := newActiveTarget(opened, 4*time.Hour)

	_, ok := target.Breach(target.DueAt)
	assert.False(t, ok, "deadline itself is not a breach")

	breach, ok := target.Breach(target.DueAt.Add(time.Minute))
	require.True(t, ok)
	assert.Equal(t, SlaStateBreached, target.State)
	assert.Equal(t, int64(60_000), breach.DelayMs)
	assert.Equal(t, "tkt-1", breach.TicketID)
}

func TestPausedTargetNeverBreaches(t *testing.T) {
	opened := date(2025, time.March, 3, 9, 0)
	target := newActiveTarget(opened, time.Hour)
	require.True(t, target.Pause(opened.Add(30*time.Minute)))

	_, ok := target.Breach(opened.Add(3 * time.Hour))
	assert.False(t, ok)
	assert.Equal(t, SlaStatePaused, target.State)
}

func TestTerminalStatesAreFinal(t *testing.T) {
	opened := date(2025, time.March, 3, 9, 0)
	target := newActiveTarget(opened, time.Hour)
	require.True(t, target.Satisfy(opened.Add(time.Minute)))

	assert.True(t, target.Terminal())
	assert.False(t, target.Pause(opened.Add(2*time.Minute)))
	assert.False(t, target.Satisfy(opened.Add(2*time.Minute)))
	_, ok := target.Breach(opened.Add(5 * time.Hour))
	assert.False(t, ok)
}
