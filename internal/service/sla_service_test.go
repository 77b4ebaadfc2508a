package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/events"
	"github.com/spec-kit/facility-service/internal/repository"
	apperrors "github.com/spec-kit/facility-service/pkg/util/errorutil"
)

type slaFixture struct {
	svc        *SlaService
	repo       *fakeSlaRepo
	calendars  *fakeCalendarRepo
	dispatcher *fakeDispatcher
	clock      *fakeClock
}

// Monday 2025-03-03 09:00 UTC.
var slaEpoch = time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)

func newSlaFixture() *slaFixture {
	repo := newFakeSlaRepo()
	calendars := newFakeCalendarRepo()
	dispatcher := &fakeDispatcher{}
	clock := newFakeClock(slaEpoch)
	svc := NewSlaService(SlaDependencies{
		SlaRepo:      repo,
		CalendarRepo: calendars,
		Dispatcher:   dispatcher,
		Clock:        clock,
	})
	return &slaFixture{svc: svc, repo: repo, calendars: calendars, dispatcher: dispatcher, clock: clock}
}

func (f *slaFixture) openTargets(t *testing.T, ackMinutes, resolveMinutes int, calendarCode *string) []*domain.SlaTarget {
	t.Helper()
	ticket := &domain.Ticket{ID: "tkt-1", OpenedAt: f.clock.Now()}
	targets, err := f.svc.CreateTargetsForTicket(context.Background(), ticket, domain.SLATerms{
		AckMinutes:     ackMinutes,
		ResolveMinutes: resolveMinutes,
		CalendarCode:   calendarCode,
	})
	require.NoError(t, err)
	require.Len(t, targets, 2)
	return targets
}

func TestCreateTargetsFixesDeadlines(t *testing.T) {
	f := newSlaFixture()
	targets := f.openTargets(t, 240, 2880, nil)

	assert.Equal(t, domain.SlaTargetAck, targets[0].Type)
	assert.Equal(t, slaEpoch.Add(4*time.Hour), targets[0].DueAt)
	assert.Equal(t, domain.SlaTargetResolve, targets[1].Type)
	assert.Equal(t, slaEpoch.Add(48*time.Hour), targets[1].DueAt)
}

func TestCreateTargetsUsesBusinessCalendar(t *testing.T) {
	f := newSlaFixture()
	code := "std"
	require.NoError(t, f.calendars.Create(context.Background(), &domain.HolidayCalendar{
		Code: code, SkipWeekends: true,
	}))

	// Friday 18:00: a 12h ack window must jump the weekend.
	f.clock.now = time.Date(2025, time.March, 7, 18, 0, 0, 0, time.UTC)
	targets := f.openTargets(t, 720, 1440, &code)
	assert.Equal(t, time.Date(2025, time.March, 10, 6, 0, 0, 0, time.UTC), targets[0].DueAt)
}

func TestCreateTargetsUnknownCalendar(t *testing.T) {
	f := newSlaFixture()
	code := "ghost"
	ticket := &domain.Ticket{ID: "tkt-1", OpenedAt: f.clock.Now()}
	_, err := f.svc.CreateTargetsForTicket(context.Background(), ticket, domain.SLATerms{
		AckMinutes: 60, ResolveMinutes: 120, CalendarCode: &code,
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestSatisfyTimelyEvent(t *testing.T) {
	f := newSlaFixture()
	f.openTargets(t, 240, 2880, nil)
	ctx := context.Background()

	f.clock.Advance(3 * time.Hour)
	breach, err := f.svc.Satisfy(ctx, "tkt-1", domain.SlaTargetAck)
	require.NoError(t, err)
	assert.Nil(t, breach)

	stored, err := f.repo.GetTarget(ctx, "tkt-1", domain.SlaTargetAck)
	require.NoError(t, err)
	assert.Equal(t, domain.SlaStateSatisfied, stored.State)
	assert.Len(t, f.dispatcher.byType(events.EventSlaSatisfied), 1)

	// Repeating the event is a no-op on a terminal target.
	breach, err = f.svc.Satisfy(ctx, "tkt-1", domain.SlaTargetAck)
	require.NoError(t, err)
	assert.Nil(t, breach)
}

func TestSatisfyLateEventBreaches(t *testing.T) {
	f := newSlaFixture()
	f.openTargets(t, 240, 2880, nil)
	ctx := context.Background()

	f.clock.Advance(5 * time.Hour)
	breach, err := f.svc.Satisfy(ctx, "tkt-1", domain.SlaTargetAck)
	require.NoError(t, err)
	require.NotNil(t, breach)
	assert.Equal(t, int64(time.Hour/time.Millisecond), breach.DelayMs)

	stored, err := f.repo.GetTarget(ctx, "tkt-1", domain.SlaTargetAck)
	require.NoError(t, err)
	assert.Equal(t, domain.SlaStateBreached, stored.State)
	assert.Len(t, f.dispatcher.byType(events.EventSlaBreachDetected), 1)
}

func TestSatisfyPausedTargetConflicts(t *testing.T) {
	f := newSlaFixture()
	targets := f.openTargets(t, 240, 2880, nil)
	ctx := context.Background()

	_, err := f.svc.Pause(ctx, targets[0].ID)
	require.NoError(t, err)

	_, err = f.svc.Satisfy(ctx, "tkt-1", domain.SlaTargetAck)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestPauseResumeShiftsDeadlineAndSweep(t *testing.T) {
	f := newSlaFixture()
	targets := f.openTargets(t, 240, 2880, nil)
	ctx := context.Background()
	ackID := targets[0].ID

	// Pause one hour in, resume one hour later: deadline moves to +5h.
	f.clock.Advance(time.Hour)
	_, err := f.svc.Pause(ctx, ackID)
	require.NoError(t, err)

	// A sweep during the pause detects nothing even past the original due.
	f.clock.Advance(4 * time.Hour)
	breached, err := f.svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, breached)

	resumed, err := f.svc.Resume(ctx, ackID)
	require.NoError(t, err)
	assert.Equal(t, slaEpoch.Add(8*time.Hour), resumed.DueAt)

	// Just before the shifted deadline: still quiet.
	f.clock.Advance(2*time.Hour + 59*time.Minute)
	breached, err = f.svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, breached)

	// Past it: exactly one breach.
	f.clock.Advance(2 * time.Minute)
	breached, err = f.svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, breached)
}

func TestPauseResumeCyclesAccumulatePausedTime(t *testing.T) {
	f := newSlaFixture()
	targets := f.openTargets(t, 240, 2880, nil)
	ctx := context.Background()
	ackID := targets[0].ID

	// First cycle: paused for one hour.
	f.clock.Advance(30 * time.Minute)
	_, err := f.svc.Pause(ctx, ackID)
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	resumed, err := f.svc.Resume(ctx, ackID)
	require.NoError(t, err)
	assert.Equal(t, slaEpoch.Add(5*time.Hour), resumed.DueAt)

	// Second cycle: paused for forty-five minutes more.
	f.clock.Advance(30 * time.Minute)
	_, err = f.svc.Pause(ctx, ackID)
	require.NoError(t, err)
	f.clock.Advance(45 * time.Minute)
	resumed, err = f.svc.Resume(ctx, ackID)
	require.NoError(t, err)
	assert.Equal(t, slaEpoch.Add(5*time.Hour+45*time.Minute), resumed.DueAt)

	// now = +2h45m; a sweep just before the shifted deadline stays quiet and
	// one just past it breaches.
	f.clock.Advance(2*time.Hour + 59*time.Minute)
	breached, err := f.svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, breached)

	f.clock.Advance(2 * time.Minute)
	breached, err = f.svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, breached)
}

func TestSweepIsIdempotent(t *testing.T) {
	f := newSlaFixture()
	f.openTargets(t, 240, 2880, nil)
	ctx := context.Background()

	f.clock.Advance(5 * time.Hour)
	breached, err := f.svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, breached)

	breached, err = f.svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, breached, "second sweep finds nothing")

	breaches, err := f.svc.ListBreaches(ctx, repository.BreachFilter{})
	require.NoError(t, err)
	assert.Len(t, breaches, 1)
}

func TestSweepBreachDelay(t *testing.T) {
	f := newSlaFixture()
	f.openTargets(t, 240, 2880, nil)
	ctx := context.Background()

	f.clock.Advance(4*time.Hour + time.Minute)
	breached, err := f.svc.Sweep(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, breached)

	breaches, err := f.svc.ListBreaches(ctx, repository.BreachFilter{})
	require.NoError(t, err)
	require.Len(t, breaches, 1)
	assert.Equal(t, domain.SlaTargetAck, breaches[0].Type)
	assert.Equal(t, int64(60_000), breaches[0].DelayMs)
	assert.False(t, breaches[0].Notified)
}

func TestPauseNonActiveTargetConflicts(t *testing.T) {
	f := newSlaFixture()
	targets := f.openTargets(t, 240, 2880, nil)
	ctx := context.Background()

	_, err := f.svc.Pause(ctx, targets[0].ID)
	require.NoError(t, err)
	_, err = f.svc.Pause(ctx, targets[0].ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	_, err = f.svc.Resume(ctx, targets[1].ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict), "resume of an active target")
}

func TestMarkBreachNotified(t *testing.T) {
	f := newSlaFixture()
	f.openTargets(t, 240, 2880, nil)
	ctx := context.Background()

	f.clock.Advance(5 * time.Hour)
	_, err := f.svc.Sweep(ctx)
	require.NoError(t, err)

	breaches, err := f.svc.ListBreaches(ctx, repository.BreachFilter{})
	require.NoError(t, err)
	require.Len(t, breaches, 1)

	require.NoError(t, f.svc.MarkBreachNotified(ctx, breaches[0].ID))

	notified := true
	breaches, err = f.svc.ListBreaches(ctx, repository.BreachFilter{Notified: &notified})
	require.NoError(t, err)
	assert.Len(t, breaches, 1)
}
