package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/events"
	"github.com/spec-kit/facility-service/internal/repository"
	apperrors "github.com/spec-kit/facility-service/pkg/util/errorutil"
)

// SlaService is the SLA timer engine: it derives deadlines from contract
// terms and business calendars, tracks pause/resume windows, and detects
// breaches. All transitions use revision-based optimistic concurrency so a
// pause racing a sweep can never produce both a paused state and a spurious
// breach; the loser retries or yields.
type SlaService struct {
	targets    repository.SlaRepository
	calendars  repository.CalendarRepository
	dispatcher events.Dispatcher
	clock      Clock
	logger     *zap.Logger
	retries    int
	sweepBatch int
}

// SlaDependencies bundles requirements for the SLA service.
type SlaDependencies struct {
	SlaRepo        repository.SlaRepository
	CalendarRepo   repository.CalendarRepository
	Dispatcher     events.Dispatcher
	Clock          Clock
	Logger         *zap.Logger
	Retries        int
	SweepBatchSize int
}

// NewSlaService constructs the engine.
func NewSlaService(deps SlaDependencies) *SlaService {
	clock := deps.Clock
	if clock == nil {
		clock = SystemClock()
	}
	retries := deps.Retries
	if retries <= 0 {
		retries = 3
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SlaService{
		targets:    deps.SlaRepo,
		calendars:  deps.CalendarRepo,
		dispatcher: deps.Dispatcher,
		clock:      clock,
		logger:     logger,
		retries:    retries,
		sweepBatch: deps.SweepBatchSize,
	}
}

// CreateTargetsForTicket fixes the ack and resolve deadlines from the SLA
// terms that were in force when the ticket opened. When the terms name a
// calendar, non-business time is skipped while advancing the deadline.
func (s *SlaService) CreateTargetsForTicket(ctx context.Context, ticket *domain.Ticket, terms domain.SLATerms) ([]*domain.SlaTarget, error) {
	calendar, err := s.loadCalendar(ctx, terms.CalendarCode)
	if err != nil {
		return nil, err
	}

	targets := []*domain.SlaTarget{
		domain.NewSlaTarget(ticket.ID, domain.SlaTargetAck, ticket.OpenedAt, terms.AckDuration(), calendar),
		domain.NewSlaTarget(ticket.ID, domain.SlaTargetResolve, ticket.OpenedAt, terms.ResolveDuration(), calendar),
	}
	if err := s.targets.CreateTargets(ctx, targets); err != nil {
		return nil, err
	}
	return targets, nil
}

// ValidateTerms confirms the terms are satisfiable, in particular that a
// named calendar exists. Callers run this before writing any state that the
// terms will govern.
func (s *SlaService) ValidateTerms(ctx context.Context, terms domain.SLATerms) error {
	_, err := s.loadCalendar(ctx, terms.CalendarCode)
	return err
}

func (s *SlaService) loadCalendar(ctx context.Context, code *string) (*domain.HolidayCalendar, error) {
	if code == nil {
		return nil, nil
	}
	calendar, err := s.calendars.GetByCode(ctx, *code)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("holiday calendar", map[string]any{"calendar_code": *code})
		}
		return nil, err
	}
	return calendar, nil
}

// Pause stops a target's clock. Conflict when the target is not active or
// when optimistic-concurrency retries are exhausted.
func (s *SlaService) Pause(ctx context.Context, targetID string) (*domain.SlaTarget, error) {
	return s.transition(ctx, targetID, func(target *domain.SlaTarget) error {
		if !target.Pause(s.clock.Now()) {
			return apperrors.NewConflict("target is not active", map[string]any{
				"target_id": target.ID,
				"state":     string(target.State),
			})
		}
		return nil
	}, events.EventSlaPaused)
}

// Resume restarts a paused target, shifting its deadline forward by the
// paused duration.
func (s *SlaService) Resume(ctx context.Context, targetID string) (*domain.SlaTarget, error) {
	return s.transition(ctx, targetID, func(target *domain.SlaTarget) error {
		if !target.Resume(s.clock.Now()) {
			return apperrors.NewConflict("target is not paused", map[string]any{
				"target_id": target.ID,
				"state":     string(target.State),
			})
		}
		return nil
	}, events.EventSlaResumed)
}

// Satisfy closes the target for a ticket event (acknowledge or resolve) at
// eventTime. A timely event satisfies the target; a late one breaches it
// with delay measured from the deadline to the event. Terminal targets are
// left untouched, so repeated events are no-ops.
func (s *SlaService) Satisfy(ctx context.Context, ticketID string, targetType domain.SlaTargetType) (*domain.SlaBreach, error) {
	eventTime := s.clock.Now()

	for attempt := 0; attempt < s.retries; attempt++ {
		target, err := s.targets.GetTarget(ctx, ticketID, targetType)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.NewNotFound("sla target", map[string]any{
					"ticket_id":   ticketID,
					"target_type": string(targetType),
				})
			}
			return nil, err
		}
		if target.Terminal() {
			return nil, nil
		}
		if target.State == domain.SlaStatePaused {
			return nil, apperrors.NewConflict("target is paused", map[string]any{"target_id": target.ID})
		}

		revision := target.Revision
		if target.Satisfy(eventTime) {
			err = s.targets.UpdateTarget(ctx, target, revision)
			if errors.Is(err, repository.ErrRevisionMismatch) {
				continue
			}
			if err != nil {
				return nil, err
			}
			s.publish(ctx, events.EventSlaSatisfied, target.TicketID, events.SlaTargetPayload{
				TargetID:   target.ID,
				TargetType: target.Type,
				DueAt:      target.DueAt,
			})
			return nil, nil
		}

		// Event arrived past the deadline: the target breaches with the
		// observed event time.
		breach, ok := target.Breach(eventTime)
		if !ok {
			return nil, nil
		}
		created, err := s.targets.TransitionToBreach(ctx, target, revision, breach)
		if err != nil {
			return nil, err
		}
		if !created {
			// Lost the race; re-read and retry.
			continue
		}
		s.publishBreach(ctx, breach)
		return breach, nil
	}
	return nil, apperrors.NewConflict("sla transition contention", map[string]any{
		"ticket_id":   ticketID,
		"target_type": string(targetType),
	})
}

// Sweep detects breaches for every active target whose deadline has passed.
// Safe to re-run at any cadence: a target already breached (or concurrently
// paused/satisfied) is skipped, and the unique breach constraint guarantees
// at most one row per (ticket, type).
func (s *SlaService) Sweep(ctx context.Context) (int, error) {
	now := s.clock.Now()
	due, err := s.targets.ListDueTargets(ctx, now, s.sweepBatch)
	if err != nil {
		return 0, err
	}

	breached := 0
	for i := range due {
		target := due[i]
		breach, ok := target.Breach(now)
		if !ok {
			continue
		}
		created, err := s.targets.TransitionToBreach(ctx, &target, target.Revision, breach)
		if err != nil {
			return breached, err
		}
		if !created {
			// A concurrent pause, satisfy, or earlier sweep won; the
			// conditional update makes this a no-op.
			continue
		}
		breached++
		s.logger.Info("sla breach detected",
			zap.String("ticket_id", breach.TicketID),
			zap.String("target_type", string(breach.Type)),
			zap.Int64("delay_ms", breach.DelayMs),
		)
		s.publishBreach(ctx, breach)
	}
	return breached, nil
}

// TicketForTarget returns the owning ticket of a target, for coverage
// checks at the boundary.
func (s *SlaService) TicketForTarget(ctx context.Context, targetID string) (string, error) {
	target, err := s.targets.GetTargetByID(ctx, targetID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", apperrors.NewNotFound("sla target", map[string]any{"target_id": targetID})
		}
		return "", err
	}
	return target.TicketID, nil
}

// ListTargets returns a ticket's targets.
func (s *SlaService) ListTargets(ctx context.Context, ticketID string) ([]domain.SlaTarget, error) {
	return s.targets.ListTargetsByTicket(ctx, ticketID)
}

// ListBreaches returns breach records.
func (s *SlaService) ListBreaches(ctx context.Context, filter repository.BreachFilter) ([]domain.SlaBreach, error) {
	return s.targets.ListBreaches(ctx, filter)
}

// MarkBreachNotified flips the notified flag; the record is otherwise
// immutable.
func (s *SlaService) MarkBreachNotified(ctx context.Context, breachID string) error {
	return s.targets.MarkBreachNotified(ctx, breachID)
}

func (s *SlaService) transition(ctx context.Context, targetID string, apply func(*domain.SlaTarget) error, eventType events.EventType) (*domain.SlaTarget, error) {
	for attempt := 0; attempt < s.retries; attempt++ {
		target, err := s.targets.GetTargetByID(ctx, targetID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.NewNotFound("sla target", map[string]any{"target_id": targetID})
			}
			return nil, err
		}

		revision := target.Revision
		if err := apply(target); err != nil {
			return nil, err
		}
		err = s.targets.UpdateTarget(ctx, target, revision)
		if errors.Is(err, repository.ErrRevisionMismatch) {
			continue
		}
		if err != nil {
			return nil, err
		}
		s.publish(ctx, eventType, target.TicketID, events.SlaTargetPayload{
			TargetID:   target.ID,
			TargetType: target.Type,
			DueAt:      target.DueAt,
		})
		return target, nil
	}
	return nil, apperrors.NewConflict("sla transition contention", map[string]any{"target_id": targetID})
}

func (s *SlaService) publish(ctx context.Context, eventType events.EventType, ticketID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:      eventType,
		TicketID:  ticketID,
		Timestamp: s.clock.Now(),
		Payload:   payload,
	})
}

func (s *SlaService) publishBreach(ctx context.Context, breach *domain.SlaBreach) {
	s.publish(ctx, events.EventSlaBreachDetected, breach.TicketID, events.SlaBreachPayload{
		BreachID:   breach.ID,
		TargetType: breach.Type,
		DetectedAt: breach.DetectedAt,
		DelayMs:    breach.DelayMs,
	})
}
