package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/facility-service/internal/domain"
)

// BreachFilter captures breach listing parameters.
type BreachFilter struct {
	TicketID *string
	Notified *bool
	Limit    int
}

// SlaRepository persists SLA targets and breach records. All target
// transitions are conditional on the revision the caller read; a moved
// revision surfaces as ErrRevisionMismatch and the caller retries.
type SlaRepository interface {
	CreateTargets(ctx context.Context, targets []*domain.SlaTarget) error
	GetTarget(ctx context.Context, ticketID string, targetType domain.SlaTargetType) (*domain.SlaTarget, error)
	GetTargetByID(ctx context.Context, id string) (*domain.SlaTarget, error)
	ListTargetsByTicket(ctx context.Context, ticketID string) ([]domain.SlaTarget, error)
	ListDueTargets(ctx context.Context, now time.Time, limit int) ([]domain.SlaTarget, error)
	UpdateTarget(ctx context.Context, target *domain.SlaTarget, expectedRevision int64) error
	TransitionToBreach(ctx context.Context, target *domain.SlaTarget, expectedRevision int64, breach *domain.SlaBreach) (bool, error)
	ListBreaches(ctx context.Context, filter BreachFilter) ([]domain.SlaBreach, error)
	MarkBreachNotified(ctx context.Context, id string) error
}

type slaRepository struct {
	pool *pgxpool.Pool
}

// NewSlaRepository instantiates repository.
func NewSlaRepository(pool *pgxpool.Pool) SlaRepository {
	return &slaRepository{pool: pool}
}

const targetColumns = `id, ticket_id, target_type, state, due_at, paused_at, satisfied_at, revision, created_at, updated_at`

func (r *slaRepository) CreateTargets(ctx context.Context, targets []*domain.SlaTarget) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, target := range targets {
			if err := tx.QueryRow(ctx,
				`INSERT INTO sla_targets (ticket_id, target_type, state, due_at)
                 VALUES ($1,$2,$3,$4)
                 RETURNING id, revision, created_at, updated_at`,
				target.TicketID, target.Type, target.State, target.DueAt,
			).Scan(&target.ID, &target.Revision, &target.CreatedAt, &target.UpdatedAt); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *slaRepository) GetTarget(ctx context.Context, ticketID string, targetType domain.SlaTargetType) (*domain.SlaTarget, error) {
	query := `SELECT ` + targetColumns + ` FROM sla_targets WHERE ticket_id=$1 AND target_type=$2`
	var target domain.SlaTarget
	if err := scanTarget(r.pool.QueryRow(ctx, query, ticketID, targetType), &target); err != nil {
		return nil, err
	}
	return &target, nil
}

func (r *slaRepository) GetTargetByID(ctx context.Context, id string) (*domain.SlaTarget, error) {
	query := `SELECT ` + targetColumns + ` FROM sla_targets WHERE id=$1`
	var target domain.SlaTarget
	if err := scanTarget(r.pool.QueryRow(ctx, query, id), &target); err != nil {
		return nil, err
	}
	return &target, nil
}

func (r *slaRepository) ListTargetsByTicket(ctx context.Context, ticketID string) ([]domain.SlaTarget, error) {
	query := `SELECT ` + targetColumns + ` FROM sla_targets WHERE ticket_id=$1 ORDER BY target_type`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTargets(rows)
}

// ListDueTargets returns active targets whose deadline has strictly passed.
func (r *slaRepository) ListDueTargets(ctx context.Context, now time.Time, limit int) ([]domain.SlaTarget, error) {
	if limit <= 0 {
		limit = 500
	}
	query := `SELECT ` + targetColumns + `
        FROM sla_targets WHERE state='ACTIVE' AND due_at < $1
        ORDER BY due_at LIMIT $2`
	rows, err := r.pool.Query(ctx, query, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTargets(rows)
}

func (r *slaRepository) UpdateTarget(ctx context.Context, target *domain.SlaTarget, expectedRevision int64) error {
	const query = `
        UPDATE sla_targets
        SET state=$1, due_at=$2, paused_at=$3, satisfied_at=$4, revision=revision+1, updated_at=NOW()
        WHERE id=$5 AND revision=$6`
	cmd, err := r.pool.Exec(ctx, query,
		target.State, target.DueAt, target.PausedAt, target.SatisfiedAt, target.ID, expectedRevision,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrRevisionMismatch
	}
	target.Revision = expectedRevision + 1
	return nil
}

// TransitionToBreach flips the target to BREACHED and inserts the breach row
// in one transaction. Returns false without error when a concurrent
// transition won the race; the unique constraint on (ticket_id, target_type)
// guarantees at most one breach row either way.
func (r *slaRepository) TransitionToBreach(ctx context.Context, target *domain.SlaTarget, expectedRevision int64, breach *domain.SlaBreach) (bool, error) {
	var created bool
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx,
			`UPDATE sla_targets SET state='BREACHED', revision=revision+1, updated_at=NOW()
             WHERE id=$1 AND state='ACTIVE' AND revision=$2`,
			target.ID, expectedRevision,
		)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return nil
		}

		if err := tx.QueryRow(ctx,
			`INSERT INTO sla_breaches (ticket_id, target_type, detected_at, delay_ms)
             VALUES ($1,$2,$3,$4)
             ON CONFLICT (ticket_id, target_type) DO NOTHING
             RETURNING id, created_at`,
			breach.TicketID, breach.Type, breach.DetectedAt, breach.DelayMs,
		).Scan(&breach.ID, &breach.CreatedAt); err != nil {
			if err == pgx.ErrNoRows {
				// Breach row already present from an earlier transition.
				created = false
				return nil
			}
			return err
		}
		created = true
		target.Revision = expectedRevision + 1
		target.State = domain.SlaStateBreached
		return nil
	})
	return created, err
}

func (r *slaRepository) ListBreaches(ctx context.Context, filter BreachFilter) ([]domain.SlaBreach, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.TicketID != nil {
		args = append(args, *filter.TicketID)
		clauses = append(clauses, fmt.Sprintf("ticket_id=$%d", len(args)))
	}
	if filter.Notified != nil {
		args = append(args, *filter.Notified)
		clauses = append(clauses, fmt.Sprintf("notified=$%d", len(args)))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query := fmt.Sprintf(
		`SELECT id, ticket_id, target_type, detected_at, delay_ms, notified, created_at
         FROM sla_breaches WHERE %s ORDER BY detected_at DESC LIMIT %d`,
		strings.Join(clauses, " AND "), limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SlaBreach
	for rows.Next() {
		var breach domain.SlaBreach
		if err := rows.Scan(
			&breach.ID, &breach.TicketID, &breach.Type,
			&breach.DetectedAt, &breach.DelayMs, &breach.Notified, &breach.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, breach)
	}
	return result, rows.Err()
}

func (r *slaRepository) MarkBreachNotified(ctx context.Context, id string) error {
	const query = `UPDATE sla_breaches SET notified=true WHERE id=$1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func scanTarget(row pgx.Row, target *domain.SlaTarget) error {
	return row.Scan(
		&target.ID,
		&target.TicketID,
		&target.Type,
		&target.State,
		&target.DueAt,
		&target.PausedAt,
		&target.SatisfiedAt,
		&target.Revision,
		&target.CreatedAt,
		&target.UpdatedAt,
	)
}

func scanTargets(rows pgx.Rows) ([]domain.SlaTarget, error) {
	var result []domain.SlaTarget
	for rows.Next() {
		var target domain.SlaTarget
		if err := scanTarget(rows, &target); err != nil {
			return nil, err
		}
		result = append(result, target)
	}
	return result, rows.Err()
}
