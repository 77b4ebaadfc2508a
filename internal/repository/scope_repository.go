package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/facility-service/internal/domain"
	apperrors "github.com/spec-kit/facility-service/pkg/util/errorutil"
)

// ScopeRepository persists admin scope grants.
type ScopeRepository interface {
	Create(ctx context.Context, scope *domain.AdminScope) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.AdminScope, error)
	ListByUser(ctx context.Context, userID string) ([]domain.AdminScope, error)
}

type scopeRepository struct {
	pool *pgxpool.Pool
}

// NewScopeRepository instantiates repository.
func NewScopeRepository(pool *pgxpool.Pool) ScopeRepository {
	return &scopeRepository{pool: pool}
}

func (r *scopeRepository) Create(ctx context.Context, scope *domain.AdminScope) error {
	const query = `
        INSERT INTO admin_scopes (user_id, scope, company_id, site_id, building_id)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query,
		scope.UserID,
		scope.Scope,
		scope.CompanyID,
		scope.SiteID,
		scope.BuildingID,
	).Scan(&scope.ID, &scope.CreatedAt)
	if isUniqueViolation(err) {
		return apperrors.NewConflict("scope already granted", map[string]any{
			"user_id": scope.UserID,
			"scope":   string(scope.Scope),
		})
	}
	return err
}

func (r *scopeRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM admin_scopes WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.NewNotFound("admin scope", map[string]any{"scope_id": id})
	}
	return nil
}

func (r *scopeRepository) GetByID(ctx context.Context, id string) (*domain.AdminScope, error) {
	const query = `
        SELECT id, user_id, scope, company_id, site_id, building_id, created_at
        FROM admin_scopes WHERE id=$1`
	var scope domain.AdminScope
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&scope.ID,
		&scope.UserID,
		&scope.Scope,
		&scope.CompanyID,
		&scope.SiteID,
		&scope.BuildingID,
		&scope.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &scope, nil
}

func (r *scopeRepository) ListByUser(ctx context.Context, userID string) ([]domain.AdminScope, error) {
	const query = `
        SELECT id, user_id, scope, company_id, site_id, building_id, created_at
        FROM admin_scopes WHERE user_id=$1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AdminScope
	for rows.Next() {
		var scope domain.AdminScope
		if err := rows.Scan(
			&scope.ID,
			&scope.UserID,
			&scope.Scope,
			&scope.CompanyID,
			&scope.SiteID,
			&scope.BuildingID,
			&scope.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, scope)
	}
	return result, rows.Err()
}
