package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/facility-service/internal/domain"
	apperrors "github.com/spec-kit/facility-service/pkg/util/errorutil"
)

// TeamRepository persists teams, memberships, and the competency matrix.
// AddCompetency is the deepest tenant guard in the system: it joins
// contract_version → contract → site to learn the company before validating
// team, category, and optional building, all in the insert transaction.
type TeamRepository interface {
	CreateTeam(ctx context.Context, team *domain.Team) error
	GetTeam(ctx context.Context, id string) (*domain.Team, error)
	ListTeams(ctx context.Context, companyID string) ([]domain.Team, error)
	AddMember(ctx context.Context, member *domain.TeamMember) error
	ListMembers(ctx context.Context, teamID string) ([]domain.TeamMember, error)
	AddCompetency(ctx context.Context, entry *domain.CompetencyEntry) error
	ListCompetencies(ctx context.Context, versionID string) ([]domain.CompetencyEntry, error)
	FindCompetentTeams(ctx context.Context, versionID, categoryID string, buildingID *string) ([]domain.CompetencyEntry, error)
}

type teamRepository struct {
	pool *pgxpool.Pool
}

// NewTeamRepository instantiates repository.
func NewTeamRepository(pool *pgxpool.Pool) TeamRepository {
	return &teamRepository{pool: pool}
}

func (r *teamRepository) CreateTeam(ctx context.Context, team *domain.Team) error {
	const query = `
        INSERT INTO teams (company_id, name, active)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, team.CompanyID, team.Name, team.Active).
		Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt)
}

func (r *teamRepository) GetTeam(ctx context.Context, id string) (*domain.Team, error) {
	const query = `SELECT id, company_id, name, active, created_at, updated_at FROM teams WHERE id=$1`
	var team domain.Team
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&team.ID, &team.CompanyID, &team.Name, &team.Active, &team.CreatedAt, &team.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) ListTeams(ctx context.Context, companyID string) ([]domain.Team, error) {
	const query = `SELECT id, company_id, name, active, created_at, updated_at FROM teams WHERE company_id=$1 ORDER BY name`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Team
	for rows.Next() {
		var team domain.Team
		if err := rows.Scan(&team.ID, &team.CompanyID, &team.Name, &team.Active, &team.CreatedAt, &team.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, team)
	}
	return result, rows.Err()
}

func (r *teamRepository) AddMember(ctx context.Context, member *domain.TeamMember) error {
	const query = `
        INSERT INTO team_members (team_id, user_id)
        VALUES ($1,$2)
        RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query, member.TeamID, member.UserID).
		Scan(&member.ID, &member.CreatedAt)
	if isUniqueViolation(err) {
		return apperrors.NewConflict("user already on team", map[string]any{
			"team_id": member.TeamID,
			"user_id": member.UserID,
		})
	}
	return err
}

func (r *teamRepository) ListMembers(ctx context.Context, teamID string) ([]domain.TeamMember, error) {
	const query = `SELECT id, team_id, user_id, created_at FROM team_members WHERE team_id=$1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TeamMember
	for rows.Next() {
		var member domain.TeamMember
		if err := rows.Scan(&member.ID, &member.TeamID, &member.UserID, &member.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, member)
	}
	return result, rows.Err()
}

func (r *teamRepository) AddCompetency(ctx context.Context, entry *domain.CompetencyEntry) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		var contractSiteID, contractCompanyID string
		if err := tx.QueryRow(ctx,
			`SELECT s.id, s.company_id
             FROM contract_versions cv
             JOIN contracts c ON c.id = cv.contract_id
             JOIN sites s ON s.id = c.site_id
             WHERE cv.id=$1`,
			entry.ContractVersionID,
		).Scan(&contractSiteID, &contractCompanyID); err != nil {
			if err == pgx.ErrNoRows {
				return apperrors.NewNotFound("contract version", map[string]any{"contract_version_id": entry.ContractVersionID})
			}
			return err
		}

		var team domain.Team
		if err := tx.QueryRow(ctx,
			`SELECT id, company_id FROM teams WHERE id=$1 FOR SHARE`, entry.TeamID,
		).Scan(&team.ID, &team.CompanyID); err != nil {
			if err == pgx.ErrNoRows {
				return apperrors.NewNotFound("team", map[string]any{"team_id": entry.TeamID})
			}
			return err
		}

		var category domain.Category
		if err := tx.QueryRow(ctx,
			`SELECT id, company_id FROM categories WHERE id=$1 FOR SHARE`, entry.CategoryID,
		).Scan(&category.ID, &category.CompanyID); err != nil {
			if err == pgx.ErrNoRows {
				return apperrors.NewNotFound("category", map[string]any{"category_id": entry.CategoryID})
			}
			return err
		}

		var building *domain.Building
		if entry.BuildingID != nil {
			building = &domain.Building{}
			if err := tx.QueryRow(ctx,
				`SELECT id, site_id FROM buildings WHERE id=$1 FOR SHARE`, *entry.BuildingID,
			).Scan(&building.ID, &building.SiteID); err != nil {
				if err == pgx.ErrNoRows {
					return apperrors.NewNotFound("building", map[string]any{"building_id": *entry.BuildingID})
				}
				return err
			}
		}

		if err := domain.ValidateCompetency(&team, &category, building, contractSiteID, contractCompanyID); err != nil {
			return err
		}

		err := tx.QueryRow(ctx,
			`INSERT INTO competency_matrix (contract_version_id, team_id, category_id, building_id)
             VALUES ($1,$2,$3,$4)
             RETURNING id, created_at`,
			entry.ContractVersionID, entry.TeamID, entry.CategoryID, entry.BuildingID,
		).Scan(&entry.ID, &entry.CreatedAt)
		if isUniqueViolation(err) {
			return apperrors.NewConflict("competency entry already exists", map[string]any{
				"contract_version_id": entry.ContractVersionID,
				"team_id":             entry.TeamID,
				"category_id":         entry.CategoryID,
			})
		}
		return err
	})
}

func (r *teamRepository) ListCompetencies(ctx context.Context, versionID string) ([]domain.CompetencyEntry, error) {
	const query = `
        SELECT id, contract_version_id, team_id, category_id, building_id, created_at
        FROM competency_matrix WHERE contract_version_id=$1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, versionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCompetencies(rows)
}

// FindCompetentTeams lists competency entries for a category, with
// building-specific entries ranked before site-wide ones.
func (r *teamRepository) FindCompetentTeams(ctx context.Context, versionID, categoryID string, buildingID *string) ([]domain.CompetencyEntry, error) {
	const query = `
        SELECT id, contract_version_id, team_id, category_id, building_id, created_at
        FROM competency_matrix
        WHERE contract_version_id=$1 AND category_id=$2
          AND (building_id IS NULL OR building_id=$3)
        ORDER BY building_id NULLS LAST, created_at`
	rows, err := r.pool.Query(ctx, query, versionID, categoryID, buildingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCompetencies(rows)
}

func scanCompetencies(rows pgx.Rows) ([]domain.CompetencyEntry, error) {
	var result []domain.CompetencyEntry
	for rows.Next() {
		var entry domain.CompetencyEntry
		if err := rows.Scan(
			&entry.ID, &entry.ContractVersionID, &entry.TeamID,
			&entry.CategoryID, &entry.BuildingID, &entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
