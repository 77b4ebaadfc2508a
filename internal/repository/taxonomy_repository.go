package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/facility-service/internal/domain"
	apperrors "github.com/spec-kit/facility-service/pkg/util/errorutil"
)

// TaxonomyRepository persists categories, skills, and their edges. The
// same-company guard on LinkSkill runs inside the insert transaction, so a
// cross-tenant edge can never commit regardless of which caller reached the
// write path.
type TaxonomyRepository interface {
	CreateCategory(ctx context.Context, category *domain.Category) error
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	ListCategories(ctx context.Context, companyID string) ([]domain.Category, error)
	CreateSkill(ctx context.Context, skill *domain.Skill) error
	GetSkill(ctx context.Context, id string) (*domain.Skill, error)
	ListSkills(ctx context.Context, companyID string) ([]domain.Skill, error)
	LinkSkill(ctx context.Context, categoryID, skillID string) (*domain.CategorySkill, error)
	ListCategorySkills(ctx context.Context, categoryID string) ([]domain.CategorySkill, error)
}

type taxonomyRepository struct {
	pool *pgxpool.Pool
}

// NewTaxonomyRepository instantiates repository.
func NewTaxonomyRepository(pool *pgxpool.Pool) TaxonomyRepository {
	return &taxonomyRepository{pool: pool}
}

func (r *taxonomyRepository) CreateCategory(ctx context.Context, category *domain.Category) error {
	const query = `
        INSERT INTO categories (company_id, key, name)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query, category.CompanyID, category.Key, category.Name).
		Scan(&category.ID, &category.CreatedAt)
	if isUniqueViolation(err) {
		return apperrors.NewConflict("category key already exists for company", map[string]any{
			"company_id": category.CompanyID,
			"key":        category.Key,
		})
	}
	return err
}

func (r *taxonomyRepository) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	const query = `SELECT id, company_id, key, name, created_at FROM categories WHERE id=$1`
	var category domain.Category
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&category.ID, &category.CompanyID, &category.Key, &category.Name, &category.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *taxonomyRepository) ListCategories(ctx context.Context, companyID string) ([]domain.Category, error) {
	const query = `SELECT id, company_id, key, name, created_at FROM categories WHERE company_id=$1 ORDER BY key`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.CompanyID, &category.Key, &category.Name, &category.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}

func (r *taxonomyRepository) CreateSkill(ctx context.Context, skill *domain.Skill) error {
	const query = `
        INSERT INTO skills (company_id, key, name)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query, skill.CompanyID, skill.Key, skill.Name).
		Scan(&skill.ID, &skill.CreatedAt)
	if isUniqueViolation(err) {
		return apperrors.NewConflict("skill key already exists for company", map[string]any{
			"company_id": skill.CompanyID,
			"key":        skill.Key,
		})
	}
	return err
}

func (r *taxonomyRepository) GetSkill(ctx context.Context, id string) (*domain.Skill, error) {
	const query = `SELECT id, company_id, key, name, created_at FROM skills WHERE id=$1`
	var skill domain.Skill
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&skill.ID, &skill.CompanyID, &skill.Key, &skill.Name, &skill.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &skill, nil
}

func (r *taxonomyRepository) ListSkills(ctx context.Context, companyID string) ([]domain.Skill, error) {
	const query = `SELECT id, company_id, key, name, created_at FROM skills WHERE company_id=$1 ORDER BY key`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Skill
	for rows.Next() {
		var skill domain.Skill
		if err := rows.Scan(&skill.ID, &skill.CompanyID, &skill.Key, &skill.Name, &skill.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, skill)
	}
	return result, rows.Err()
}

func (r *taxonomyRepository) LinkSkill(ctx context.Context, categoryID, skillID string) (*domain.CategorySkill, error) {
	edge := &domain.CategorySkill{CategoryID: categoryID, SkillID: skillID}

	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		var category domain.Category
		if err := tx.QueryRow(ctx,
			`SELECT id, company_id FROM categories WHERE id=$1 FOR SHARE`, categoryID,
		).Scan(&category.ID, &category.CompanyID); err != nil {
			if err == pgx.ErrNoRows {
				return apperrors.NewNotFound("category", map[string]any{"category_id": categoryID})
			}
			return err
		}

		var skill domain.Skill
		if err := tx.QueryRow(ctx,
			`SELECT id, company_id FROM skills WHERE id=$1 FOR SHARE`, skillID,
		).Scan(&skill.ID, &skill.CompanyID); err != nil {
			if err == pgx.ErrNoRows {
				return apperrors.NewNotFound("skill", map[string]any{"skill_id": skillID})
			}
			return err
		}

		if err := domain.ValidateCategorySkillLink(&category, &skill); err != nil {
			return err
		}

		err := tx.QueryRow(ctx,
			`INSERT INTO category_skills (category_id, skill_id) VALUES ($1,$2) RETURNING id, created_at`,
			categoryID, skillID,
		).Scan(&edge.ID, &edge.CreatedAt)
		if isUniqueViolation(err) {
			return apperrors.NewConflict("category and skill already linked", map[string]any{
				"category_id": categoryID,
				"skill_id":    skillID,
			})
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return edge, nil
}

func (r *taxonomyRepository) ListCategorySkills(ctx context.Context, categoryID string) ([]domain.CategorySkill, error) {
	const query = `SELECT id, category_id, skill_id, created_at FROM category_skills WHERE category_id=$1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CategorySkill
	for rows.Next() {
		var edge domain.CategorySkill
		if err := rows.Scan(&edge.ID, &edge.CategoryID, &edge.SkillID, &edge.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, edge)
	}
	return result, rows.Err()
}
