package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/repository"
	apperrors "github.com/spec-kit/facility-service/pkg/util/errorutil"
)

// TaxonomyService manages per-company categories and skills. The
// same-company invariant on edges is enforced by the repository inside the
// write transaction; this service adds scope checks and input validation.
type TaxonomyService struct {
	taxonomy repository.TaxonomyRepository
	scopeSvc *ScopeService
}

// NewTaxonomyService constructs the service.
func NewTaxonomyService(taxonomy repository.TaxonomyRepository, scopeSvc *ScopeService) *TaxonomyService {
	return &TaxonomyService{taxonomy: taxonomy, scopeSvc: scopeSvc}
}

// CreateCategory adds a category to a covered company's taxonomy.
func (s *TaxonomyService) CreateCategory(ctx context.Context, set *domain.ScopeSet, companyID, key, name string) (*domain.Category, error) {
	if err := s.scopeSvc.RequireCompany(ctx, set, companyID); err != nil {
		return nil, err
	}
	key = strings.TrimSpace(strings.ToLower(key))
	if key == "" {
		return nil, apperrors.NewInvalidInput("category key required", nil)
	}
	category := &domain.Category{CompanyID: companyID, Key: key, Name: strings.TrimSpace(name)}
	if err := s.taxonomy.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// CreateSkill adds a skill to a covered company's taxonomy.
func (s *TaxonomyService) CreateSkill(ctx context.Context, set *domain.ScopeSet, companyID, key, name string) (*domain.Skill, error) {
	if err := s.scopeSvc.RequireCompany(ctx, set, companyID); err != nil {
		return nil, err
	}
	key = strings.TrimSpace(strings.ToLower(key))
	if key == "" {
		return nil, apperrors.NewInvalidInput("skill key required", nil)
	}
	skill := &domain.Skill{CompanyID: companyID, Key: key, Name: strings.TrimSpace(name)}
	if err := s.taxonomy.CreateSkill(ctx, skill); err != nil {
		return nil, err
	}
	return skill, nil
}

// LinkSkill connects a category and a skill. Cross-company pairs are
// rejected atomically with the write.
func (s *TaxonomyService) LinkSkill(ctx context.Context, set *domain.ScopeSet, categoryID, skillID string) (*domain.CategorySkill, error) {
	category, err := s.taxonomy.GetCategory(ctx, categoryID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("category", map[string]any{"category_id": categoryID})
		}
		return nil, err
	}
	if err := s.scopeSvc.RequireCompany(ctx, set, category.CompanyID); err != nil {
		return nil, err
	}
	return s.taxonomy.LinkSkill(ctx, categoryID, skillID)
}

// ListCategories lists a covered company's categories.
func (s *TaxonomyService) ListCategories(ctx context.Context, set *domain.ScopeSet, companyID string) ([]domain.Category, error) {
	if err := s.scopeSvc.RequireCompany(ctx, set, companyID); err != nil {
		return nil, err
	}
	return s.taxonomy.ListCategories(ctx, companyID)
}

// ListSkills lists a covered company's skills.
func (s *TaxonomyService) ListSkills(ctx context.Context, set *domain.ScopeSet, companyID string) ([]domain.Skill, error) {
	if err := s.scopeSvc.RequireCompany(ctx, set, companyID); err != nil {
		return nil, err
	}
	return s.taxonomy.ListSkills(ctx, companyID)
}
