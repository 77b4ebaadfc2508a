package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/repository"
	apperrors "github.com/spec-kit/facility-service/pkg/util/errorutil"
)

// DirectoryService manages the company/site/building hierarchy.
type DirectoryService struct {
	directory repository.DirectoryRepository
	scopeSvc  *ScopeService
}

// NewDirectoryService constructs the service.
func NewDirectoryService(directory repository.DirectoryRepository, scopeSvc *ScopeService) *DirectoryService {
	return &DirectoryService{directory: directory, scopeSvc: scopeSvc}
}

// CreateCompany registers a new tenant. Platform scope required.
func (s *DirectoryService) CreateCompany(ctx context.Context, set *domain.ScopeSet, name string) (*domain.Company, error) {
	if err := s.scopeSvc.RequirePlatform(set); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewInvalidInput("company name required", nil)
	}
	company := &domain.Company{Name: name}
	if err := s.directory.CreateCompany(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

// CreateSite adds a site under a company the caller covers.
func (s *DirectoryService) CreateSite(ctx context.Context, set *domain.ScopeSet, companyID, name string) (*domain.Site, error) {
	if err := s.scopeSvc.RequireCompany(ctx, set, companyID); err != nil {
		return nil, err
	}
	if _, err := s.directory.GetCompany(ctx, companyID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("company", map[string]any{"company_id": companyID})
		}
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewInvalidInput("site name required", nil)
	}
	site := &domain.Site{CompanyID: companyID, Name: name}
	if err := s.directory.CreateSite(ctx, site); err != nil {
		return nil, err
	}
	return site, nil
}

// CreateBuilding adds a building under a site the caller covers.
func (s *DirectoryService) CreateBuilding(ctx context.Context, set *domain.ScopeSet, siteID, name string) (*domain.Building, error) {
	if err := s.scopeSvc.RequireSite(ctx, set, siteID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewInvalidInput("building name required", nil)
	}
	building := &domain.Building{SiteID: siteID, Name: name}
	if err := s.directory.CreateBuilding(ctx, building); err != nil {
		return nil, err
	}
	return building, nil
}

// GetCompany returns a company the caller covers.
func (s *DirectoryService) GetCompany(ctx context.Context, set *domain.ScopeSet, companyID string) (*domain.Company, error) {
	if err := s.scopeSvc.RequireCompany(ctx, set, companyID); err != nil {
		return nil, err
	}
	company, err := s.directory.GetCompany(ctx, companyID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("company", map[string]any{"company_id": companyID})
		}
		return nil, err
	}
	return company, nil
}

// ListSites lists sites of a covered company.
func (s *DirectoryService) ListSites(ctx context.Context, set *domain.ScopeSet, companyID string) ([]domain.Site, error) {
	if err := s.scopeSvc.RequireCompany(ctx, set, companyID); err != nil {
		return nil, err
	}
	return s.directory.ListSites(ctx, companyID)
}

// ListBuildings lists buildings of a covered site.
func (s *DirectoryService) ListBuildings(ctx context.Context, set *domain.ScopeSet, siteID string) ([]domain.Building, error) {
	if err := s.scopeSvc.RequireSite(ctx, set, siteID); err != nil {
		return nil, err
	}
	return s.directory.ListBuildings(ctx, siteID)
}
