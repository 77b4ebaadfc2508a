package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/facility-service/internal/domain"
)

// DirectoryRepository persists the company/site/building hierarchy.
type DirectoryRepository interface {
	CreateCompany(ctx context.Context, company *domain.Company) error
	GetCompany(ctx context.Context, id string) (*domain.Company, error)
	ListCompanies(ctx context.Context) ([]domain.Company, error)
	CreateSite(ctx context.Context, site *domain.Site) error
	GetSite(ctx context.Context, id string) (*domain.Site, error)
	ListSites(ctx context.Context, companyID string) ([]domain.Site, error)
	CreateBuilding(ctx context.Context, building *domain.Building) error
	GetBuilding(ctx context.Context, id string) (*domain.Building, error)
	ListBuildings(ctx context.Context, siteID string) ([]domain.Building, error)
}

type directoryRepository struct {
	pool *pgxpool.Pool
}

// NewDirectoryRepository instantiates repository.
func NewDirectoryRepository(pool *pgxpool.Pool) DirectoryRepository {
	return &directoryRepository{pool: pool}
}

func (r *directoryRepository) CreateCompany(ctx context.Context, company *domain.Company) error {
	const query = `INSERT INTO companies (name) VALUES ($1) RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query, company.Name).Scan(&company.ID, &company.CreatedAt)
}

func (r *directoryRepository) GetCompany(ctx context.Context, id string) (*domain.Company, error) {
	const query = `SELECT id, name, created_at FROM companies WHERE id=$1`
	var company domain.Company
	if err := r.pool.QueryRow(ctx, query, id).Scan(&company.ID, &company.Name, &company.CreatedAt); err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *directoryRepository) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	const query = `SELECT id, name, created_at FROM companies ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Company
	for rows.Next() {
		var company domain.Company
		if err := rows.Scan(&company.ID, &company.Name, &company.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, company)
	}
	return result, rows.Err()
}

func (r *directoryRepository) CreateSite(ctx context.Context, site *domain.Site) error {
	const query = `INSERT INTO sites (company_id, name) VALUES ($1,$2) RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query, site.CompanyID, site.Name).Scan(&site.ID, &site.CreatedAt)
}

func (r *directoryRepository) GetSite(ctx context.Context, id string) (*domain.Site, error) {
	const query = `SELECT id, company_id, name, created_at FROM sites WHERE id=$1`
	var site domain.Site
	if err := r.pool.QueryRow(ctx, query, id).Scan(&site.ID, &site.CompanyID, &site.Name, &site.CreatedAt); err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *directoryRepository) ListSites(ctx context.Context, companyID string) ([]domain.Site, error) {
	const query = `SELECT id, company_id, name, created_at FROM sites WHERE company_id=$1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Site
	for rows.Next() {
		var site domain.Site
		if err := rows.Scan(&site.ID, &site.CompanyID, &site.Name, &site.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, site)
	}
	return result, rows.Err()
}

func (r *directoryRepository) CreateBuilding(ctx context.Context, building *domain.Building) error {
	const query = `INSERT INTO buildings (site_id, name) VALUES ($1,$2) RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query, building.SiteID, building.Name).Scan(&building.ID, &building.CreatedAt)
}

func (r *directoryRepository) GetBuilding(ctx context.Context, id string) (*domain.Building, error) {
	const query = `SELECT id, site_id, name, created_at FROM buildings WHERE id=$1`
	var building domain.Building
	if err := r.pool.QueryRow(ctx, query, id).Scan(&building.ID, &building.SiteID, &building.Name, &building.CreatedAt); err != nil {
		return nil, err
	}
	return &building, nil
}

func (r *directoryRepository) ListBuildings(ctx context.Context, siteID string) ([]domain.Building, error) {
	const query = `SELECT id, site_id, name, created_at FROM buildings WHERE site_id=$1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, siteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Building
	for rows.Next() {
		var building domain.Building
		if err := rows.Scan(&building.ID, &building.SiteID, &building.Name, &building.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, building)
	}
	return result, rows.Err()
}
