package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/facility-service/internal/domain"
	apperrors "github.com/spec-kit/facility-service/pkg/util/errorutil"
)

// ErrVersionRace is returned when a concurrent writer claimed the computed
// version number first. The service retries a bounded number of times.
var ErrVersionRace = errors.New("contract version race")

// VersionTenant is the resolved lineage of a contract version, used by the
// guards that must know which site and company the version serves.
type VersionTenant struct {
	ContractID string
	SiteID     string
	CompanyID  string
}

// ContractRepository persists contracts, versions, category inclusions, and
// routing rules.
type ContractRepository interface {
	CreateContract(ctx context.Context, contract *domain.Contract) error
	GetContract(ctx context.Context, id string) (*domain.Contract, error)
	GetActiveContractForSite(ctx context.Context, siteID string) (*domain.Contract, error)
	CreateVersion(ctx context.Context, version *domain.ContractVersion) error
	GetVersion(ctx context.Context, id string) (*domain.ContractVersion, error)
	GetLatestVersion(ctx context.Context, contractID string) (*domain.ContractVersion, error)
	ListVersions(ctx context.Context, contractID string) ([]domain.ContractVersion, error)
	ResolveVersionTenant(ctx context.Context, versionID string) (*VersionTenant, error)
	AttachCategory(ctx context.Context, link *domain.ContractCategory) error
	GetContractCategory(ctx context.Context, versionID, categoryID string) (*domain.ContractCategory, error)
	ListContractCategories(ctx context.Context, versionID string) ([]domain.ContractCategory, error)
	AddRoutingRule(ctx context.Context, rule *domain.RoutingRule) error
	ListRoutingRules(ctx context.Context, versionID string) ([]domain.RoutingRule, error)
}

type contractRepository struct {
	pool *pgxpool.Pool
}

// NewContractRepository instantiates repository.
func NewContractRepository(pool *pgxpool.Pool) ContractRepository {
	return &contractRepository{pool: pool}
}

func (r *contractRepository) CreateContract(ctx context.Context, contract *domain.Contract) error {
	const query = `
        INSERT INTO contracts (site_id, reference, active)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query, contract.SiteID, contract.Reference, contract.Active).
		Scan(&contract.ID, &contract.CreatedAt)
}

func (r *contractRepository) GetContract(ctx context.Context, id string) (*domain.Contract, error) {
	const query = `SELECT id, site_id, reference, active, created_at FROM contracts WHERE id=$1`
	var contract domain.Contract
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&contract.ID, &contract.SiteID, &contract.Reference, &contract.Active, &contract.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) GetActiveContractForSite(ctx context.Context, siteID string) (*domain.Contract, error) {
	const query = `
        SELECT id, site_id, reference, active, created_at
        FROM contracts WHERE site_id=$1 AND active ORDER BY created_at DESC LIMIT 1`
	var contract domain.Contract
	if err := r.pool.QueryRow(ctx, query, siteID).Scan(
		&contract.ID, &contract.SiteID, &contract.Reference, &contract.Active, &contract.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &contract, nil
}

// CreateVersion assigns max(version)+1 inside the insert transaction. Two
// concurrent writers can both read the same maximum; the unique constraint
// on (contract_id, version) serializes them and the loser gets
// ErrVersionRace.
func (r *contractRepository) CreateVersion(ctx context.Context, version *domain.ContractVersion) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			`SELECT COALESCE(MAX(version), 0) + 1 FROM contract_versions WHERE contract_id=$1`,
			version.ContractID,
		).Scan(&version.Version); err != nil {
			return err
		}

		err := tx.QueryRow(ctx,
			`INSERT INTO contract_versions (contract_id, version, coverage, escalation, approvals)
             VALUES ($1,$2,$3,$4,$5)
             RETURNING id, created_at`,
			version.ContractID, version.Version, version.Coverage, version.Escalation, version.Approvals,
		).Scan(&version.ID, &version.CreatedAt)
		if isUniqueViolation(err) {
			return ErrVersionRace
		}
		return err
	})
}

func (r *contractRepository) GetVersion(ctx context.Context, id string) (*domain.ContractVersion, error) {
	const query = `
        SELECT id, contract_id, version, coverage, escalation, approvals, created_at
        FROM contract_versions WHERE id=$1`
	var version domain.ContractVersion
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&version.ID, &version.ContractID, &version.Version,
		&version.Coverage, &version.Escalation, &version.Approvals, &version.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &version, nil
}

func (r *contractRepository) GetLatestVersion(ctx context.Context, contractID string) (*domain.ContractVersion, error) {
	const query = `
        SELECT id, contract_id, version, coverage, escalation, approvals, created_at
        FROM contract_versions WHERE contract_id=$1 ORDER BY version DESC LIMIT 1`
	var version domain.ContractVersion
	if err := r.pool.QueryRow(ctx, query, contractID).Scan(
		&version.ID, &version.ContractID, &version.Version,
		&version.Coverage, &version.Escalation, &version.Approvals, &version.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &version, nil
}

func (r *contractRepository) ListVersions(ctx context.Context, contractID string) ([]domain.ContractVersion, error) {
	const query = `
        SELECT id, contract_id, version, coverage, escalation, approvals, created_at
        FROM contract_versions WHERE contract_id=$1 ORDER BY version`
	rows, err := r.pool.Query(ctx, query, contractID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ContractVersion
	for rows.Next() {
		var version domain.ContractVersion
		if err := rows.Scan(
			&version.ID, &version.ContractID, &version.Version,
			&version.Coverage, &version.Escalation, &version.Approvals, &version.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, version)
	}
	return result, rows.Err()
}

func (r *contractRepository) ResolveVersionTenant(ctx context.Context, versionID string) (*VersionTenant, error) {
	const query = `
        SELECT c.id, s.id, s.company_id
        FROM contract_versions cv
        JOIN contracts c ON c.id = cv.contract_id
        JOIN sites s ON s.id = c.site_id
        WHERE cv.id=$1`
	var tenant VersionTenant
	if err := r.pool.QueryRow(ctx, query, versionID).Scan(&tenant.ContractID, &tenant.SiteID, &tenant.CompanyID); err != nil {
		return nil, err
	}
	return &tenant, nil
}

// AttachCategory links a category to a contract version after verifying,
// in the same transaction, that the category belongs to the contract's
// company.
func (r *contractRepository) AttachCategory(ctx context.Context, link *domain.ContractCategory) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		var contractCompanyID string
		if err := tx.QueryRow(ctx,
			`SELECT s.company_id
             FROM contract_versions cv
             JOIN contracts c ON c.id = cv.contract_id
             JOIN sites s ON s.id = c.site_id
             WHERE cv.id=$1`,
			link.ContractVersionID,
		).Scan(&contractCompanyID); err != nil {
			if err == pgx.ErrNoRows {
				return apperrors.NewNotFound("contract version", map[string]any{"contract_version_id": link.ContractVersionID})
			}
			return err
		}

		var category domain.Category
		if err := tx.QueryRow(ctx,
			`SELECT id, company_id FROM categories WHERE id=$1 FOR SHARE`, link.CategoryID,
		).Scan(&category.ID, &category.CompanyID); err != nil {
			if err == pgx.ErrNoRows {
				return apperrors.NewNotFound("category", map[string]any{"category_id": link.CategoryID})
			}
			return err
		}

		if err := domain.ValidateContractCategory(&category, contractCompanyID); err != nil {
			return err
		}

		sla, err := json.Marshal(link.SLA)
		if err != nil {
			return err
		}
		err = tx.QueryRow(ctx,
			`INSERT INTO contract_categories (contract_version_id, category_id, included, sla)
             VALUES ($1,$2,$3,$4)
             RETURNING id, created_at`,
			link.ContractVersionID, link.CategoryID, link.Included, sla,
		).Scan(&link.ID, &link.CreatedAt)
		if isUniqueViolation(err) {
			return apperrors.NewConflict("category already attached to contract version", map[string]any{
				"contract_version_id": link.ContractVersionID,
				"category_id":         link.CategoryID,
			})
		}
		return err
	})
}

func (r *contractRepository) GetContractCategory(ctx context.Context, versionID, categoryID string) (*domain.ContractCategory, error) {
	const query = `
        SELECT id, contract_version_id, category_id, included, sla, created_at
        FROM contract_categories WHERE contract_version_id=$1 AND category_id=$2`
	return scanContractCategory(r.pool.QueryRow(ctx, query, versionID, categoryID))
}

func (r *contractRepository) ListContractCategories(ctx context.Context, versionID string) ([]domain.ContractCategory, error) {
	const query = `
        SELECT id, contract_version_id, category_id, included, sla, created_at
        FROM contract_categories WHERE contract_version_id=$1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, versionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ContractCategory
	for rows.Next() {
		link, err := scanContractCategory(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *link)
	}
	return result, rows.Err()
}

func scanContractCategory(row pgx.Row) (*domain.ContractCategory, error) {
	var link domain.ContractCategory
	var sla []byte
	if err := row.Scan(&link.ID, &link.ContractVersionID, &link.CategoryID, &link.Included, &sla, &link.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(sla, &link.SLA); err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *contractRepository) AddRoutingRule(ctx context.Context, rule *domain.RoutingRule) error {
	const query = `
        INSERT INTO routing_rules (contract_version_id, priority, condition, action)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		rule.ContractVersionID, rule.Priority, rule.Condition, rule.Action,
	).Scan(&rule.ID, &rule.CreatedAt)
}

// ListRoutingRules returns rules in match order: ascending priority, ties
// broken by insertion order.
func (r *contractRepository) ListRoutingRules(ctx context.Context, versionID string) ([]domain.RoutingRule, error) {
	const query = `
        SELECT id, contract_version_id, priority, condition, action, created_at
        FROM routing_rules WHERE contract_version_id=$1
        ORDER BY priority, created_at, id`
	rows, err := r.pool.Query(ctx, query, versionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.RoutingRule
	for rows.Next() {
		var rule domain.RoutingRule
		if err := rows.Scan(
			&rule.ID, &rule.ContractVersionID, &rule.Priority,
			&rule.Condition, &rule.Action, &rule.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, rule)
	}
	return result, rows.Err()
}
