package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/repository"
	apperrors "github.com/spec-kit/facility-service/pkg/util/errorutil"
)

// ContractService manages contracts, their versioned terms, category
// inclusions, and routing rules.
type ContractService struct {
	contracts      repository.ContractRepository
	teams          repository.TeamRepository
	calendars      repository.CalendarRepository
	scopeSvc       *ScopeService
	versionRetries int
}

// ContractDependencies bundles requirements for the contract service.
type ContractDependencies struct {
	ContractRepo   repository.ContractRepository
	TeamRepo       repository.TeamRepository
	CalendarRepo   repository.CalendarRepository
	ScopeSvc       *ScopeService
	VersionRetries int
}

// NewContractService constructs the service.
func NewContractService(deps ContractDependencies) *ContractService {
	retries := deps.VersionRetries
	if retries <= 0 {
		retries = 3
	}
	return &ContractService{
		contracts:      deps.ContractRepo,
		teams:          deps.TeamRepo,
		calendars:      deps.CalendarRepo,
		scopeSvc:       deps.ScopeSvc,
		versionRetries: retries,
	}
}

// CreateContract registers a contract for a covered site.
func (s *ContractService) CreateContract(ctx context.Context, set *domain.ScopeSet, siteID, reference string) (*domain.Contract, error) {
	if err := s.scopeSvc.RequireSite(ctx, set, siteID); err != nil {
		return nil, err
	}
	if reference == "" {
		return nil, apperrors.NewInvalidInput("contract reference required", nil)
	}
	contract := &domain.Contract{SiteID: siteID, Reference: reference, Active: true}
	if err := s.contracts.CreateContract(ctx, contract); err != nil {
		return nil, err
	}
	return contract, nil
}

// CreateVersion snapshots new contractual terms under the next version
// number. Concurrent writers racing for the same number are serialized by
// the unique constraint; the loser retries with a freshly computed number a
// bounded number of times before surfacing Conflict.
func (s *ContractService) CreateVersion(ctx context.Context, set *domain.ScopeSet, contractID string, coverage, escalation, approvals json.RawMessage) (*domain.ContractVersion, error) {
	contract, err := s.contracts.GetContract(ctx, contractID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("contract", map[string]any{"contract_id": contractID})
		}
		return nil, err
	}
	if err := s.scopeSvc.RequireSite(ctx, set, contract.SiteID); err != nil {
		return nil, err
	}
	if len(coverage) == 0 {
		return nil, apperrors.NewInvalidInput("coverage payload required", nil)
	}

	version := &domain.ContractVersion{
		ContractID: contractID,
		Coverage:   coverage,
		Escalation: escalation,
		Approvals:  approvals,
	}
	for attempt := 0; attempt < s.versionRetries; attempt++ {
		err = s.contracts.CreateVersion(ctx, version)
		if !errors.Is(err, repository.ErrVersionRace) {
			break
		}
	}
	if errors.Is(err, repository.ErrVersionRace) {
		return nil, apperrors.NewConflict("contract version number contention", map[string]any{
			"contract_id": contractID,
		})
	}
	if err != nil {
		return nil, err
	}
	return version, nil
}

// AttachCategory includes a category in a version with its SLA terms. The
// cross-company guard runs inside the repository write transaction.
func (s *ContractService) AttachCategory(ctx context.Context, set *domain.ScopeSet, versionID, categoryID string, sla domain.SLATerms, included bool) (*domain.ContractCategory, error) {
	tenant, err := s.contracts.ResolveVersionTenant(ctx, versionID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("contract version", map[string]any{"contract_version_id": versionID})
		}
		return nil, err
	}
	if err := s.scopeSvc.RequireSite(ctx, set, tenant.SiteID); err != nil {
		return nil, err
	}
	if sla.AckMinutes <= 0 || sla.ResolveMinutes <= 0 {
		return nil, apperrors.NewInvalidInput("sla terms require positive ack and resolve windows", nil)
	}
	if sla.CalendarCode != nil {
		if _, err := s.calendars.GetByCode(ctx, *sla.CalendarCode); err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.NewInvalidInput("sla terms name an unknown calendar", map[string]any{
					"calendar_code": *sla.CalendarCode,
				})
			}
			return nil, err
		}
	}

	link := &domain.ContractCategory{
		ContractVersionID: versionID,
		CategoryID:        categoryID,
		Included:          included,
		SLA:               sla,
	}
	if err := s.contracts.AttachCategory(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// AddRoutingRule appends a rule; priority defaults to 100, lower wins.
func (s *ContractService) AddRoutingRule(ctx context.Context, set *domain.ScopeSet, versionID string, priority int, condition, action json.RawMessage) (*domain.RoutingRule, error) {
	tenant, err := s.contracts.ResolveVersionTenant(ctx, versionID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("contract version", map[string]any{"contract_version_id": versionID})
		}
		return nil, err
	}
	if err := s.scopeSvc.RequireSite(ctx, set, tenant.SiteID); err != nil {
		return nil, err
	}
	if priority <= 0 {
		priority = domain.DefaultRoutingPriority
	}
	var decoded domain.RoutingAction
	if err := json.Unmarshal(action, &decoded); err != nil || decoded.TeamID == "" {
		return nil, apperrors.NewInvalidInput("routing action must name a team_id", nil)
	}
	if len(condition) == 0 {
		condition = json.RawMessage(`{}`)
	}

	rule := &domain.RoutingRule{
		ContractVersionID: versionID,
		Priority:          priority,
		Condition:         condition,
		Action:            action,
	}
	if err := s.contracts.AddRoutingRule(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// ListVersions returns a contract's versions in order.
func (s *ContractService) ListVersions(ctx context.Context, set *domain.ScopeSet, contractID string) ([]domain.ContractVersion, error) {
	contract, err := s.contracts.GetContract(ctx, contractID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("contract", map[string]any{"contract_id": contractID})
		}
		return nil, err
	}
	if err := s.scopeSvc.RequireSite(ctx, set, contract.SiteID); err != nil {
		return nil, err
	}
	return s.contracts.ListVersions(ctx, contractID)
}

// RouteTicket picks the team for a ticket's attributes: first routing rule
// to match (ascending priority, insertion order on ties), falling back to
// the competency matrix with building-specific entries preferred.
func (s *ContractService) RouteTicket(ctx context.Context, versionID string, attrs map[string]string, categoryID string, buildingID *string) (*string, error) {
	rules, err := s.contracts.ListRoutingRules(ctx, versionID)
	if err != nil {
		return nil, err
	}
	for i := range rules {
		if !rules[i].Matches(attrs) {
			continue
		}
		var action domain.RoutingAction
		if err := json.Unmarshal(rules[i].Action, &action); err != nil || action.TeamID == "" {
			continue
		}
		teamID := action.TeamID
		return &teamID, nil
	}

	entries, err := s.teams.FindCompetentTeams(ctx, versionID, categoryID, buildingID)
	if err != nil {
		return nil, err
	}
	if len(entries) > 0 {
		teamID := entries[0].TeamID
		return &teamID, nil
	}
	return nil, nil
}
