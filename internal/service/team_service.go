package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/repository"
	apperrors "github.com/spec-kit/facility-service/pkg/util/errorutil"
)

// TeamService manages teams, memberships, and the competency matrix.
type TeamService struct {
	teams     repository.TeamRepository
	contracts repository.ContractRepository
	scopeSvc  *ScopeService
}

// TeamDependencies bundles requirements for the team service.
type TeamDependencies struct {
	TeamRepo     repository.TeamRepository
	ContractRepo repository.ContractRepository
	ScopeSvc     *ScopeService
}

// NewTeamService constructs the service.
func NewTeamService(deps TeamDependencies) *TeamService {
	return &TeamService{
		teams:     deps.TeamRepo,
		contracts: deps.ContractRepo,
		scopeSvc:  deps.ScopeSvc,
	}
}

// CreateTeam registers a team under a covered company.
func (s *TeamService) CreateTeam(ctx context.Context, set *domain.ScopeSet, companyID, name string) (*domain.Team, error) {
	if err := s.scopeSvc.RequireCompany(ctx, set, companyID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewInvalidInput("team name required", nil)
	}
	team := &domain.Team{CompanyID: companyID, Name: name, Active: true}
	if err := s.teams.CreateTeam(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

// AddMember adds a user to a team the caller covers.
func (s *TeamService) AddMember(ctx context.Context, set *domain.ScopeSet, teamID, userID string) (*domain.TeamMember, error) {
	team, err := s.teams.GetTeam(ctx, teamID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("team", map[string]any{"team_id": teamID})
		}
		return nil, err
	}
	if err := s.scopeSvc.RequireCompany(ctx, set, team.CompanyID); err != nil {
		return nil, err
	}
	member := &domain.TeamMember{TeamID: teamID, UserID: userID}
	if err := s.teams.AddMember(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// AddCompetency declares that a team handles a category under a contract
// version. The three-way tenant alignment (team/category/building against
// the version's site and company) is validated inside the repository write
// transaction.
func (s *TeamService) AddCompetency(ctx context.Context, set *domain.ScopeSet, versionID, teamID, categoryID string, buildingID *string) (*domain.CompetencyEntry, error) {
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

	entry := &domain.CompetencyEntry{
		ContractVersionID: versionID,
		TeamID:            teamID,
		CategoryID:        categoryID,
		BuildingID:        buildingID,
	}
	if err := s.teams.AddCompetency(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ListTeams lists a covered company's teams.
func (s *TeamService) ListTeams(ctx context.Context, set *domain.ScopeSet, companyID string) ([]domain.Team, error) {
	if err := s.scopeSvc.RequireCompany(ctx, set, companyID); err != nil {
		return nil, err
	}
	return s.teams.ListTeams(ctx, companyID)
}

// ListCompetencies lists the competency matrix of a contract version.
func (s *TeamService) ListCompetencies(ctx context.Context, set *domain.ScopeSet, versionID string) ([]domain.CompetencyEntry, error) {
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
	return s.teams.ListCompetencies(ctx, versionID)
}
