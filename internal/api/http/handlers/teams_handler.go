package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/facility-service/internal/api/dto"
	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/service"
	apperrors "github.com/spec-kit/facility-service/pkg/util/errorutil"
)

// TeamsHandler manages teams, memberships, and the competency matrix.
type TeamsHandler struct {
	teams  *service.TeamService
	scopes *service.ScopeService
}

// NewTeamsHandler constructs handler.
func NewTeamsHandler(teams *service.TeamService, scopes *service.ScopeService) *TeamsHandler {
	return &TeamsHandler{teams: teams, scopes: scopes}
}

// CreateTeam POST /teams.
func (h *TeamsHandler) CreateTeam(c *fiber.Ctx) error {
	set, _, err := requireScopes(c, h.scopes)
	if err != nil {
		return err
	}
	var req dto.CreateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	if req.CompanyID == "" {
		return apperrors.NewInvalidInput("company_id required", nil)
	}
	team, err := h.teams.CreateTeam(c.UserContext(), set, req.CompanyID, req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": teamResponse(team)})
}

// ListTeams GET /companies/:id/teams.
func (h *TeamsHandler) ListTeams(c *fiber.Ctx) error {
	set, _, err := requireScopes(c, h.scopes)
	if err != nil {
		return err
	}
	teams, err := h.teams.ListTeams(c.UserContext(), set, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.TeamResponse, 0, len(teams))
	for i := range teams {
		items = append(items, teamResponse(&teams[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// AddMember POST /teams/:id/members.
func (h *TeamsHandler) AddMember(c *fiber.Ctx) error {
	set, _, err := requireScopes(c, h.scopes)
	if err != nil {
		return err
	}
	var req dto.AddMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	if req.UserID == "" {
		return apperrors.NewInvalidInput("user_id required", nil)
	}
	member, err := h.teams.AddMember(c.UserContext(), set, c.Params("id"), req.UserID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.TeamMemberResponse{
		ID:        member.ID,
		TeamID:    member.TeamID,
		UserID:    member.UserID,
		CreatedAt: member.CreatedAt,
	}})
}

// AddCompetency POST /teams/:id/competencies.
func (h *TeamsHandler) AddCompetency(c *fiber.Ctx) error {
	set, _, err := requireScopes(c, h.scopes)
	if err != nil {
		return err
	}
	var req dto.AddCompetencyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	if req.ContractVersionID == "" || req.CategoryID == "" {
		return apperrors.NewInvalidInput("contract_version_id and category_id required", nil)
	}
	entry, err := h.teams.AddCompetency(c.UserContext(), set, req.ContractVersionID, c.Params("id"), req.CategoryID, req.BuildingID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": competencyResponse(entry)})
}

// ListCompetencies GET /contract-versions/:id/competencies.
func (h *TeamsHandler) ListCompetencies(c *fiber.Ctx) error {
	set, _, err := requireScopes(c, h.scopes)
	if err != nil {
		return err
	}
	entries, err := h.teams.ListCompetencies(c.UserContext(), set, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.CompetencyResponse, 0, len(entries))
	for i := range entries {
		items = append(items, competencyResponse(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func teamResponse(team *domain.Team) dto.TeamResponse {
	return dto.TeamResponse{
		ID:        team.ID,
		CompanyID: team.CompanyID,
		Name:      team.Name,
		Active:    team.Active,
		CreatedAt: team.CreatedAt,
	}
}

func competencyResponse(entry *domain.CompetencyEntry) dto.CompetencyResponse {
	return dto.CompetencyResponse{
		ID:                entry.ID,
		ContractVersionID: entry.ContractVersionID,
		TeamID:            entry.TeamID,
		CategoryID:        entry.CategoryID,
		BuildingID:        entry.BuildingID,
		CreatedAt:         entry.CreatedAt,
	}
}
