package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/facility-service/internal/api/dto"
	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/service"
	apperrors "github.com/spec-kit/facility-service/pkg/util/errorutil"
)

// DirectoryHandler manages the company/site/building hierarchy and admin
// scope grants.
type DirectoryHandler struct {
	directory *service.DirectoryService
	scopes    *service.ScopeService
}

// NewDirectoryHandler constructs handler.
func NewDirectoryHandler(directory *service.DirectoryService, scopes *service.ScopeService) *DirectoryHandler {
	return &DirectoryHandler{directory: directory, scopes: scopes}
}

// CreateCompany POST /companies.
func (h *DirectoryHandler) CreateCompany(c *fiber.Ctx) error {
	set, _, err := requireScopes(c, h.scopes)
	if err != nil {
		return err
	}
	var req dto.CreateCompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	company, err := h.directory.CreateCompany(c.UserContext(), set, req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": companyResponse(company)})
}

// GetCompany GET /companies/:id.
func (h *DirectoryHandler) GetCompany(c *fiber.Ctx) error {
	set, _, err := requireScopes(c, h.scopes)
	if err != nil {
		return err
	}
	company, err := h.directory.GetCompany(c.UserContext(), set, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": companyResponse(company)})
}

// CreateSite POST /companies/:id/sites.
func (h *DirectoryHandler) CreateSite(c *fiber.Ctx) error {
	set, _, err := requireScopes(c, h.scopes)
	if err != nil {
		return err
	}
	var req dto.CreateSiteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	site, err := h.directory.CreateSite(c.UserContext(), set, c.Params("id"), req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": siteResponse(site)})
}

// ListSites GET /companies/:id/sites.
func (h *DirectoryHandler) ListSites(c *fiber.Ctx) error {
	set, _, err := requireScopes(c, h.scopes)
	if err != nil {
		return err
	}
	sites, err := h.directory.ListSites(c.UserContext(), set, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.SiteResponse, 0, len(sites))
	for i := range sites {
		items = append(items, siteResponse(&sites[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateBuilding POST /sites/:id/buildings.
func (h *DirectoryHandler) CreateBuilding(c *fiber.Ctx) error {
	set, _, err := requireScopes(c, h.scopes)
	if err != nil {
		return err
	}
	var req dto.CreateBuildingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	building, err := h.directory.CreateBuilding(c.UserContext(), set, c.Params("id"), req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": buildingResponse(building)})
}

// ListBuildings GET /sites/:id/buildings.
func (h *DirectoryHandler) ListBuildings(c *fiber.Ctx) error {
	set, _, err := requireScopes(c, h.scopes)
	if err != nil {
		return err
	}
	buildings, err := h.directory.ListBuildings(c.UserContext(), set, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.BuildingResponse, 0, len(buildings))
	for i := range buildings {
		items = append(items, buildingResponse(&buildings[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GrantScope POST /scopes. Platform scope required: scope administration is
// itself a platform concern.
func (h *DirectoryHandler) GrantScope(c *fiber.Ctx) error {
	set, _, err := requireScopes(c, h.scopes)
	if err != nil {
		return err
	}
	if err := h.scopes.RequirePlatform(set); err != nil {
		return err
	}
	var req dto.GrantScopeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	if req.UserID == "" {
		return apperrors.NewInvalidInput("user_id required", nil)
	}

	scope := &domain.AdminScope{
		UserID:     req.UserID,
		Scope:      req.Scope,
		CompanyID:  req.CompanyID,
		SiteID:     req.SiteID,
		BuildingID: req.BuildingID,
	}
	if err := h.scopes.GrantScope(c.UserContext(), scope); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": scopeResponse(scope)})
}

// RevokeScope DELETE /scopes/:id.
func (h *DirectoryHandler) RevokeScope(c *fiber.Ctx) error {
	set, _, err := requireScopes(c, h.scopes)
	if err != nil {
		return err
	}
	if err := h.scopes.RequirePlatform(set); err != nil {
		return err
	}
	if err := h.scopes.RevokeScope(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"revoked": true}})
}

func companyResponse(company *domain.Company) dto.CompanyResponse {
	return dto.CompanyResponse{ID: company.ID, Name: company.Name, CreatedAt: company.CreatedAt}
}

func siteResponse(site *domain.Site) dto.SiteResponse {
	return dto.SiteResponse{ID: site.ID, CompanyID: site.CompanyID, Name: site.Name, CreatedAt: site.CreatedAt}
}

func buildingResponse(building *domain.Building) dto.BuildingResponse {
	return dto.BuildingResponse{ID: building.ID, SiteID: building.SiteID, Name: building.Name, CreatedAt: building.CreatedAt}
}

func scopeResponse(scope *domain.AdminScope) dto.ScopeResponse {
	return dto.ScopeResponse{
		ID:         scope.ID,
		UserID:     scope.UserID,
		Scope:      scope.Scope,
		CompanyID:  scope.CompanyID,
		SiteID:     scope.SiteID,
		BuildingID: scope.BuildingID,
		CreatedAt:  scope.CreatedAt,
	}
}
