package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/facility-service/internal/api/dto"
	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/service"
	apperrors "github.com/spec-kit/facility-service/pkg/util/errorutil"
)

// ContractsHandler manages contracts, versions, category inclusions, and
// routing rules.
type ContractsHandler struct {
	contracts *service.ContractService
	scopes    *service.ScopeService
}

// NewContractsHandler constructs handler.
func NewContractsHandler(contracts *service.ContractService, scopes *service.ScopeService) *ContractsHandler {
	return &ContractsHandler{contracts: contracts, scopes: scopes}
}

// CreateContract POST /contracts.
func (h *ContractsHandler) CreateContract(c *fiber.Ctx) error {
	set, _, err := requireScopes(c, h.scopes)
	if err != nil {
		return err
	}
	var req dto.CreateContractRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	if req.SiteID == "" {
		return apperrors.NewInvalidInput("site_id required", nil)
	}
	contract, err := h.contracts.CreateContract(c.UserContext(), set, req.SiteID, req.Reference)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": contractResponse(contract)})
}

// CreateVersion POST /contracts/:id/versions.
func (h *ContractsHandler) CreateVersion(c *fiber.Ctx) error {
	set, _, err := requireScopes(c, h.scopes)
	if err != nil {
		return err
	}
	var req dto.CreateVersionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	version, err := h.contracts.CreateVersion(c.UserContext(), set, c.Params("id"), req.Coverage, req.Escalation, req.Approvals)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": versionResponse(version)})
}

// ListVersions GET /contracts/:id/versions.
func (h *ContractsHandler) ListVersions(c *fiber.Ctx) error {
	set, _, err := requireScopes(c, h.scopes)
	if err != nil {
		return err
	}
	versions, err := h.contracts.ListVersions(c.UserContext(), set, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.ContractVersionResponse, 0, len(versions))
	for i := range versions {
		items = append(items, versionResponse(&versions[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// AttachCategory POST /contract-versions/:id/categories.
func (h *ContractsHandler) AttachCategory(c *fiber.Ctx) error {
	set, _, err := requireScopes(c, h.scopes)
	if err != nil {
		return err
	}
	var req dto.AttachCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	if req.CategoryID == "" {
		return apperrors.NewInvalidInput("category_id required", nil)
	}
	included := true
	if req.Included != nil {
		included = *req.Included
	}
	link, err := h.contracts.AttachCategory(c.UserContext(), set, c.Params("id"), req.CategoryID, req.SLA, included)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.ContractCategoryResponse{
		ID:                link.ID,
		ContractVersionID: link.ContractVersionID,
		CategoryID:        link.CategoryID,
		Included:          link.Included,
		SLA:               link.SLA,
		CreatedAt:         link.CreatedAt,
	}})
}

// AddRoutingRule POST /contract-versions/:id/routing-rules.
func (h *ContractsHandler) AddRoutingRule(c *fiber.Ctx) error {
	set, _, err := requireScopes(c, h.scopes)
	if err != nil {
		return err
	}
	var req dto.AddRoutingRuleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	rule, err := h.contracts.AddRoutingRule(c.UserContext(), set, c.Params("id"), req.Priority, req.Condition, req.Action)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.RoutingRuleResponse{
		ID:                rule.ID,
		ContractVersionID: rule.ContractVersionID,
		Priority:          rule.Priority,
		Condition:         rule.Condition,
		Action:            rule.Action,
		CreatedAt:         rule.CreatedAt,
	}})
}

func contractResponse(contract *domain.Contract) dto.ContractResponse {
	return dto.ContractResponse{
		ID:        contract.ID,
		SiteID:    contract.SiteID,
		Reference: contract.Reference,
		Active:    contract.Active,
		CreatedAt: contract.CreatedAt,
	}
}

func versionResponse(version *domain.ContractVersion) dto.ContractVersionResponse {
	return dto.ContractVersionResponse{
		ID:         version.ID,
		ContractID: version.ContractID,
		Version:    version.Version,
		Coverage:   version.Coverage,
		Escalation: version.Escalation,
		Approvals:  version.Approvals,
		CreatedAt:  version.CreatedAt,
	}
}
