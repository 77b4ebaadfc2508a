package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/facility-service/internal/api/dto"
	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/service"
	apperrors "github.com/spec-kit/facility-service/pkg/util/errorutil"
)

// TaxonomyHandler manages per-company categories and skills.
type TaxonomyHandler struct {
	taxonomy *service.TaxonomyService
	scopes   *service.ScopeService
}

// NewTaxonomyHandler constructs handler.
func NewTaxonomyHandler(taxonomy *service.TaxonomyService, scopes *service.ScopeService) *TaxonomyHandler {
	return &TaxonomyHandler{taxonomy: taxonomy, scopes: scopes}
}

// CreateCategory POST /companies/:id/categories.
func (h *TaxonomyHandler) CreateCategory(c *fiber.Ctx) error {
	set, _, err := requireScopes(c, h.scopes)
	if err != nil {
		return err
	}
	var req dto.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	category, err := h.taxonomy.CreateCategory(c.UserContext(), set, c.Params("id"), req.Key, req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": categoryResponse(category)})
}

// ListCategories GET /companies/:id/categories.
func (h *TaxonomyHandler) ListCategories(c *fiber.Ctx) error {
	set, _, err := requireScopes(c, h.scopes)
	if err != nil {
		return err
	}
	categories, err := h.taxonomy.ListCategories(c.UserContext(), set, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		items = append(items, categoryResponse(&categories[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateSkill POST /companies/:id/skills.
func (h *TaxonomyHandler) CreateSkill(c *fiber.Ctx) error {
	set, _, err := requireScopes(c, h.scopes)
	if err != nil {
		return err
	}
	var req dto.CreateSkillRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	skill, err := h.taxonomy.CreateSkill(c.UserContext(), set, c.Params("id"), req.Key, req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": skillResponse(skill)})
}

// ListSkills GET /companies/:id/skills.
func (h *TaxonomyHandler) ListSkills(c *fiber.Ctx) error {
	set, _, err := requireScopes(c, h.scopes)
	if err != nil {
		return err
	}
	skills, err := h.taxonomy.ListSkills(c.UserContext(), set, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.SkillResponse, 0, len(skills))
	for i := range skills {
		items = append(items, skillResponse(&skills[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// LinkSkill POST /categories/:id/skills.
func (h *TaxonomyHandler) LinkSkill(c *fiber.Ctx) error {
	set, _, err := requireScopes(c, h.scopes)
	if err != nil {
		return err
	}
	var req dto.LinkSkillRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidInput("invalid payload", nil)
	}
	if req.SkillID == "" {
		return apperrors.NewInvalidInput("skill_id required", nil)
	}
	link, err := h.taxonomy.LinkSkill(c.UserContext(), set, c.Params("id"), req.SkillID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.CategorySkillResponse{
		ID:         link.ID,
		CategoryID: link.CategoryID,
		SkillID:    link.SkillID,
		CreatedAt:  link.CreatedAt,
	}})
}

func categoryResponse(category *domain.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:        category.ID,
		CompanyID: category.CompanyID,
		Key:       category.Key,
		Name:      category.Name,
		CreatedAt: category.CreatedAt,
	}
}

func skillResponse(skill *domain.Skill) dto.SkillResponse {
	return dto.SkillResponse{
		ID:        skill.ID,
		CompanyID: skill.CompanyID,
		Key:       skill.Key,
		Name:      skill.Name,
		CreatedAt: skill.CreatedAt,
	}
}
