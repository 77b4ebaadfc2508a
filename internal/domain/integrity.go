package domain

import (
	apperrors "github.com/spec-kit/facility-service/pkg/util/errorutil"
)

// Tenant integrity guards. The persistence layer runs these inside the same
// transaction as the write they protect so that no row violating
// cross-tenant consistency can ever commit.

// ValidateCategorySkillLink rejects a category/skill edge spanning two
// companies.
func ValidateCategorySkillLink(category *Category, skill *Skill) error {
	if category.CompanyID != skill.CompanyID {
		return apperrors.NewInvalidInput("category and skill belong to different companies", map[string]any{
			"category_id":      category.ID,
			"skill_id":         skill.ID,
			"category_company": category.CompanyID,
			"skill_company":    skill.CompanyID,
		})
	}
	return nil
}

// ValidateContractCategory rejects attaching a category to a contract
// version of another company.
func ValidateContractCategory(category *Category, contractCompanyID string) error {
	if category.CompanyID != contractCompanyID {
		return apperrors.NewInvalidInput("category does not belong to the contract's company", map[string]any{
			"category_id":      category.ID,
			"category_company": category.CompanyID,
			"contract_company": contractCompanyID,
		})
	}
	return nil
}

// ValidateCompetency checks the three-way alignment of a competency row:
// team and category must belong to the contract's company, and an optional
// building must belong to the contract's site.
func ValidateCompetency(team *Team, category *Category, building *Building, contractSiteID, contractCompanyID string) error {
	if team.CompanyID != contractCompanyID {
		return apperrors.NewInvalidInput("team does not belong to the contract's company", map[string]any{
			"team_id":          team.ID,
			"team_company":     team.CompanyID,
			"contract_company": contractCompanyID,
		})
	}
	if category.CompanyID != contractCompanyID {
		return apperrors.NewInvalidInput("category does not belong to the contract's company", map[string]any{
			"category_id":      category.ID,
			"category_company": category.CompanyID,
			"contract_company": contractCompanyID,
		})
	}
	if building != nil && building.SiteID != contractSiteID {
		return apperrors.NewInvalidInput("building does not belong to the contract's site", map[string]any{
			"building_id":   building.ID,
			"building_site": building.SiteID,
			"contract_site": contractSiteID,
		})
	}
	return nil
}
