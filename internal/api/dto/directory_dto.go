package dto

import (
	"time"

	"github.com/spec-kit/facility-service/internal/domain"
)

// CreateCompanyRequest payload.
type CreateCompanyRequest struct {
	Name string `json:"name"`
}

// CreateSiteRequest payload.
type CreateSiteRequest struct {
	Name string `json:"name"`
}

// CreateBuildingRequest payload.
type CreateBuildingRequest struct {
	Name string `json:"name"`
}

// CompanyResponse representation.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// SiteResponse representation.
type SiteResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// BuildingResponse representation.
type BuildingResponse struct {
	ID        string    `json:"id"`
	SiteID    string    `json:"site_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// GrantScopeRequest payload. Exactly the id matching the scope kind must be
// set.
type GrantScopeRequest struct {
	UserID     string           `json:"user_id"`
	Scope      domain.ScopeKind `json:"scope"`
	CompanyID  *string          `json:"company_id,omitempty"`
	SiteID     *string          `json:"site_id,omitempty"`
	BuildingID *string          `json:"building_id,omitempty"`
}

// ScopeResponse representation.
type ScopeResponse struct {
	ID         string           `json:"id"`
	UserID     string           `json:"user_id"`
	Scope      domain.ScopeKind `json:"scope"`
	CompanyID  *string          `json:"company_id,omitempty"`
	SiteID     *string          `json:"site_id,omitempty"`
	BuildingID *string          `json:"building_id,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}
