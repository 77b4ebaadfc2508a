package domain

import "time"

// ScopeKind enumerates administrative visibility granularities.
type ScopeKind string

const (
	ScopePlatform ScopeKind = "PLATFORM"
	ScopeCompany  ScopeKind = "COMPANY"
	ScopeSite     ScopeKind = "SITE"
	ScopeBuilding ScopeKind = "BUILDING"
)

// AdminScope grants a user visibility at one granularity. Exactly the id
// matching the kind is set: platform carries none, company carries
// CompanyID, site carries SiteID, building carries BuildingID.
type AdminScope struct {
	ID         string
	UserID     string
	Scope      ScopeKind
	CompanyID  *string
	SiteID     *string
	BuildingID *string
	CreatedAt  time.Time
}

// Validate checks the kind/id pairing invariant.
func (s *AdminScope) Validate() bool {
	switch s.Scope {
	case ScopePlatform:
		return s.CompanyID == nil && s.SiteID == nil && s.BuildingID == nil
	case ScopeCompany:
		return s.CompanyID != nil && s.SiteID == nil && s.BuildingID == nil
	case ScopeSite:
		return s.CompanyID == nil && s.SiteID != nil && s.BuildingID == nil
	case ScopeBuilding:
		return s.CompanyID == nil && s.SiteID == nil && s.BuildingID != nil
	default:
		return false
	}
}

// ScopeSet is the resolved visibility of one user. It is a pure snapshot:
// coverage questions that need site/building lineage are answered by the
// scope service, which owns the directory lookups.
type ScopeSet struct {
	UserID    string              `json:"user_id"`
	Platform  bool                `json:"platform"`
	Companies map[string]struct{} `json:"companies"`
	Sites     map[string]struct{} `json:"sites"`
	Buildings map[string]struct{} `json:"buildings"`
}

// NewScopeSet builds a ScopeSet from raw scope rows.
func NewScopeSet(userID string, scopes []AdminScope) *ScopeSet {
	set := &ScopeSet{
		UserID:    userID,
		Companies: make(map[string]struct{}),
		Sites:     make(map[string]struct{}),
		Buildings: make(map[string]struct{}),
	}
	for _, scope := range scopes {
		switch scope.Scope {
		case ScopePlatform:
			set.Platform = true
		case ScopeCompany:
			if scope.CompanyID != nil {
				set.Companies[*scope.CompanyID] = struct{}{}
			}
		case ScopeSite:
			if scope.SiteID != nil {
				set.Sites[*scope.SiteID] = struct{}{}
			}
		case ScopeBuilding:
			if scope.BuildingID != nil {
				set.Buildings[*scope.BuildingID] = struct{}{}
			}
		}
	}
	return set
}

// Empty reports whether the set grants nothing at all.
func (s *ScopeSet) Empty() bool {
	return !s.Platform && len(s.Companies) == 0 && len(s.Sites) == 0 && len(s.Buildings) == 0
}

// HasCompany reports direct company coverage.
func (s *ScopeSet) HasCompany(companyID string) bool {
	if s.Platform {
		return true
	}
	_, ok := s.Companies[companyID]
	return ok
}

// HasSite reports direct site coverage; company lineage is resolved by the
// scope service.
func (s *ScopeSet) HasSite(siteID string) bool {
	if s.Platform {
		return true
	}
	_, ok := s.Sites[siteID]
	return ok
}

// HasBuilding reports direct building coverage.
func (s *ScopeSet) HasBuilding(buildingID string) bool {
	if s.Platform {
		return true
	}
	_, ok := s.Buildings[buildingID]
	return ok
}
