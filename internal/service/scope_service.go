package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/repository"
	apperrors "github.com/spec-kit/facility-service/pkg/util/errorutil"
)

// ScopeService resolves a user's administrative visibility and answers
// coverage questions against the company/site/building hierarchy.
type ScopeService struct {
	scopes    repository.ScopeRepository
	directory repository.DirectoryRepository
	cache     *redis.Client
	cacheTTL  time.Duration
}

// ScopeDependencies bundles requirements for the scope service.
type ScopeDependencies struct {
	ScopeRepo     repository.ScopeRepository
	DirectoryRepo repository.DirectoryRepository
	Cache         *redis.Client
	CacheTTL      time.Duration
}

// NewScopeService constructs the service. Cache is optional.
func NewScopeService(deps ScopeDependencies) *ScopeService {
	return &ScopeService{
		scopes:    deps.ScopeRepo,
		directory: deps.DirectoryRepo,
		cache:     deps.Cache,
		cacheTTL:  deps.CacheTTL,
	}
}

const scopeCachePrefix = "scope:"

// Resolve returns the user's scope set. A user with no scope rows at all
// gets NotFound; callers that find the set insufficient raise Forbidden.
func (s *ScopeService) Resolve(ctx context.Context, userID string) (*domain.ScopeSet, error) {
	if set := s.cachedSet(ctx, userID); set != nil {
		return set, nil
	}

	scopes, err := s.scopes.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	set := domain.NewScopeSet(userID, scopes)
	if set.Empty() {
		return nil, apperrors.NewNotFound("admin scopes", map[string]any{"user_id": userID})
	}

	s.cacheSet(ctx, set)
	return set, nil
}

// RequireCompany fails with Forbidden unless the set covers the company.
func (s *ScopeService) RequireCompany(ctx context.Context, set *domain.ScopeSet, companyID string) error {
	if set.HasCompany(companyID) {
		return nil
	}
	return apperrors.NewForbidden("scope does not cover company", map[string]any{"company_id": companyID})
}

// RequireSite fails with Forbidden unless the set covers the site directly
// or through its company.
func (s *ScopeService) RequireSite(ctx context.Context, set *domain.ScopeSet, siteID string) error {
	if set.HasSite(siteID) {
		return nil
	}
	site, err := s.directory.GetSite(ctx, siteID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("site", map[string]any{"site_id": siteID})
		}
		return err
	}
	if set.HasCompany(site.CompanyID) {
		return nil
	}
	return apperrors.NewForbidden("scope does not cover site", map[string]any{"site_id": siteID})
}

// RequireBuilding fails with Forbidden unless the set covers the building
// directly or through its site/company lineage.
func (s *ScopeService) RequireBuilding(ctx context.Context, set *domain.ScopeSet, buildingID string) error {
	if set.HasBuilding(buildingID) {
		return nil
	}
	building, err := s.directory.GetBuilding(ctx, buildingID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("building", map[string]any{"building_id": buildingID})
		}
		return err
	}
	if set.HasSite(building.SiteID) {
		return nil
	}
	site, err := s.directory.GetSite(ctx, building.SiteID)
	if err != nil {
		return err
	}
	if set.HasCompany(site.CompanyID) {
		return nil
	}
	return apperrors.NewForbidden("scope does not cover building", map[string]any{"building_id": buildingID})
}

// RequirePlatform fails with Forbidden unless the set has platform scope.
func (s *ScopeService) RequirePlatform(set *domain.ScopeSet) error {
	if set.Platform {
		return nil
	}
	return apperrors.NewForbidden("platform scope required", nil)
}

// GrantScope creates an admin scope row after validating the kind/id
// pairing, and invalidates the grantee's cached set.
func (s *ScopeService) GrantScope(ctx context.Context, scope *domain.AdminScope) error {
	if !scope.Validate() {
		return apperrors.NewInvalidInput("scope kind does not match provided ids", map[string]any{
			"scope": string(scope.Scope),
		})
	}
	if err := s.scopes.Create(ctx, scope); err != nil {
		return err
	}
	s.invalidate(ctx, scope.UserID)
	return nil
}

// RevokeScope deletes a scope grant and invalidates the grantee's cache.
func (s *ScopeService) RevokeScope(ctx context.Context, scopeID string) error {
	scope, err := s.scopes.GetByID(ctx, scopeID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("admin scope", map[string]any{"scope_id": scopeID})
		}
		return err
	}
	if err := s.scopes.Delete(ctx, scopeID); err != nil {
		return err
	}
	s.invalidate(ctx, scope.UserID)
	return nil
}

func (s *ScopeService) cachedSet(ctx context.Context, userID string) *domain.ScopeSet {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil
	}
	payload, err := s.cache.Get(ctx, scopeCachePrefix+userID).Bytes()
	if err != nil {
		return nil
	}
	var set domain.ScopeSet
	if err := json.Unmarshal(payload, &set); err != nil {
		return nil
	}
	return &set
}

func (s *ScopeService) cacheSet(ctx context.Context, set *domain.ScopeSet) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	payload, err := json.Marshal(set)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, scopeCachePrefix+set.UserID, payload, s.cacheTTL).Err()
}

func (s *ScopeService) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, scopeCachePrefix+userID).Err()
}
