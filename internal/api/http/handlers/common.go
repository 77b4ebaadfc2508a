package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/facility-service/internal/auth"
	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/service"
	apperrors "github.com/spec-kit/facility-service/pkg/util/errorutil"
)

// requireScopes resolves the caller's scope set. Handlers behind the auth
// middleware always have a principal; the scope set is resolved per request
// so grants and revocations take effect immediately.
func requireScopes(c *fiber.Ctx, scopeSvc *service.ScopeService) (*domain.ScopeSet, *domain.User, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return nil, nil, apperrors.NewUnauthorized("user required")
	}
	set, err := scopeSvc.Resolve(c.UserContext(), principal.User.ID)
	if err != nil {
		return nil, nil, err
	}
	return set, principal.User, nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func parseDay(val string) (time.Time, error) {
	day, err := time.Parse("2006-01-02", val)
	if err != nil {
		return time.Time{}, apperrors.NewInvalidInput("day must be YYYY-MM-DD", map[string]any{"day": val})
	}
	return day, nil
}
