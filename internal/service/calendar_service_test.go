package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/facility-service/internal/domain"
	apperrors "github.com/spec-kit/facility-service/pkg/util/errorutil"
)

func newCalendarFixture() (*CalendarService, *domain.ScopeSet) {
	scopeSvc := NewScopeService(ScopeDependencies{
		ScopeRepo:     newFakeScopeRepo(),
		DirectoryRepo: newFakeDirectoryRepo(),
	})
	svc := NewCalendarService(newFakeCalendarRepo(), scopeSvc)
	platform := domain.NewScopeSet("admin", []domain.AdminScope{{Scope: domain.ScopePlatform}})
	return svc, platform
}

func TestCreateCalendarNormalizesCode(t *testing.T) {
	svc, set := newCalendarFixture()

	calendar, err := svc.CreateCalendar(context.Background(), set, "  FR-Metro ", "France", strPtr("FR"), true)
	require.NoError(t, err)
	assert.Equal(t, "fr-metro", calendar.Code)

	fetched, err := svc.GetCalendar(context.Background(), "FR-METRO")
	require.NoError(t, err)
	assert.Equal(t, calendar.ID, fetched.ID)
}

func TestCreateCalendarRequiresPlatformScope(t *testing.T) {
	svc, _ := newCalendarFixture()

	outsider := domain.NewScopeSet("user", []domain.AdminScope{
		{Scope: domain.ScopeCompany, CompanyID: strPtr("co-1")},
	})
	_, err := svc.CreateCalendar(context.Background(), outsider, "fr", "France", nil, true)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
}

func TestAddHoliday(t *testing.T) {
	svc, set := newCalendarFixture()
	ctx := context.Background()

	_, err := svc.CreateCalendar(ctx, set, "fr", "France", nil, true)
	require.NoError(t, err)

	bastille := time.Date(2025, time.July, 14, 0, 0, 0, 0, time.UTC)
	calendar, err := svc.AddHoliday(ctx, set, "fr", bastille)
	require.NoError(t, err)
	assert.False(t, calendar.IsBusinessDay(bastille))

	_, err = svc.AddHoliday(ctx, set, "ghost", bastille)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
