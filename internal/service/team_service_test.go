package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/facility-service/internal/domain"
	apperrors "github.com/spec-kit/facility-service/pkg/util/errorutil"
)

type teamFixture struct {
	svc       *TeamService
	contracts *fakeContractRepo
	teams     *fakeTeamRepo
	taxonomy  *fakeTaxonomyRepo
	directory *fakeDirectoryRepo
	set       *domain.ScopeSet
	versionID string
}

func newTeamFixture(t *testing.T) *teamFixture {
	t.Helper()
	directory := newFakeDirectoryRepo()
	directory.addCompany("co-1", "Acme")
	directory.addCompany("co-2", "Globex")
	directory.addSite("site-1", "co-1", "HQ")
	directory.addSite("site-2", "co-2", "Elsewhere")
	directory.addBuilding("b-1", "site-1", "Tower A")
	directory.addBuilding("b-other", "site-2", "Annex")

	taxonomy := newFakeTaxonomyRepo()
	contracts := newFakeContractRepo(directory, taxonomy)
	teams := newFakeTeamRepo(directory, taxonomy, contracts)
	scopeSvc := NewScopeService(ScopeDependencies{
		ScopeRepo:     newFakeScopeRepo(),
		DirectoryRepo: directory,
	})
	svc := NewTeamService(TeamDependencies{
		TeamRepo:     teams,
		ContractRepo: contracts,
		ScopeSvc:     scopeSvc,
	})

	ctx := context.Background()
	contract := &domain.Contract{SiteID: "site-1", Reference: "REF-1", Active: true}
	require.NoError(t, contracts.CreateContract(ctx, contract))
	version := &domain.ContractVersion{ContractID: contract.ID, Coverage: json.RawMessage(`{}`)}
	require.NoError(t, contracts.CreateVersion(ctx, version))

	return &teamFixture{
		svc:       svc,
		contracts: contracts,
		teams:     teams,
		taxonomy:  taxonomy,
		directory: directory,
		set:       domain.NewScopeSet("admin", []domain.AdminScope{{Scope: domain.ScopePlatform}}),
		versionID: version.ID,
	}
}

func TestAddCompetencyAlignedTenant(t *testing.T) {
	f := newTeamFixture(t)
	ctx := context.Background()

	team, err := f.svc.CreateTeam(ctx, f.set, "co-1", "HVAC crew")
	require.NoError(t, err)
	category := &domain.Category{CompanyID: "co-1", Key: "hvac"}
	require.NoError(t, f.taxonomy.CreateCategory(ctx, category))

	entry, err := f.svc.AddCompetency(ctx, f.set, f.versionID, team.ID, category.ID, strPtr("b-1"))
	require.NoError(t, err)
	assert.Equal(t, team.ID, entry.TeamID)
}

func TestAddCompetencyForeignTeamRejected(t *testing.T) {
	f := newTeamFixture(t)
	ctx := context.Background()

	team, err := f.svc.CreateTeam(ctx, f.set, "co-2", "Outsiders")
	require.NoError(t, err)
	category := &domain.Category{CompanyID: "co-1", Key: "hvac"}
	require.NoError(t, f.taxonomy.CreateCategory(ctx, category))

	_, err = f.svc.AddCompetency(ctx, f.set, f.versionID, team.ID, category.ID, nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))
}

func TestAddCompetencyForeignCategoryRejected(t *testing.T) {
	f := newTeamFixture(t)
	ctx := context.Background()

	team, err := f.svc.CreateTeam(ctx, f.set, "co-1", "Crew")
	require.NoError(t, err)
	category := &domain.Category{CompanyID: "co-2", Key: "plumbing"}
	require.NoError(t, f.taxonomy.CreateCategory(ctx, category))

	_, err = f.svc.AddCompetency(ctx, f.set, f.versionID, team.ID, category.ID, nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))
}

func TestAddCompetencyForeignBuildingRejected(t *testing.T) {
	f := newTeamFixture(t)
	ctx := context.Background()

	team, err := f.svc.CreateTeam(ctx, f.set, "co-1", "Crew")
	require.NoError(t, err)
	category := &domain.Category{CompanyID: "co-1", Key: "hvac"}
	require.NoError(t, f.taxonomy.CreateCategory(ctx, category))

	_, err = f.svc.AddCompetency(ctx, f.set, f.versionID, team.ID, category.ID, strPtr("b-other"))
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))
}

func TestAddMemberScopeChecked(t *testing.T) {
	f := newTeamFixture(t)
	ctx := context.Background()

	team, err := f.svc.CreateTeam(ctx, f.set, "co-1", "Crew")
	require.NoError(t, err)

	outsider := domain.NewScopeSet("user", []domain.AdminScope{
		{Scope: domain.ScopeCompany, CompanyID: strPtr("co-2")},
	})
	_, err = f.svc.AddMember(ctx, outsider, team.ID, "user-9")
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	member, err := f.svc.AddMember(ctx, f.set, team.ID, "user-9")
	require.NoError(t, err)
	assert.Equal(t, "user-9", member.UserID)
}
