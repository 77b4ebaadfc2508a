package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/facility-service/internal/domain"
	"github.com/spec-kit/facility-service/internal/events"
	"github.com/spec-kit/facility-service/internal/repository"
	apperrors "github.com/spec-kit/facility-service/pkg/util/errorutil"
)

// In-memory repository fakes mirroring the postgres implementations'
// semantics: pgx.ErrNoRows for missing rows, revision checks on SLA
// transitions, and the tenant guards inside writes.

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var idCounter int

func nextID(prefix string) string {
	idCounter++
	return fmt.Sprintf("%s-%d", prefix, idCounter)
}

type fakeDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *fakeDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *fakeDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *fakeDispatcher) byType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []events.Event
	for _, e := range d.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

type fakeSlaRepo struct {
	mu       sync.Mutex
	targets  map[string]*domain.SlaTarget
	breaches map[string]*domain.SlaBreach
}

func newFakeSlaRepo() *fakeSlaRepo {
	return &fakeSlaRepo{
		targets:  make(map[string]*domain.SlaTarget),
		breaches: make(map[string]*domain.SlaBreach),
	}
}

func copyTarget(t *domain.SlaTarget) *domain.SlaTarget {
	c := *t
	return &c
}

func (r *fakeSlaRepo) CreateTargets(_ context.Context, targets []*domain.SlaTarget) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, target := range targets {
		target.ID = nextID("target")
		r.targets[target.ID] = copyTarget(target)
	}
	return nil
}

func (r *fakeSlaRepo) GetTarget(_ context.Context, ticketID string, targetType domain.SlaTargetType) (*domain.SlaTarget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, target := range r.targets {
		if target.TicketID == ticketID && target.Type == targetType {
			return copyTarget(target), nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeSlaRepo) GetTargetByID(_ context.Context, id string) (*domain.SlaTarget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.targets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return copyTarget(target), nil
}

func (r *fakeSlaRepo) ListTargetsByTicket(_ context.Context, ticketID string) ([]domain.SlaTarget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.SlaTarget
	for _, target := range r.targets {
		if target.TicketID == ticketID {
			out = append(out, *target)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeSlaRepo) ListDueTargets(_ context.Context, now time.Time, limit int) ([]domain.SlaTarget, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.SlaTarget
	for _, target := range r.targets {
		if target.State == domain.SlaStateActive && target.DueAt.Before(now) {
			out = append(out, *target)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueAt.Before(out[j].DueAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeSlaRepo) UpdateTarget(_ context.Context, target *domain.SlaTarget, expectedRevision int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.targets[target.ID]
	if !ok || stored.Revision != expectedRevision {
		return repository.ErrRevisionMismatch
	}
	next := copyTarget(target)
	next.Revision = expectedRevision + 1
	r.targets[target.ID] = next
	target.Revision = next.Revision
	return nil
}

func (r *fakeSlaRepo) TransitionToBreach(_ context.Context, target *domain.SlaTarget, expectedRevision int64, breach *domain.SlaBreach) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.targets[target.ID]
	if !ok || stored.Revision != expectedRevision || stored.State != domain.SlaStateActive {
		return false, nil
	}
	stored.State = domain.SlaStateBreached
	stored.Revision = expectedRevision + 1

	for _, existing := range r.breaches {
		if existing.TicketID == breach.TicketID && existing.Type == breach.Type {
			return false, nil
		}
	}
	breach.ID = nextID("breach")
	record := *breach
	r.breaches[breach.ID] = &record
	return true, nil
}

func (r *fakeSlaRepo) ListBreaches(_ context.Context, filter repository.BreachFilter) ([]domain.SlaBreach, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.SlaBreach
	for _, breach := range r.breaches {
		if filter.TicketID != nil && breach.TicketID != *filter.TicketID {
			continue
		}
		if filter.Notified != nil && breach.Notified != *filter.Notified {
			continue
		}
		out = append(out, *breach)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *fakeSlaRepo) MarkBreachNotified(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	breach, ok := r.breaches[id]
	if !ok {
		return pgx.ErrNoRows
	}
	breach.Notified = true
	return nil
}

type fakeCalendarRepo struct {
	calendars map[string]*domain.HolidayCalendar
}

func newFakeCalendarRepo() *fakeCalendarRepo {
	return &fakeCalendarRepo{calendars: make(map[string]*domain.HolidayCalendar)}
}

func (r *fakeCalendarRepo) Create(_ context.Context, calendar *domain.HolidayCalendar) error {
	if _, ok := r.calendars[calendar.Code]; ok {
		return apperrors.NewConflict("calendar code already exists", nil)
	}
	calendar.ID = nextID("cal")
	r.calendars[calendar.Code] = calendar
	return nil
}

func (r *fakeCalendarRepo) GetByCode(_ context.Context, code string) (*domain.HolidayCalendar, error) {
	calendar, ok := r.calendars[code]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return calendar, nil
}

func (r *fakeCalendarRepo) AddDate(_ context.Context, calendarID string, day time.Time) error {
	for _, calendar := range r.calendars {
		if calendar.ID == calendarID {
			calendar.AddHoliday(day)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeScopeRepo struct {
	scopes map[string]*domain.AdminScope
}

func newFakeScopeRepo() *fakeScopeRepo {
	return &fakeScopeRepo{scopes: make(map[string]*domain.AdminScope)}
}

func (r *fakeScopeRepo) Create(_ context.Context, scope *domain.AdminScope) error {
	scope.ID = nextID("scope")
	r.scopes[scope.ID] = scope
	return nil
}

func (r *fakeScopeRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.scopes[id]; !ok {
		return apperrors.NewNotFound("admin scope", nil)
	}
	delete(r.scopes, id)
	return nil
}

func (r *fakeScopeRepo) GetByID(_ context.Context, id string) (*domain.AdminScope, error) {
	scope, ok := r.scopes[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return scope, nil
}

func (r *fakeScopeRepo) ListByUser(_ context.Context, userID string) ([]domain.AdminScope, error) {
	var out []domain.AdminScope
	for _, scope := range r.scopes {
		if scope.UserID == userID {
			out = append(out, *scope)
		}
	}
	return out, nil
}

type fakeDirectoryRepo struct {
	companies map[string]*domain.Company
	sites     map[string]*domain.Site
	buildings map[string]*domain.Building
}

func newFakeDirectoryRepo() *fakeDirectoryRepo {
	return &fakeDirectoryRepo{
		companies: make(map[string]*domain.Company),
		sites:     make(map[string]*domain.Site),
		buildings: make(map[string]*domain.Building),
	}
}

func (r *fakeDirectoryRepo) addCompany(id, name string) *domain.Company {
	company := &domain.Company{ID: id, Name: name}
	r.companies[id] = company
	return company
}

func (r *fakeDirectoryRepo) addSite(id, companyID, name string) *domain.Site {
	site := &domain.Site{ID: id, CompanyID: companyID, Name: name}
	r.sites[id] = site
	return site
}

func (r *fakeDirectoryRepo) addBuilding(id, siteID, name string) *domain.Building {
	building := &domain.Building{ID: id, SiteID: siteID, Name: name}
	r.buildings[id] = building
	return building
}

func (r *fakeDirectoryRepo) CreateCompany(_ context.Context, company *domain.Company) error {
	company.ID = nextID("co")
	r.companies[company.ID] = company
	return nil
}

func (r *fakeDirectoryRepo) GetCompany(_ context.Context, id string) (*domain.Company, error) {
	company, ok := r.companies[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return company, nil
}

func (r *fakeDirectoryRepo) ListCompanies(_ context.Context) ([]domain.Company, error) {
	var out []domain.Company
	for _, company := range r.companies {
		out = append(out, *company)
	}
	return out, nil
}

func (r *fakeDirectoryRepo) CreateSite(_ context.Context, site *domain.Site) error {
	site.ID = nextID("site")
	r.sites[site.ID] = site
	return nil
}

func (r *fakeDirectoryRepo) GetSite(_ context.Context, id string) (*domain.Site, error) {
	site, ok := r.sites[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return site, nil
}

func (r *fakeDirectoryRepo) ListSites(_ context.Context, companyID string) ([]domain.Site, error) {
	var out []domain.Site
	for _, site := range r.sites {
		if site.CompanyID == companyID {
			out = append(out, *site)
		}
	}
	return out, nil
}

func (r *fakeDirectoryRepo) CreateBuilding(_ context.Context, building *domain.Building) error {
	building.ID = nextID("bldg")
	r.buildings[building.ID] = building
	return nil
}

func (r *fakeDirectoryRepo) GetBuilding(_ context.Context, id string) (*domain.Building, error) {
	building, ok := r.buildings[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return building, nil
}

func (r *fakeDirectoryRepo) ListBuildings(_ context.Context, siteID string) ([]domain.Building, error) {
	var out []domain.Building
	for _, building := range r.buildings {
		if building.SiteID == siteID {
			out = append(out, *building)
		}
	}
	return out, nil
}

type fakeTaxonomyRepo struct {
	categories map[string]*domain.Category
	skills     map[string]*domain.Skill
	links      []domain.CategorySkill
}

func newFakeTaxonomyRepo() *fakeTaxonomyRepo {
	return &fakeTaxonomyRepo{
		categories: make(map[string]*domain.Category),
		skills:     make(map[string]*domain.Skill),
	}
}

func (r *fakeTaxonomyRepo) CreateCategory(_ context.Context, category *domain.Category) error {
	for _, existing := range r.categories {
		if existing.CompanyID == category.CompanyID && existing.Key == category.Key {
			return apperrors.NewConflict("category key already exists", nil)
		}
	}
	category.ID = nextID("cat")
	r.categories[category.ID] = category
	return nil
}

func (r *fakeTaxonomyRepo) GetCategory(_ context.Context, id string) (*domain.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return category, nil
}

func (r *fakeTaxonomyRepo) ListCategories(_ context.Context, companyID string) ([]domain.Category, error) {
	var out []domain.Category
	for _, category := range r.categories {
		if category.CompanyID == companyID {
			out = append(out, *category)
		}
	}
	return out, nil
}

func (r *fakeTaxonomyRepo) CreateSkill(_ context.Context, skill *domain.Skill) error {
	skill.ID = nextID("skill")
	r.skills[skill.ID] = skill
	return nil
}

func (r *fakeTaxonomyRepo) GetSkill(_ context.Context, id string) (*domain.Skill, error) {
	skill, ok := r.skills[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return skill, nil
}

func (r *fakeTaxonomyRepo) ListSkills(_ context.Context, companyID string) ([]domain.Skill, error) {
	var out []domain.Skill
	for _, skill := range r.skills {
		if skill.CompanyID == companyID {
			out = append(out, *skill)
		}
	}
	return out, nil
}

func (r *fakeTaxonomyRepo) LinkSkill(_ context.Context, categoryID, skillID string) (*domain.CategorySkill, error) {
	category, ok := r.categories[categoryID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	skill, ok := r.skills[skillID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if err := domain.ValidateCategorySkillLink(category, skill); err != nil {
		return nil, err
	}
	for _, link := range r.links {
		if link.CategoryID == categoryID && link.SkillID == skillID {
			return nil, apperrors.NewConflict("category skill link already exists", nil)
		}
	}
	link := domain.CategorySkill{ID: nextID("link"), CategoryID: categoryID, SkillID: skillID}
	r.links = append(r.links, link)
	return &link, nil
}

func (r *fakeTaxonomyRepo) ListCategorySkills(_ context.Context, categoryID string) ([]domain.CategorySkill, error) {
	var out []domain.CategorySkill
	for _, link := range r.links {
		if link.CategoryID == categoryID {
			out = append(out, link)
		}
	}
	return out, nil
}

type fakeContractRepo struct {
	directory    *fakeDirectoryRepo
	taxonomy     *fakeTaxonomyRepo
	contracts    map[string]*domain.Contract
	versions     []*domain.ContractVersion
	categories   []*domain.ContractCategory
	routingRules []*domain.RoutingRule
	versionRaces int
}

func newFakeContractRepo(directory *fakeDirectoryRepo, taxonomy *fakeTaxonomyRepo) *fakeContractRepo {
	return &fakeContractRepo{
		directory: directory,
		taxonomy:  taxonomy,
		contracts: make(map[string]*domain.Contract),
	}
}

func (r *fakeContractRepo) CreateContract(_ context.Context, contract *domain.Contract) error {
	contract.ID = nextID("contract")
	r.contracts[contract.ID] = contract
	return nil
}

func (r *fakeContractRepo) GetContract(_ context.Context, id string) (*domain.Contract, error) {
	contract, ok := r.contracts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return contract, nil
}

func (r *fakeContractRepo) GetActiveContractForSite(_ context.Context, siteID string) (*domain.Contract, error) {
	for _, contract := range r.contracts {
		if contract.SiteID == siteID && contract.Active {
			return contract, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeContractRepo) CreateVersion(_ context.Context, version *domain.ContractVersion) error {
	if r.versionRaces > 0 {
		r.versionRaces--
		return repository.ErrVersionRace
	}
	next := 1
	for _, existing := range r.versions {
		if existing.ContractID == version.ContractID && existing.Version >= next {
			next = existing.Version + 1
		}
	}
	version.ID = nextID("ver")
	version.Version = next
	r.versions = append(r.versions, version)
	return nil
}

func (r *fakeContractRepo) GetVersion(_ context.Context, id string) (*domain.ContractVersion, error) {
	for _, version := range r.versions {
		if version.ID == id {
			return version, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeContractRepo) GetLatestVersion(_ context.Context, contractID string) (*domain.ContractVersion, error) {
	var latest *domain.ContractVersion
	for _, version := range r.versions {
		if version.ContractID == contractID && (latest == nil || version.Version > latest.Version) {
			latest = version
		}
	}
	if latest == nil {
		return nil, pgx.ErrNoRows
	}
	return latest, nil
}

func (r *fakeContractRepo) ListVersions(_ context.Context, contractID string) ([]domain.ContractVersion, error) {
	var out []domain.ContractVersion
	for _, version := range r.versions {
		if version.ContractID == contractID {
			out = append(out, *version)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

func (r *fakeContractRepo) ResolveVersionTenant(ctx context.Context, versionID string) (*repository.VersionTenant, error) {
	version, err := r.GetVersion(ctx, versionID)
	if err != nil {
		return nil, err
	}
	contract := r.contracts[version.ContractID]
	site, ok := r.directory.sites[contract.SiteID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &repository.VersionTenant{
		ContractID: contract.ID,
		SiteID:     site.ID,
		CompanyID:  site.CompanyID,
	}, nil
}

func (r *fakeContractRepo) AttachCategory(ctx context.Context, link *domain.ContractCategory) error {
	tenant, err := r.ResolveVersionTenant(ctx, link.ContractVersionID)
	if err != nil {
		return err
	}
	category, ok := r.taxonomy.categories[link.CategoryID]
	if !ok {
		return pgx.ErrNoRows
	}
	if err := domain.ValidateContractCategory(category, tenant.CompanyID); err != nil {
		return err
	}
	for _, existing := range r.categories {
		if existing.ContractVersionID == link.ContractVersionID && existing.CategoryID == link.CategoryID {
			return apperrors.NewConflict("category already attached", nil)
		}
	}
	link.ID = nextID("cc")
	r.categories = append(r.categories, link)
	return nil
}

func (r *fakeContractRepo) GetContractCategory(_ context.Context, versionID, categoryID string) (*domain.ContractCategory, error) {
	for _, link := range r.categories {
		if link.ContractVersionID == versionID && link.CategoryID == categoryID {
			return link, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeContractRepo) ListContractCategories(_ context.Context, versionID string) ([]domain.ContractCategory, error) {
	var out []domain.ContractCategory
	for _, link := range r.categories {
		if link.ContractVersionID == versionID {
			out = append(out, *link)
		}
	}
	return out, nil
}

func (r *fakeContractRepo) AddRoutingRule(_ context.Context, rule *domain.RoutingRule) error {
	rule.ID = nextID("rule")
	r.routingRules = append(r.routingRules, rule)
	return nil
}

func (r *fakeContractRepo) ListRoutingRules(_ context.Context, versionID string) ([]domain.RoutingRule, error) {
	var out []domain.RoutingRule
	for _, rule := range r.routingRules {
		if rule.ContractVersionID == versionID {
			out = append(out, *rule)
		}
	}
	// Priority ascending, insertion order on ties (append order is
	// insertion order, and SliceStable preserves it).
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out, nil
}

type fakeTeamRepo struct {
	directory    *fakeDirectoryRepo
	taxonomy     *fakeTaxonomyRepo
	contracts    *fakeContractRepo
	teams        map[string]*domain.Team
	members      []domain.TeamMember
	competencies []*domain.CompetencyEntry
}

func newFakeTeamRepo(directory *fakeDirectoryRepo, taxonomy *fakeTaxonomyRepo, contracts *fakeContractRepo) *fakeTeamRepo {
	return &fakeTeamRepo{
		directory: directory,
		taxonomy:  taxonomy,
		contracts: contracts,
		teams:     make(map[string]*domain.Team),
	}
}

func (r *fakeTeamRepo) CreateTeam(_ context.Context, team *domain.Team) error {
	team.ID = nextID("team")
	r.teams[team.ID] = team
	return nil
}

func (r *fakeTeamRepo) GetTeam(_ context.Context, id string) (*domain.Team, error) {
	team, ok := r.teams[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return team, nil
}

func (r *fakeTeamRepo) ListTeams(_ context.Context, companyID string) ([]domain.Team, error) {
	var out []domain.Team
	for _, team := range r.teams {
		if team.CompanyID == companyID {
			out = append(out, *team)
		}
	}
	return out, nil
}

func (r *fakeTeamRepo) AddMember(_ context.Context, member *domain.TeamMember) error {
	member.ID = nextID("member")
	r.members = append(r.members, *member)
	return nil
}

func (r *fakeTeamRepo) ListMembers(_ context.Context, teamID string) ([]domain.TeamMember, error) {
	var out []domain.TeamMember
	for _, member := range r.members {
		if member.TeamID == teamID {
			out = append(out, member)
		}
	}
	return out, nil
}

func (r *fakeTeamRepo) AddCompetency(ctx context.Context, entry *domain.CompetencyEntry) error {
	tenant, err := r.contracts.ResolveVersionTenant(ctx, entry.ContractVersionID)
	if err != nil {
		return err
	}
	team, ok := r.teams[entry.TeamID]
	if !ok {
		return pgx.ErrNoRows
	}
	category, ok := r.taxonomy.categories[entry.CategoryID]
	if !ok {
		return pgx.ErrNoRows
	}
	var building *domain.Building
	if entry.BuildingID != nil {
		building, ok = r.directory.buildings[*entry.BuildingID]
		if !ok {
			return pgx.ErrNoRows
		}
	}
	if err := domain.ValidateCompetency(team, category, building, tenant.SiteID, tenant.CompanyID); err != nil {
		return err
	}
	entry.ID = nextID("comp")
	r.competencies = append(r.competencies, entry)
	return nil
}

func (r *fakeTeamRepo) ListCompetencies(_ context.Context, versionID string) ([]domain.CompetencyEntry, error) {
	var out []domain.CompetencyEntry
	for _, entry := range r.competencies {
		if entry.ContractVersionID == versionID {
			out = append(out, *entry)
		}
	}
	return out, nil
}

func (r *fakeTeamRepo) FindCompetentTeams(_ context.Context, versionID, categoryID string, buildingID *string) ([]domain.CompetencyEntry, error) {
	var out []domain.CompetencyEntry
	for _, entry := range r.competencies {
		if entry.ContractVersionID != versionID || entry.CategoryID != categoryID {
			continue
		}
		if entry.BuildingID != nil {
			if buildingID == nil || *entry.BuildingID != *buildingID {
				continue
			}
		}
		out = append(out, *entry)
	}
	// Building-specific entries first.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].BuildingID != nil && out[j].BuildingID == nil
	})
	return out, nil
}

type fakeTicketRepo struct {
	tickets map[string]*domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]*domain.Ticket)}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	ticket.ID = nextID("tkt")
	ticket.CreatedAt = ticket.OpenedAt
	ticket.UpdatedAt = ticket.OpenedAt
	stored := *ticket
	r.tickets[ticket.ID] = &stored
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *ticket
	r.tickets[ticket.ID] = &stored
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	found := *ticket
	return &found, nil
}

func (r *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var out []domain.Ticket
	for _, ticket := range r.tickets {
		if filter.SiteID != nil && ticket.SiteID != *filter.SiteID {
			continue
		}
		if len(filter.Statuses) > 0 {
			match := false
			for _, status := range filter.Statuses {
				if ticket.Status == status {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, *ticket)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
