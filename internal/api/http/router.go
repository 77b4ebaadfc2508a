package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/facility-service/internal/api/http/handlers"
	"github.com/spec-kit/facility-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Directory      *handlers.DirectoryHandler
	Taxonomy       *handlers.TaxonomyHandler
	Contracts      *handlers.ContractsHandler
	Teams          *handlers.TeamsHandler
	Tickets        *handlers.TicketsHandler
	Sla            *handlers.SlaHandler
	Calendars      *handlers.CalendarsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, cfg.Auth.ChangePassword)

	api := app.Group("/api/v1", cfg.AuthMiddleware.Handle)

	api.Post("/companies", cfg.Directory.CreateCompany)
	api.Get("/companies/:id", cfg.Directory.GetCompany)
	api.Post("/companies/:id/sites", cfg.Directory.CreateSite)
	api.Get("/companies/:id/sites", cfg.Directory.ListSites)
	api.Post("/sites/:id/buildings", cfg.Directory.CreateBuilding)
	api.Get("/sites/:id/buildings", cfg.Directory.ListBuildings)
	api.Post("/scopes", cfg.Directory.GrantScope)
	api.Delete("/scopes/:id", cfg.Directory.RevokeScope)

	api.Post("/companies/:id/categories", cfg.Taxonomy.CreateCategory)
	api.Get("/companies/:id/categories", cfg.Taxonomy.ListCategories)
	api.Post("/companies/:id/skills", cfg.Taxonomy.CreateSkill)
	api.Get("/companies/:id/skills", cfg.Taxonomy.ListSkills)
	api.Post("/categories/:id/skills", cfg.Taxonomy.LinkSkill)

	api.Post("/contracts", cfg.Contracts.CreateContract)
	api.Post("/contracts/:id/versions", cfg.Contracts.CreateVersion)
	api.Get("/contracts/:id/versions", cfg.Contracts.ListVersions)
	api.Post("/contract-versions/:id/categories", cfg.Contracts.AttachCategory)
	api.Post("/contract-versions/:id/routing-rules", cfg.Contracts.AddRoutingRule)
	api.Get("/contract-versions/:id/competencies", cfg.Teams.ListCompetencies)

	api.Post("/teams", cfg.Teams.CreateTeam)
	api.Get("/companies/:id/teams", cfg.Teams.ListTeams)
	api.Post("/teams/:id/members", cfg.Teams.AddMember)
	api.Post("/teams/:id/competencies", cfg.Teams.AddCompetency)

	api.Post("/tickets", cfg.Tickets.OpenTicket)
	api.Get("/tickets/:id", cfg.Tickets.GetTicket)
	api.Get("/sites/:id/tickets", cfg.Tickets.ListTickets)
	api.Post("/tickets/:id/acknowledge", cfg.Tickets.Acknowledge)
	api.Post("/tickets/:id/resolve", cfg.Tickets.Resolve)

	api.Get("/tickets/:id/sla-targets", cfg.Sla.ListTargets)
	api.Post("/sla-targets/:id/pause", cfg.Sla.PauseTarget)
	api.Post("/sla-targets/:id/resume", cfg.Sla.ResumeTarget)
	api.Get("/sla-breaches", cfg.Sla.ListBreaches)

	api.Post("/calendars", cfg.Calendars.CreateCalendar)
	api.Get("/calendars/:code", cfg.Calendars.GetCalendar)
	api.Post("/calendars/:code/holidays", cfg.Calendars.AddHoliday)
}
