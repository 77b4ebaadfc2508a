package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/facility-service/internal/api/http"
	"github.com/spec-kit/facility-service/internal/api/http/handlers"
	"github.com/spec-kit/facility-service/internal/auth"
	"github.com/spec-kit/facility-service/internal/config"
	"github.com/spec-kit/facility-service/internal/events"
	"github.com/spec-kit/facility-service/internal/observability"
	"github.com/spec-kit/facility-service/internal/persistence"
	"github.com/spec-kit/facility-service/internal/repository"
	"github.com/spec-kit/facility-service/internal/service"
	"github.com/spec-kit/facility-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	scopeRepo := repository.NewScopeRepository(pool)
	directoryRepo := repository.NewDirectoryRepository(pool)
	taxonomyRepo := repository.NewTaxonomyRepository(pool)
	contractRepo := repository.NewContractRepository(pool)
	teamRepo := repository.NewTeamRepository(pool)
	calendarRepo := repository.NewCalendarRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	slaRepo := repository.NewSlaRepository(pool)

	authService := service.NewAuthService(*cfg, userRepo)
	scopeService := service.NewScopeService(service.ScopeDependencies{
		ScopeRepo:     scopeRepo,
		DirectoryRepo: directoryRepo,
		Cache:         redis.Client,
		CacheTTL:      cfg.Scope.CacheTTL(),
	})
	directoryService := service.NewDirectoryService(directoryRepo, scopeService)
	taxonomyService := service.NewTaxonomyService(taxonomyRepo, scopeService)
	contractService := service.NewContractService(service.ContractDependencies{
		ContractRepo: contractRepo,
		TeamRepo:     teamRepo,
		CalendarRepo: calendarRepo,
		ScopeSvc:     scopeService,
	})
	teamService := service.NewTeamService(service.TeamDependencies{
		TeamRepo:     teamRepo,
		ContractRepo: contractRepo,
		ScopeSvc:     scopeService,
	})
	calendarService := service.NewCalendarService(calendarRepo, scopeService)
	slaService := service.NewSlaService(service.SlaDependencies{
		SlaRepo:        slaRepo,
		CalendarRepo:   calendarRepo,
		Dispatcher:     dispatcher,
		Logger:         logger,
		Retries:        cfg.Sla.TransitionRetries,
		SweepBatchSize: cfg.Sla.SweepBatchSize,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:    ticketRepo,
		ContractRepo:  contractRepo,
		DirectoryRepo: directoryRepo,
		ScopeSvc:      scopeService,
		ContractSvc:   contractService,
		SlaSvc:        slaService,
		Dispatcher:    dispatcher,
	})

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Directory:      handlers.NewDirectoryHandler(directoryService, scopeService),
		Taxonomy:       handlers.NewTaxonomyHandler(taxonomyService, scopeService),
		Contracts:      handlers.NewContractsHandler(contractService, scopeService),
		Teams:          handlers.NewTeamsHandler(teamService, scopeService),
		Tickets:        handlers.NewTicketsHandler(ticketService, scopeService),
		Sla:            handlers.NewSlaHandler(slaService, ticketService, scopeService),
		Calendars:      handlers.NewCalendarsHandler(calendarService, scopeService),
		AuthMiddleware: authMiddleware,
	})

	worker.StartNotificationWorker(dispatcher, slaService, logger)
	sweeper := worker.NewSlaSweeper(slaService, cfg.Sla.SweepInterval(), logger, metrics)
	go sweeper.Run(ctx)

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
