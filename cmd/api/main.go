package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/bus-complaint-service/internal/api/http"
	"github.com/spec-kit/bus-complaint-service/internal/api/http/handlers"
	"github.com/spec-kit/bus-complaint-service/internal/auth"
	"github.com/spec-kit/bus-complaint-service/internal/config"
	"github.com/spec-kit/bus-complaint-service/internal/duplicate"
	"github.com/spec-kit/bus-complaint-service/internal/events"
	"github.com/spec-kit/bus-complaint-service/internal/notify"
	"github.com/spec-kit/bus-complaint-service/internal/observability"
	"github.com/spec-kit/bus-complaint-service/internal/persistence"
	"github.com/spec-kit/bus-complaint-service/internal/repository"
	"github.com/spec-kit/bus-complaint-service/internal/service"
	"github.com/spec-kit/bus-complaint-service/internal/worker"
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	sink := notify.NewSink(cfg.Mail, logger)

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	complaintRepo := repository.NewComplaintRepository(pool)
	detector := duplicate.NewDetector(complaintRepo)
	revoker := auth.NewRedisRevocationList(redis.Client)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Sink:       sink,
		Revoker:    revoker,
		Dispatcher: dispatcher,
	})
	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		ComplaintRepo: complaintRepo,
		UserRepo:      userRepo,
		Detector:      detector,
		Sink:          sink,
		Dispatcher:    dispatcher,
	})

	auditService := service.NewAuditService(dispatcher, logger, metrics)
	worker.StartAuditWorker(auditService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo, revoker)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Complaints:     handlers.NewComplaintsHandler(complaintService, cfg.App.BusRoutes),
		Admin:          handlers.NewAdminHandler(complaintService, authService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
