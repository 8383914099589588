package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/helphub-ai/support-intake/internal/api/http"
	"github.com/helphub-ai/support-intake/internal/api/http/handlers"
	"github.com/helphub-ai/support-intake/internal/auth"
	"github.com/helphub-ai/support-intake/internal/classify"
	"github.com/helphub-ai/support-intake/internal/config"
	"github.com/helphub-ai/support-intake/internal/events"
	"github.com/helphub-ai/support-intake/internal/notify"
	"github.com/helphub-ai/support-intake/internal/observability"
	"github.com/helphub-ai/support-intake/internal/persistence"
	"github.com/helphub-ai/support-intake/internal/repository"
	"github.com/helphub-ai/support-intake/internal/service"
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

	// Backend selection happens once here; there is no mid-operation
	// fallback after startup.
	tickets := selectTicketStore(ctx, cfg, logger)
	defer tickets.Close()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	dispatcher := events.NewInMemoryDispatcher()
	classifier := classify.NewGroqClassifier(cfg.Classifier, logger)
	notifier := notify.NewClient(cfg.Notifier)

	ticketService := service.NewTicketService(tickets, dispatcher, logger)
	analyticsService := service.NewAnalyticsService(tickets, classifier, logger)
	notificationService := service.NewNotificationService(dispatcher, notifier, logger, cfg.Notifier.Timeout())
	notificationService.RegisterHandlers()

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authMiddleware := auth.NewAuthMiddleware(tokenManager)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(tickets),
		Auth:           handlers.NewAuthHandler(cfg.Auth, tokenManager),
		Intake:         handlers.NewIntakeHandler(ticketService, classifier),
		Tickets:        handlers.NewTicketsHandler(ticketService, logger),
		Analytics:      handlers.NewAnalyticsHandler(analyticsService, ticketService),
		AuthMiddleware: authMiddleware,
		RateLimiter:    httptransport.NewRateLimiter(redis.Client, cfg.RateLimit, logger),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// selectTicketStore connects the remote table store when configured and
// reachable, and otherwise falls back to the seeded in-memory store.
func selectTicketStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) repository.TicketRepository {
	pg, err := persistence.NewPostgres(ctx, cfg.Store, logger)
	if err != nil {
		if errors.Is(err, persistence.ErrStoreNotConfigured) {
			logger.Info("remote store not configured; using in-memory store with demo data")
		} else {
			logger.Warn("remote store unreachable; using in-memory store with demo data", zap.Error(err))
		}
		return repository.NewSeededMemoryRepository()
	}

	if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Store, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	return repository.NewPostgresRepository(pg.PoolHandle())
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
