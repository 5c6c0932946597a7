package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/anupgautam23/oms-frontend/internal/api/http"
	"github.com/anupgautam23/oms-frontend/internal/api/http/handlers"
	"github.com/anupgautam23/oms-frontend/internal/auth"
	"github.com/anupgautam23/oms-frontend/internal/client"
	"github.com/anupgautam23/oms-frontend/internal/config"
	"github.com/anupgautam23/oms-frontend/internal/domain"
	"github.com/anupgautam23/oms-frontend/internal/observability"
	"github.com/anupgautam23/oms-frontend/internal/persistence"
	"github.com/anupgautam23/oms-frontend/internal/tokenstore"
	"github.com/anupgautam23/oms-frontend/internal/worker"
	"github.com/anupgautam23/oms-frontend/internal/workspace"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	kv, closeStore, err := openTokenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open token store", zap.String("backend", cfg.Store.Backend), zap.Error(err))
	}
	defer closeStore()

	metrics := observability.NewMetrics()
	registry := workspace.NewRegistry(workspace.Dependencies{
		KV:         kv,
		HTTPClient: client.NewHTTPClient(cfg.Services.ClientTimeout()),
		AuthURL:    cfg.Services.AuthURL,
		OrderURL:   cfg.Services.OrderURL,
		Policy:     rolePolicy(cfg.Policy),
		InboxSize:  cfg.Policy.NotificationInbox,
		Metrics:    metrics,
		Logger:     logger,
	})

	janitor, err := worker.NewJanitor(registry, cfg.Session.SweepSchedule, cfg.Session.IdleTimeout(), logger)
	if err != nil {
		logger.Fatal("failed to schedule janitor", zap.Error(err))
	}
	janitor.Start()
	defer janitor.Stop()

	tokens := auth.NewTokenManager(cfg.Session.CookieSecret, cfg.Session.CookieTTL())
	workspaceMiddleware := auth.NewWorkspaceMiddleware(tokens, registry, auth.CookieOptions{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.CookieSecure,
	}, logger)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:        handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{"token_store": registry}),
		Metrics:       handlers.NewMetricsHandler(metrics),
		Session:       handlers.NewSessionHandler(),
		Orders:        handlers.NewOrdersHandler(),
		Admin:         handlers.NewAdminHandler(),
		Notifications: handlers.NewNotificationsHandler(),
		Workspace:     workspaceMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func openTokenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (tokenstore.KV, func(), error) {
	switch cfg.Store.Backend {
	case config.StoreBackendRedis:
		redis, err := persistence.NewRedis(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, nil, err
		}
		return tokenstore.NewRedisKV(redis.Client, cfg.Store.TTL()), redis.Close, nil
	case config.StoreBackendPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.Pool, logger); err != nil {
				pg.Close()
				return nil, nil, err
			}
		}
		return tokenstore.NewPostgresKV(pg.Pool, cfg.Store.TTL()), pg.Close, nil
	case config.StoreBackendMemory:
		logger.Warn("using in-memory token store; sessions will not survive a restart")
		return tokenstore.NewMemoryKV(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unsupported token store backend %q", cfg.Store.Backend)
}

func rolePolicy(cfg config.PolicyConfig) domain.RolePolicy {
	byEmail := domain.NewEmailRolePolicy(cfg.AdminEmails...)
	if cfg.RolePolicy == config.RolePolicyServer {
		return domain.ServerRolePolicy{Fallback: byEmail}
	}
	return byEmail
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
