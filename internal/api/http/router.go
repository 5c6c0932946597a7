package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/anupgautam23/oms-frontend/internal/api/http/handlers"
	"github.com/anupgautam23/oms-frontend/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Metrics       *handlers.MetricsHandler
	Session       *handlers.SessionHandler
	Orders        *handlers.OrdersHandler
	Admin         *handlers.AdminHandler
	Notifications *handlers.NotificationsHandler
	Workspace     *auth.WorkspaceMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Snapshot)

	api := app.Group("/api", cfg.Workspace.Handle)
	api.Get("/session", cfg.Session.Get)
	api.Post("/session/login", cfg.Session.Login)
	api.Post("/session/register", cfg.Session.Register)
	api.Post("/session/logout", cfg.Session.Logout)
	api.Get("/notifications", cfg.Notifications.List)

	requireUser := auth.RequireUser()
	api.Get("/dashboard", requireUser, cfg.Orders.Dashboard)
	api.Get("/orders", requireUser, cfg.Orders.List)
	api.Post("/orders/preview", requireUser, cfg.Orders.Preview)
	api.Post("/orders", requireUser, cfg.Orders.Place)
	api.Delete("/orders/:id", requireUser, cfg.Orders.Cancel)

	requireAdmin := auth.RequireAdmin()
	api.Put("/orders/:id/status", requireAdmin, cfg.Orders.UpdateStatus)
	api.Get("/admin/dashboard", requireAdmin, cfg.Admin.Dashboard)
}
