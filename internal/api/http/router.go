package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helphub-ai/support-intake/internal/api/http/handlers"
	"github.com/helphub-ai/support-intake/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Intake         *handlers.IntakeHandler
	Tickets        *handlers.TicketsHandler
	Analytics      *handlers.AnalyticsHandler
	AuthMiddleware *auth.AuthMiddleware
	RateLimiter    *RateLimiter
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	app.Post("/intake/messages", cfg.RateLimiter.Handle, cfg.Intake.Submit)

	agent := app.Group("", cfg.AuthMiddleware.Handle)
	agent.Get("/tickets", cfg.Tickets.List)
	agent.Get("/tickets/search", cfg.Tickets.Search)
	agent.Get("/tickets/:id", cfg.Tickets.Get)
	agent.Patch("/tickets/:id/status", cfg.Tickets.UpdateStatus)
	agent.Patch("/tickets/:id/assignee", cfg.Tickets.Assign)
	agent.Get("/users/:id/tickets", cfg.Tickets.ListByUser)

	agent.Get("/analytics/stats", cfg.Analytics.Stats)
	agent.Get("/analytics/categories", cfg.Analytics.CategoryDistribution)
	agent.Get("/analytics/priorities", cfg.Analytics.PriorityDistribution)
	agent.Get("/analytics/volume", cfg.Analytics.TicketVolume)
	agent.Get("/analytics/activity", cfg.Analytics.RecentActivity)
	agent.Get("/analytics/category-list", cfg.Analytics.AllCategories)
	agent.Post("/analytics/root-cause", cfg.Analytics.RootCause)
}
