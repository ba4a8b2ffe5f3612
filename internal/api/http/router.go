package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/helpdesk-kit/helpdesk-service/internal/auth"
	"github.com/helpdesk-kit/helpdesk-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Directory      *handlers.DirectoryHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics)
	}

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	api.Get("/categories", cfg.AuthMiddleware.Handle, cfg.Directory.Categories)

	users := api.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/agents", auth.RequireRole("only admins can list agents", domain.RoleAdmin), cfg.Directory.Agents)

	tickets := api.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	// Role gates run before the body is bound so callers without the role are denied first.
	tickets.Patch("/:id/assign",
		auth.RequireRole("only agents can assign tickets to themselves", domain.RoleAgent),
		cfg.Tickets.SelfAssign)
	tickets.Patch("/:id/status",
		auth.RequireRole("only agents/admins can change ticket status", domain.RoleAgent, domain.RoleAdmin),
		cfg.Tickets.SetStatus)
	tickets.Patch("/:id/assignee",
		auth.RequireRole("only admins can reassign tickets", domain.RoleAdmin),
		cfg.Tickets.SetAssignee)
	tickets.Get("/:id/messages", cfg.Tickets.ListMessages)
	tickets.Post("/:id/messages", cfg.Tickets.PostMessage)
}
