package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bus-complaint-service/internal/api/http/handlers"
	"github.com/spec-kit/bus-complaint-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Complaints     *handlers.ComplaintsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/routes", cfg.Complaints.Routes)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Users.Logout)

	complaints := app.Group("/complaints", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	complaints.Post("/", cfg.Complaints.Submit)
	complaints.Get("/", cfg.Complaints.ListMine)
	complaints.Post("/check-duplicate", cfg.Complaints.CheckDuplicate)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Get("/complaints", cfg.Admin.ListAll)
	admin.Get("/students", cfg.Admin.Students)
	admin.Get("/stats", cfg.Admin.Stats)
	admin.Patch("/complaints/:id/status", cfg.Admin.UpdateStatus)
}
