package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/arogyam-health-service/internal/api/http/handlers"
	"github.com/spec-kit/arogyam-health-service/internal/auth"
	"github.com/spec-kit/arogyam-health-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Villages       *handlers.VillagesHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/validate-token", cfg.Auth.ValidateToken)
	authGroup.Post("/refresh-token", cfg.Auth.RefreshToken)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Auth.ChangePassword)

	officials := auth.RequireRole(domain.RoleAdmin, domain.RoleHealthOfficial)
	adminOnly := auth.RequireRole(domain.RoleAdmin)

	users := api.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/", officials, cfg.Users.List)
	users.Get("/active", officials, cfg.Users.ListActive)
	users.Get("/role/:role", officials, cfg.Users.ListByRole)
	users.Get("/district/:district", officials, cfg.Users.ListByDistrict)
	users.Get("/:id", cfg.Users.Get)
	users.Put("/:id", cfg.Users.Update)
	users.Post("/:id/activate", adminOnly, cfg.Users.Activate)
	users.Post("/:id/deactivate", adminOnly, cfg.Users.Deactivate)

	villages := api.Group("/villages", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	villages.Get("/", cfg.Villages.List)
	villages.Get("/district/:district", cfg.Villages.ListByDistrict)
	villages.Get("/:id", cfg.Villages.Get)
	villages.Post("/", auth.RequireRole(domain.RoleAdmin, domain.RoleHealthOfficial), cfg.Villages.Create)
}
