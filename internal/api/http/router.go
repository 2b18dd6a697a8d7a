package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/inventory-service/internal/api/http/handlers"
	"github.com/spec-kit/inventory-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Products       *handlers.ProductsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Health.Root)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Post("/register", cfg.Users.Register)
	app.Post("/token", cfg.Users.Token)

	authenticated := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireAnyRole()}

	users := app.Group("/users", authenticated...)
	users.Get("/me", cfg.Users.Me)

	items := app.Group("/items", authenticated...)
	items.Get("/", cfg.Products.List)
	items.Post("/", cfg.Products.Create)
	items.Get("/:id", cfg.Products.Get)
	items.Patch("/:id", cfg.Products.Update)
	items.Patch("/:id/archive", cfg.Products.ToggleArchive)
	items.Delete("/:id", auth.RequireAdmin(), cfg.Products.Delete)
}
