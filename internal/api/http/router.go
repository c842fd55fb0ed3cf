package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/diet-tracker/internal/api/http/handlers"
	"github.com/spec-kit/diet-tracker/internal/auth"
	"github.com/spec-kit/diet-tracker/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Users   *handlers.UsersHandler
	Foods   *handlers.FoodsHandler
	Gate    *auth.Gate
	Metrics *observability.Metrics
}

// RegisterRoutes wires HTTP routes. Everything under /api passes the gate.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
	}
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	api := app.Group("/api", cfg.Gate.Handle)

	users := api.Group("/users")
	users.Get("/", cfg.Users.List)
	users.Post("/signup", cfg.Users.SignUp)
	users.Post("/login", cfg.Users.Login)
	users.Post("/getUserDetails", cfg.Users.Details)
	users.Patch("/updateDailyThresHold", cfg.Users.UpdateDailyThreshold)

	foods := api.Group("/foods")
	foods.Get("/all", cfg.Foods.ListAll)
	foods.Get("/user/:uid", cfg.Foods.ListByUser)
	foods.Get("/:fid", cfg.Foods.Get)
	foods.Post("/", cfg.Foods.Create)
	foods.Patch("/:fid", cfg.Foods.Update)
	foods.Delete("/", cfg.Foods.Delete)

	app.Use(notFound)
}
