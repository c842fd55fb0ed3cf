// Package server assembles the API: stores, services, the authentication
// gate and the Fiber app.
package server

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/diet-tracker/internal/api/http"
	"github.com/spec-kit/diet-tracker/internal/api/http/handlers"
	"github.com/spec-kit/diet-tracker/internal/auth"
	"github.com/spec-kit/diet-tracker/internal/config"
	"github.com/spec-kit/diet-tracker/internal/events"
	"github.com/spec-kit/diet-tracker/internal/observability"
	"github.com/spec-kit/diet-tracker/internal/persistence"
	"github.com/spec-kit/diet-tracker/internal/repository"
	"github.com/spec-kit/diet-tracker/internal/service"
	"github.com/spec-kit/diet-tracker/internal/worker"
)

// Dependencies are the already-opened resources the server runs on.
// Nil Postgres or a Postgres without a pool selects the in-memory store.
type Dependencies struct {
	Logger   *zap.Logger
	Metrics  *observability.Metrics
	Postgres *persistence.Postgres
	Redis    *persistence.Redis
}

// Server is the assembled application.
type Server struct {
	App        *fiber.App
	Tokens     *auth.TokenManager
	Users      *service.UserService
	Foods      *service.FoodService
	Thresholds *service.ThresholdService
	Metrics    *observability.Metrics
}

// New wires every component for cfg.
func New(cfg config.Config, deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = observability.NewMetrics("diet_tracker")
	}

	var (
		userRepo repository.UserRepository
		foodRepo repository.FoodRepository
	)
	if deps.Postgres.Enabled() {
		pool := deps.Postgres.PoolHandle()
		userRepo = repository.NewUserRepository(pool)
		foodRepo = repository.NewFoodRepository(pool)
	} else {
		store := repository.NewMemoryStore()
		userRepo = store.Users()
		foodRepo = store.Foods()
	}

	dispatcher := events.NewInMemoryDispatcher()
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())

	users := service.NewUserService(cfg.Auth, service.UserDependencies{
		UserRepo:     userRepo,
		TokenManager: tokens,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	foods := service.NewFoodService(service.FoodDependencies{
		FoodRepo:   foodRepo,
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	thresholds := service.NewThresholdService(dispatcher, userRepo, foodRepo, metrics, logger)
	worker.StartThresholdWorker(thresholds)

	gate := auth.NewGate(tokens, auth.DefaultPublicRoutes(), logger, metrics)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps.Postgres, deps.Redis),
		Users:   handlers.NewUsersHandler(users),
		Foods:   handlers.NewFoodsHandler(foods),
		Gate:    gate,
		Metrics: metrics,
	})

	return &Server{
		App:        app,
		Tokens:     tokens,
		Users:      users,
		Foods:      foods,
		Thresholds: thresholds,
		Metrics:    metrics,
	}
}
