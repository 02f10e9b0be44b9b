package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nbailey1776/facial-recognition-app/interfaces/api/handlers"
	"github.com/nbailey1776/facial-recognition-app/interfaces/api/middleware"
	"github.com/nbailey1776/facial-recognition-app/pkg/config"
)

func SetupRoutes(app *fiber.App, h *handlers.Handlers, cfg *config.Config) {
	// Setup health and root routes
	SetupHealthRoutes(app, h.Health)

	// API version group
	api := app.Group("/api/v1")
	api.Use(middleware.RateLimiter(&cfg.RateLimit))

	// Setup all route groups
	SetupPersonRoutes(api, h)
	SetupCollectionRoutes(api, h)
	SetupTrainingRoutes(api, h)
	SetupRecognitionRoutes(api, h)
	SetupLogRoutes(api, h)

	// Setup WebSocket routes (needs app, not api group)
	SetupWebSocketRoutes(app)

	// Dataset previews and frontend assets
	app.Static("/static", "./static")
}
