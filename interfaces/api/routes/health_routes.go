package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nbailey1776/facial-recognition-app/interfaces/api/handlers"
)

func SetupHealthRoutes(app *fiber.App, healthHandler *handlers.HealthHandler) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Server is running",
			"service": "Face Recognition API",
		})
	})

	// Detailed health check (checks all components)
	if healthHandler != nil {
		app.Get("/health/detailed", healthHandler.DetailedHealth)
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message":   "Welcome to the Face Recognition API",
			"version":   "1.0.0",
			"docs":      "/api/v1",
			"health":    "/health",
			"websocket": "/ws",
		})
	})
}
