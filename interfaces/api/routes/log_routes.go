package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nbailey1776/facial-recognition-app/interfaces/api/handlers"
)

func SetupLogRoutes(router fiber.Router, h *handlers.Handlers) {
	admin := router.Group("/admin")

	admin.Get("/logs", h.Log.GetLogs)
	admin.Get("/logs/files", h.Log.GetLogFiles)
}
