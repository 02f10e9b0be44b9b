package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nbailey1776/facial-recognition-app/interfaces/api/handlers"
)

func SetupRecognitionRoutes(router fiber.Router, h *handlers.Handlers) {
	recognize := router.Group("/recognize")

	recognize.Post("/start", h.Recognition.Start)
	recognize.Post("/stop", h.Recognition.Stop)
	recognize.Get("/status", h.Recognition.Status)
}
