package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nbailey1776/facial-recognition-app/interfaces/api/handlers"
)

func SetupTrainingRoutes(router fiber.Router, h *handlers.Handlers) {
	router.Post("/train", h.Training.Train)
}
