package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nbailey1776/facial-recognition-app/interfaces/api/handlers"
)

func SetupPersonRoutes(router fiber.Router, h *handlers.Handlers) {
	people := router.Group("/people")

	people.Post("/", h.Person.Register)
	people.Get("/", h.Person.List)
	people.Delete("/:person_id", h.Person.Remove)
}
