package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nbailey1776/facial-recognition-app/interfaces/api/handlers"
)

func SetupCollectionRoutes(router fiber.Router, h *handlers.Handlers) {
	// Uploads run synchronously; an empty body starts a webcam session
	router.Post("/people/:person_id/collect", h.Collection.Collect)

	session := router.Group("/collect/session")
	session.Get("/", h.Collection.SessionStatus)
	session.Delete("/", h.Collection.CancelSession)
}
