package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/nbailey1776/facial-recognition-app/domain/services"
	"github.com/nbailey1776/facial-recognition-app/pkg/utils"
)

type PersonHandler struct {
	personService services.PersonService
}

func NewPersonHandler(personService services.PersonService) *PersonHandler {
	return &PersonHandler{
		personService: personService,
	}
}

// RegisterPersonRequest is the request for registering a new person
type RegisterPersonRequest struct {
	PersonID    int    `json:"person_id" validate:"required,min=1"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=64"`
}

// Register registers a new person in the face registry
func (h *PersonHandler) Register(c *fiber.Ctx) error {
	var req RegisterPersonRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	person, err := h.personService.Register(c.Context(), req.PersonID, req.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPersonID), errors.Is(err, services.ErrInvalidDisplayName):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid person data", err)
		case errors.Is(err, services.ErrDuplicatePersonID):
			return utils.ErrorResponse(c, fiber.StatusConflict, "A person with this ID already exists", err)
		case errors.Is(err, services.ErrDuplicateName):
			return utils.ErrorResponse(c, fiber.StatusConflict, "A person with this name already exists", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to register person", err)
	}

	return utils.CreatedResponse(c, "Person registered", person)
}

// List returns all registered people with preview images and sample counts
func (h *PersonHandler) List(c *fiber.Ctx) error {
	people, err := h.personService.List(c.Context())
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list people", err)
	}

	return utils.SuccessResponse(c, "People retrieved", fiber.Map{
		"people": people,
		"count":  len(people),
	})
}

// Remove deletes a person and their collected dataset folder
func (h *PersonHandler) Remove(c *fiber.Ctx) error {
	personID, err := c.ParamsInt("person_id")
	if err != nil || personID <= 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid person ID", err)
	}

	if err := h.personService.Remove(c.Context(), personID); err != nil {
		if errors.Is(err, services.ErrPersonNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Person not found", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to remove person", err)
	}

	return utils.SuccessResponse(c, "Person removed", fiber.Map{
		"person_id": personID,
	})
}
