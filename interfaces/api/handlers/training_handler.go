package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/nbailey1776/facial-recognition-app/domain/services"
	"github.com/nbailey1776/facial-recognition-app/pkg/utils"
)

type TrainingHandler struct {
	trainingService services.TrainingService
}

func NewTrainingHandler(trainingService services.TrainingService) *TrainingHandler {
	return &TrainingHandler{
		trainingService: trainingService,
	}
}

// Train rebuilds the recognition model from every collected face sample
func (h *TrainingHandler) Train(c *fiber.Ctx) error {
	result, err := h.trainingService.Train(c.Context())
	if err != nil {
		if errors.Is(err, services.ErrEmptyDataset) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "No face samples collected yet. Collect images before training.", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Training failed", err)
	}

	return utils.SuccessResponse(c, "Model trained", result)
}
