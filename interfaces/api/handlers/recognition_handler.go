package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/nbailey1776/facial-recognition-app/infrastructure/worker"
	"github.com/nbailey1776/facial-recognition-app/pkg/utils"
)

type RecognitionHandler struct {
	recognitionWorker *worker.RecognitionWorker
}

func NewRecognitionHandler(recognitionWorker *worker.RecognitionWorker) *RecognitionHandler {
	return &RecognitionHandler{
		recognitionWorker: recognitionWorker,
	}
}

// Start launches a live recognition session. Model and camera failures
// surface through the session status and the websocket event stream.
func (h *RecognitionHandler) Start(c *fiber.Ctx) error {
	if err := h.recognitionWorker.Start(); err != nil {
		if errors.Is(err, worker.ErrSessionRunning) {
			return utils.ErrorResponse(c, fiber.StatusConflict, "A recognition session is already running", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to start recognition", err)
	}

	return utils.SuccessResponse(c, "Recognition started", h.recognitionWorker.Status())
}

// Stop halts the running recognition session
func (h *RecognitionHandler) Stop(c *fiber.Ctx) error {
	if err := h.recognitionWorker.Stop(); err != nil {
		if errors.Is(err, worker.ErrNoSession) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "No recognition session is running", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to stop recognition", err)
	}

	return utils.SuccessResponse(c, "Recognition stopped", nil)
}

// Status reports the current or most recent recognition session
func (h *RecognitionHandler) Status(c *fiber.Ctx) error {
	return utils.SuccessResponse(c, "Recognition status", h.recognitionWorker.Status())
}
