package handlers

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/nbailey1776/facial-recognition-app/domain/services"
	"github.com/nbailey1776/facial-recognition-app/infrastructure/dataset"
	"github.com/nbailey1776/facial-recognition-app/infrastructure/worker"
	"github.com/nbailey1776/facial-recognition-app/pkg/utils"
)

// maxUploadSize caps each uploaded image at 10MB.
const maxUploadSize = 10 * 1024 * 1024

type CollectionHandler struct {
	collectionService services.CollectionService
	captureWorker     *worker.CaptureWorker
	quota             int
}

func NewCollectionHandler(collectionService services.CollectionService, captureWorker *worker.CaptureWorker, quota int) *CollectionHandler {
	return &CollectionHandler{
		collectionService: collectionService,
		captureWorker:     captureWorker,
		quota:             quota,
	}
}

// Collect gathers face samples for a person. With multipart files attached
// it runs a synchronous upload collection; without files it starts a
// background webcam capture session.
func (h *CollectionHandler) Collect(c *fiber.Ctx) error {
	personID, err := c.ParamsInt("person_id")
	if err != nil || personID <= 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid person ID", err)
	}

	uploads, err := h.readUploads(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to read uploaded files", err)
	}

	if len(uploads) == 0 {
		return h.startSession(c, personID)
	}

	result, err := h.collectionService.CollectFromUploads(c.Context(), personID, uploads)
	if err != nil {
		if errors.Is(err, services.ErrPersonNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Person not found", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Collection failed", err)
	}

	return utils.SuccessResponse(c, "Images collected", result)
}

func (h *CollectionHandler) startSession(c *fiber.Ctx, personID int) error {
	sessionID, err := h.captureWorker.StartSession(personID)
	if err != nil {
		if errors.Is(err, worker.ErrSessionRunning) {
			return utils.ErrorResponse(c, fiber.StatusConflict, "A capture session is already running", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to start capture session", err)
	}

	return utils.SuccessResponse(c, "Capture session started", fiber.Map{
		"session_id": sessionID,
		"person_id":  personID,
		"quota":      h.quota,
	})
}

// CancelSession stops the running webcam capture session
func (h *CollectionHandler) CancelSession(c *fiber.Ctx) error {
	if err := h.captureWorker.StopSession(); err != nil {
		if errors.Is(err, worker.ErrNoSession) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "No capture session is running", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to stop capture session", err)
	}

	return utils.SuccessResponse(c, "Capture session stopped", nil)
}

// SessionStatus returns the state of the current or most recent session
func (h *CollectionHandler) SessionStatus(c *fiber.Ctx) error {
	return utils.SuccessResponse(c, "Capture session status", h.captureWorker.Status())
}

// readUploads extracts image files from the "files" multipart field. A
// request without a multipart form yields no uploads and no error; parts
// without an image extension and empty parts are dropped.
func (h *CollectionHandler) readUploads(c *fiber.Ctx) ([]services.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil
	}

	files := form.File["files"]
	uploads := make([]services.Upload, 0, len(files))
	for _, file := range files {
		if file.Size == 0 || !dataset.IsImageFile(file.Filename) {
			continue
		}
		if file.Size > maxUploadSize {
			return nil, errors.New("file " + file.Filename + " exceeds 10MB limit")
		}

		f, err := file.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}

		uploads = append(uploads, services.Upload{
			Filename: file.Filename,
			Data:     data,
		})
	}

	return uploads, nil
}
