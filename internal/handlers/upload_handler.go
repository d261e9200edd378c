package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/straytracker/stray-tracker-backend/internal/dto"
	"github.com/straytracker/stray-tracker-backend/internal/uploads"
)

const maxUploadBytes = 10 * 1024 * 1024

var allowedUploadTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/heic": true,
	"image/webp": true,
}

type UploadHandler struct {
	pipeline *uploads.Pipeline
	cleaner  *uploads.Cleaner
}

func NewUploadHandler(pipeline *uploads.Pipeline, cleaner *uploads.Cleaner) *UploadHandler {
	return &UploadHandler{pipeline: pipeline, cleaner: cleaner}
}

// NewSession handles POST /uploads/session - issues the opaque identifier the
// client reuses for every image of one authoring session.
func (h *UploadHandler) NewSession(c *fiber.Ctx) error {
	return c.JSON(dto.StageSessionResponse{SessionID: h.pipeline.NewSession()})
}

// Stage handles POST /uploads - multipart sessionId + file. The image is
// re-encoded into both variants and parked in staging; the returned key is
// what a later sighting report carries in image_keys.
func (h *UploadHandler) Stage(c *fiber.Ctx) error {
	sessionID := c.FormValue("sessionId")
	if _, err := uuid.Parse(sessionID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "A valid sessionId is required",
		})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Image file is required",
		})
	}

	if file.Size > maxUploadBytes {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Image size must be less than 10MB",
		})
	}
	if contentType := file.Header.Get("Content-Type"); !allowedUploadTypes[contentType] {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid image format. Only JPEG, PNG, HEIC and WebP are allowed",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to read upload",
		})
	}
	defer src.Close()

	key, err := h.pipeline.Stage(c.Context(), sessionID, file.Filename, src, nil)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Error: true, Message: "Image could not be processed",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.StageUploadResponse{Key: key})
}

// Cleanup handles POST /admin/staging/cleanup - the manual variant of the
// periodic staging cleanup, with an optional age override.
func (h *UploadHandler) Cleanup(c *fiber.Ctx) error {
	var req dto.CleanupRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid request body",
			})
		}
	}
	if req.MaxAgeHours < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "maxAgeHours must be positive",
		})
	}

	deleted, err := h.cleaner.Run(c.Context(), hoursToDuration(req.MaxAgeHours))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.CleanupResponse{
			Success: false, DeletedCount: deleted,
		})
	}

	return c.JSON(dto.CleanupResponse{Success: true, DeletedCount: deleted})
}

// hoursToDuration converts the override to a duration; zero means "use the
// configured default".
func hoursToDuration(hours float64) time.Duration {
	if hours <= 0 {
		return 0
	}
	return time.Duration(hours * float64(time.Hour))
}
