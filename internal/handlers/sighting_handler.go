package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/straytracker/stray-tracker-backend/internal/dto"
	"github.com/straytracker/stray-tracker-backend/internal/geo"
	"github.com/straytracker/stray-tracker-backend/internal/middleware"
	"github.com/straytracker/stray-tracker-backend/internal/services"
)

type SightingHandler struct {
	sightingService *services.SightingService
	strayService    *services.StrayService
}

func NewSightingHandler(sightingService *services.SightingService, strayService *services.StrayService) *SightingHandler {
	return &SightingHandler{sightingService: sightingService, strayService: strayService}
}

// Create handles POST /sightings - reports a sighting, creating the stray
// when none is referenced and finalizing any staged photo keys.
func (h *SightingHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateSightingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.sightingService.Create(c.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrStrayNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create sighting",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Delete handles DELETE /sightings/:id - reporter or admin only. Photos and
// community posts referencing the sighting go with it.
func (h *SightingHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid sighting id",
		})
	}

	deleted, err := h.sightingService.Delete(c.Context(), uint(id), userID, middleware.CurrentRole(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSightingNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrNotOwner):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete sighting",
		})
	}

	return c.JSON(deleted)
}

// Update handles PUT /sightings/:id - moderator tier and above.
func (h *SightingHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid sighting id",
		})
	}

	var req dto.UpdateSightingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	updated, err := h.sightingService.Update(c.Context(), uint(id), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrSightingNotFound), errors.Is(err, services.ErrStrayNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update sighting",
		})
	}

	return c.JSON(updated)
}

// Nearby handles GET /sightings/nearby?lat=&lng=&radius=&limit=&offset= -
// every sighting within the radius, closest first.
func (h *SightingHandler) Nearby(c *fiber.Ctx) error {
	center, radius, page, ok := parseGeoQuery(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "lat and lng query parameters are required numbers",
		})
	}

	results, err := h.strayService.FindSightingsWithinRadius(c.Context(), center, radius, page)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Nearby search failed",
		})
	}

	return c.JSON(fiber.Map{
		"sightings":   results,
		"limit":       page.Normalize().Limit,
		"offset":      page.Normalize().Offset,
		"next_offset": page.Normalize().NextOffset(len(results)),
	})
}

func parseGeoQuery(c *fiber.Ctx) (geo.Point, float64, dto.PageParams, bool) {
	lat := c.QueryFloat("lat", -1000)
	lng := c.QueryFloat("lng", -1000)
	if lat == -1000 || lng == -1000 {
		return geo.Point{}, 0, dto.PageParams{}, false
	}
	radius := c.QueryFloat("radius", services.DefaultRadiusKm)
	page := dto.PageParams{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	return geo.Point{Lat: lat, Lng: lng}, radius, page, true
}
