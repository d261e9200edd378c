package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/straytracker/stray-tracker-backend/internal/dto"
	"github.com/straytracker/stray-tracker-backend/internal/services"
)

type StrayHandler struct {
	strayService *services.StrayService
}

func NewStrayHandler(strayService *services.StrayService) *StrayHandler {
	return &StrayHandler{strayService: strayService}
}

// Nearby handles GET /strays/nearby?lat=&lng=&radius=&limit=&offset= - strays
// whose most recent sighting is within the radius, closest first, one
// sighting each.
func (h *StrayHandler) Nearby(c *fiber.Ctx) error {
	center, radius, page, ok := parseGeoQuery(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "lat and lng query parameters are required numbers",
		})
	}

	results, err := h.strayService.FindStraysWithinRadius(c.Context(), center, radius, page)
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
		"strays":      results,
		"limit":       page.Normalize().Limit,
		"offset":      page.Normalize().Offset,
		"next_offset": page.Normalize().NextOffset(len(results)),
	})
}

// List handles GET /strays?species=&status=&size=&q=&limit=&offset= - the
// non-geo browse listing.
func (h *StrayHandler) List(c *fiber.Ctx) error {
	filter := dto.StrayFilter{
		Species: c.Query("species"),
		Status:  c.Query("status"),
		Size:    c.Query("size"),
		Query:   c.Query("q"),
		Page: dto.PageParams{
			Limit:  c.QueryInt("limit", 20),
			Offset: c.QueryInt("offset", 0),
		},
	}

	resp, err := h.strayService.Search(c.Context(), filter)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Stray search failed",
		})
	}

	return c.JSON(resp)
}

// Get handles GET /strays/:id - one stray with its full sighting history.
func (h *StrayHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid stray id",
		})
	}

	stray, err := h.strayService.Get(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrStrayNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to load stray",
		})
	}

	return c.JSON(stray)
}

// Update handles PUT /strays/:id - moderator tier and above.
func (h *StrayHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid stray id",
		})
	}

	var req dto.UpdateStrayRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	updated, err := h.strayService.Update(c.Context(), uint(id), &req)
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
			Error: true, Message: "Failed to update stray",
		})
	}

	return c.JSON(updated)
}
