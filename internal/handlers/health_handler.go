package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/straytracker/stray-tracker-backend/internal/database"
	"github.com/straytracker/stray-tracker-backend/internal/dto"
	"github.com/straytracker/stray-tracker-backend/internal/storage"
)

type HealthHandler struct {
	store *storage.MinIOStore
}

func NewHealthHandler(store *storage.MinIOStore) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := database.Ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	storeStatus := "ok"
	ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		storeStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Store:     storeStatus,
	})
}
