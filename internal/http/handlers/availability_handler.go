package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/markodapap-sketch/odapap-sub001/internal/services"
)

type AvailabilityHandler struct {
	Catalog *services.CatalogService
}

// Check reports stock state for a listing as JSON.
// GET /api/v1/availability?listingId=...
func (h *AvailabilityHandler) Check(c *fiber.Ctx) error {
	listingID := strings.TrimSpace(c.Query("listingId"))
	if listingID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing listingId",
		})
	}
	avail, err := h.Catalog.CheckAvailability(listingID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(avail)
}
