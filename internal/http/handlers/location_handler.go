package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/markodapap-sketch/odapap-sub001/internal/geocode"
	applog "github.com/markodapap-sketch/odapap-sub001/internal/log"
	"github.com/markodapap-sketch/odapap-sub001/internal/services"
	"github.com/markodapap-sketch/odapap-sub001/internal/validate"
)

type LocationHandler struct {
	Location *services.LocationService
}

// Resolve reverse-geocodes browser coordinates and pins the display
// name to the session.
// POST /api/v1/location  (lat, lng)
func (h *LocationHandler) Resolve(c *fiber.Ctx) error {
	lat, okLat := validate.Coordinate(c.FormValue("lat"), 90)
	lng, okLng := validate.Coordinate(c.FormValue("lng"), 180)
	if !okLat || !okLng {
		applog.Security(c, "validation.fail", map[string]any{"field": "coordinates"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid coordinates"})
	}
	sid := ensureSID(c)
	addr, err := h.Location.Resolve(c.UserContext(), sid, lat, lng)
	switch {
	case err == nil:
		return c.JSON(fiber.Map{"location": addr.DisplayName})
	case errors.Is(err, geocode.ErrBadCoordinates):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid coordinates"})
	case errors.Is(err, geocode.ErrNoAddress):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no address found for this location"})
	default:
		applog.Error(c, "location.resolve.fail", err, nil)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "location service unavailable"})
	}
}

// Current returns the location pinned to the session, if any.
func (h *LocationHandler) Current(c *fiber.Ctx) error {
	sid := ensureSID(c)
	loc, err := h.Location.Current(sid)
	if err != nil {
		return c.JSON(fiber.Map{"location": ""})
	}
	return c.JSON(fiber.Map{"location": loc})
}
