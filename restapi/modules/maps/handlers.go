// Package maps provides the REST handlers for the map view and address
// geocoding.
package maps

import (
	"context"
	"errors"
	"strings"

	"github.com/effiwise/effimappro/internal/geocode"
	"github.com/effiwise/effimappro/internal/mapview"
	"github.com/effiwise/effimappro/model"
	"github.com/effiwise/effimappro/restapi/modules/session"
	"github.com/gofiber/fiber/v2"
)

// Geocoder resolves an address to coordinates
type Geocoder interface {
	Geocode(ctx context.Context, address string) (model.Coordinates, error)
}

// GetMap renders the session's entities as GeoJSON. ?branchId= narrows the
// map to one branch and centers on it.
func GetMap() fiber.Handler {
	return func(c *fiber.Ctx) error {
		state := session.From(c).Snapshot()
		view := mapview.Build(mapview.Input{
			Branches:        state.Branches,
			Representatives: state.Representatives,
			Territories:     state.Territories,
		}, c.Query("branchId"))
		return c.JSON(view)
	}
}

// Geocode looks up ?address= with the geocoding service
func Geocode(geocoder Geocoder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		address := strings.TrimSpace(c.Query("address"))
		if address == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "address is required"})
		}

		coords, err := geocoder.Geocode(c.UserContext(), address)
		if err != nil {
			status := fiber.StatusBadGateway
			if errors.Is(err, geocode.ErrNotFound) {
				status = fiber.StatusNotFound
			}
			return c.Status(status).JSON(fiber.Map{"error": geocode.Message(err)})
		}
		return c.JSON(fiber.Map{"address": address, "coordinates": coords})
	}
}
