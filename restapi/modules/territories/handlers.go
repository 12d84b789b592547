// Package territories provides the REST handlers for territory management,
// including export/import and shapes drawn on the map.
package territories

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/effiwise/effimappro/internal/forms"
	"github.com/effiwise/effimappro/internal/management"
	"github.com/effiwise/effimappro/internal/mapview"
	"github.com/effiwise/effimappro/internal/store"
	"github.com/effiwise/effimappro/model"
	"github.com/effiwise/effimappro/restapi/modules/session"
	"github.com/gofiber/fiber/v2"
	"github.com/paulmach/orb/geojson"
)

// ListTerritories returns the loaded territories. With ?branchId= only that
// branch's territories are listed.
func ListTerritories() fiber.Handler {
	return func(c *fiber.Ctx) error {
		territories := session.From(c).Snapshot().Territories
		if branchID := c.Query("branchId"); branchID != "" {
			territories = management.TerritoriesForBranch(territories, branchID)
		}
		return c.JSON(territories)
	}
}

// CreateTerritory validates the territory form and adds the territory
func CreateTerritory() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var form forms.TerritoryForm
		if err := c.BodyParser(&form); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if err := form.Validate(); err != nil {
			return session.Invalid(c, err)
		}

		territory, err := session.From(c).AddTerritory(c.UserContext(), form.Input())
		if err != nil {
			return session.Fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(territory)
	}
}

// UpdateTerritory replaces a territory with the submitted form
func UpdateTerritory() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var form forms.TerritoryForm
		if err := c.BodyParser(&form); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if err := form.Validate(); err != nil {
			return session.Invalid(c, err)
		}

		territory, err := session.From(c).UpdateTerritory(c.UserContext(), c.Params("id"), form.Patch())
		if err != nil {
			return session.Fail(c, err)
		}
		return c.JSON(territory)
	}
}

// DeleteTerritory removes a territory
func DeleteTerritory() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := session.From(c).DeleteTerritory(c.UserContext(), c.Params("id")); err != nil {
			return session.Fail(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ExportTerritories downloads the loaded territories as territories.json
func ExportTerritories() fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, err := session.From(c).ExportTerritories()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to export territories"})
		}
		c.Attachment(store.ExportFileName)
		c.Type("json")
		return c.Send(data)
	}
}

// ImportTerritories replaces the loaded territories with an exported file
// sent as the request body. ?persist=true also writes them to the database.
func ImportTerritories() fiber.Handler {
	return func(c *fiber.Ctx) error {
		persist := c.QueryBool("persist", false)
		body := c.Body()
		if !json.Valid(body) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to import territories"})
		}

		territories, err := session.From(c).ImportTerritories(c.UserContext(), body, persist)
		if err != nil {
			// without persist the only failure is a malformed file
			var storeErr *store.Error
			if errors.As(err, &storeErr) && !persist {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": storeErr.Message})
			}
			return session.Fail(c, err)
		}
		return c.JSON(fiber.Map{"imported": len(territories), "territories": territories})
	}
}

type drawnRequest struct {
	Geometry *geojson.Geometry `json:"geometry"`
	BranchID string            `json:"branchId"`
}

// CreateDrawnTerritory turns a polygon or rectangle drawn on the map into a
// new territory of the selected branch
func CreateDrawnTerritory() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req drawnRequest
		if err := c.BodyParser(&req); err != nil || req.Geometry == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		input, err := mapview.DrawnTerritory(req.Geometry.Geometry(), req.BranchID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		territory, err := session.From(c).AddTerritory(c.UserContext(), input)
		if err != nil {
			return session.Fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(territory)
	}
}

// LocateTerritories lists the territories containing ?lat=&lng=
func LocateTerritories() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
		lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
		if errLat != nil || errLng != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "lat and lng are required"})
		}

		territories := session.From(c).Snapshot().Territories
		return c.JSON(mapview.Locate(territories, model.Coordinates{lat, lng}))
	}
}
