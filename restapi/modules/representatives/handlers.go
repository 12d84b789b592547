// Package representatives provides the REST handlers for representative management.
package representatives

import (
	"github.com/effiwise/effimappro/internal/forms"
	"github.com/effiwise/effimappro/internal/management"
	"github.com/effiwise/effimappro/restapi/modules/session"
	"github.com/gofiber/fiber/v2"
)

// ListRepresentatives returns the loaded representatives. With ?branchId=
// only that branch's representatives are listed.
func ListRepresentatives() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reps := session.From(c).Snapshot().Representatives
		if branchID := c.Query("branchId"); branchID != "" {
			reps = management.RepresentativesForBranch(reps, branchID)
		}
		return c.JSON(reps)
	}
}

// CreateRepresentative validates the form and adds the representative
func CreateRepresentative() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var form forms.RepresentativeForm
		if err := c.BodyParser(&form); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if err := form.Validate(); err != nil {
			return session.Invalid(c, err)
		}

		rep, err := session.From(c).AddRepresentative(c.UserContext(), form.Input())
		if err != nil {
			return session.Fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(rep)
	}
}

// UpdateRepresentative replaces a representative with the submitted form
func UpdateRepresentative() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var form forms.RepresentativeForm
		if err := c.BodyParser(&form); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if err := form.Validate(); err != nil {
			return session.Invalid(c, err)
		}

		rep, err := session.From(c).UpdateRepresentative(c.UserContext(), c.Params("id"), form.Patch())
		if err != nil {
			return session.Fail(c, err)
		}
		return c.JSON(rep)
	}
}

// DeleteRepresentative removes a representative and unassigns its territories
func DeleteRepresentative() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := session.From(c).DeleteRepresentative(c.UserContext(), c.Params("id")); err != nil {
			return session.Fail(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
