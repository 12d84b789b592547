// Package branches provides the REST handlers for branch management.
package branches

import (
	"github.com/effiwise/effimappro/internal/forms"
	"github.com/effiwise/effimappro/restapi/modules/session"
	"github.com/gofiber/fiber/v2"
)

// ListBranches returns the branches loaded in the session
func ListBranches() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(session.From(c).Snapshot().Branches)
	}
}

// CreateBranch validates the branch form and adds the branch
func CreateBranch() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var form forms.BranchForm
		if err := c.BodyParser(&form); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if err := form.Validate(); err != nil {
			return session.Invalid(c, err)
		}

		branch, err := session.From(c).AddBranch(c.UserContext(), form.Input())
		if err != nil {
			return session.Fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(branch)
	}
}

// UpdateBranch replaces a branch with the submitted form
func UpdateBranch() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var form forms.BranchForm
		if err := c.BodyParser(&form); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if err := form.Validate(); err != nil {
			return session.Invalid(c, err)
		}

		branch, err := session.From(c).UpdateBranch(c.UserContext(), c.Params("id"), form.Patch())
		if err != nil {
			return session.Fail(c, err)
		}
		return c.JSON(branch)
	}
}

// DeleteBranch removes a branch with its territories and representatives
func DeleteBranch() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := session.From(c).DeleteBranch(c.UserContext(), c.Params("id")); err != nil {
			return session.Fail(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
