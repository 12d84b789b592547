// Package session serves the signed-in user's application state and the
// navigation operations of the app shell.
package session

import (
	"errors"

	"github.com/effiwise/effimappro/database"
	"github.com/effiwise/effimappro/internal/forms"
	"github.com/effiwise/effimappro/internal/store"
	"github.com/effiwise/effimappro/restapi/modules/auth"
	"github.com/gofiber/fiber/v2"
)

const storeKey = "store"

// Middleware resolves the caller's store from the registry. It must run
// after auth.RequireAuth.
func Middleware(sessions auth.Sessions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := auth.CurrentUser(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		st := sessions.Resolve(c.UserContext(), user)
		c.Locals(storeKey, st)
		c.SetUserContext(store.NewContext(c.UserContext(), st))
		return c.Next()
	}
}

// From returns the store resolved by Middleware
func From(c *fiber.Ctx) *store.Store {
	st, _ := c.Locals(storeKey).(*store.Store)
	return st
}

// Fail writes a store error as JSON: 404 for unknown ids, 500 otherwise.
// The body carries the user-facing message.
func Fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	if errors.Is(err, database.ErrNotFound) {
		status = fiber.StatusNotFound
	}

	msg := err.Error()
	var storeErr *store.Error
	if errors.As(err, &storeErr) {
		msg = storeErr.Message
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// GetState returns a snapshot of the application state
func GetState() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(From(c).Snapshot())
	}
}

type panelRequest struct {
	Panel store.Panel `json:"panel"`
}

// SetPanel switches the main view
func SetPanel() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req panelRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if err := From(c).SetActivePanel(req.Panel); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"activePanel": req.Panel})
	}
}

type tabRequest struct {
	Tab store.ManagementTab `json:"tab"`
}

// SetTab switches the management tab
func SetTab() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req tabRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if err := From(c).SetActiveManagementTab(req.Tab); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"activeManagementTab": req.Tab})
	}
}

// ClearError dismisses the error banner
func ClearError() fiber.Handler {
	return func(c *fiber.Ctx) error {
		From(c).SetError("")
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// Refresh reloads all three collections
func Refresh() fiber.Handler {
	return func(c *fiber.Ctx) error {
		st := From(c)
		if err := st.FetchAll(c.UserContext()); err != nil {
			return Fail(c, err)
		}
		return c.JSON(st.Snapshot())
	}
}

// Invalid writes a form validation error as JSON with status 400
func Invalid(c *fiber.Ctx, err error) error {
	var formErr *forms.Error
	if errors.As(err, &formErr) && len(formErr.Messages) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  formErr.Messages[0],
			"errors": formErr.Messages,
		})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}
