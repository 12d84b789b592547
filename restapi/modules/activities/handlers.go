// Package activities provides the REST handler for the activity feed.
package activities

import (
	"context"

	"github.com/effiwise/effimappro/model"
	"github.com/effiwise/effimappro/util"
	"github.com/gofiber/fiber/v2"
)

const (
	// DefaultLimit is the number of entries returned without ?limit=
	DefaultLimit = 5
	// MaxLimit caps a single page of the feed
	MaxLimit = 100
)

// Recent reads the newest entries of the activity log
type Recent interface {
	GetRecent(ctx context.Context, limit int) ([]model.Activity, error)
}

// ListRecent returns the newest activities first
func ListRecent(activities Recent) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := util.ParseLimit(c.Query("limit"), DefaultLimit, MaxLimit)

		recent, err := activities.GetRecent(c.UserContext(), limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch activities"})
		}
		return c.JSON(recent)
	}
}
