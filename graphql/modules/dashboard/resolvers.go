// Package dashboard implements the resolvers for dashboard metrics.
package dashboard

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/effiwise/effimappro/internal/store"
	"github.com/effiwise/effimappro/model"
)

// DefaultActivityLimit is the size of the dashboard activity feed
const DefaultActivityLimit = 5

// ErrNoSession is returned when a query runs without a signed-in session
var ErrNoSession = errors.New("authentication required")

// RecentActivities reads the newest entries of the activity log
type RecentActivities interface {
	GetRecent(ctx context.Context, limit int) ([]model.Activity, error)
}

// CoverageRate is the ratio of territories to branches as a percentage,
// capped at 100. It is 0 while either collection is empty.
func CoverageRate(branches, territories int) int {
	if branches == 0 || territories == 0 {
		return 0
	}
	rate := math.Round(float64(territories) / float64(branches) * 100)
	return int(math.Min(100, rate))
}

// ResolveOverview counts the collections loaded in the caller's session
func ResolveOverview(ctx context.Context) (interface{}, error) {
	st, ok := store.FromContext(ctx)
	if !ok {
		return nil, ErrNoSession
	}
	state := st.Snapshot()

	return map[string]interface{}{
		"total_branches":        len(state.Branches),
		"total_representatives": len(state.Representatives),
		"total_territories":     len(state.Territories),
		"coverage_rate":         CoverageRate(len(state.Branches), len(state.Territories)),
	}, nil
}

// ResolveRecentActivities returns the newest activities first
func ResolveRecentActivities(ctx context.Context, activities RecentActivities, limit int) ([]map[string]interface{}, error) {
	if _, ok := store.FromContext(ctx); !ok {
		return nil, ErrNoSession
	}
	if limit <= 0 {
		limit = DefaultActivityLimit
	}

	recent, err := activities.GetRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]interface{}, 0, len(recent))
	for _, a := range recent {
		rows = append(rows, map[string]interface{}{
			"id":          a.ID,
			"type":        string(a.Type),
			"entity_type": string(a.EntityType),
			"entity_id":   a.EntityID,
			"entity_name": a.EntityName,
			"user_id":     a.UserID,
			"user_email":  a.UserEmail,
			"timestamp":   a.Timestamp.UTC().Format(time.RFC3339),
			"details":     a.Details,
		})
	}
	return rows, nil
}
