package entities

import (
	"context"
	"errors"
	"time"

	"github.com/effiwise/effimappro/internal/management"
	"github.com/effiwise/effimappro/internal/store"
	"github.com/effiwise/effimappro/model"
)

// ErrNoSession is returned when a query runs without a signed-in session
var ErrNoSession = errors.New("authentication required")

func snapshot(ctx context.Context) (store.State, error) {
	st, ok := store.FromContext(ctx)
	if !ok {
		return store.State{}, ErrNoSession
	}
	return st.Snapshot(), nil
}

// ResolveBranches lists the branches loaded in the caller's session
func ResolveBranches(ctx context.Context) ([]map[string]interface{}, error) {
	state, err := snapshot(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]interface{}, 0, len(state.Branches))
	for _, b := range state.Branches {
		rows = append(rows, map[string]interface{}{
			"id":          b.ID,
			"name":        b.Name,
			"address":     b.Address,
			"contact":     b.Contact,
			"coordinates": point(b.Coordinates),
			"created_at":  stamp(b.CreatedAt),
			"updated_at":  stamp(b.UpdatedAt),
		})
	}
	return rows, nil
}

// ResolveRepresentatives lists representatives, all of them when branchID
// is empty
func ResolveRepresentatives(ctx context.Context, branchID string) ([]map[string]interface{}, error) {
	state, err := snapshot(ctx)
	if err != nil {
		return nil, err
	}

	reps := state.Representatives
	if branchID != "" {
		reps = management.RepresentativesForBranch(reps, branchID)
	}

	rows := make([]map[string]interface{}, 0, len(reps))
	for _, r := range reps {
		rows = append(rows, map[string]interface{}{
			"id":          r.ID,
			"name":        r.Name,
			"branch_id":   r.BranchID,
			"branch_name": management.BranchName(r, state.Branches),
			"email":       r.Email,
			"phone":       r.Phone,
			"coordinates": point(r.Coordinates),
			"created_at":  stamp(r.CreatedAt),
			"updated_at":  stamp(r.UpdatedAt),
		})
	}
	return rows, nil
}

// ResolveTerritories lists territories with the name of whoever they are
// assigned to
func ResolveTerritories(ctx context.Context, branchID string) ([]map[string]interface{}, error) {
	state, err := snapshot(ctx)
	if err != nil {
		return nil, err
	}

	territories := state.Territories
	if branchID != "" {
		territories = management.TerritoriesForBranch(territories, branchID)
	}

	rows := make([]map[string]interface{}, 0, len(territories))
	for _, t := range territories {
		boundary := make([][]float64, 0, len(t.Coordinates))
		for _, c := range t.Coordinates {
			boundary = append(boundary, point(c))
		}
		rows = append(rows, map[string]interface{}{
			"id":                t.ID,
			"name":              t.Name,
			"type":              string(t.Type),
			"color":             t.Color,
			"branch_id":         t.BranchID,
			"representative_id": t.RepresentativeID,
			"parent_id":         t.ParentID,
			"assigned_name":     management.AssignedName(t, state.Branches, state.Representatives),
			"coordinates":       boundary,
			"created_at":        stamp(t.CreatedAt),
			"updated_at":        stamp(t.UpdatedAt),
		})
	}
	return rows, nil
}

func point(c model.Coordinates) []float64 {
	return []float64{c.Lat(), c.Lng()}
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
