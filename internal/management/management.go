// Package management holds the lookups behind the management panel lists
// and dropdowns.
package management

import "github.com/effiwise/effimappro/model"

// Fallback labels for missing references
const (
	Unassigned            = "Unassigned"
	UnknownBranch         = "Unknown Branch"
	UnknownRepresentative = "Unknown Representative"
)

// AssignedName returns who a territory belongs to, chosen by its type
func AssignedName(t model.Territory, branches []model.Branch, reps []model.Representative) string {
	switch t.Type {
	case model.TerritoryBranch:
		for _, b := range branches {
			if b.ID == t.BranchID {
				return b.Name
			}
		}
		return UnknownBranch
	case model.TerritoryRepresentative:
		for _, r := range reps {
			if r.ID == t.RepresentativeID {
				return r.Name
			}
		}
		return UnknownRepresentative
	}
	return Unassigned
}

// BranchName returns the name of a representative's branch
func BranchName(rep model.Representative, branches []model.Branch) string {
	for _, b := range branches {
		if b.ID == rep.BranchID {
			return b.Name
		}
	}
	return Unassigned
}

// RepresentativesForBranch returns the representatives of one branch. An
// empty branch id yields an empty list.
func RepresentativesForBranch(reps []model.Representative, branchID string) []model.Representative {
	out := []model.Representative{}
	if branchID == "" {
		return out
	}
	for _, r := range reps {
		if r.BranchID == branchID {
			out = append(out, r)
		}
	}
	return out
}

// TerritoriesForBranch returns the territories of one branch
func TerritoriesForBranch(territories []model.Territory, branchID string) []model.Territory {
	out := []model.Territory{}
	for _, t := range territories {
		if t.BranchID == branchID {
			out = append(out, t)
		}
	}
	return out
}
