// Package mapview turns the loaded entities into what the map renders:
// a GeoJSON feature collection, the view center and zoom, drawn-shape
// conversion and point-in-territory lookup.
package mapview

import (
	"errors"

	"github.com/effiwise/effimappro/model"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// Default view when no branch is selected: the geographic center of the
// contiguous United States.
var DefaultCenter = model.Coordinates{39.8283, -98.5795}

// Zoom levels
const (
	DefaultZoom  = 4
	SelectedZoom = 12
)

// NewTerritoryName is given to every territory created from a drawn shape.
const NewTerritoryName = "New Territory"

// Feature kinds
const (
	KindTerritory      = "territory"
	KindBranch         = "branch"
	KindRepresentative = "representative"
)

// ErrInvalidShape is returned for drawn shapes that cannot form a territory.
var ErrInvalidShape = errors.New("drawn shape must be a polygon or rectangle")

// Style is how a territory outline is drawn
type Style struct {
	Color       string  `json:"color"`
	Weight      int     `json:"weight"`
	FillOpacity float64 `json:"fillOpacity"`
}

// TerritoryStyle returns the outline style for a territory. Branch
// territories are drawn heavier than representative ones.
func TerritoryStyle(t model.Territory) Style {
	color := t.Color
	if color == "" {
		color = model.DefaultTerritoryColor
	}
	if t.Type == model.TerritoryRepresentative {
		return Style{Color: color, Weight: 2, FillOpacity: 0.1}
	}
	return Style{Color: color, Weight: 3, FillOpacity: 0.3}
}

// Input is the subset of application state the map reads
type Input struct {
	Branches        []model.Branch
	Representatives []model.Representative
	Territories     []model.Territory
}

// View is the rendered map
type View struct {
	Center model.Coordinates `json:"center"`
	Zoom   int               `json:"zoom"`
	// Bounds is [[south, west], [north, east]] around the rendered
	// territories, for fitting the view; nil when none are shown.
	Bounds   *[2]model.Coordinates      `json:"bounds,omitempty"`
	Features *geojson.FeatureCollection `json:"features"`
}

// Build renders the map. With a branch selected only that branch, its
// representatives and its territories are included and the view centers on
// the branch.
func Build(in Input, selectedBranchID string) View {
	view := View{
		Center:   DefaultCenter,
		Zoom:     DefaultZoom,
		Features: geojson.NewFeatureCollection(),
	}

	shown := make([]model.Territory, 0, len(in.Territories))
	for _, t := range in.Territories {
		if selectedBranchID != "" && t.BranchID != selectedBranchID {
			continue
		}
		shown = append(shown, t)
		view.Features.Append(territoryFeature(t))
	}
	if bound, ok := Bounds(shown); ok {
		view.Bounds = &[2]model.Coordinates{
			{bound.Min.Lat(), bound.Min.Lon()},
			{bound.Max.Lat(), bound.Max.Lon()},
		}
	}

	for _, b := range in.Branches {
		if selectedBranchID != "" && b.ID != selectedBranchID {
			continue
		}
		f := geojson.NewFeature(toPoint(b.Coordinates))
		f.ID = b.ID
		f.Properties["kind"] = KindBranch
		f.Properties["name"] = b.Name
		f.Properties["address"] = b.Address
		f.Properties["contact"] = b.Contact
		view.Features.Append(f)

		if b.ID == selectedBranchID {
			view.Center = b.Coordinates
			view.Zoom = SelectedZoom
		}
	}

	for _, r := range in.Representatives {
		if selectedBranchID != "" && r.BranchID != selectedBranchID {
			continue
		}
		f := geojson.NewFeature(toPoint(r.Coordinates))
		f.ID = r.ID
		f.Properties["kind"] = KindRepresentative
		f.Properties["name"] = r.Name
		f.Properties["email"] = r.Email
		f.Properties["phone"] = r.Phone
		view.Features.Append(f)
	}

	return view
}

func territoryFeature(t model.Territory) *geojson.Feature {
	style := TerritoryStyle(t)

	f := geojson.NewFeature(toPolygon(t.Coordinates))
	f.ID = t.ID
	f.Properties["kind"] = KindTerritory
	f.Properties["name"] = t.Name
	f.Properties["type"] = string(t.Type)
	f.Properties["color"] = style.Color
	f.Properties["weight"] = style.Weight
	f.Properties["fillOpacity"] = style.FillOpacity
	if t.BranchID != "" {
		f.Properties["branchId"] = t.BranchID
	}
	if t.RepresentativeID != "" {
		f.Properties["representativeId"] = t.RepresentativeID
	}
	return f
}

// DrawnTerritory converts a shape drawn on the map into a new territory
// input. Only polygons and rectangles (bounds) are accepted.
func DrawnTerritory(shape orb.Geometry, selectedBranchID string) (model.TerritoryInput, error) {
	var ring orb.Ring
	switch g := shape.(type) {
	case orb.Polygon:
		if len(g) > 0 {
			ring = g[0]
		}
	case orb.Bound:
		ring = g.ToRing()
	case orb.Ring:
		ring = g
	default:
		return model.TerritoryInput{}, ErrInvalidShape
	}

	boundary := fromRing(ring)
	if len(boundary) < 3 {
		return model.TerritoryInput{}, ErrInvalidShape
	}

	return model.TerritoryInput{
		Name:        NewTerritoryName,
		Type:        model.TerritoryBranch,
		Coordinates: boundary,
		Color:       model.DefaultTerritoryColor,
		BranchID:    selectedBranchID,
	}, nil
}

// Locate returns the territories whose boundary contains the point
func Locate(territories []model.Territory, point model.Coordinates) []model.Territory {
	pt := toPoint(point)
	hits := []model.Territory{}
	for _, t := range territories {
		poly := toPolygon(t.Coordinates)
		if len(poly) == 0 || len(poly[0]) < 4 {
			continue
		}
		if !poly.Bound().Contains(pt) {
			continue
		}
		if planar.PolygonContains(poly, pt) {
			hits = append(hits, t)
		}
	}
	return hits
}

// Bounds returns the box enclosing every territory boundary, and false when
// there is nothing to enclose.
func Bounds(territories []model.Territory) (orb.Bound, bool) {
	var bound orb.Bound
	found := false
	for _, t := range territories {
		for _, c := range t.Coordinates {
			p := toPoint(c)
			if !found {
				bound = p.Bound()
				found = true
				continue
			}
			bound = bound.Extend(p)
		}
	}
	return bound, found
}

// toPoint converts [lat, lng] into an orb point, which is [lng, lat]
func toPoint(c model.Coordinates) orb.Point {
	return orb.Point{c.Lng(), c.Lat()}
}

// toPolygon closes the boundary ring as GeoJSON requires
func toPolygon(boundary []model.Coordinates) orb.Polygon {
	if len(boundary) == 0 {
		return orb.Polygon{}
	}
	ring := make(orb.Ring, 0, len(boundary)+1)
	for _, c := range boundary {
		ring = append(ring, toPoint(c))
	}
	if !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return orb.Polygon{ring}
}

// fromRing converts a ring back to [lat, lng] pairs without the closing point
func fromRing(ring orb.Ring) []model.Coordinates {
	if len(ring) > 1 && ring.Closed() {
		ring = ring[:len(ring)-1]
	}
	out := make([]model.Coordinates, 0, len(ring))
	for _, p := range ring {
		out = append(out, model.Coordinates{p.Lat(), p.Lon()})
	}
	return out
}
