package mapview

import (
	"encoding/json"
	"testing"

	"github.com/effiwise/effimappro/model"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(lat, lng, size float64) []model.Coordinates {
	return []model.Coordinates{
		{lat, lng},
		{lat, lng + size},
		{lat + size, lng + size},
		{lat + size, lng},
	}
}

func fixture() Input {
	return Input{
		Branches: []model.Branch{
			{ID: "b1", Name: "Denver", Coordinates: model.Coordinates{39.74, -104.99}},
			{ID: "b2", Name: "Austin", Coordinates: model.Coordinates{30.27, -97.74}},
		},
		Representatives: []model.Representative{
			{ID: "r1", Name: "Ann", BranchID: "b1", Coordinates: model.Coordinates{39.7, -105}},
			{ID: "r2", Name: "Bob", BranchID: "b2", Coordinates: model.Coordinates{30.2, -97.7}},
		},
		Territories: []model.Territory{
			{ID: "t1", Name: "Front Range", Type: model.TerritoryBranch, BranchID: "b1", Color: "#ff0000", Coordinates: square(39, -106, 2)},
			{ID: "t2", Name: "Ann's patch", Type: model.TerritoryRepresentative, BranchID: "b1", RepresentativeID: "r1", Coordinates: square(39.5, -105.5, 0.5)},
			{ID: "t3", Name: "Hill Country", Type: model.TerritoryBranch, BranchID: "b2", Coordinates: square(30, -98, 1)},
		},
	}
}

func TestBuildWithoutSelection(t *testing.T) {
	view := Build(fixture(), "")

	assert.Equal(t, DefaultCenter, view.Center)
	assert.Equal(t, DefaultZoom, view.Zoom)
	assert.Len(t, view.Features.Features, 7)
}

func TestBuildWithSelectedBranch(t *testing.T) {
	view := Build(fixture(), "b1")

	assert.Equal(t, model.Coordinates{39.74, -104.99}, view.Center)
	assert.Equal(t, SelectedZoom, view.Zoom)

	kinds := map[string]int{}
	for _, f := range view.Features.Features {
		kinds[f.Properties["kind"].(string)]++
	}
	assert.Equal(t, map[string]int{KindTerritory: 2, KindBranch: 1, KindRepresentative: 1}, kinds)
}

func TestBuildUnknownBranchKeepsDefaultView(t *testing.T) {
	view := Build(fixture(), "gone")

	assert.Equal(t, DefaultCenter, view.Center)
	assert.Equal(t, DefaultZoom, view.Zoom)
	assert.Empty(t, view.Features.Features)
}

func TestTerritoryFeatureStyle(t *testing.T) {
	view := Build(fixture(), "b1")

	byID := map[interface{}]map[string]interface{}{}
	for _, f := range view.Features.Features {
		byID[f.ID] = f.Properties
	}

	assert.Equal(t, "#ff0000", byID["t1"]["color"])
	assert.Equal(t, 3, byID["t1"]["weight"])
	assert.Equal(t, 0.3, byID["t1"]["fillOpacity"])
	assert.Equal(t, 2, byID["t2"]["weight"])
	assert.Equal(t, 0.1, byID["t2"]["fillOpacity"])
	assert.Equal(t, model.DefaultTerritoryColor, byID["t2"]["color"])
}

func TestBuildIsValidGeoJSON(t *testing.T) {
	view := Build(fixture(), "b2")

	raw, err := json.Marshal(view)
	require.NoError(t, err)

	var decoded struct {
		Center   [2]float64 `json:"center"`
		Features struct {
			Type     string `json:"type"`
			Features []struct {
				Geometry struct {
					Type        string          `json:"type"`
					Coordinates json.RawMessage `json:"coordinates"`
				} `json:"geometry"`
			} `json:"features"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "FeatureCollection", decoded.Features.Type)
	require.NotEmpty(t, decoded.Features.Features)
	assert.Equal(t, "Polygon", decoded.Features.Features[0].Geometry.Type)
	// GeoJSON positions are [lng, lat]
	assert.Contains(t, string(decoded.Features.Features[0].Geometry.Coordinates), "[[[-98,30]")
}

func TestDrawnTerritory(t *testing.T) {
	poly := orb.Polygon{{{-105, 39}, {-104, 39}, {-104, 40}, {-105, 39}}}

	in, err := DrawnTerritory(poly, "b1")
	require.NoError(t, err)
	assert.Equal(t, NewTerritoryName, in.Name)
	assert.Equal(t, model.TerritoryBranch, in.Type)
	assert.Equal(t, model.DefaultTerritoryColor, in.Color)
	assert.Equal(t, "b1", in.BranchID)
	assert.Equal(t, []model.Coordinates{{39, -105}, {39, -104}, {40, -104}}, in.Coordinates)

	rect, err := DrawnTerritory(orb.Bound{Min: orb.Point{-105, 39}, Max: orb.Point{-104, 40}}, "")
	require.NoError(t, err)
	assert.Len(t, rect.Coordinates, 4)
	assert.Empty(t, rect.BranchID)

	_, err = DrawnTerritory(orb.Point{-105, 39}, "b1")
	assert.ErrorIs(t, err, ErrInvalidShape)

	_, err = DrawnTerritory(orb.Polygon{{{-105, 39}, {-104, 39}}}, "b1")
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestLocate(t *testing.T) {
	territories := fixture().Territories

	hits := Locate(territories, model.Coordinates{39.7, -105.2})
	ids := []string{}
	for _, h := range hits {
		ids = append(ids, h.ID)
	}
	assert.ElementsMatch(t, []string{"t1", "t2"}, ids)

	assert.Empty(t, Locate(territories, model.Coordinates{45, -120}))
	assert.Empty(t, Locate([]model.Territory{{ID: "empty"}}, model.Coordinates{0, 0}))
}

func TestBounds(t *testing.T) {
	_, ok := Bounds(nil)
	assert.False(t, ok)

	b, ok := Bounds(fixture().Territories)
	require.True(t, ok)
	assert.Equal(t, orb.Point{-106, 30}, b.Min)
	assert.Equal(t, orb.Point{-97, 41}, b.Max)
}

func TestBuildFitsBoundsToShownTerritories(t *testing.T) {
	view := Build(fixture(), "")
	require.NotNil(t, view.Bounds)
	assert.Equal(t, [2]model.Coordinates{{30, -106}, {41, -97}}, *view.Bounds)

	empty := Build(Input{Branches: fixture().Branches}, "")
	assert.Nil(t, empty.Bounds)
}
