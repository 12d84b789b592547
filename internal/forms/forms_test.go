package forms

import (
	"testing"

	"github.com/effiwise/effimappro/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func messages(t *testing.T, err error) []string {
	t.Helper()
	require.Error(t, err)
	var fe *Error
	require.ErrorAs(t, err, &fe)
	return fe.Messages
}

func TestBranchForm(t *testing.T) {
	valid := BranchForm{
		Name:     "Denver",
		Address:  "1600 Broadway",
		Position: &model.Coordinates{39.74, -104.99},
	}
	require.NoError(t, valid.Validate())

	in := valid.Input()
	assert.Equal(t, "Denver", in.Name)
	assert.Equal(t, model.Coordinates{39.74, -104.99}, in.Coordinates)

	noPosition := valid
	noPosition.Position = nil
	assert.Equal(t, []string{MsgBranchIncomplete}, messages(t, noPosition.Validate()))

	noName := valid
	noName.Name = ""
	noName.Address = ""
	assert.Equal(t, []string{MsgBranchIncomplete}, messages(t, noName.Validate()))

	offMap := valid
	offMap.Position = &model.Coordinates{95, 0}
	assert.Equal(t, []string{MsgInvalidPosition}, messages(t, offMap.Validate()))
}

func TestRepresentativeForm(t *testing.T) {
	valid := RepresentativeForm{
		Name:      "Ann",
		Email:     "ann@effiwise.com",
		Phone:     "(650) 253-0000",
		BranchID:  "b1",
		Latitude:  ptr(39.7),
		Longitude: ptr(-105.0),
	}
	require.NoError(t, valid.Validate())

	in := valid.Input()
	assert.Equal(t, "+16502530000", in.Phone)
	assert.Equal(t, model.Coordinates{39.7, -105.0}, in.Coordinates)

	patch := valid.Patch()
	require.NotNil(t, patch.Phone)
	assert.Equal(t, "+16502530000", *patch.Phone)

	missing := valid
	missing.BranchID = ""
	missing.Latitude = nil
	assert.Equal(t, []string{MsgRepresentativeIncomplete}, messages(t, missing.Validate()))

	zero := valid
	zero.Latitude = ptr(0.0)
	assert.NoError(t, zero.Validate())

	badContact := valid
	badContact.Email = "not-an-email"
	badContact.Phone = "12345"
	assert.Equal(t, []string{MsgInvalidEmail, MsgInvalidPhone}, messages(t, badContact.Validate()))
}

func TestNormalizePhone(t *testing.T) {
	e164, err := NormalizePhone("+1 202-456-1111")
	require.NoError(t, err)
	assert.Equal(t, "+12024561111", e164)

	_, err = NormalizePhone("")
	assert.Error(t, err)
	_, err = NormalizePhone("call me")
	assert.Error(t, err)
}

func TestTerritoryForm(t *testing.T) {
	boundary := []model.Coordinates{{1, 1}, {1, 2}, {2, 2}}

	branchTerritory := TerritoryForm{Name: "North", Type: model.TerritoryBranch, BranchID: "b1", Coordinates: boundary}
	require.NoError(t, branchTerritory.Validate())
	assert.Equal(t, model.DefaultTerritoryColor, branchTerritory.Input().Color)

	repTerritory := TerritoryForm{Name: "Ann's", Type: model.TerritoryRepresentative, RepresentativeID: "r1", Coordinates: boundary}
	require.NoError(t, repTerritory.Validate())

	cases := []struct {
		name string
		form TerritoryForm
		want []string
	}{
		{"missing name", TerritoryForm{Type: model.TerritoryBranch, BranchID: "b1", Coordinates: boundary}, []string{MsgTerritoryName}},
		{"branch without branch", TerritoryForm{Name: "N", Type: model.TerritoryBranch, Coordinates: boundary}, []string{MsgTerritoryBranch}},
		{"representative without representative", TerritoryForm{Name: "N", Type: model.TerritoryRepresentative, BranchID: "b1", Coordinates: boundary}, []string{MsgTerritoryRepresentative}},
		{"no boundary", TerritoryForm{Name: "N", Type: model.TerritoryBranch, BranchID: "b1"}, []string{MsgTerritoryBoundary}},
		{"unknown type", TerritoryForm{Name: "N", Type: "region", Coordinates: boundary}, []string{MsgTerritoryType}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, messages(t, tc.form.Validate()))
		})
	}
}
