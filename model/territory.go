package model

import "time"

// TerritoryType says whether a territory belongs to a branch or a representative.
type TerritoryType string

// Territory types
const (
	TerritoryBranch         TerritoryType = "branch"
	TerritoryRepresentative TerritoryType = "representative"
)

// DefaultTerritoryColor is used when a territory has no color.
const DefaultTerritoryColor = "#3B82F6"

// Territory is a polygonal boundary assigned to a branch or representative.
type Territory struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Type             TerritoryType `json:"type"`
	Coordinates      []Coordinates `json:"coordinates"`
	Color            string        `json:"color"`
	BranchID         string        `json:"branchId,omitempty"`
	RepresentativeID string        `json:"representativeId,omitempty"`
	ParentID         string        `json:"parentId,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// TerritoryInput holds the fields supplied when creating a territory.
type TerritoryInput struct {
	Name             string        `json:"name"`
	Type             TerritoryType `json:"type"`
	Coordinates      []Coordinates `json:"coordinates"`
	Color            string        `json:"color"`
	BranchID         string        `json:"branchId,omitempty"`
	RepresentativeID string        `json:"representativeId,omitempty"`
	ParentID         string        `json:"parentId,omitempty"`
}

// TerritoryPatch is a partial territory update.
type TerritoryPatch struct {
	Name             *string        `json:"name,omitempty"`
	Type             *TerritoryType `json:"type,omitempty"`
	Coordinates      *[]Coordinates `json:"coordinates,omitempty"`
	Color            *string        `json:"color,omitempty"`
	BranchID         *string        `json:"branchId,omitempty"`
	RepresentativeID *string        `json:"representativeId,omitempty"`
	ParentID         *string        `json:"parentId,omitempty"`
}

// Document returns the stored form of the input. Empty optional references
// are omitted and an empty color falls back to the default.
func (in TerritoryInput) Document() map[string]interface{} {
	color := in.Color
	if color == "" {
		color = DefaultTerritoryColor
	}
	typ := in.Type
	if typ == "" {
		typ = TerritoryBranch
	}
	doc := map[string]interface{}{
		"name":        in.Name,
		"type":        string(typ),
		"coordinates": EncodeBoundary(in.Coordinates),
		"color":       color,
	}
	if in.BranchID != "" {
		doc["branchId"] = in.BranchID
	}
	if in.RepresentativeID != "" {
		doc["representativeId"] = in.RepresentativeID
	}
	if in.ParentID != "" {
		doc["parentId"] = in.ParentID
	}
	return doc
}

// Input returns the creatable fields of a territory.
func (t Territory) Input() TerritoryInput {
	return TerritoryInput{
		Name:             t.Name,
		Type:             t.Type,
		Coordinates:      t.Coordinates,
		Color:            t.Color,
		BranchID:         t.BranchID,
		RepresentativeID: t.RepresentativeID,
		ParentID:         t.ParentID,
	}
}

// Document returns the stored form of the set fields only.
func (p TerritoryPatch) Document() map[string]interface{} {
	doc := map[string]interface{}{}
	if p.Name != nil {
		doc["name"] = *p.Name
	}
	if p.Type != nil {
		doc["type"] = string(*p.Type)
	}
	if p.Coordinates != nil {
		doc["coordinates"] = EncodeBoundary(*p.Coordinates)
	}
	if p.Color != nil {
		doc["color"] = *p.Color
	}
	if p.BranchID != nil {
		doc["branchId"] = *p.BranchID
	}
	if p.RepresentativeID != nil {
		doc["representativeId"] = *p.RepresentativeID
	}
	if p.ParentID != nil {
		doc["parentId"] = *p.ParentID
	}
	return doc
}

// Apply merges the patch into a copy of the territory.
func (t Territory) Apply(p TerritoryPatch) Territory {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Coordinates != nil {
		t.Coordinates = append([]Coordinates(nil), (*p.Coordinates)...)
	}
	if p.Color != nil {
		t.Color = *p.Color
	}
	if p.BranchID != nil {
		t.BranchID = *p.BranchID
	}
	if p.RepresentativeID != nil {
		t.RepresentativeID = *p.RepresentativeID
	}
	if p.ParentID != nil {
		t.ParentID = *p.ParentID
	}
	return t
}

// DecodeTerritory builds a Territory from a stored document, applying the
// branch type and default color when they are missing.
func DecodeTerritory(doc map[string]interface{}, now time.Time) Territory {
	typ := TerritoryType(stringField(doc, "type"))
	if typ == "" {
		typ = TerritoryBranch
	}
	color := stringField(doc, "color")
	if color == "" {
		color = DefaultTerritoryColor
	}
	return Territory{
		ID:               documentID(doc),
		Name:             stringField(doc, "name"),
		Type:             typ,
		Coordinates:      DecodeBoundary(doc["coordinates"]),
		Color:            color,
		BranchID:         stringField(doc, "branchId"),
		RepresentativeID: stringField(doc, "representativeId"),
		ParentID:         stringField(doc, "parentId"),
		CreatedAt:        DecodeTimestamp(doc["createdAt"], now),
		UpdatedAt:        DecodeTimestamp(doc["updatedAt"], now),
	}
}
