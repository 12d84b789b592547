package model

import "time"

// Branch is a physical office location.
type Branch struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Address     string      `json:"address"`
	Contact     string      `json:"contact"`
	Coordinates Coordinates `json:"coordinates"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// BranchInput holds the fields supplied when creating a branch.
type BranchInput struct {
	Name        string      `json:"name"`
	Address     string      `json:"address"`
	Contact     string      `json:"contact"`
	Coordinates Coordinates `json:"coordinates"`
}

// BranchPatch is a partial branch update. Nil fields are left unchanged.
type BranchPatch struct {
	Name        *string      `json:"name,omitempty"`
	Address     *string      `json:"address,omitempty"`
	Contact     *string      `json:"contact,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// Document returns the stored form of the input.
func (in BranchInput) Document() map[string]interface{} {
	return map[string]interface{}{
		"name":        in.Name,
		"address":     in.Address,
		"contact":     in.Contact,
		"coordinates": EncodeCoordinates(in.Coordinates),
	}
}

// Document returns the stored form of the set fields only.
func (p BranchPatch) Document() map[string]interface{} {
	doc := map[string]interface{}{}
	if p.Name != nil {
		doc["name"] = *p.Name
	}
	if p.Address != nil {
		doc["address"] = *p.Address
	}
	if p.Contact != nil {
		doc["contact"] = *p.Contact
	}
	if p.Coordinates != nil {
		doc["coordinates"] = EncodeCoordinates(*p.Coordinates)
	}
	return doc
}

// Apply merges the patch into a copy of the branch.
func (b Branch) Apply(p BranchPatch) Branch {
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.Address != nil {
		b.Address = *p.Address
	}
	if p.Contact != nil {
		b.Contact = *p.Contact
	}
	if p.Coordinates != nil {
		b.Coordinates = *p.Coordinates
	}
	return b
}

// DecodeBranch builds a Branch from a stored document.
func DecodeBranch(doc map[string]interface{}, now time.Time) Branch {
	return Branch{
		ID:          documentID(doc),
		Name:        stringField(doc, "name"),
		Address:     stringField(doc, "address"),
		Contact:     stringField(doc, "contact"),
		Coordinates: DecodeCoordinates(doc["coordinates"]),
		CreatedAt:   DecodeTimestamp(doc["createdAt"], now),
		UpdatedAt:   DecodeTimestamp(doc["updatedAt"], now),
	}
}
