package model

import "time"

// Representative is a salesperson assigned to one branch.
type Representative struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	BranchID    string      `json:"branchId"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	Coordinates Coordinates `json:"coordinates"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// RepresentativeInput holds the fields supplied when creating a representative.
type RepresentativeInput struct {
	Name        string      `json:"name"`
	BranchID    string      `json:"branchId"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	Coordinates Coordinates `json:"coordinates"`
}

// RepresentativePatch is a partial representative update.
type RepresentativePatch struct {
	Name        *string      `json:"name,omitempty"`
	BranchID    *string      `json:"branchId,omitempty"`
	Email       *string      `json:"email,omitempty"`
	Phone       *string      `json:"phone,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// Document returns the stored form of the input.
func (in RepresentativeInput) Document() map[string]interface{} {
	return map[string]interface{}{
		"name":        in.Name,
		"branchId":    in.BranchID,
		"email":       in.Email,
		"phone":       in.Phone,
		"coordinates": EncodeCoordinates(in.Coordinates),
	}
}

// Document returns the stored form of the set fields only.
func (p RepresentativePatch) Document() map[string]interface{} {
	doc := map[string]interface{}{}
	if p.Name != nil {
		doc["name"] = *p.Name
	}
	if p.BranchID != nil {
		doc["branchId"] = *p.BranchID
	}
	if p.Email != nil {
		doc["email"] = *p.Email
	}
	if p.Phone != nil {
		doc["phone"] = *p.Phone
	}
	if p.Coordinates != nil {
		doc["coordinates"] = EncodeCoordinates(*p.Coordinates)
	}
	return doc
}

// Apply merges the patch into a copy of the representative.
func (r Representative) Apply(p RepresentativePatch) Representative {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.BranchID != nil {
		r.BranchID = *p.BranchID
	}
	if p.Email != nil {
		r.Email = *p.Email
	}
	if p.Phone != nil {
		r.Phone = *p.Phone
	}
	if p.Coordinates != nil {
		r.Coordinates = *p.Coordinates
	}
	return r
}

// DecodeRepresentative builds a Representative from a stored document.
func DecodeRepresentative(doc map[string]interface{}, now time.Time) Representative {
	return Representative{
		ID:          documentID(doc),
		Name:        stringField(doc, "name"),
		BranchID:    stringField(doc, "branchId"),
		Email:       stringField(doc, "email"),
		Phone:       stringField(doc, "phone"),
		Coordinates: DecodeCoordinates(doc["coordinates"]),
		CreatedAt:   DecodeTimestamp(doc["createdAt"], now),
		UpdatedAt:   DecodeTimestamp(doc["updatedAt"], now),
	}
}
