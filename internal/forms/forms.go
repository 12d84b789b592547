// Package forms validates the branch, representative and territory forms
// before they reach the store.
package forms

import (
	"errors"
	"fmt"
	"strings"

	"github.com/effiwise/effimappro/model"
	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used to parse phone numbers written without a country code.
const DefaultRegion = "US"

// Form messages
const (
	MsgBranchIncomplete         = "Please fill in all fields and set a location on the map."
	MsgRepresentativeIncomplete = "Please fill in all fields."
	MsgInvalidEmail             = "Please enter a valid email address."
	MsgInvalidPhone             = "Please enter a valid phone number."
	MsgInvalidPosition          = "Please set a valid location on the map."
	MsgTerritoryName            = "Please provide a name for the territory."
	MsgTerritoryBranch          = "Please select a branch."
	MsgTerritoryRepresentative  = "Please select a representative."
	MsgTerritoryBoundary        = "Please draw the territory boundaries on the map."
	MsgTerritoryType            = "Please choose a territory type."
)

// Error lists the messages of every failed rule
type Error struct {
	Messages []string `json:"messages"`
}

func (e *Error) Error() string {
	return strings.Join(e.Messages, " ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		_, err := NormalizePhone(fl.Field().String())
		return err == nil
	})
	return v
}

// NormalizePhone parses a phone number and returns it in E.164 form
func NormalizePhone(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", errors.New("phone number cannot be empty")
	}
	parsed, err := phonenumbers.Parse(raw, DefaultRegion)
	if err != nil {
		return "", fmt.Errorf("failed to parse phone number: %w", err)
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return "", fmt.Errorf("invalid phone number %q", raw)
	}
	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}

// check runs the struct rules and maps each failure through message. A
// message repeated by several fields is reported once.
func check(form interface{}, message func(validator.FieldError) string) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := &Error{}
	seen := map[string]bool{}
	for _, fe := range fieldErrs {
		msg := message(fe)
		if !seen[msg] {
			seen[msg] = true
			out.Messages = append(out.Messages, msg)
		}
	}
	return out
}

// BranchForm is the branch editor
type BranchForm struct {
	Name     string             `json:"name" validate:"required"`
	Address  string             `json:"address" validate:"required"`
	Contact  string             `json:"contact"`
	Position *model.Coordinates `json:"coordinates" validate:"required"`
}

// Validate checks the branch form
func (f BranchForm) Validate() error {
	if err := check(f, func(validator.FieldError) string { return MsgBranchIncomplete }); err != nil {
		return err
	}
	if !validPosition(*f.Position) {
		return &Error{Messages: []string{MsgInvalidPosition}}
	}
	return nil
}

// Input returns the branch to create. Call Validate first.
func (f BranchForm) Input() model.BranchInput {
	in := model.BranchInput{Name: f.Name, Address: f.Address, Contact: f.Contact}
	if f.Position != nil {
		in.Coordinates = *f.Position
	}
	return in
}

// Patch returns a full-form update
func (f BranchForm) Patch() model.BranchPatch {
	in := f.Input()
	return model.BranchPatch{
		Name:        &in.Name,
		Address:     &in.Address,
		Contact:     &in.Contact,
		Coordinates: &in.Coordinates,
	}
}

// RepresentativeForm is the representative editor. Every field is required.
type RepresentativeForm struct {
	Name      string   `json:"name" validate:"required"`
	Email     string   `json:"email" validate:"required,email"`
	Phone     string   `json:"phone" validate:"required,phone"`
	BranchID  string   `json:"branchId" validate:"required"`
	Latitude  *float64 `json:"latitude" validate:"required"`
	Longitude *float64 `json:"longitude" validate:"required"`
}

// Validate checks the representative form
func (f RepresentativeForm) Validate() error {
	if err := check(f, func(fe validator.FieldError) string {
		switch fe.Tag() {
		case "email":
			return MsgInvalidEmail
		case "phone":
			return MsgInvalidPhone
		}
		return MsgRepresentativeIncomplete
	}); err != nil {
		return err
	}
	if !validPosition(model.Coordinates{*f.Latitude, *f.Longitude}) {
		return &Error{Messages: []string{MsgInvalidPosition}}
	}
	return nil
}

// Input returns the representative to create with the phone in E.164.
// Call Validate first.
func (f RepresentativeForm) Input() model.RepresentativeInput {
	phone, err := NormalizePhone(f.Phone)
	if err != nil {
		phone = f.Phone
	}
	in := model.RepresentativeInput{
		Name:     f.Name,
		BranchID: f.BranchID,
		Email:    strings.TrimSpace(f.Email),
		Phone:    phone,
	}
	if f.Latitude != nil && f.Longitude != nil {
		in.Coordinates = model.Coordinates{*f.Latitude, *f.Longitude}
	}
	return in
}

// Patch returns a full-form update
func (f RepresentativeForm) Patch() model.RepresentativePatch {
	in := f.Input()
	return model.RepresentativePatch{
		Name:        &in.Name,
		BranchID:    &in.BranchID,
		Email:       &in.Email,
		Phone:       &in.Phone,
		Coordinates: &in.Coordinates,
	}
}

// TerritoryForm is the territory editor
type TerritoryForm struct {
	Name             string              `json:"name" validate:"required"`
	Type             model.TerritoryType `json:"type" validate:"required,oneof=branch representative"`
	BranchID         string              `json:"branchId" validate:"required_if=Type branch"`
	RepresentativeID string              `json:"representativeId" validate:"required_if=Type representative"`
	Coordinates      []model.Coordinates `json:"coordinates" validate:"min=1"`
	Color            string              `json:"color"`
	ParentID         string              `json:"parentId"`
}

// Validate checks the territory form
func (f TerritoryForm) Validate() error {
	return check(f, func(fe validator.FieldError) string {
		switch fe.Field() {
		case "Name":
			return MsgTerritoryName
		case "Type":
			return MsgTerritoryType
		case "BranchID":
			return MsgTerritoryBranch
		case "RepresentativeID":
			return MsgTerritoryRepresentative
		}
		return MsgTerritoryBoundary
	})
}

// Input returns the territory to create. Call Validate first.
func (f TerritoryForm) Input() model.TerritoryInput {
	color := f.Color
	if color == "" {
		color = model.DefaultTerritoryColor
	}
	return model.TerritoryInput{
		Name:             f.Name,
		Type:             f.Type,
		Coordinates:      f.Coordinates,
		Color:            color,
		BranchID:         f.BranchID,
		RepresentativeID: f.RepresentativeID,
		ParentID:         f.ParentID,
	}
}

// Patch returns a full-form update
func (f TerritoryForm) Patch() model.TerritoryPatch {
	in := f.Input()
	return model.TerritoryPatch{
		Name:             &in.Name,
		Type:             &in.Type,
		Coordinates:      &in.Coordinates,
		Color:            &in.Color,
		BranchID:         &in.BranchID,
		RepresentativeID: &in.RepresentativeID,
		ParentID:         &in.ParentID,
	}
}

func validPosition(c model.Coordinates) bool {
	return c.Lat() >= -90 && c.Lat() <= 90 && c.Lng() >= -180 && c.Lng() <= 180
}
