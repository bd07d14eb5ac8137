// Package domain contains the core data types for the Places API.
// This package has no dependency on any other internal package and is
// imported by every other internal package (repo, service, handler).
package domain

import (
	"strings"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// DefaultImage is the image reference assigned to a place created without one.
const DefaultImage = "assets/praia.jpg"

// DateFormat is the wire and storage layout of plannedDate and visitDate.
const DateFormat = openapi_types.DateFormat

// Status is the visit status of a place.
type Status string

const (
	StatusPlanned Status = "planned"
	StatusVisited Status = "visited"
)

// ParseStatus converts s into a Status.
// Returns a *ValidationError for anything other than "planned" or "visited".
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPlanned, StatusVisited:
		return Status(s), nil
	}
	return "", NewValidationError("status", `status must be "planned" or "visited"`)
}

// Coordinates is a [latitude, longitude] pair.
// It is a slice rather than a struct so that a payload with the wrong number
// of elements can be reported as a field violation instead of a decode error.
type Coordinates []float64

// NewCoordinates builds a Coordinates pair.
func NewCoordinates(lat, lng float64) Coordinates {
	return Coordinates{lat, lng}
}

// Latitude returns the first element, or 0 when the pair is malformed.
func (c Coordinates) Latitude() float64 {
	if len(c) != 2 {
		return 0
	}
	return c[0]
}

// Longitude returns the second element, or 0 when the pair is malformed.
func (c Coordinates) Longitude() float64 {
	if len(c) != 2 {
		return 0
	}
	return c[1]
}

// Valid reports whether c has exactly two elements within the latitude and
// longitude ranges.
func (c Coordinates) Valid() bool {
	return len(c) == 2 &&
		c[0] >= -90 && c[0] <= 90 &&
		c[1] >= -180 && c[1] <= 180
}

// Place is a geolocated point of interest that is either planned or visited.
//
// PlannedDate is only set while Status is planned; VisitDate and
// VisitDescription are only set while Status is visited. Nil means the field
// is absent, which is distinct from an empty string. Normalize enforces this.
type Place struct {
	ID               string      `json:"id" validate:"required,max=100,excludesall=/?#"`
	Name             string      `json:"name" validate:"required,max=200"`
	Description      string      `json:"description" validate:"required,max=1000"`
	Image            string      `json:"image"`
	Coordinates      Coordinates `json:"coordinates" validate:"required,len=2,latlng"`
	Status           Status      `json:"status" validate:"required,oneof=planned visited"`
	PlannedDate      *string     `json:"plannedDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	VisitDate        *string     `json:"visitDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	VisitDescription *string     `json:"visitDescription,omitempty" validate:"omitempty,max=1000"`
	CreatedAt        time.Time   `json:"-"`
	UpdatedAt        time.Time   `json:"-"`
}

// Normalize trims text fields, applies the status and image defaults, and
// clears the date fields that do not belong to the current status.
func (p *Place) Normalize() {
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	p.Image = strings.TrimSpace(p.Image)
	if p.Image == "" {
		p.Image = DefaultImage
	}
	if p.Status == "" {
		p.Status = StatusPlanned
	}

	p.PlannedDate = trimOptional(p.PlannedDate)
	p.VisitDate = trimOptional(p.VisitDate)
	p.VisitDescription = trimOptional(p.VisitDescription)

	switch p.Status {
	case StatusPlanned:
		p.VisitDate = nil
		p.VisitDescription = nil
	case StatusVisited:
		p.PlannedDate = nil
	}
}

// Validate checks every field constraint and returns a *ValidationError
// listing all violations, or nil.
func (p Place) Validate() error {
	return validateStruct(p)
}

// MarkVisited moves the place to the visited status.
// The input is validated first; on failure p is left unchanged.
func (p *Place) MarkVisited(in VisitInput) error {
	in.normalize()
	if err := validateStruct(in); err != nil {
		return err
	}
	p.Status = StatusVisited
	p.VisitDate = &in.VisitDate
	p.VisitDescription = &in.VisitDescription
	p.PlannedDate = nil
	return nil
}

// MarkPlanned moves the place to the planned status.
// The input is validated first; on failure p is left unchanged.
func (p *Place) MarkPlanned(in PlanInput) error {
	in.normalize()
	if err := validateStruct(in); err != nil {
		return err
	}
	p.Status = StatusPlanned
	p.PlannedDate = &in.PlannedDate
	p.VisitDate = nil
	p.VisitDescription = nil
	return nil
}

// VisitInput carries the fields required to mark a place as visited.
type VisitInput struct {
	VisitDate        string `json:"visitDate" validate:"required,datetime=2006-01-02"`
	VisitDescription string `json:"visitDescription" validate:"required,max=1000"`
}

func (in *VisitInput) normalize() {
	in.VisitDate = strings.TrimSpace(in.VisitDate)
	in.VisitDescription = strings.TrimSpace(in.VisitDescription)
}

// PlanInput carries the field required to mark a place as planned.
type PlanInput struct {
	PlannedDate string `json:"plannedDate" validate:"required,datetime=2006-01-02"`
}

func (in *PlanInput) normalize() {
	in.PlannedDate = strings.TrimSpace(in.PlannedDate)
}

// PlacePatch is a partial update. A nil field leaves the stored value
// unchanged. The id is deliberately not part of a patch.
type PlacePatch struct {
	Name             *string     `json:"name"`
	Description      *string     `json:"description"`
	Image            *string     `json:"image"`
	Coordinates      Coordinates `json:"coordinates"`
	Status           *Status     `json:"status"`
	PlannedDate      *string     `json:"plannedDate"`
	VisitDate        *string     `json:"visitDate"`
	VisitDescription *string     `json:"visitDescription"`
}

// Apply returns a copy of p with the non-nil patch fields applied and the
// result normalized. The caller is expected to Validate the result.
func (patch PlacePatch) Apply(p Place) Place {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.Coordinates != nil {
		p.Coordinates = append(Coordinates(nil), patch.Coordinates...)
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.PlannedDate != nil {
		p.PlannedDate = copyString(patch.PlannedDate)
	}
	if patch.VisitDate != nil {
		p.VisitDate = copyString(patch.VisitDate)
	}
	if patch.VisitDescription != nil {
		p.VisitDescription = copyString(patch.VisitDescription)
	}
	p.Normalize()
	return p
}

// trimOptional trims *s and maps an empty result to nil.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func copyString(s *string) *string {
	v := *s
	return &v
}
