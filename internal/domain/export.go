package domain

import "strconv"

// ExportRow is a flat, string-only view of a Place used by the CSV export.
// Absent optional fields are empty strings.
type ExportRow struct {
	ID               string
	Name             string
	Description      string
	Image            string
	Latitude         string
	Longitude        string
	Status           string
	PlannedDate      string
	VisitDate        string
	VisitDescription string
}

// ExportHeaders are the column names of an ExportRow, in Record order.
var ExportHeaders = []string{
	"id", "name", "description", "image", "latitude", "longitude",
	"status", "planned_date", "visit_date", "visit_description",
}

// NewExportRow flattens p.
func NewExportRow(p Place) ExportRow {
	return ExportRow{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		Image:            p.Image,
		Latitude:         strconv.FormatFloat(p.Coordinates.Latitude(), 'f', -1, 64),
		Longitude:        strconv.FormatFloat(p.Coordinates.Longitude(), 'f', -1, 64),
		Status:           string(p.Status),
		PlannedDate:      deref(p.PlannedDate),
		VisitDate:        deref(p.VisitDate),
		VisitDescription: deref(p.VisitDescription),
	}
}

// Record returns the row as a slice ordered like ExportHeaders.
func (r ExportRow) Record() []string {
	return []string{
		r.ID, r.Name, r.Description, r.Image, r.Latitude, r.Longitude,
		r.Status, r.PlannedDate, r.VisitDate, r.VisitDescription,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
