package domain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/places-api/internal/domain"
)

func strPtr(s string) *string { return &s }

// placeFixture returns a valid, normalized planned place.
func placeFixture() domain.Place {
	p := domain.Place{
		ID:          "place-1",
		Name:        "Praia do Forte",
		Description: "Beach north of Salvador",
		Coordinates: domain.NewCoordinates(-12.57, -38.0),
		PlannedDate: strPtr("2025-07-01"),
	}
	p.Normalize()
	return p
}

// fieldNames extracts the Field of every violation in err.
func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	names := make([]string, len(verr.Fields))
	for i, f := range verr.Fields {
		names[i] = f.Field
	}
	return names
}

func TestPlace_Normalize_Defaults(t *testing.T) {
	p := domain.Place{Name: "  Lisbon  ", Description: " Old town ", Coordinates: domain.NewCoordinates(38.7, -9.1)}

	p.Normalize()

	assert.Equal(t, "Lisbon", p.Name)
	assert.Equal(t, "Old town", p.Description)
	assert.Equal(t, domain.StatusPlanned, p.Status)
	assert.Equal(t, domain.DefaultImage, p.Image)
}

func TestPlace_Normalize_ClearsFieldsOfOtherStatus(t *testing.T) {
	planned := domain.Place{
		Status:           domain.StatusPlanned,
		PlannedDate:      strPtr("2025-01-01"),
		VisitDate:        strPtr("2024-12-01"),
		VisitDescription: strPtr("stale"),
	}
	planned.Normalize()
	assert.NotNil(t, planned.PlannedDate)
	assert.Nil(t, planned.VisitDate)
	assert.Nil(t, planned.VisitDescription)

	visited := domain.Place{
		Status:           domain.StatusVisited,
		PlannedDate:      strPtr("2025-01-01"),
		VisitDate:        strPtr("2024-12-01"),
		VisitDescription: strPtr("great"),
	}
	visited.Normalize()
	assert.Nil(t, visited.PlannedDate)
	assert.Equal(t, "2024-12-01", *visited.VisitDate)
	assert.Equal(t, "great", *visited.VisitDescription)
}

func TestPlace_Normalize_BlankOptionalBecomesAbsent(t *testing.T) {
	p := domain.Place{Status: domain.StatusVisited, VisitDescription: strPtr("   ")}

	p.Normalize()

	assert.Nil(t, p.VisitDescription)
}

func TestPlace_Validate_OK(t *testing.T) {
	assert.NoError(t, placeFixture().Validate())
}

func TestPlace_Validate_CoordinateRanges(t *testing.T) {
	cases := []struct {
		name  string
		coord domain.Coordinates
		ok    bool
	}{
		{"origin", domain.NewCoordinates(0, 0), true},
		{"north pole", domain.NewCoordinates(90, 0), true},
		{"south pole", domain.NewCoordinates(-90, 0), true},
		{"antimeridian east", domain.NewCoordinates(0, 180), true},
		{"antimeridian west", domain.NewCoordinates(0, -180), true},
		{"latitude too high", domain.NewCoordinates(90.0001, 0), false},
		{"latitude too low", domain.NewCoordinates(-91, 0), false},
		{"longitude too high", domain.NewCoordinates(0, 180.5), false},
		{"longitude too low", domain.NewCoordinates(0, -181), false},
		{"one element", domain.Coordinates{10}, false},
		{"three elements", domain.Coordinates{10, 20, 30}, false},
		{"empty", domain.Coordinates{}, false},
		{"missing", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := placeFixture()
			p.Coordinates = tc.coord

			err := p.Validate()

			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Equal(t, []string{"coordinates"}, fieldNames(t, err))
		})
	}
}

func TestPlace_Validate_CollectsAllViolations(t *testing.T) {
	p := domain.Place{
		ID:          "bad/id",
		Name:        "",
		Description: strings.Repeat("x", 1001),
		Coordinates: domain.NewCoordinates(100, 0),
		Status:      "bogus",
		PlannedDate: strPtr("01/07/2025"),
	}

	err := p.Validate()

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ElementsMatch(t,
		[]string{"id", "name", "description", "coordinates", "status", "plannedDate"},
		fieldNames(t, err))
}

func TestPlace_Validate_NameLengthCountsCharacters(t *testing.T) {
	p := placeFixture()
	p.Name = strings.Repeat("ã", 200) // 400 bytes, 200 characters

	assert.NoError(t, p.Validate())

	p.Name += "ã"
	assert.Equal(t, []string{"name"}, fieldNames(t, p.Validate()))
}

func TestPlace_Validate_RejectsImpossibleDate(t *testing.T) {
	p := placeFixture()
	p.PlannedDate = strPtr("2025-02-30")

	assert.Equal(t, []string{"plannedDate"}, fieldNames(t, p.Validate()))
}

func TestPlace_MarkVisited(t *testing.T) {
	p := placeFixture()

	err := p.MarkVisited(domain.VisitInput{VisitDate: "2025-07-02", VisitDescription: " Sunny day "})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusVisited, p.Status)
	assert.Nil(t, p.PlannedDate)
	require.NotNil(t, p.VisitDate)
	assert.Equal(t, "2025-07-02", *p.VisitDate)
	require.NotNil(t, p.VisitDescription)
	assert.Equal(t, "Sunny day", *p.VisitDescription)
	assert.NoError(t, p.Validate())
}

func TestPlace_MarkVisited_Idempotent(t *testing.T) {
	in := domain.VisitInput{VisitDate: "2025-07-02", VisitDescription: "Sunny day"}
	once := placeFixture()
	require.NoError(t, once.MarkVisited(in))

	twice := once
	require.NoError(t, twice.MarkVisited(in))

	assert.Equal(t, once, twice)
}

func TestPlace_MarkVisited_InvalidLeavesPlaceUnchanged(t *testing.T) {
	p := placeFixture()
	before := p

	err := p.MarkVisited(domain.VisitInput{VisitDate: "yesterday", VisitDescription: "  "})

	assert.ElementsMatch(t, []string{"visitDate", "visitDescription"}, fieldNames(t, err))
	assert.Equal(t, before, p)
}

func TestPlace_MarkPlanned(t *testing.T) {
	p := placeFixture()
	require.NoError(t, p.MarkVisited(domain.VisitInput{VisitDate: "2025-07-02", VisitDescription: "Sunny"}))

	err := p.MarkPlanned(domain.PlanInput{PlannedDate: "2026-01-10"})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPlanned, p.Status)
	require.NotNil(t, p.PlannedDate)
	assert.Equal(t, "2026-01-10", *p.PlannedDate)
	assert.Nil(t, p.VisitDate)
	assert.Nil(t, p.VisitDescription)
}

func TestPlace_MarkPlanned_MissingDate(t *testing.T) {
	p := placeFixture()

	err := p.MarkPlanned(domain.PlanInput{})

	assert.Equal(t, []string{"plannedDate"}, fieldNames(t, err))
}

func TestPlacePatch_Apply(t *testing.T) {
	base := placeFixture()
	visited := domain.StatusVisited

	got := domain.PlacePatch{
		Name:      strPtr("  Renamed "),
		Status:    &visited,
		VisitDate: strPtr("2025-08-01"),
	}.Apply(base)

	assert.Equal(t, base.ID, got.ID)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, base.Description, got.Description)
	assert.Equal(t, domain.StatusVisited, got.Status)
	assert.Nil(t, got.PlannedDate, "switching to visited must clear plannedDate")
	assert.Equal(t, "2025-08-01", *got.VisitDate)
}

func TestPlacePatch_Apply_DoesNotAliasPatch(t *testing.T) {
	coords := domain.NewCoordinates(1, 2)
	got := domain.PlacePatch{Coordinates: coords}.Apply(placeFixture())

	coords[0] = 50

	assert.Equal(t, 1.0, got.Coordinates.Latitude())
}

func TestParseStatus(t *testing.T) {
	s, err := domain.ParseStatus("visited")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusVisited, s)

	_, err = domain.ParseStatus("bogus")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNewStats(t *testing.T) {
	cases := []struct {
		name   string
		counts domain.StatusCounts
		want   domain.Stats
	}{
		{"empty", domain.StatusCounts{}, domain.Stats{}},
		{"one of three", domain.StatusCounts{Total: 3, Visited: 1, Planned: 2}, domain.Stats{Total: 3, Visited: 1, Planned: 2, Percentage: 33}},
		{"two of three rounds up", domain.StatusCounts{Total: 3, Visited: 2, Planned: 1}, domain.Stats{Total: 3, Visited: 2, Planned: 1, Percentage: 67}},
		{"half", domain.StatusCounts{Total: 8, Visited: 4, Planned: 4}, domain.Stats{Total: 8, Visited: 4, Planned: 4, Percentage: 50}},
		{"all", domain.StatusCounts{Total: 5, Visited: 5}, domain.Stats{Total: 5, Visited: 5, Percentage: 100}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, domain.NewStats(tc.counts))
		})
	}
}

func TestNearbyQuery(t *testing.T) {
	q := domain.NewNearbyQuery(-23.5, -46.6, nil)
	assert.Equal(t, float64(domain.DefaultNearbyDistance), q.MaxDistance)
	assert.Equal(t, domain.MaxNearbyResults, q.Limit)
	assert.NoError(t, q.Validate())

	bad := domain.NewNearbyQuery(95, -200, new(float64))
	assert.ElementsMatch(t, []string{"lat", "lng", "distance"}, fieldNames(t, bad.Validate()))
}

func TestValidationError_Is(t *testing.T) {
	err := error(domain.NewValidationError("name", "name is required"))

	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Equal(t, "validation error: name is required", err.Error())
}

func TestNewExportRow(t *testing.T) {
	p := placeFixture()

	row := domain.NewExportRow(p)

	assert.Equal(t, "-12.57", row.Latitude)
	assert.Equal(t, "-38", row.Longitude)
	assert.Equal(t, "2025-07-01", row.PlannedDate)
	assert.Empty(t, row.VisitDate)
	assert.Len(t, row.Record(), len(domain.ExportHeaders))
}
