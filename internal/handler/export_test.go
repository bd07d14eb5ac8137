package handler_test

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/places-api/internal/domain"
)

// exportSvc returns a servicer whose Export yields rows.
func exportSvc(rows []domain.ExportRow, err error) *mockPlaceServicer {
	return &mockPlaceServicer{
		export: func(_ context.Context) ([]domain.ExportRow, error) { return rows, err },
	}
}

// exportRowFixture returns a fully-populated visited row.
func exportRowFixture() domain.ExportRow {
	p := placeFixture("place-exp")
	p.Description = "Beach, with a comma"
	if err := p.MarkVisited(domain.VisitInput{VisitDate: "2025-01-05", VisitDescription: "Snorkelling"}); err != nil {
		panic(err)
	}
	return domain.NewExportRow(p)
}

// ---- JSON ------------------------------------------------------------------

func TestExport_DefaultJSON_EmptyResult(t *testing.T) {
	rec, env := do(t, newHTTPHandler(exportSvc(nil, nil)), http.MethodGet, "/api/places/export", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	require.NotNil(t, env.Count)
	assert.Equal(t, 0, *env.Count)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestExport_FormatJSON_ExplicitParam(t *testing.T) {
	row := exportRowFixture()

	rec, env := do(t, newHTTPHandler(exportSvc([]domain.ExportRow{row}, nil)),
		http.MethodGet, "/api/places/export?format=json", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	rows := decodeData[[]map[string]string](t, env)
	require.Len(t, rows, 1)
	assert.Equal(t, "place-exp", rows[0]["id"])
	assert.Equal(t, "visited", rows[0]["status"])
	assert.Equal(t, "2025-01-05", rows[0]["visitDate"])
	_, hasPlanned := rows[0]["plannedDate"]
	assert.False(t, hasPlanned, "empty optional fields are omitted")
}

func TestExport_UnknownFormatReturns400(t *testing.T) {
	rec, env := do(t, newHTTPHandler(&mockPlaceServicer{}), http.MethodGet, "/api/places/export?format=xml", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Len(t, env.Errors, 1)
	assert.Equal(t, "format", env.Errors[0].Field)
}

// ---- CSV -------------------------------------------------------------------

func TestExport_CSV_ContentTypeAndDisposition(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/places/export?format=csv", nil)
	rec := httptest.NewRecorder()
	newHTTPHandler(exportSvc(nil, nil)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Regexp(t, `^attachment; filename="places-\d{8}\.csv"$`, rec.Header().Get("Content-Disposition"))
}

func TestExport_CSV_EmptyResult_HasHeaderRow(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/places/export?format=csv", nil)
	rec := httptest.NewRecorder()
	newHTTPHandler(exportSvc(nil, nil)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "id,name,"), "CSV should start with header row, got: %q", body)
}

func TestExport_CSV_OneRow_QuotesCommas(t *testing.T) {
	row := exportRowFixture()
	req := httptest.NewRequest(http.MethodGet, "/api/places/export?format=csv", nil)
	rec := httptest.NewRecorder()
	newHTTPHandler(exportSvc([]domain.ExportRow{row}, nil)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	records, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2, "header + 1 data row")
	assert.Equal(t, domain.ExportHeaders, records[0])
	assert.Equal(t, row.Record(), records[1])
	assert.Contains(t, rec.Body.String(), `"Beach, with a comma"`)
}

// ---- error handling --------------------------------------------------------

func TestExport_ServiceError_Returns500(t *testing.T) {
	rec, _ := do(t, newHTTPHandler(exportSvc(nil, fmt.Errorf("database unavailable"))),
		http.MethodGet, "/api/places/export", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
