package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/pkordes/places-api/internal/domain"
)

// exportFilenameLayout names downloads like places-20250601.csv.
const exportFilenameLayout = "20060102"

// exportPlaces handles GET /api/places/export.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) exportPlaces(w http.ResponseWriter, r *http.Request) {
	var format *string
	if err := queryParam(r, "format", false, &format); err != nil {
		s.respondError(w, r, err)
		return
	}
	wantCSV := false
	if format != nil {
		switch *format {
		case "csv":
			wantCSV = true
		case "json":
		default:
			s.respondError(w, r, domain.NewValidationError("format", `format must be "csv" or "json"`))
			return
		}
	}

	rows, err := s.places.Export(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if wantCSV {
		writeCSV(w, rows)
		return
	}
	if rows == nil {
		rows = []domain.ExportRow{}
	}
	n := len(rows)
	writeJSON(w, http.StatusOK, Envelope{Success: true, Count: &n, Data: exportJSONRows(rows)})
}

// writeCSV encodes rows with a header line and sends them as an attachment.
// The body is buffered so a Content-Length can be sent.
func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(domain.ExportHeaders)
	for _, r := range rows {
		//nolint:errcheck
		cw.Write(r.Record())
	}
	cw.Flush()

	filename := "places-" + time.Now().UTC().Format(exportFilenameLayout) + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// exportJSONRow is the JSON shape of an export row. Empty optional fields
// are omitted, matching the place representation.
type exportJSONRow struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Image            string `json:"image"`
	Latitude         string `json:"latitude"`
	Longitude        string `json:"longitude"`
	Status           string `json:"status"`
	PlannedDate      string `json:"plannedDate,omitempty"`
	VisitDate        string `json:"visitDate,omitempty"`
	VisitDescription string `json:"visitDescription,omitempty"`
}

func exportJSONRows(rows []domain.ExportRow) []exportJSONRow {
	out := make([]exportJSONRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, exportJSONRow(r))
	}
	return out
}
