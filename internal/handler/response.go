package handler

import (
	"encoding/json"
	"net/http"

	"github.com/pkordes/places-api/internal/domain"
)

// Envelope is the body of every JSON response.
// Count is a pointer so that an empty list still reports "count": 0.
type Envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    any                 `json:"data,omitempty"`
	Count   *int                `json:"count,omitempty"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
	Detail  string              `json:"detail,omitempty"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	// The status line is already out; an encode failure here means the
	// client went away and there is nothing useful left to do.
	_ = json.NewEncoder(w).Encode(v)
}

func respondData(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

func respondList(w http.ResponseWriter, places []domain.Place) {
	if places == nil {
		places = []domain.Place{}
	}
	n := len(places)
	writeJSON(w, http.StatusOK, Envelope{Success: true, Count: &n, Data: places})
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Envelope{Success: status < 400, Message: message})
}
