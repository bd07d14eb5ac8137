package middleware

import (
	"encoding/json"
	"net/http"
)

// errorBody matches the envelope the handlers write, so clients see one
// error shape whether a request was rejected here or further down.
type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message, detail string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Message: message, Detail: detail})
}
