package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/places-api/internal/domain"
)

const (
	msgInvalidData   = "Invalid data"
	msgPlaceNotFound = "Place not found"
	msgInternalError = "Internal server error"
	msgConflict      = "A place with this id already exists"
)

// respondError translates err into the matching status code and envelope.
// Only unexpected errors are logged; client errors are already visible in the
// request log line.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr *domain.ValidationError
		rerr *requestError
	)
	switch {
	case errors.As(err, &rerr):
		writeJSON(w, rerr.status, Envelope{Message: rerr.message, Errors: rerr.fields})
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, Envelope{Message: msgInvalidData, Errors: verr.Fields})
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusBadRequest, Envelope{Message: messageAfter(err, domain.ErrValidation, msgInvalidData)})
	case errors.Is(err, domain.ErrNotFound):
		respondMessage(w, http.StatusNotFound, msgPlaceNotFound)
	case errors.Is(err, domain.ErrConflict):
		respondMessage(w, http.StatusConflict, messageAfter(err, domain.ErrConflict, msgConflict))
	default:
		s.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
		body := Envelope{Message: msgInternalError}
		if !s.production {
			body.Detail = err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, body)
	}
}

// messageAfter extracts the human-readable part that follows a wrapped sentinel.
// e.g. "service.PlaceService.Create: conflict: a place with id "x" already exists"
// → "A place with id "x" already exists". Returns fallback when nothing follows.
func messageAfter(err, sentinel error, fallback string) string {
	msg := err.Error()
	marker := sentinel.Error() + ": "
	i := strings.LastIndex(msg, marker)
	if i < 0 {
		return fallback
	}
	rest := strings.TrimSpace(msg[i+len(marker):])
	if rest == "" {
		return fallback
	}
	return strings.ToUpper(rest[:1]) + rest[1:]
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	respondMessage(w, http.StatusNotFound, "Route not found - "+r.URL.RequestURI())
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondMessage(w, http.StatusMethodNotAllowed, "Method "+r.Method+" not allowed on "+r.URL.Path)
}
