package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/places-api/internal/domain"
)

// listPlaces handles GET /api/places.
func (s *Server) listPlaces(w http.ResponseWriter, r *http.Request) {
	places, err := s.places.List(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondList(w, places)
}

// getPlace handles GET /api/places/{id}.
func (s *Server) getPlace(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	place, err := s.places.GetByID(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, "", place)
}

// createPlace handles POST /api/places.
func (s *Server) createPlace(w http.ResponseWriter, r *http.Request) {
	var body domain.Place
	if err := decodeJSON(r, &body); err != nil {
		s.respondError(w, r, err)
		return
	}

	created, err := s.places.Create(r.Context(), body)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, "Place created successfully", created)
}

// updatePlace handles PUT /api/places/{id}. Fields absent from the body are
// left unchanged; an id in the body is ignored.
func (s *Server) updatePlace(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var patch domain.PlacePatch
	if err := decodeJSON(r, &patch); err != nil {
		s.respondError(w, r, err)
		return
	}

	updated, err := s.places.Update(r.Context(), id, patch)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, "Place updated successfully", updated)
}

// markVisited handles PATCH /api/places/{id}/visit.
func (s *Server) markVisited(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var in domain.VisitInput
	if err := decodeJSON(r, &in); err != nil {
		s.respondError(w, r, err)
		return
	}

	place, err := s.places.MarkVisited(r.Context(), id, in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, "Place marked as visited", place)
}

// markPlanned handles PATCH /api/places/{id}/plan.
func (s *Server) markPlanned(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var in domain.PlanInput
	if err := decodeJSON(r, &in); err != nil {
		s.respondError(w, r, err)
		return
	}

	place, err := s.places.MarkPlanned(r.Context(), id, in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, "Place marked as planned", place)
}

// deletePlace handles DELETE /api/places/{id}.
func (s *Server) deletePlace(w http.ResponseWriter, r *http.Request) {
	id, err := pathParam(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if _, err := s.places.Delete(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Place deleted successfully")
}

// listPlacesByStatus handles GET /api/places/status/{status}.
func (s *Server) listPlacesByStatus(w http.ResponseWriter, r *http.Request) {
	status, err := pathParam(r, "status")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	places, err := s.places.ListByStatus(r.Context(), status)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondList(w, places)
}

// getNearby handles GET /api/places/nearby?lat=&lng=&distance=.
// distance is in metres.
func (s *Server) getNearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if strings.TrimSpace(q.Get("lat")) == "" || strings.TrimSpace(q.Get("lng")) == "" {
		s.respondError(w, r, badRequest("lat and lng are required"))
		return
	}

	var (
		lat, lng float64
		distance *float64
	)
	verr := &domain.ValidationError{}
	collect := func(err error) {
		var fe *domain.ValidationError
		if errors.As(err, &fe) {
			verr.Fields = append(verr.Fields, fe.Fields...)
		}
	}
	collect(queryParam(r, "lat", true, &lat))
	collect(queryParam(r, "lng", true, &lng))
	collect(queryParam(r, "distance", false, &distance))
	if err := verr.OrNil(); err != nil {
		s.respondError(w, r, err)
		return
	}

	places, err := s.places.Nearby(r.Context(), domain.NewNearbyQuery(lat, lng, distance))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondList(w, places)
}

// getStats handles GET /api/places/stats.
func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.places.Stats(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, "", stats)
}

// searchPlaces handles GET /api/places/search?q=.
func (s *Server) searchPlaces(w http.ResponseWriter, r *http.Request) {
	places, err := s.places.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondList(w, places)
}
