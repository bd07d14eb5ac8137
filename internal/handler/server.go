// Package handler implements the HTTP handlers for the Places API.
// All handlers are methods on Server. Methods are split into files by concern
// (place.go, export.go, health.go) but share the same Server struct so they
// can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/places-api/internal/domain"
)

// Version is reported by the info and health routes.
const Version = "1.0.0"

// PlaceServicer defines the business operations the place handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type PlaceServicer interface {
	List(ctx context.Context) ([]domain.Place, error)
	GetByID(ctx context.Context, id string) (domain.Place, error)
	Create(ctx context.Context, place domain.Place) (domain.Place, error)
	Update(ctx context.Context, id string, patch domain.PlacePatch) (domain.Place, error)
	MarkVisited(ctx context.Context, id string, in domain.VisitInput) (domain.Place, error)
	MarkPlanned(ctx context.Context, id string, in domain.PlanInput) (domain.Place, error)
	Delete(ctx context.Context, id string) (domain.Place, error)
	ListByStatus(ctx context.Context, status string) ([]domain.Place, error)
	Nearby(ctx context.Context, q domain.NearbyQuery) ([]domain.Place, error)
	Stats(ctx context.Context) (domain.Stats, error)
	Search(ctx context.Context, query string) ([]domain.Place, error)
	Export(ctx context.Context) ([]domain.ExportRow, error)
}

// Pinger reports whether the backing store is reachable. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the dependencies shared by every handler.
type Server struct {
	places     PlaceServicer
	db         Pinger
	logger     *slog.Logger
	env        string
	production bool
}

// NewServer constructs the Server with all its dependencies.
// env is the deployment environment; "production" hides internal error detail
// from 500 responses. A nil logger falls back to slog.Default().
func NewServer(places PlaceServicer, db Pinger, logger *slog.Logger, env string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		places:     places,
		db:         db,
		logger:     logger,
		env:        env,
		production: env == "production",
	}
}

// Register mounts every route on r. apiMiddleware is applied to the /api
// subtree only (the rate limiter lives there).
func (s *Server) Register(r chi.Router, apiMiddleware ...func(http.Handler) http.Handler) {
	r.NotFound(s.notFound)
	r.MethodNotAllowed(s.methodNotAllowed)

	r.Get("/", s.getRoot)
	r.Get("/health", s.getHealth)
	r.Get("/openapi.yaml", s.getOpenAPI)

	r.Route("/api", func(r chi.Router) {
		r.Use(apiMiddleware...)
		r.NotFound(s.notFound)
		r.MethodNotAllowed(s.methodNotAllowed)

		r.Get("/", s.getAPIInfo)
		r.Route("/places", func(r chi.Router) {
			r.Get("/", s.listPlaces)
			r.Post("/", s.createPlace)
			r.Get("/stats", s.getStats)
			r.Get("/nearby", s.getNearby)
			r.Get("/search", s.searchPlaces)
			r.Get("/export", s.exportPlaces)
			r.Get("/status/{status}", s.listPlacesByStatus)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getPlace)
				r.Put("/", s.updatePlace)
				r.Delete("/", s.deletePlace)
				r.Patch("/visit", s.markVisited)
				r.Patch("/plan", s.markPlanned)
			})
		})
	})
}

// Handler returns a ready-to-serve router with every route registered and no
// middleware. Used by tests and by callers that do not need the /api chain.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.Register(r)
	return r
}
