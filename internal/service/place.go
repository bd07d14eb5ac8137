// Package service contains the business logic for the Places API.
// Services validate inputs, enforce the place invariants, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkordes/places-api/internal/domain"
	"github.com/pkordes/places-api/internal/repo"
)

// MaxSearchResults caps the number of places a text search returns.
const MaxSearchResults = 50

// maxSearchQueryLen bounds the free-text query in runes.
const maxSearchQueryLen = 200

// PlaceService implements business logic for Place operations.
type PlaceService struct {
	repo repo.PlaceRepo
	now  func() time.Time
}

// NewPlaceService constructs a PlaceService backed by the provided PlaceRepo.
func NewPlaceService(r repo.PlaceRepo) *PlaceService {
	return &PlaceService{repo: r, now: time.Now}
}

// List returns every place, newest first. Never returns a nil slice.
func (s *PlaceService) List(ctx context.Context) ([]domain.Place, error) {
	places, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.PlaceService.List: %w", err)
	}
	return nonNil(places), nil
}

// GetByID returns a single place. Returns domain.ErrNotFound if it does not exist.
func (s *PlaceService) GetByID(ctx context.Context, id string) (domain.Place, error) {
	place, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Place{}, fmt.Errorf("service.PlaceService.GetByID: %w", err)
	}
	return place, nil
}

// Create normalizes, validates and persists a new place.
// An id is generated when the caller does not supply one. A caller-supplied
// id that is already taken yields domain.ErrConflict.
func (s *PlaceService) Create(ctx context.Context, place domain.Place) (domain.Place, error) {
	place.Normalize()
	if place.ID == "" {
		place.ID = newPlaceID(s.now())
	}
	if err := place.Validate(); err != nil {
		return domain.Place{}, fmt.Errorf("service.PlaceService.Create: %w", err)
	}

	// The pre-check gives a clean error in the common case; the primary key
	// still catches a concurrent insert of the same id.
	_, err := s.repo.GetByID(ctx, place.ID)
	switch {
	case err == nil:
		return domain.Place{}, fmt.Errorf("service.PlaceService.Create: %w: a place with id %q already exists",
			domain.ErrConflict, place.ID)
	case !errors.Is(err, domain.ErrNotFound):
		return domain.Place{}, fmt.Errorf("service.PlaceService.Create: %w", err)
	}

	created, err := s.repo.Create(ctx, place)
	if err != nil {
		return domain.Place{}, fmt.Errorf("service.PlaceService.Create: %w", err)
	}
	return created, nil
}

// Update applies patch to the stored place, re-establishes the status
// invariant and persists the result. Nothing is written if validation fails.
func (s *PlaceService) Update(ctx context.Context, id string, patch domain.PlacePatch) (domain.Place, error) {
	current, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Place{}, fmt.Errorf("service.PlaceService.Update: %w", err)
	}

	next := patch.Apply(current)
	if err := next.Validate(); err != nil {
		return domain.Place{}, fmt.Errorf("service.PlaceService.Update: %w", err)
	}

	updated, err := s.repo.Update(ctx, next)
	if err != nil {
		return domain.Place{}, fmt.Errorf("service.PlaceService.Update: %w", err)
	}
	return updated, nil
}

// MarkVisited moves a place to the visited status.
// Marking an already visited place again simply replaces the visit fields.
func (s *PlaceService) MarkVisited(ctx context.Context, id string, in domain.VisitInput) (domain.Place, error) {
	place, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Place{}, fmt.Errorf("service.PlaceService.MarkVisited: %w", err)
	}
	if err := place.MarkVisited(in); err != nil {
		return domain.Place{}, fmt.Errorf("service.PlaceService.MarkVisited: %w", err)
	}

	updated, err := s.repo.Update(ctx, place)
	if err != nil {
		return domain.Place{}, fmt.Errorf("service.PlaceService.MarkVisited: %w", err)
	}
	return updated, nil
}

// MarkPlanned moves a place to the planned status.
func (s *PlaceService) MarkPlanned(ctx context.Context, id string, in domain.PlanInput) (domain.Place, error) {
	place, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Place{}, fmt.Errorf("service.PlaceService.MarkPlanned: %w", err)
	}
	if err := place.MarkPlanned(in); err != nil {
		return domain.Place{}, fmt.Errorf("service.PlaceService.MarkPlanned: %w", err)
	}

	updated, err := s.repo.Update(ctx, place)
	if err != nil {
		return domain.Place{}, fmt.Errorf("service.PlaceService.MarkPlanned: %w", err)
	}
	return updated, nil
}

// Delete removes a place and returns what was removed.
func (s *PlaceService) Delete(ctx context.Context, id string) (domain.Place, error) {
	deleted, err := s.repo.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Place{}, fmt.Errorf("service.PlaceService.Delete: %w", err)
	}
	return deleted, nil
}

// ListByStatus returns the places with the given status, newest first.
// An unknown status is a validation error.
func (s *PlaceService) ListByStatus(ctx context.Context, status string) ([]domain.Place, error) {
	st, err := domain.ParseStatus(strings.TrimSpace(status))
	if err != nil {
		return nil, fmt.Errorf("service.PlaceService.ListByStatus: %w", err)
	}

	places, err := s.repo.ListByStatus(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("service.PlaceService.ListByStatus: %w", err)
	}
	return nonNil(places), nil
}

// Nearby returns the places within q.MaxDistance metres of the query point,
// nearest first, at most domain.MaxNearbyResults of them.
func (s *PlaceService) Nearby(ctx context.Context, q domain.NearbyQuery) ([]domain.Place, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("service.PlaceService.Nearby: %w", err)
	}
	if q.Limit <= 0 || q.Limit > domain.MaxNearbyResults {
		q.Limit = domain.MaxNearbyResults
	}

	places, err := s.repo.Nearby(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("service.PlaceService.Nearby: %w", err)
	}
	return nonNil(places), nil
}

// Stats summarises the collection.
func (s *PlaceService) Stats(ctx context.Context) (domain.Stats, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("service.PlaceService.Stats: %w", err)
	}
	return domain.NewStats(counts), nil
}

// Search runs a full-text query over name and description, best match first.
func (s *PlaceService) Search(ctx context.Context, query string) ([]domain.Place, error) {
	query = strings.TrimSpace(query)
	switch {
	case query == "":
		return nil, fmt.Errorf("service.PlaceService.Search: %w",
			domain.NewValidationError("q", "q is required"))
	case utf8.RuneCountInString(query) > maxSearchQueryLen:
		return nil, fmt.Errorf("service.PlaceService.Search: %w",
			domain.NewValidationError("q", fmt.Sprintf("q must be at most %d characters", maxSearchQueryLen)))
	}

	places, err := s.repo.Search(ctx, query, MaxSearchResults)
	if err != nil {
		return nil, fmt.Errorf("service.PlaceService.Search: %w", err)
	}
	return nonNil(places), nil
}

// nonNil guarantees list results encode as [] rather than null.
func nonNil(places []domain.Place) []domain.Place {
	if places == nil {
		return []domain.Place{}
	}
	return places
}
