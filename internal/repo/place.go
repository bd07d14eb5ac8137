// Package repo contains all database access logic for the Places API.
// It exposes an interface and a Postgres/PostGIS implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/places-api/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Integration tests pass a transaction that is rolled back after each test.
type db interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PlaceRepo defines the persistence operations for Places.
// The service layer depends on this interface, not the concrete implementation.
type PlaceRepo interface {
	// Create inserts a new place and returns the persisted record.
	// Returns domain.ErrConflict if the id is already taken.
	Create(ctx context.Context, place domain.Place) (domain.Place, error)

	// GetByID retrieves a single place by id.
	// Returns domain.ErrNotFound if no place with that id exists.
	GetByID(ctx context.Context, id string) (domain.Place, error)

	// List returns all places, most recently created first.
	List(ctx context.Context) ([]domain.Place, error)

	// ListByStatus returns the places with the given status, most recently created first.
	ListByStatus(ctx context.Context, status domain.Status) ([]domain.Place, error)

	// Update overwrites every mutable field of an existing place and returns
	// the stored record. Returns domain.ErrNotFound if the id does not exist.
	Update(ctx context.Context, place domain.Place) (domain.Place, error)

	// Delete removes a place and returns the removed record.
	// Returns domain.ErrNotFound if the id does not exist.
	Delete(ctx context.Context, id string) (domain.Place, error)

	// Nearby returns places within q.MaxDistance metres of the query point,
	// nearest first, at most q.Limit of them.
	Nearby(ctx context.Context, q domain.NearbyQuery) ([]domain.Place, error)

	// Search returns places whose name or description matches the free-text
	// query, best match first, at most limit of them.
	Search(ctx context.Context, query string, limit int) ([]domain.Place, error)

	// CountByStatus returns the total number of places and the per-status counts.
	CountByStatus(ctx context.Context) (domain.StatusCounts, error)
}

// pgPlaceRepo is the Postgres implementation of PlaceRepo.
type pgPlaceRepo struct {
	db db
}

// NewPlaceRepo constructs a PlaceRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPlaceRepo(db db) PlaceRepo {
	return &pgPlaceRepo{db: db}
}

// placeColumns is the select list shared by every query; scanPlace depends on its order.
const placeColumns = `id, name, description, image, latitude, longitude, status,
	planned_date, visit_date, visit_description, created_at, updated_at`

// Create inserts a new place row and returns the full persisted record.
func (r *pgPlaceRepo) Create(ctx context.Context, place domain.Place) (domain.Place, error) {
	const q = `
		INSERT INTO places (id, name, description, image, latitude, longitude, status,
		                    planned_date, visit_date, visit_description)
		VALUES (@id, @name, @description, @image, @latitude, @longitude, @status,
		        @planned_date, @visit_date, @visit_description)
		RETURNING ` + placeColumns

	args, err := placeArgs(place)
	if err != nil {
		return domain.Place{}, fmt.Errorf("repo.PlaceRepo.Create: %w", err)
	}

	result, err := scanPlace(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Place{}, fmt.Errorf("repo.PlaceRepo.Create: %w", translate(err))
	}
	return result, nil
}

// GetByID retrieves a place by id.
func (r *pgPlaceRepo) GetByID(ctx context.Context, id string) (domain.Place, error) {
	const q = `SELECT ` + placeColumns + ` FROM places WHERE id = @id`

	result, err := scanPlace(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Place{}, fmt.Errorf("repo.PlaceRepo.GetByID: %w", translate(err))
	}
	return result, nil
}

// List returns every place ordered by created_at descending.
func (r *pgPlaceRepo) List(ctx context.Context) ([]domain.Place, error) {
	const q = `SELECT ` + placeColumns + ` FROM places ORDER BY created_at DESC, id`

	places, err := r.queryPlaces(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.PlaceRepo.List: %w", err)
	}
	return places, nil
}

// ListByStatus returns the places with status, ordered by created_at descending.
func (r *pgPlaceRepo) ListByStatus(ctx context.Context, status domain.Status) ([]domain.Place, error) {
	const q = `
		SELECT ` + placeColumns + `
		FROM places
		WHERE status = @status
		ORDER BY created_at DESC, id`

	places, err := r.queryPlaces(ctx, q, pgx.NamedArgs{"status": string(status)})
	if err != nil {
		return nil, fmt.Errorf("repo.PlaceRepo.ListByStatus: %w", err)
	}
	return places, nil
}

// Update overwrites the mutable fields of a place and returns the updated record.
// The caller is responsible for having normalized the place; NULLs are
// written for absent date fields.
func (r *pgPlaceRepo) Update(ctx context.Context, place domain.Place) (domain.Place, error) {
	const q = `
		UPDATE places
		SET name              = @name,
		    description       = @description,
		    image             = @image,
		    latitude          = @latitude,
		    longitude         = @longitude,
		    status            = @status,
		    planned_date      = @planned_date,
		    visit_date        = @visit_date,
		    visit_description = @visit_description,
		    updated_at        = clock_timestamp()
		WHERE id = @id
		RETURNING ` + placeColumns

	args, err := placeArgs(place)
	if err != nil {
		return domain.Place{}, fmt.Errorf("repo.PlaceRepo.Update: %w", err)
	}

	result, err := scanPlace(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Place{}, fmt.Errorf("repo.PlaceRepo.Update: %w", translate(err))
	}
	return result, nil
}

// Delete removes a place by id and returns the deleted row.
func (r *pgPlaceRepo) Delete(ctx context.Context, id string) (domain.Place, error) {
	const q = `DELETE FROM places WHERE id = @id RETURNING ` + placeColumns

	result, err := scanPlace(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Place{}, fmt.Errorf("repo.PlaceRepo.Delete: %w", translate(err))
	}
	return result, nil
}

// Nearby uses the GiST index on the generated location column. ST_DWithin on
// geography measures in metres on the WGS84 spheroid.
func (r *pgPlaceRepo) Nearby(ctx context.Context, nq domain.NearbyQuery) ([]domain.Place, error) {
	const q = `
		WITH origin AS (
			SELECT ST_SetSRID(ST_MakePoint(@lng, @lat), 4326)::geography AS point
		)
		SELECT ` + placeColumns + `
		FROM places, origin
		WHERE ST_DWithin(places.location, origin.point, @distance)
		ORDER BY places.location <-> origin.point
		LIMIT @limit`

	places, err := r.queryPlaces(ctx, q, pgx.NamedArgs{
		"lat":      nq.Latitude,
		"lng":      nq.Longitude,
		"distance": nq.MaxDistance,
		"limit":    nq.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("repo.PlaceRepo.Nearby: %w", err)
	}
	return places, nil
}

// Search matches against the same expression the GIN full-text index is built on.
func (r *pgPlaceRepo) Search(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	const q = `
		SELECT ` + placeColumns + `
		FROM places
		WHERE to_tsvector('simple', name || ' ' || description) @@ plainto_tsquery('simple', @query)
		ORDER BY ts_rank(to_tsvector('simple', name || ' ' || description), plainto_tsquery('simple', @query)) DESC,
		         created_at DESC
		LIMIT @limit`

	places, err := r.queryPlaces(ctx, q, pgx.NamedArgs{"query": query, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("repo.PlaceRepo.Search: %w", err)
	}
	return places, nil
}

// CountByStatus tallies the collection in a single scan.
func (r *pgPlaceRepo) CountByStatus(ctx context.Context) (domain.StatusCounts, error) {
	const q = `
		SELECT count(*),
		       count(*) FILTER (WHERE status = 'visited'),
		       count(*) FILTER (WHERE status = 'planned')
		FROM places`

	var c domain.StatusCounts
	if err := r.db.QueryRow(ctx, q).Scan(&c.Total, &c.Visited, &c.Planned); err != nil {
		return domain.StatusCounts{}, fmt.Errorf("repo.PlaceRepo.CountByStatus: %w", translate(err))
	}
	return c, nil
}

// queryPlaces runs a multi-row query and scans every row.
func (r *pgPlaceRepo) queryPlaces(ctx context.Context, q string, args ...any) ([]domain.Place, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var places []domain.Place
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", translate(err))
	}
	return places, nil
}

// placeArgs builds the named arguments for an insert or update.
// Date strings are parsed so they are sent to Postgres as DATE values.
func placeArgs(p domain.Place) (pgx.NamedArgs, error) {
	plannedDate, err := dateArg(p.PlannedDate)
	if err != nil {
		return nil, err
	}
	visitDate, err := dateArg(p.VisitDate)
	if err != nil {
		return nil, err
	}
	return pgx.NamedArgs{
		"id":                p.ID,
		"name":              p.Name,
		"description":       p.Description,
		"image":             p.Image,
		"latitude":          p.Coordinates.Latitude(),
		"longitude":         p.Coordinates.Longitude(),
		"status":            string(p.Status),
		"planned_date":      plannedDate, // nil becomes NULL
		"visit_date":        visitDate,
		"visit_description": p.VisitDescription,
	}, nil
}

// dateArg converts an optional YYYY-MM-DD string into an optional time.Time.
func dateArg(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse(domain.DateFormat, *s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", domain.ErrValidation, *s)
	}
	return &t, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanPlace to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanPlace maps a single row selected with placeColumns into a domain.Place.
func scanPlace(s scanner) (domain.Place, error) {
	var (
		p                domain.Place
		lat, lng         float64
		status           string
		plannedDate      pgtype.Date
		visitDate        pgtype.Date
		visitDescription pgtype.Text
	)

	err := s.Scan(&p.ID, &p.Name, &p.Description, &p.Image, &lat, &lng, &status,
		&plannedDate, &visitDate, &visitDescription, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Place{}, err
	}

	p.Coordinates = domain.NewCoordinates(lat, lng)
	p.Status = domain.Status(status)
	p.PlannedDate = formatDate(plannedDate)
	p.VisitDate = formatDate(visitDate)
	if visitDescription.Valid {
		vd := visitDescription.String
		p.VisitDescription = &vd
	}
	return p, nil
}

// formatDate renders a nullable DATE as an optional YYYY-MM-DD string.
func formatDate(d pgtype.Date) *string {
	if !d.Valid {
		return nil
	}
	s := d.Time.Format(domain.DateFormat)
	return &s
}
