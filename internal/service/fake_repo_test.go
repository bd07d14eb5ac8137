package service_test

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/pkordes/places-api/internal/domain"
	"github.com/pkordes/places-api/internal/repo"
)

// memRepo is an in-memory repo.PlaceRepo used for tests that exercise a
// sequence of operations rather than a single call. Insertion order stands in
// for created_at.
type memRepo struct {
	mu     sync.Mutex
	seq    int
	places map[string]memRow
}

type memRow struct {
	seq   int
	place domain.Place
}

func newMemRepo() *memRepo {
	return &memRepo{places: make(map[string]memRow)}
}

var _ repo.PlaceRepo = (*memRepo)(nil)

func (m *memRepo) Create(_ context.Context, p domain.Place) (domain.Place, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.places[p.ID]; ok {
		return domain.Place{}, domain.ErrConflict
	}
	m.seq++
	m.places[p.ID] = memRow{seq: m.seq, place: p}
	return p, nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (domain.Place, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.places[id]
	if !ok {
		return domain.Place{}, domain.ErrNotFound
	}
	return row.place, nil
}

func (m *memRepo) List(_ context.Context) ([]domain.Place, error) {
	return m.filter(func(domain.Place) bool { return true }), nil
}

func (m *memRepo) ListByStatus(_ context.Context, status domain.Status) ([]domain.Place, error) {
	return m.filter(func(p domain.Place) bool { return p.Status == status }), nil
}

func (m *memRepo) Update(_ context.Context, p domain.Place) (domain.Place, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.places[p.ID]
	if !ok {
		return domain.Place{}, domain.ErrNotFound
	}
	row.place = p
	m.places[p.ID] = row
	return p, nil
}

func (m *memRepo) Delete(_ context.Context, id string) (domain.Place, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.places[id]
	if !ok {
		return domain.Place{}, domain.ErrNotFound
	}
	delete(m.places, id)
	return row.place, nil
}

// Nearby uses an equirectangular approximation, which is accurate enough for
// the short distances the tests use.
func (m *memRepo) Nearby(_ context.Context, q domain.NearbyQuery) ([]domain.Place, error) {
	dist := func(p domain.Place) float64 {
		const earthRadius = 6371000.0
		rad := math.Pi / 180
		x := (p.Coordinates.Longitude() - q.Longitude) * rad * math.Cos((p.Coordinates.Latitude()+q.Latitude)/2*rad)
		y := (p.Coordinates.Latitude() - q.Latitude) * rad
		return math.Sqrt(x*x+y*y) * earthRadius
	}
	got := m.filter(func(p domain.Place) bool { return dist(p) <= q.MaxDistance })
	sort.SliceStable(got, func(i, j int) bool { return dist(got[i]) < dist(got[j]) })
	if len(got) > q.Limit {
		got = got[:q.Limit]
	}
	return got, nil
}

func (m *memRepo) Search(_ context.Context, query string, limit int) ([]domain.Place, error) {
	got := m.filter(func(p domain.Place) bool {
		return containsFold(p.Name, query) || containsFold(p.Description, query)
	})
	if len(got) > limit {
		got = got[:limit]
	}
	return got, nil
}

func (m *memRepo) CountByStatus(_ context.Context) (domain.StatusCounts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var c domain.StatusCounts
	for _, row := range m.places {
		c.Total++
		switch row.place.Status {
		case domain.StatusVisited:
			c.Visited++
		case domain.StatusPlanned:
			c.Planned++
		}
	}
	return c, nil
}

// filter returns matching places, most recently inserted first.
func (m *memRepo) filter(keep func(domain.Place) bool) []domain.Place {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := make([]memRow, 0, len(m.places))
	for _, row := range m.places {
		if keep(row.place) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })

	out := make([]domain.Place, len(rows))
	for i, row := range rows {
		out[i] = row.place
	}
	return out
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
