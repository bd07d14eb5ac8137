package domain

import "math"

// StatusCounts is the raw per-status tally read from the store.
type StatusCounts struct {
	Total   int64
	Visited int64
	Planned int64
}

// Stats summarises the place collection.
// Percentage is the share of visited places, rounded to the nearest integer.
type Stats struct {
	Total      int64 `json:"total"`
	Visited    int64 `json:"visited"`
	Planned    int64 `json:"planned"`
	Percentage int   `json:"percentage"`
}

// NewStats derives Stats from raw counts. Percentage is 0 for an empty collection.
func NewStats(c StatusCounts) Stats {
	s := Stats{Total: c.Total, Visited: c.Visited, Planned: c.Planned}
	if c.Total > 0 {
		s.Percentage = int(math.Round(float64(c.Visited) / float64(c.Total) * 100))
	}
	return s
}
