package domain

// DefaultNearbyDistance is the search radius in metres used when the caller
// does not supply one.
const DefaultNearbyDistance = 50000

// MaxNearbyResults caps the number of places a proximity query returns.
const MaxNearbyResults = 500

// NearbyQuery carries a proximity search from the HTTP layer to the repo layer.
// Results are ordered nearest first.
type NearbyQuery struct {
	Latitude  float64 `json:"lat" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"lng" validate:"gte=-180,lte=180"`
	// MaxDistance is the radius in metres, measured on the spheroid.
	MaxDistance float64 `json:"distance" validate:"gt=0"`
	// Limit is the maximum number of places to return.
	Limit int `json:"-"`
}

// NewNearbyQuery builds a NearbyQuery from optional HTTP query params.
// A nil distance falls back to DefaultNearbyDistance. Limit is always
// MaxNearbyResults.
func NewNearbyQuery(lat, lng float64, distance *float64) NearbyQuery {
	q := NearbyQuery{
		Latitude:    lat,
		Longitude:   lng,
		MaxDistance: DefaultNearbyDistance,
		Limit:       MaxNearbyResults,
	}
	if distance != nil {
		q.MaxDistance = *distance
	}
	return q
}

// Validate checks the coordinate ranges and that the radius is positive.
func (q NearbyQuery) Validate() error {
	return validateStruct(q)
}
