// Package projection converts projected map coordinates to geographic ones.
//
// The only source system supported is EPSG:3857 (spherical Web Mercator,
// meters) and the only target is EPSG:4326 (WGS 84, degrees). Coordinates
// are handled in x/y (lon/lat) order internally and reported as lat, lon.
package projection

import (
	"errors"
	"fmt"
	"math"

	"github.com/roach88/nicemap/internal/ranking"
)

const (
	// EarthRadius is the sphere radius of EPSG:3857, in meters.
	EarthRadius = 6378137.0

	// MaxEasting is the easting of the antimeridian (pi * EarthRadius).
	MaxEasting = 20037508.342789244

	// MaxNorthing bounds the EPSG:3857 projected extent in y.
	MaxNorthing = 20048966.1040146
)

// ErrCoordinateTransform marks coordinates outside the source system's
// valid domain.
var ErrCoordinateTransform = errors.New("coordinate outside projection domain")

// TransformError carries the offending coordinates.
// Index is the position of the record in the input, or -1 for a bare
// Transform call.
type TransformError struct {
	Index int
	X, Y  float64
}

func (e *TransformError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("record %d: (%g, %g): %v", e.Index, e.X, e.Y, ErrCoordinateTransform)
	}
	return fmt.Sprintf("(%g, %g): %v", e.X, e.Y, ErrCoordinateTransform)
}

func (e *TransformError) Unwrap() error {
	return ErrCoordinateTransform
}

// Transformer converts one projected coordinate pair to latitude/longitude.
type Transformer interface {
	Transform(x, y float64) (lat, lon float64, err error)
}

// WebMercator is the EPSG:3857 -> EPSG:4326 inverse projection.
// It is stateless and safe to reuse.
type WebMercator struct{}

// NewWebMercator returns the EPSG:3857 -> EPSG:4326 transformer.
func NewWebMercator() WebMercator {
	return WebMercator{}
}

// Transform returns the geographic position of (x, y).
func (WebMercator) Transform(x, y float64) (float64, float64, error) {
	if !inDomain(x, y) {
		return 0, 0, &TransformError{Index: -1, X: x, Y: y}
	}
	lon := clamp(degrees(x/EarthRadius), 180)
	lat := clamp(degrees(math.Atan(math.Sinh(y/EarthRadius))), 90)
	return lat, lon, nil
}

// clamp bounds v to [-limit, limit]. Rounding at the edge of the domain
// can overshoot by one ulp (MaxEasting maps to 180.00000000000003).
func clamp(v, limit float64) float64 {
	return math.Max(-limit, math.Min(limit, v))
}

func inDomain(x, y float64) bool {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return false
	}
	return math.Abs(x) <= MaxEasting && math.Abs(y) <= MaxNorthing
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// TransformAll converts every record, keeping input order.
// The first failing record aborts the conversion; no partial result is
// returned.
func TransformAll(t Transformer, records []ranking.Record) ([]ranking.GeoRecord, error) {
	out := make([]ranking.GeoRecord, 0, len(records))
	for i, r := range records {
		lat, lon, err := t.Transform(r.X, r.Y)
		if err != nil {
			var te *TransformError
			if errors.As(err, &te) {
				return nil, &TransformError{Index: i, X: te.X, Y: te.Y}
			}
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, ranking.GeoRecord{
			FirstName: r.FirstName,
			LastName:  r.LastName,
			City:      r.City,
			Country:   r.Country,
			Score:     r.Score,
			Lat:       lat,
			Lon:       lon,
		})
	}
	return out, nil
}
