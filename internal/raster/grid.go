// Package raster builds and repairs the regular elevation sample grid.
package raster

import (
	"github.com/jobrunner/altus/internal/domain"
)

// Grid is a regular lattice covering a polygon's bounding box.
// Points are ordered row-major: latitude varies in the outer loop,
// longitude in the inner one. Downstream matrix reshaping relies on
// this ordering matching the sorted axis vectors.
type Grid struct {
	Points []domain.GridPoint
	Lats   []float64 // Row axis, ascending
	Lons   []float64 // Column axis, ascending
}

// Rows returns the number of distinct latitudes.
func (g *Grid) Rows() int { return len(g.Lats) }

// Cols returns the number of distinct longitudes.
func (g *Grid) Cols() int { return len(g.Lons) }

// Sample enumerates every lattice point inside the polygon's bounding
// box at the given spacing. Both axes are half-open: the minimum bound
// is included, the maximum excluded. No containment test is applied;
// the lattice always covers the full bounding rectangle.
func Sample(polygon domain.Polygon, spacing float64) (*Grid, error) {
	if spacing <= 0 {
		return nil, &domain.ValidationError{
			Field:      "spacing",
			Value:      spacing,
			Constraint: "> 0",
			Message:    "grid spacing must be positive",
		}
	}
	if err := polygon.Validate(); err != nil {
		return nil, err
	}

	b := polygon.Bounds()
	lats := axis(b.MinLat, b.MaxLat, spacing)
	lons := axis(b.MinLon, b.MaxLon, spacing)

	points := make([]domain.GridPoint, 0, len(lats)*len(lons))
	for _, lat := range lats {
		for _, lon := range lons {
			points = append(points, domain.GridPoint{Lat: lat, Lon: lon})
		}
	}

	return &Grid{Points: points, Lats: lats, Lons: lons}, nil
}

// axis enumerates min + i*step for i = 0, 1, ... while the value stays
// strictly below max. Values are computed from the index rather than
// accumulated, so each axis position is exact and repeatable.
func axis(min, max, step float64) []float64 {
	var vals []float64
	for i := 0; ; i++ {
		v := min + float64(i)*step
		if v >= max {
			break
		}
		vals = append(vals, v)
	}
	return vals
}
