// Package contour traces iso-elevation polylines over a smoothed
// elevation surface using marching squares.
package contour

import (
	"github.com/jobrunner/altus/internal/domain"
	"github.com/jobrunner/altus/internal/raster"
)

// Segment is one traced polyline in geographic (lon, lat) coordinates.
// Segments always carry at least two vertices; shorter ones are
// discarded during tracing.
type Segment []domain.Vertex

// Level groups the segments traced at one elevation value.
type Level struct {
	Value    float64
	Segments []Segment
}

// Extract traces contour polylines at levelCount+1 evenly spaced
// elevations between the surface minimum and maximum, both inclusive.
// The +1 mirrors the level spacing of the original tool: requesting N
// levels produces N+1 bands. On a flat surface all bands coincide and
// collapse into a single level entry with no segments, which is a valid
// result, not an error. A level outside the surface's actual range
// yields an entry with zero segments.
func Extract(s *raster.Surface, levelCount int) ([]Level, error) {
	if levelCount < 1 {
		return nil, &domain.ValidationError{
			Field:      "levels",
			Value:      levelCount,
			Constraint: ">= 1",
			Message:    "contour level count must be positive",
		}
	}

	min, max := s.MinMax()
	values := linspace(min, max, levelCount+1)

	levels := make([]Level, 0, len(values))
	for _, v := range values {
		// Equal consecutive values (min == max) collapse to one entry.
		if n := len(levels); n > 0 && levels[n-1].Value == v {
			continue
		}
		levels = append(levels, Level{
			Value:    v,
			Segments: trace(s, v),
		})
	}
	return levels, nil
}

// linspace returns n evenly spaced values from start to stop inclusive.
func linspace(start, stop float64, n int) []float64 {
	if n == 1 {
		return []float64{start}
	}
	vals := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range vals {
		vals[i] = start + float64(i)*step
	}
	// Guard against the accumulation drifting past the endpoint.
	vals[n-1] = stop
	return vals
}
