// Package domain contains the core business entities and value objects.
package domain

import (
	"fmt"
	"math"
)

// Vertex is a geographic coordinate in (longitude, latitude) order,
// matching the GeoJSON position convention.
type Vertex struct {
	Lon float64 // Longitude in degrees
	Lat float64 // Latitude in degrees
}

// IsFinite returns true if both ordinates are finite numbers.
func (v Vertex) IsFinite() bool {
	return !math.IsNaN(v.Lon) && !math.IsInf(v.Lon, 0) &&
		!math.IsNaN(v.Lat) && !math.IsInf(v.Lat, 0)
}

// Polygon is a single closed outer ring. The closing vertex may or may
// not repeat the first one; consumers only read the vertex coordinates.
// Holes and multiple rings are not supported.
type Polygon struct {
	Ring []Vertex
}

// Validate checks that the ring describes a usable area.
func (p Polygon) Validate() error {
	if len(p.Ring) < 3 {
		return &ValidationError{
			Field:      "polygon",
			Value:      len(p.Ring),
			Constraint: ">= 3 vertices",
			Message:    "polygon ring needs at least three vertices",
		}
	}
	for i, v := range p.Ring {
		if !v.IsFinite() {
			return &ValidationError{
				Field:      "polygon",
				Value:      fmt.Sprintf("vertex %d", i),
				Constraint: "finite coordinates",
				Message:    "polygon vertex has a non-finite coordinate",
			}
		}
		if v.Lon < -180 || v.Lon > 180 {
			return &ValidationError{
				Field:      "longitude",
				Value:      v.Lon,
				Constraint: "[-180, 180]",
				Message:    "longitude must be between -180 and 180",
			}
		}
		if v.Lat < -90 || v.Lat > 90 {
			return &ValidationError{
				Field:      "latitude",
				Value:      v.Lat,
				Constraint: "[-90, 90]",
				Message:    "latitude must be between -90 and 90",
			}
		}
	}
	b := p.Bounds()
	if b.Width() == 0 && b.Height() == 0 {
		return &ValidationError{
			Field:      "polygon",
			Value:      b,
			Constraint: "non-zero extent",
			Message:    "polygon collapses to a single point",
		}
	}
	return nil
}

// Bounds returns the axis-aligned bounding box of the ring.
func (p Polygon) Bounds() Extent {
	if len(p.Ring) == 0 {
		return Extent{}
	}
	e := Extent{
		MinLon: p.Ring[0].Lon, MaxLon: p.Ring[0].Lon,
		MinLat: p.Ring[0].Lat, MaxLat: p.Ring[0].Lat,
	}
	for _, v := range p.Ring[1:] {
		e.MinLon = math.Min(e.MinLon, v.Lon)
		e.MaxLon = math.Max(e.MaxLon, v.Lon)
		e.MinLat = math.Min(e.MinLat, v.Lat)
		e.MaxLat = math.Max(e.MaxLat, v.Lat)
	}
	return e
}

// Extent represents a geographic bounding box in degrees.
type Extent struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// Contains checks if a vertex is within the extent.
func (e Extent) Contains(v Vertex) bool {
	return v.Lon >= e.MinLon && v.Lon <= e.MaxLon &&
		v.Lat >= e.MinLat && v.Lat <= e.MaxLat
}

// Width returns the longitudinal span of the extent.
func (e Extent) Width() float64 {
	return math.Abs(e.MaxLon - e.MinLon)
}

// Height returns the latitudinal span of the extent.
func (e Extent) Height() float64 {
	return math.Abs(e.MaxLat - e.MinLat)
}

// Common SRID constants.
const (
	SRIDWGS84       = 4326 // WGS 84 geographic
	SRIDWebMercator = 3857 // Web Mercator

	// UTM EPSG code blocks: 32601-32660 north, 32701-32760 south.
	sridUTMNorthBase = 32600
	sridUTMSouthBase = 32700
)

// UTMZone decodes a WGS84/UTM EPSG code into zone number and hemisphere.
// Returns false for any SRID outside the two UTM blocks.
func UTMZone(srid int) (zone int, northern bool, ok bool) {
	switch {
	case srid > sridUTMNorthBase && srid <= sridUTMNorthBase+60:
		return srid - sridUTMNorthBase, true, true
	case srid > sridUTMSouthBase && srid <= sridUTMSouthBase+60:
		return srid - sridUTMSouthBase, false, true
	default:
		return 0, false, false
	}
}
