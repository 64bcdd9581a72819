// Package geojson decodes request payloads into domain polygons.
package geojson

import (
	"encoding/json"
	"fmt"

	gj "github.com/paulmach/go.geojson"

	"github.com/jobrunner/altus/internal/domain"
)

// DecodePolygon extracts the first polygon from a GeoJSON document.
// FeatureCollection, Feature and bare Geometry payloads are accepted;
// for a collection the first feature is used and only its exterior
// ring is kept. Anything that is not a polygon yields ErrInvalidPolygon.
func DecodePolygon(data []byte) (domain.Polygon, error) {
	geometry, err := geometryOf(data)
	if err != nil {
		return domain.Polygon{}, err
	}
	if !geometry.IsPolygon() {
		return domain.Polygon{}, fmt.Errorf("%w: geometry type %q", domain.ErrInvalidPolygon, geometry.Type)
	}
	if len(geometry.Polygon) == 0 {
		return domain.Polygon{}, fmt.Errorf("%w: polygon has no rings", domain.ErrInvalidPolygon)
	}

	exterior := geometry.Polygon[0]
	ring := make([]domain.Vertex, 0, len(exterior))
	for _, position := range exterior {
		if len(position) < 2 {
			return domain.Polygon{}, fmt.Errorf("%w: position needs lon and lat", domain.ErrInvalidPolygon)
		}
		ring = append(ring, domain.Vertex{Lon: position[0], Lat: position[1]})
	}

	polygon := domain.Polygon{Ring: ring}
	if err := polygon.Validate(); err != nil {
		return domain.Polygon{}, err
	}
	return polygon, nil
}

// geometryOf dispatches on the document's top-level GeoJSON type.
func geometryOf(data []byte) (*gj.Geometry, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPolygon, err)
	}

	switch probe.Type {
	case "FeatureCollection":
		fc, err := gj.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPolygon, err)
		}
		if len(fc.Features) == 0 {
			return nil, fmt.Errorf("%w: feature collection is empty", domain.ErrInvalidPolygon)
		}
		if fc.Features[0].Geometry == nil {
			return nil, fmt.Errorf("%w: feature has no geometry", domain.ErrInvalidPolygon)
		}
		return fc.Features[0].Geometry, nil

	case "Feature":
		f, err := gj.UnmarshalFeature(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPolygon, err)
		}
		if f.Geometry == nil {
			return nil, fmt.Errorf("%w: feature has no geometry", domain.ErrInvalidPolygon)
		}
		return f.Geometry, nil

	default:
		g, err := gj.UnmarshalGeometry(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPolygon, err)
		}
		return g, nil
	}
}
