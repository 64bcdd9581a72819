package dxf

import (
	"github.com/jobrunner/altus/internal/contour"
	"github.com/jobrunner/altus/internal/geo"
)

// Layer is the drawing layer all contour polylines are placed on.
const Layer = "0"

// Encoder turns traced contour levels into a DXF document, projecting
// each vertex from geographic coordinates to the target plane.
type Encoder struct {
	projector *geo.Projector
}

// NewEncoder returns an encoder projecting through the given projector.
func NewEncoder(projector *geo.Projector) *Encoder {
	return &Encoder{projector: projector}
}

// Export renders all segments of all levels as LWPOLYLINE entities and
// returns the encoded drawing together with the entity count. Levels
// without segments contribute nothing; a drawing with zero entities is
// still a valid document.
func (e *Encoder) Export(levels []contour.Level) ([]byte, int, error) {
	var doc Document
	for _, level := range levels {
		for _, segment := range level.Segments {
			points := make([]Point, len(segment))
			for i, v := range segment {
				x, y := e.projector.Project(v.Lon, v.Lat)
				points[i] = Point{X: x, Y: y}
			}
			doc.AddPolyline(Layer, level.Value, points)
		}
	}

	data, err := doc.Bytes()
	if err != nil {
		return nil, 0, err
	}
	return data, doc.EntityCount(), nil
}
