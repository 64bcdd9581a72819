// Package dxf writes contour polylines as a minimal ASCII DXF drawing.
package dxf

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Document accumulates LWPOLYLINE entities and renders them as an
// R2010 ASCII DXF drawing. The zero value is ready to use.
type Document struct {
	entities strings.Builder
	count    int
}

// Point is a projected planar vertex.
type Point struct {
	X float64
	Y float64
}

// AddPolyline appends one open lightweight polyline on the given layer
// with a constant elevation. Polylines with fewer than two points are
// ignored.
func (d *Document) AddPolyline(layer string, elevation float64, points []Point) {
	if len(points) < 2 {
		return
	}

	d.tag(0, "LWPOLYLINE")
	d.tag(8, layer)
	d.tag(90, strconv.Itoa(len(points)))
	d.tag(70, "0")
	d.tag(38, formatFloat(elevation))
	for _, p := range points {
		d.tag(10, formatFloat(p.X))
		d.tag(20, formatFloat(p.Y))
	}
	d.count++
}

// EntityCount returns the number of polylines added so far.
func (d *Document) EntityCount() int { return d.count }

// Bytes renders the drawing through a staging file on disk and returns
// its contents. The staging file is removed before returning.
func (d *Document) Bytes() ([]byte, error) {
	f, err := os.CreateTemp("", "altus-*.dxf")
	if err != nil {
		return nil, fmt.Errorf("creating staging file: %w", err)
	}
	name := f.Name()
	defer os.Remove(name)

	if _, err := f.WriteString(d.render()); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing staging file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("closing staging file: %w", err)
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("reading staging file: %w", err)
	}
	return data, nil
}

func (d *Document) render() string {
	var b strings.Builder
	writeTag := func(code int, value string) {
		b.WriteString(strconv.Itoa(code))
		b.WriteString("\n")
		b.WriteString(value)
		b.WriteString("\n")
	}

	writeTag(0, "SECTION")
	writeTag(2, "HEADER")
	writeTag(9, "$ACADVER")
	writeTag(1, "AC1024")
	writeTag(0, "ENDSEC")

	writeTag(0, "SECTION")
	writeTag(2, "ENTITIES")
	b.WriteString(d.entities.String())
	writeTag(0, "ENDSEC")

	writeTag(0, "EOF")
	return b.String()
}

func (d *Document) tag(code int, value string) {
	d.entities.WriteString(strconv.Itoa(code))
	d.entities.WriteString("\n")
	d.entities.WriteString(value)
	d.entities.WriteString("\n")
}

// formatFloat renders coordinates with the shortest exact decimal form.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
