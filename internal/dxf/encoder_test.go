package dxf

import (
	"strings"
	"testing"

	"github.com/jobrunner/altus/internal/contour"
	"github.com/jobrunner/altus/internal/geo"
)

func testEncoder(t *testing.T) *Encoder {
	t.Helper()
	projector, err := geo.NewProjector(4326, 32648)
	if err != nil {
		t.Fatal(err)
	}
	return NewEncoder(projector)
}

func TestEncoder_Export(t *testing.T) {
	enc := testEncoder(t)

	levels := []contour.Level{
		{
			Value: 50,
			Segments: []contour.Segment{
				{
					{Lon: 105.0, Lat: 3.0},
					{Lon: 105.001, Lat: 3.0},
					{Lon: 105.001, Lat: 3.001},
				},
			},
		},
		{
			Value:    75,
			Segments: nil, // Levels without segments contribute nothing.
		},
		{
			Value: 100,
			Segments: []contour.Segment{
				{{Lon: 105.0, Lat: 3.0}, {Lon: 105.002, Lat: 3.002}},
				{{Lon: 105.0, Lat: 3.001}, {Lon: 105.001, Lat: 3.002}},
			},
		},
	}

	data, entities, err := enc.Export(levels)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if entities != 3 {
		t.Errorf("entities = %d; want 3", entities)
	}

	text := string(data)
	if got := strings.Count(text, "LWPOLYLINE"); got != 3 {
		t.Errorf("LWPOLYLINE count = %d; want 3", got)
	}
	for _, elevation := range []string{"38\n50\n", "38\n100\n"} {
		if !strings.Contains(text, elevation) {
			t.Errorf("drawing is missing elevation tag %q", elevation)
		}
	}
	if strings.Contains(text, "38\n75\n") {
		t.Error("segment-less level leaked into the drawing")
	}

	// Coordinates must be planar: on this zone the 500 km false
	// easting dominates every x ordinate.
	if strings.Contains(text, "10\n105\n") {
		t.Error("drawing contains unprojected longitudes")
	}
}

func TestEncoder_ExportEmpty(t *testing.T) {
	enc := testEncoder(t)

	data, entities, err := enc.Export(nil)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if entities != 0 {
		t.Errorf("entities = %d; want 0", entities)
	}
	if len(data) == 0 {
		t.Error("empty drawing should still render a valid document")
	}
	if !strings.Contains(string(data), "EOF") {
		t.Error("drawing is missing the EOF marker")
	}
}

func TestEncoder_ProjectsVertices(t *testing.T) {
	projector, err := geo.NewProjector(4326, 32648)
	if err != nil {
		t.Fatal(err)
	}
	enc := NewEncoder(projector)

	segment := contour.Segment{{Lon: 105.0, Lat: 3.0}, {Lon: 105.0, Lat: 3.001}}
	data, _, err := enc.Export([]contour.Level{{Value: 10, Segments: []contour.Segment{segment}}})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	// The central meridian projects to the false easting exactly.
	wantX, _ := projector.Project(105.0, 3.0)
	if !strings.Contains(string(data), "10\n"+formatFloat(wantX)+"\n") {
		t.Errorf("drawing is missing projected easting %v", wantX)
	}
}
