package raster

import (
	"errors"
	"testing"

	"github.com/jobrunner/altus/internal/domain"
)

// testPolygon spans lon [10, 10.5] and lat [0, 1]. With spacing 0.25
// the half-open axes are exactly representable in binary.
func testPolygon() domain.Polygon {
	return domain.Polygon{Ring: []domain.Vertex{
		{Lon: 10, Lat: 0},
		{Lon: 10.5, Lat: 0},
		{Lon: 10.5, Lat: 1},
		{Lon: 10, Lat: 1},
		{Lon: 10, Lat: 0},
	}}
}

func TestSample(t *testing.T) {
	grid, err := Sample(testPolygon(), 0.25)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}

	wantLats := []float64{0, 0.25, 0.5, 0.75}
	wantLons := []float64{10, 10.25}

	if grid.Rows() != len(wantLats) || grid.Cols() != len(wantLons) {
		t.Fatalf("grid = %dx%d; want %dx%d", grid.Rows(), grid.Cols(), len(wantLats), len(wantLons))
	}
	for i, lat := range wantLats {
		if grid.Lats[i] != lat {
			t.Errorf("Lats[%d] = %v; want %v", i, grid.Lats[i], lat)
		}
	}
	for j, lon := range wantLons {
		if grid.Lons[j] != lon {
			t.Errorf("Lons[%d] = %v; want %v", j, grid.Lons[j], lon)
		}
	}

	if len(grid.Points) != grid.Rows()*grid.Cols() {
		t.Fatalf("point count = %d; want %d", len(grid.Points), grid.Rows()*grid.Cols())
	}

	// Row-major ordering: longitude varies fastest.
	for idx, p := range grid.Points {
		i, j := idx/grid.Cols(), idx%grid.Cols()
		want := domain.GridPoint{Lat: wantLats[i], Lon: wantLons[j]}
		if p != want {
			t.Fatalf("Points[%d] = %+v; want %+v", idx, p, want)
		}
	}
}

func TestSample_HalfOpenBounds(t *testing.T) {
	grid, err := Sample(testPolygon(), 0.25)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}

	// The maximum bound is excluded on both axes.
	if last := grid.Lats[len(grid.Lats)-1]; last >= 1 {
		t.Errorf("last lat = %v; want < 1", last)
	}
	if last := grid.Lons[len(grid.Lons)-1]; last >= 10.5 {
		t.Errorf("last lon = %v; want < 10.5", last)
	}
}

func TestSample_InvalidSpacing(t *testing.T) {
	for _, spacing := range []float64{0, -0.25} {
		_, err := Sample(testPolygon(), spacing)
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("Sample(spacing=%v) error = %v; want ValidationError", spacing, err)
		}
	}
}

func TestSample_InvalidPolygon(t *testing.T) {
	short := domain.Polygon{Ring: []domain.Vertex{{Lon: 10, Lat: 0}, {Lon: 11, Lat: 1}}}
	if _, err := Sample(short, 0.25); err == nil {
		t.Error("Sample accepted a two-vertex ring")
	}

	point := domain.Polygon{Ring: []domain.Vertex{{Lon: 10, Lat: 0}, {Lon: 10, Lat: 0}, {Lon: 10, Lat: 0}}}
	if _, err := Sample(point, 0.25); err == nil {
		t.Error("Sample accepted a degenerate ring")
	}
}
