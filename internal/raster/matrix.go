package raster

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/jobrunner/altus/internal/domain"
)

// Surface is a dense elevation matrix aligned to sorted-unique axis
// vectors: row i holds latitude Lats[i], column j longitude Lons[j].
type Surface struct {
	Z    *mat.Dense
	Lats []float64
	Lons []float64
}

// Rows returns the row count of the surface.
func (s *Surface) Rows() int { return len(s.Lats) }

// Cols returns the column count of the surface.
func (s *Surface) Cols() int { return len(s.Lons) }

// MinMax returns the smallest and largest elevation in the surface.
func (s *Surface) MinMax() (min, max float64) {
	return mat.Min(s.Z), mat.Max(s.Z)
}

// BuildMatrix reshapes index-aligned grid points and elevations into a
// dense matrix. Cells are zero-initialized; each cell receives the
// elevation of the first grid point matching its (lat, lon). After
// assembly, NaN and infinite cells are replaced by the mean of all
// finite cells. A matrix with no finite cell at all cannot be repaired
// and yields a MatrixError.
func BuildMatrix(points []domain.GridPoint, elevations []float64) (*Surface, error) {
	if len(points) != len(elevations) {
		return nil, &domain.ValidationError{
			Field:      "elevations",
			Value:      len(elevations),
			Constraint: "len(elevations) == len(grid)",
			Message:    "grid and elevation sequences must be index-aligned",
		}
	}

	lats := uniqueSorted(latsOf(points))
	lons := uniqueSorted(lonsOf(points))

	// First occurrence wins, matching per-cell first-match lookup.
	first := make(map[domain.GridPoint]int, len(points))
	for idx, p := range points {
		if _, seen := first[p]; !seen {
			first[p] = idx
		}
	}

	if len(lats) == 0 || len(lons) == 0 {
		return nil, &domain.MatrixError{Rows: len(lats), Cols: len(lons)}
	}

	z := mat.NewDense(len(lats), len(lons), nil)
	for i, lat := range lats {
		for j, lon := range lons {
			if idx, ok := first[domain.GridPoint{Lat: lat, Lon: lon}]; ok {
				z.Set(i, j, elevations[idx])
			}
		}
	}

	if err := repair(z); err != nil {
		return nil, err
	}
	return &Surface{Z: z, Lats: lats, Lons: lons}, nil
}

// BuildMatrixLinear is an independent derivation of the same matrix
// used by the export fallback path. Instead of reshaping cell by cell
// it walks the flat grid once, locating each point's row and column by
// linear search over the axis vectors. Later duplicates overwrite
// earlier ones; the repair step is shared with BuildMatrix.
func BuildMatrixLinear(points []domain.GridPoint, elevations []float64) (*Surface, error) {
	if len(points) != len(elevations) {
		return nil, &domain.ValidationError{
			Field:      "elevations",
			Value:      len(elevations),
			Constraint: "len(elevations) == len(grid)",
			Message:    "grid and elevation sequences must be index-aligned",
		}
	}

	lats := uniqueSorted(latsOf(points))
	lons := uniqueSorted(lonsOf(points))
	if len(lats) == 0 || len(lons) == 0 {
		return nil, &domain.MatrixError{Rows: len(lats), Cols: len(lons)}
	}

	z := mat.NewDense(len(lats), len(lons), nil)
	for idx, p := range points {
		i := indexOf(lats, p.Lat)
		j := indexOf(lons, p.Lon)
		if i < 0 || j < 0 {
			continue
		}
		z.Set(i, j, elevations[idx])
	}

	if err := repair(z); err != nil {
		return nil, err
	}
	return &Surface{Z: z, Lats: lats, Lons: lons}, nil
}

// repair replaces NaN and infinite cells with the mean of the finite
// ones, computed once over the whole matrix.
func repair(z *mat.Dense) error {
	rows, cols := z.Dims()

	var sum float64
	valid := 0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := z.At(i, j); isFinite(v) {
				sum += v
				valid++
			}
		}
	}
	if valid == rows*cols {
		return nil
	}
	if valid == 0 {
		return &domain.MatrixError{Rows: rows, Cols: cols, Valid: 0}
	}

	mean := sum / float64(valid)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if !isFinite(z.At(i, j)) {
				z.Set(i, j, mean)
			}
		}
	}
	return nil
}

func latsOf(points []domain.GridPoint) []float64 {
	vals := make([]float64, len(points))
	for i, p := range points {
		vals[i] = p.Lat
	}
	return vals
}

func lonsOf(points []domain.GridPoint) []float64 {
	vals := make([]float64, len(points))
	for i, p := range points {
		vals[i] = p.Lon
	}
	return vals
}

// uniqueSorted returns the ascending distinct values of vals.
func uniqueSorted(vals []float64) []float64 {
	if len(vals) == 0 {
		return nil
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	out := sorted[:1]
	for _, v := range sorted[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// indexOf locates v in vals by linear scan, -1 when absent.
func indexOf(vals []float64, v float64) int {
	for i, x := range vals {
		if x == v {
			return i
		}
	}
	return -1
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
