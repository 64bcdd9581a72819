package raster

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Smooth applies a separable 2D Gaussian blur to the surface and
// returns a new surface sharing the axis vectors. The kernel radius is
// 4 sigma and out-of-range samples reflect about the boundary, so the
// edge sample appears again on the far side (d c b a | a b c d | d c
// b a). A non-positive sigma returns the input unchanged.
func Smooth(s *Surface, sigma float64) *Surface {
	if sigma <= 0 {
		return s
	}

	kernel := gaussianKernel(sigma)
	rows, cols := s.Z.Dims()

	// Horizontal pass, then vertical.
	tmp := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			tmp.Set(i, j, convolveRow(s.Z, i, j, cols, kernel))
		}
	}
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, convolveCol(tmp, i, j, rows, kernel))
		}
	}

	return &Surface{Z: out, Lats: s.Lats, Lons: s.Lons}
}

// gaussianKernel builds a normalized 1D kernel of radius 4 sigma.
// Index 0 is the center weight; the kernel is symmetric.
func gaussianKernel(sigma float64) []float64 {
	radius := int(4*sigma + 0.5)
	weights := make([]float64, radius+1)

	sum := 0.0
	for i := 0; i <= radius; i++ {
		w := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		weights[i] = w
		if i == 0 {
			sum += w
		} else {
			sum += 2 * w
		}
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

func convolveRow(z *mat.Dense, i, j, n int, kernel []float64) float64 {
	acc := kernel[0] * z.At(i, j)
	for k := 1; k < len(kernel); k++ {
		acc += kernel[k] * (z.At(i, reflect(j-k, n)) + z.At(i, reflect(j+k, n)))
	}
	return acc
}

func convolveCol(z *mat.Dense, i, j, n int, kernel []float64) float64 {
	acc := kernel[0] * z.At(i, j)
	for k := 1; k < len(kernel); k++ {
		acc += kernel[k] * (z.At(reflect(i-k, n), j) + z.At(reflect(i+k, n), j))
	}
	return acc
}

// reflect folds an out-of-range index back into [0, n) by mirroring at
// the array boundaries without repeating the edge sample.
func reflect(i, n int) int {
	for i < 0 || i >= n {
		if i < 0 {
			i = -i - 1
		}
		if i >= n {
			i = 2*n - 1 - i
		}
	}
	return i
}
