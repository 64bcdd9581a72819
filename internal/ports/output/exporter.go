package output

import (
	"github.com/jobrunner/altus/internal/contour"
)

// ContourExporter defines the secondary port for drawing export.
type ContourExporter interface {
	// Export encodes the traced levels into a drawing and returns the
	// encoded bytes together with the number of entities written.
	Export(levels []contour.Level) ([]byte, int, error)
}
