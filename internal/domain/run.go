package domain

import "time"

// GridPoint is a sample location on the regular lattice, stored in
// (latitude, longitude) order to match the elevation provider contract.
type GridPoint struct {
	Lat float64
	Lon float64
}

// GenerateRequest carries one contour generation request through the
// pipeline. Zero Spacing or Levels select the configured defaults.
type GenerateRequest struct {
	Polygon Polygon
	Spacing float64 // Grid spacing in degrees
	Levels  int     // Requested contour level count (yields Levels+1 bands)
	Source  string  // "api" or "inbox"
}

// Run records the outcome of one completed generation run. The exported
// document itself is cached separately and referenced by ID.
type Run struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	Spacing        float64   `json:"spacing"`
	LevelCount     int       `json:"level_count"` // As requested; bands are LevelCount+1
	Levels         []float64 `json:"levels"`      // Actual contour level values
	EntityCount    int       `json:"entity_count"`
	GridRows       int       `json:"grid_rows"`
	GridCols       int       `json:"grid_cols"`
	SizeBytes      int64     `json:"size_bytes"`
	MissingSamples int       `json:"missing_samples"`
	Fallback       bool      `json:"fallback"` // True when the fallback export path produced the document
	Source         string    `json:"source"`
	UploadedAs     string    `json:"uploaded_as,omitempty"`
}
