package domain

import (
	"errors"
	"fmt"
)

// Base error types (sentinel errors).
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnsupported  = errors.New("unsupported operation")
	ErrInternal     = errors.New("internal error")
	ErrUnavailable  = errors.New("service unavailable")
)

// Specific errors.
var (
	ErrRunNotFound           = fmt.Errorf("run: %w", ErrNotFound)
	ErrInvalidPolygon        = fmt.Errorf("polygon: %w", ErrInvalidInput)
	ErrInvalidSpacing        = fmt.Errorf("grid spacing: %w", ErrInvalidInput)
	ErrUnsupportedProjection = fmt.Errorf("projection: %w", ErrUnsupported)
	ErrBucketNotFound        = fmt.Errorf("storage bucket: %w", ErrNotFound)
	ErrStorageUnavailable    = fmt.Errorf("storage: %w", ErrUnavailable)
)

// ValidationError represents a detailed validation error.
type ValidationError struct {
	Field      string      // Field that failed validation
	Value      interface{} // The invalid value
	Constraint string      // The constraint that was violated
	Message    string      // Human-readable message
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s (value: %v, constraint: %s)",
		e.Field, e.Message, e.Value, e.Constraint)
}

// Unwrap returns the underlying error type.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// ProviderError represents a recoverable failure of the elevation provider
// for a single batch. The pipeline substitutes missing-value markers for
// the affected positions and continues.
type ProviderError struct {
	Batch int   // Zero-based batch index
	Size  int   // Number of points in the batch
	Err   error // Underlying error, nil when the response simply lacked results
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("elevation provider error for batch %d (%d points): %v",
			e.Batch, e.Size, e.Err)
	}
	return fmt.Sprintf("elevation provider returned no results for batch %d (%d points)",
		e.Batch, e.Size)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUnavailable
}

// MatrixError reports an elevation matrix that cannot be repaired because
// it contains no valid cells to compute a fill value from.
type MatrixError struct {
	Rows  int // Matrix row count
	Cols  int // Matrix column count
	Valid int // Number of finite cells found
}

// Error implements the error interface.
func (e *MatrixError) Error() string {
	return fmt.Sprintf("degenerate elevation matrix: %d valid of %d cells (%dx%d)",
		e.Valid, e.Rows*e.Cols, e.Rows, e.Cols)
}

// Unwrap returns the underlying error type.
func (e *MatrixError) Unwrap() error {
	return ErrInternal
}

// ExportError represents a failure to serialize the contour document.
type ExportError struct {
	Stage    string // "primary" or "fallback"
	Fallback bool   // True when the fallback path was also attempted
	Err      error  // Underlying error
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("export failed at %s stage: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("export produced an empty document at %s stage", e.Stage)
}

// Unwrap returns the underlying error.
func (e *ExportError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInternal
}

// StorageError represents an error during storage operations.
type StorageError struct {
	Operation string // Operation that failed (upload, list, etc.)
	Key       string // Object key
	Err       error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("storage error during %s for %s: %v",
			e.Operation, e.Key, e.Err)
	}
	return fmt.Sprintf("storage error during %s: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Field   string // Configuration field
	Message string // Error message
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error for %s: %s", e.Field, e.Message)
}

// Unwrap returns the underlying error type.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidInput
}
