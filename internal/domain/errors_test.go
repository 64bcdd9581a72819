package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestSentinelHierarchy(t *testing.T) {
	tests := []struct {
		name string
		err  error
		base error
	}{
		{name: "run not found", err: ErrRunNotFound, base: ErrNotFound},
		{name: "invalid polygon", err: ErrInvalidPolygon, base: ErrInvalidInput},
		{name: "invalid spacing", err: ErrInvalidSpacing, base: ErrInvalidInput},
		{name: "unsupported projection", err: ErrUnsupportedProjection, base: ErrUnsupported},
		{name: "bucket not found", err: ErrBucketNotFound, base: ErrNotFound},
		{name: "storage unavailable", err: ErrStorageUnavailable, base: ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.base) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.base)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{
		Field:      "spacing",
		Value:      0.5,
		Constraint: "within configured bounds",
		Message:    "grid spacing out of range",
	}

	if !errors.Is(err, ErrInvalidInput) {
		t.Error("ValidationError should unwrap to ErrInvalidInput")
	}

	var verr *ValidationError
	wrapped := fmt.Errorf("pipeline: %w", err)
	if !errors.As(wrapped, &verr) {
		t.Error("errors.As failed through wrapping")
	}
	if verr.Field != "spacing" {
		t.Errorf("Field = %q; want %q", verr.Field, "spacing")
	}

	for _, want := range []string{"spacing", "grid spacing out of range", "0.5"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Error() = %q; missing %q", err.Error(), want)
		}
	}
}

func TestProviderError(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := &ProviderError{Batch: 3, Size: 100, Err: cause}

	if !errors.Is(err, cause) {
		t.Error("ProviderError should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "batch 3") {
		t.Errorf("Error() = %q; missing batch index", err.Error())
	}

	// Without a cause it falls back to the unavailability sentinel.
	bare := &ProviderError{Batch: 0, Size: 50}
	if !errors.Is(bare, ErrUnavailable) {
		t.Error("causeless ProviderError should unwrap to ErrUnavailable")
	}
}

func TestMatrixError(t *testing.T) {
	err := &MatrixError{Rows: 4, Cols: 5, Valid: 0}

	if !errors.Is(err, ErrInternal) {
		t.Error("MatrixError should unwrap to ErrInternal")
	}
	msg := err.Error()
	for _, want := range []string{"0 valid", "20 cells", "4x5"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q; missing %q", msg, want)
		}
	}
}

func TestExportError(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := &ExportError{Stage: "fallback", Fallback: true, Err: cause}

	if !errors.Is(err, cause) {
		t.Error("ExportError should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "fallback") {
		t.Errorf("Error() = %q; missing stage", err.Error())
	}

	bare := &ExportError{Stage: "primary"}
	if !errors.Is(bare, ErrInternal) {
		t.Error("causeless ExportError should unwrap to ErrInternal")
	}
}

func TestStorageError(t *testing.T) {
	err := &StorageError{Operation: "upload", Key: "contour_1.dxf", Err: ErrBucketNotFound}

	if !errors.Is(err, ErrBucketNotFound) {
		t.Error("StorageError should unwrap to its cause")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("StorageError should unwrap through the cause chain")
	}
	for _, want := range []string{"upload", "contour_1.dxf"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Error() = %q; missing %q", err.Error(), want)
		}
	}
}
