package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStatusLabel(t *testing.T) {
	if got := statusLabel(true); got != "success" {
		t.Errorf("statusLabel(true) = %q; want success", got)
	}
	if got := statusLabel(false); got != "error" {
		t.Errorf("statusLabel(false) = %q; want error", got)
	}
}

func TestStatusToString(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{code: 200, want: "2xx"},
		{code: 201, want: "2xx"},
		{code: 301, want: "3xx"},
		{code: 404, want: "4xx"},
		{code: 422, want: "4xx"},
		{code: 500, want: "5xx"},
		{code: 502, want: "5xx"},
		{code: 100, want: "unknown"},
	}

	for _, tt := range tests {
		if got := statusToString(tt.code); got != tt.want {
			t.Errorf("statusToString(%d) = %q; want %q", tt.code, got, tt.want)
		}
	}
}

func TestNormalizePath(t *testing.T) {
	if got := normalizePath("/health"); got != "/health" {
		t.Errorf("normalizePath(/health) = %q; want unchanged", got)
	}

	long := "/api/v1/contours/6f1a2b3c-4d5e-6f70-8190-a1b2c3d4e5f6/download"
	got := normalizePath(long)
	if len(got) != 23 {
		t.Errorf("normalizePath truncated to %d chars; want 23", len(got))
	}
	if got[:20] != long[:20] {
		t.Errorf("normalizePath = %q; want the path prefix", got)
	}
}

func TestStatusResponseWriter(t *testing.T) {
	rr := httptest.NewRecorder()
	w := &statusResponseWriter{ResponseWriter: rr, statusCode: http.StatusOK}

	w.WriteHeader(http.StatusNotFound)

	if w.statusCode != http.StatusNotFound {
		t.Errorf("statusCode = %d; want %d", w.statusCode, http.StatusNotFound)
	}
	if rr.Code != http.StatusNotFound {
		t.Errorf("recorded code = %d; want %d", rr.Code, http.StatusNotFound)
	}
}
